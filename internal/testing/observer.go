package testing

import (
	"fmt"
	"sync"

	"github.com/socksup/socksup/internal/provisioning"
)

// RecordingObserver captures everything emitted through the Observer
// interface so tests can assert on events, warnings, and log lines. The
// zero value is ready to use.
type RecordingObserver struct {
	mu       sync.Mutex
	Events   []provisioning.Event
	Messages []string
}

// Printf records a formatted log line.
func (o *RecordingObserver) Printf(format string, v ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Messages = append(o.Messages, fmt.Sprintf(format, v...))
}

// Event records the event.
func (o *RecordingObserver) Event(event provisioning.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Events = append(o.Events, event)
}

// Progress records a progress line.
func (o *RecordingObserver) Progress(phase string, current, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Messages = append(o.Messages, fmt.Sprintf("%s: %d/%d", phase, current, total))
}

// WithFields returns the observer itself; recorded assertions do not need
// field scoping.
func (o *RecordingObserver) WithFields(fields map[string]string) provisioning.Observer {
	return o
}

// EventsOfType returns every recorded event of the given type, in order.
func (o *RecordingObserver) EventsOfType(t provisioning.EventType) []provisioning.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	var matched []provisioning.Event
	for _, e := range o.Events {
		if e.Type == t {
			matched = append(matched, e)
		}
	}
	return matched
}

// HasEvent reports whether any event of the given type was recorded.
func (o *RecordingObserver) HasEvent(t provisioning.EventType) bool {
	return len(o.EventsOfType(t)) > 0
}
