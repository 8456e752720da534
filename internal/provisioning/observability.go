package provisioning

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Observer defines the interface for structured observability during
// provisioning.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a phase
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "host", "build")
	Message   string            // Human-readable message
	Resource  string            // Resource name/path if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceCreating indicates a host artifact is being created.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a host artifact was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a host artifact already exists.
	EventResourceExists EventType = "resource.exists"
	// EventResourceDeleting indicates a host artifact is being deleted.
	EventResourceDeleting EventType = "resource.deleting"
	// EventResourceDeleted indicates a host artifact was deleted successfully.
	EventResourceDeleted EventType = "resource.deleted"

	// EventWarning indicates a non-fatal finding; the run continues.
	EventWarning EventType = "warning"

	// EventCredentials carries the generated account credentials. Emitted
	// exactly once per run, by the configuration phase; nothing else ever
	// surfaces passwords in cleartext.
	EventCredentials EventType = "credentials"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct {
	contextFields map[string]string
}

// NewConsoleObserver creates a new console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{
		contextFields: make(map[string]string),
	}
}

// Printf implements the Logger interface.
func (o *ConsoleObserver) Printf(format string, v ...any) {
	log.Printf(format, v...)
}

// Event implements the Observer interface.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range o.contextFields {
		if _, exists := event.Fields[k]; !exists {
			event.Fields[k] = v
		}
	}

	log.Print(o.formatEvent(event))
}

// Progress implements the Observer interface. Progress lands in the event
// stream like everything else, so headless runs keep a uniform log shape.
func (o *ConsoleObserver) Progress(phase string, current, total int) {
	event := Event{
		Type:    EventProgress,
		Phase:   phase,
		Message: fmt.Sprintf("%d/%d", current, total),
	}
	if total > 0 {
		event.Fields = map[string]string{"percent": strconv.Itoa(current * 100 / total)}
	}
	o.Event(event)
}

// WithFields implements the Observer interface.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string)
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &ConsoleObserver{
		contextFields: newFields,
	}
}

// formatEvent renders an event as one log line, with the fields sorted so
// the output is stable. Credential events are rendered as a plain block so
// the values stay copy-pasteable.
func (o *ConsoleObserver) formatEvent(event Event) string {
	if event.Type == EventCredentials {
		return formatCredentialBlock(event)
	}

	var b strings.Builder
	b.WriteString(string(event.Type))
	if event.Phase != "" {
		fmt.Fprintf(&b, " [%s]", event.Phase)
	}
	if event.Resource != "" {
		fmt.Fprintf(&b, " resource=%s", event.Resource)
	}
	if event.Message != "" {
		b.WriteString(" ")
		b.WriteString(event.Message)
	}

	if len(event.Fields) > 0 {
		keys := make([]string, 0, len(event.Fields))
		for k := range event.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i == 0 {
				b.WriteString(" (")
			} else {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", k, event.Fields[k])
		}
		b.WriteString(")")
	}

	return b.String()
}

func formatCredentialBlock(event Event) string {
	var b strings.Builder
	b.WriteString("proxy credentials (shown once, stored only in the proxy config):\n")
	for _, user := range strings.Split(event.Fields["users"], ",") {
		if user == "" {
			continue
		}
		fmt.Fprintf(&b, "  %s / %s\n", user, event.Fields[user])
	}
	return b.String()
}

// The Log* helpers keep event emission to one line at the call sites.

// LogPhaseStart announces a phase.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{Type: EventPhaseStarted, Phase: phase, Message: "starting"})
}

// LogPhaseComplete reports a finished phase with its wall time.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed reports a failed phase with its error.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{Type: EventPhaseFailed, Phase: phase, Message: fmt.Sprintf("failed: %v", err)})
}

// artifactEvent is the shared shape of the resource events: one typed event
// about one named host artifact, with the artifact kind as a field.
func artifactEvent(observer Observer, t EventType, phase, kind, name, message string) {
	observer.Event(Event{
		Type:     t,
		Phase:    phase,
		Resource: name,
		Message:  message,
		Fields:   map[string]string{"type": kind},
	})
}

// LogResourceCreating reports that an artifact is about to be written.
func LogResourceCreating(observer Observer, phase, kind, name string) {
	artifactEvent(observer, EventResourceCreating, phase, kind, name, "creating "+kind)
}

// LogResourceCreated reports a written artifact.
func LogResourceCreated(observer Observer, phase, kind, name string) {
	artifactEvent(observer, EventResourceCreated, phase, kind, name, kind+" created")
}

// LogResourceExists reports that an artifact from an earlier run is in place.
func LogResourceExists(observer Observer, phase, kind, name string) {
	artifactEvent(observer, EventResourceExists, phase, kind, name, kind+" already exists")
}

// LogResourceDeleting reports that an artifact is about to be removed.
func LogResourceDeleting(observer Observer, phase, kind, name string) {
	artifactEvent(observer, EventResourceDeleting, phase, kind, name, "deleting "+kind)
}

// LogResourceDeleted reports a removed artifact.
func LogResourceDeleted(observer Observer, phase, kind, name string) {
	artifactEvent(observer, EventResourceDeleted, phase, kind, name, kind+" deleted")
}
