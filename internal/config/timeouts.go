package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable delay and timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	PortSettle        time.Duration // Settle delay after freeing a conflicting port
	ServiceSettle     time.Duration // Settle delay between service start and the active check
	StopGrace         time.Duration // Grace period between SIGTERM and SIGKILL
	Verify            time.Duration // Budget for each verifier network check
	RetryMaxAttempts  int           // Maximum number of retry attempts for waits
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - SOCKSUP_TIMEOUT_PORT_SETTLE (default: 2s)
//   - SOCKSUP_TIMEOUT_SERVICE_SETTLE (default: 3s)
//   - SOCKSUP_TIMEOUT_STOP_GRACE (default: 1s)
//   - SOCKSUP_TIMEOUT_VERIFY (default: 15s)
//   - SOCKSUP_RETRY_MAX_ATTEMPTS (default: 5)
//   - SOCKSUP_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PortSettle:        parseDuration("SOCKSUP_TIMEOUT_PORT_SETTLE", 2*time.Second),
		ServiceSettle:     parseDuration("SOCKSUP_TIMEOUT_SERVICE_SETTLE", 3*time.Second),
		StopGrace:         parseDuration("SOCKSUP_TIMEOUT_STOP_GRACE", time.Second),
		Verify:            parseDuration("SOCKSUP_TIMEOUT_VERIFY", 15*time.Second),
		RetryMaxAttempts:  parseInt("SOCKSUP_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("SOCKSUP_RETRY_INITIAL_DELAY", time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
