// Package configure renders the proxy configuration with freshly generated
// account credentials and prepares the log sink.
//
// Credentials are surfaced to the operator exactly once, through a single
// credentials event emitted here; afterwards the rendered config file is
// their only durable record. Re-running the phase issues new credentials
// and invalidates the previous pair.
package configure
