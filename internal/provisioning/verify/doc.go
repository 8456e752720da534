// Package verify confirms the provisioned proxy actually works.
//
// The service state and listening socket are hard requirements; a failure
// of either is fatal. The authenticated round-trip through the proxy is
// not: an egress-filtered host still counts as provisioned, so a failed
// round-trip is recorded as a warning.
//
// The round-trip authenticates with the password read back out of the
// config file on disk, not the in-memory copy, proving the file is a
// sufficient credential store.
package verify
