// Package service registers the proxy's systemd unit, opens its port in
// the host firewall, and brings the daemon up.
//
// The unit is only written after the installed binary has been resolved,
// so a failed install can never leave a unit pointing at nothing. Firewall
// configuration is the one step whose failure is swallowed entirely:
// filtering may be handled off-host, so a missing or failing frontend is a
// warning. A service that does not reach the active state within the
// settle interval is fatal.
package service
