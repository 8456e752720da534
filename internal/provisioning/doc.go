// Package provisioning provides shared types, interfaces, and orchestration
// for host provisioning.
//
// # Subpackages
//
//   - hostprep/ — platform probe, build dependencies, port conflicts
//   - build/ — source download, extraction, compile, install
//   - configure/ — credential generation and proxy configuration
//   - service/ — systemd unit, firewall, service lifecycle
//   - verify/ — post-install checks and the authenticated round-trip
//   - destroy/ — service teardown and artifact removal
//
// # Core Types
//
// Context carries configuration, state, the host client, and the observer.
// Phase defines a provisioning step with Name() and Provision() methods.
// State accumulates results from each phase (platform profile, credentials,
// binary path, warnings, public address).
package provisioning
