// Package threeproxy carries everything socksup knows about 3proxy itself.
//
// It renders the service configuration and the systemd unit, reads
// credentials back out of a rendered configuration, and locates the
// installed binary. The directive grammar emitted by Render is the binding
// contract with the 3proxy binary; any deviation changes proxy behavior at
// runtime, so the renderer is covered by byte-exact tests.
package threeproxy
