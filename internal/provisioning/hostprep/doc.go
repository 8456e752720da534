// Package hostprep readies the host for the build: it identifies the
// operating system and package manager, installs whatever part of the build
// toolchain is missing, and frees the proxy's listening port.
//
// Port clearing is best-effort. The proxy's own unit from a previous run is
// stopped through systemd so its restart policy cannot resurrect it; other
// socket owners are terminated directly. A port that stays busy afterward
// is recorded as a warning and left for the service start to surface.
package hostprep
