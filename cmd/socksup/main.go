// Package main is the entry point for the socksup CLI.
//
// socksup provisions a 3proxy SOCKS5 service on the local Linux host: it
// detects the platform, installs the build toolchain, compiles the pinned
// proxy release, generates a configuration with fresh credentials, registers
// and starts the systemd unit, opens the firewall port, and verifies the
// result with a live authenticated round-trip.
//
// Commands: apply, init, doctor, destroy, version, completion.
//
// For detailed usage information, run:
//
//	socksup --help
package main

import (
	"fmt"
	"os"

	"github.com/socksup/socksup/cmd/socksup/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
