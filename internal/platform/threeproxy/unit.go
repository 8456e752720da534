package threeproxy

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/socksup/socksup/internal/platform/host"
)

const unitTemplate = `[Unit]
Description=3proxy SOCKS5 proxy
After=network.target

[Service]
Type=forking
ExecStart=%s %s
ExecReload=/bin/kill -HUP $MAINPID
Restart=always
User=root

[Install]
WantedBy=multi-user.target
`

// Unit renders the systemd service definition. The template is fixed and
// parameterized only by the binary and config paths.
func Unit(binaryPath, configPath string) string {
	return fmt.Sprintf(unitTemplate, binaryPath, configPath)
}

// ResolveBinary probes the candidate install locations in order and returns
// the first that exists as a regular file. It returns fs.ErrNotExist when no
// candidate is present.
func ResolveBinary(fsys host.FileSystem, candidates []string) (string, error) {
	for _, candidate := range candidates {
		info, err := fsys.Stat(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("probing %s: %w", candidate, err)
		}
		if info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("3proxy binary not found at %v: %w", candidates, fs.ErrNotExist)
}
