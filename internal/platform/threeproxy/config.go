package threeproxy

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/socksup/socksup/internal/util/keygen"
)

// Settings carries the tunable parts of a rendered 3proxy configuration.
// The zero value is not usable; start from DefaultSettings.
type Settings struct {
	Port      int
	NServers  []string
	NSCache   int
	Timeouts  string
	LogPath   string
	LogFormat string
}

// DefaultSettings returns the shipped configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		Port:      DefaultPort,
		NServers:  DefaultNServers,
		NSCache:   65536,
		Timeouts:  "1 5 30 60 180 1800 15",
		LogPath:   DefaultLogPath,
		LogFormat: "- +_L%t.%. %N.%p %E %U %C:%c %R:%r %O %I %h %T",
	}
}

// Generator renders 3proxy configuration files.
type Generator struct {
	settings Settings
}

// NewGenerator creates a Generator for the given settings.
func NewGenerator(settings Settings) *Generator {
	return &Generator{settings: settings}
}

// Render produces the full configuration text for the given accounts.
//
// The emitted directive set is fixed: daemon, nserver per resolver, nscache,
// timeouts, log, logformat, auth strong, a single users line listing every
// account, an allow line naming the same accounts, and the socks listener.
// Every username on the allow line appears on the users line.
func (g *Generator) Render(creds []keygen.Credential) (string, error) {
	if len(creds) == 0 {
		return "", fmt.Errorf("at least one credential is required")
	}
	if g.settings.Port <= 0 || g.settings.Port > 65535 {
		return "", fmt.Errorf("invalid listen port %d", g.settings.Port)
	}
	for _, c := range creds {
		if err := validateCredential(c); err != nil {
			return "", err
		}
	}
	if strings.ContainsAny(g.settings.LogFormat, `"`) {
		return "", fmt.Errorf("logformat must not contain quotes")
	}

	users := make([]string, 0, len(creds))
	names := make([]string, 0, len(creds))
	for _, c := range creds {
		users = append(users, fmt.Sprintf("%s:CL:%s", c.Username, c.Password))
		names = append(names, c.Username)
	}

	var b strings.Builder
	b.WriteString("daemon\n")
	for _, ns := range g.settings.NServers {
		fmt.Fprintf(&b, "nserver %s\n", ns)
	}
	fmt.Fprintf(&b, "nscache %d\n", g.settings.NSCache)
	fmt.Fprintf(&b, "timeouts %s\n", g.settings.Timeouts)
	fmt.Fprintf(&b, "log %s\n", g.settings.LogPath)
	fmt.Fprintf(&b, "logformat \"%s\"\n", g.settings.LogFormat)
	b.WriteString("auth strong\n")
	fmt.Fprintf(&b, "users %s\n", strings.Join(users, " "))
	fmt.Fprintf(&b, "allow %s\n", strings.Join(names, ","))
	fmt.Fprintf(&b, "socks -p%d\n", g.settings.Port)
	return b.String(), nil
}

// validateCredential rejects values that would corrupt the users or allow
// directives. Usernames and passwords are embedded unquoted, so the field
// separators of both lines are forbidden.
func validateCredential(c keygen.Credential) error {
	if c.Username == "" {
		return fmt.Errorf("username must not be empty")
	}
	if strings.ContainsAny(c.Username, ":, \t") {
		return fmt.Errorf("username %q contains a reserved character", c.Username)
	}
	if c.Password == "" {
		return fmt.Errorf("password for %q must not be empty", c.Username)
	}
	if strings.ContainsAny(c.Password, ": \t") {
		return fmt.Errorf("password for %q contains a reserved character", c.Username)
	}
	return nil
}

// ReadPassword recovers an account's password from rendered configuration
// text. The config file is the only durable credential store, so this is
// also how the verifier proves the credentials survived the write.
func ReadPassword(configText, username string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(configText))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		entries, ok := strings.CutPrefix(line, "users ")
		if !ok {
			continue
		}
		for _, entry := range strings.Fields(entries) {
			name, rest, ok := strings.Cut(entry, ":")
			if !ok || name != username {
				continue
			}
			_, password, ok := strings.Cut(rest, ":")
			if !ok {
				return "", fmt.Errorf("malformed users entry %q", entry)
			}
			return password, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no users entry for %q", username)
}
