package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/socksup/socksup/internal/platform/threeproxy"
)

// resolverOptions are the pairs offered by the wizard, encoded as
// comma-joined values because select options must be comparable. The
// proxy config takes exactly two resolvers, so free-form entry is not
// offered.
func resolverOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Cloudflare + Google (1.1.1.1, 8.8.8.8)", "1.1.1.1,8.8.8.8"),
		huh.NewOption("Google (8.8.8.8, 8.8.4.4)", "8.8.8.8,8.8.4.4"),
		huh.NewOption("Quad9 (9.9.9.9, 149.112.112.112)", "9.9.9.9,149.112.112.112"),
	}
}

// WizardResult holds the user's choices from the wizard.
type WizardResult struct {
	Port          int
	PrimaryUser   string
	SecondaryUser string
	NServers      []string
	Confirmed     bool
}

// RunWizard runs the interactive configuration wizard.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	portStr := strconv.Itoa(threeproxy.DefaultPort)
	primary := threeproxy.DefaultPrimaryUser
	secondary := threeproxy.DefaultSecondaryUser
	resolvers := "1.1.1.1,8.8.8.8"
	confirmed := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SOCKS5 port").
				Description("TCP port the proxy listens on").
				Placeholder("1080").
				Value(&portStr).
				Validate(validatePort),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Primary username").
				Description("First proxy account; its password is verified after install").
				Placeholder("admin").
				Value(&primary).
				Validate(validateUsername),

			huh.NewInput().
				Title("Secondary username").
				Description("Second proxy account").
				Placeholder("backup").
				Value(&secondary).
				Validate(validateUsername),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("DNS resolvers").
				Description("Resolvers the proxy uses for outbound lookups").
				Options(resolverOptions()...).
				Value(&resolvers),
		),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Write socksup.yaml?").
				Description("Overwrites an existing file in the current directory").
				Value(&confirmed),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", portStr, err)
	}

	return &WizardResult{
		Port:          port,
		PrimaryUser:   primary,
		SecondaryUser: secondary,
		NServers:      strings.Split(resolvers, ","),
		Confirmed:     confirmed,
	}, nil
}

// ToConfig converts the wizard result to a Config with all remaining
// fields defaulted, so the output YAML is explicit and self-documenting.
func (r *WizardResult) ToConfig() *Config {
	cfg := &Config{
		Proxy: ProxySpec{
			Port: r.Port,
			Users: UserSpec{
				Primary:   r.PrimaryUser,
				Secondary: r.SecondaryUser,
			},
			NServers: r.NServers,
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// validatePort validates the port input field.
func validatePort(s string) error {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be 1-65535")
	}
	if port == threeproxy.DefaultAdminPort {
		return fmt.Errorf("port %d is reserved for SSH", port)
	}
	return nil
}

// validateUsername validates a username input field.
func validateUsername(s string) error {
	if s == "" {
		return fmt.Errorf("username is required")
	}
	if strings.ContainsAny(s, ":, \t") {
		return fmt.Errorf("username must not contain ':', ',' or whitespace")
	}
	return nil
}
