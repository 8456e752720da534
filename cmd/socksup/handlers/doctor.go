package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/proxy"

	"github.com/socksup/socksup/internal/config"
	"github.com/socksup/socksup/internal/platform/host"
	"github.com/socksup/socksup/internal/platform/threeproxy"
	"github.com/socksup/socksup/internal/provisioning/verify"
	"github.com/socksup/socksup/internal/ui/tui"
	"github.com/socksup/socksup/internal/util/netutil"
	"github.com/socksup/socksup/internal/util/prerequisites"
)

// Function variables for doctor - can be replaced in tests.
var (
	checkTools     = prerequisites.CheckAll
	portOpen       = netutil.PortOpen
	liveRoundTrip  = verify.RoundTrip
	detectProfile  = host.DetectProfile
	doctorTimeouts = config.LoadTimeouts
)

// doctorReport is the JSON shape of the doctor output.
type doctorReport struct {
	ReportID    string              `json:"reportId"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Healthy     bool                `json:"healthy"`
	Sections    []tui.DoctorSection `json:"sections"`
}

// Doctor handles the doctor command. It inspects the host read-only and
// reports each check; the returned error is non-nil when a required check
// fails, so the process exits non-zero.
func Doctor(ctx context.Context, configPath string, jsonOutput, live bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	manager := newHostManager(false)
	sections := []tui.DoctorSection{
		platformSection(manager),
		toolsSection(),
		installSection(cfg, manager),
		serviceSection(ctx, cfg, manager),
	}
	if live {
		sections = append(sections, liveSection(ctx, cfg, manager))
	}

	if jsonOutput {
		report := doctorReport{
			ReportID:    uuid.NewString(),
			GeneratedAt: time.Now().UTC(),
			Healthy:     !tui.Failed(sections),
			Sections:    sections,
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Print(tui.RenderDoctorReport("socksup doctor", sections))
	}

	if tui.Failed(sections) {
		return fmt.Errorf("one or more required checks failed")
	}
	return nil
}

func platformSection(manager host.Manager) tui.DoctorSection {
	section := tui.DoctorSection{Name: "Platform"}

	profile, err := detectProfile(manager)
	if err != nil {
		section.Checks = append(section.Checks, tui.DoctorCheck{
			Name:     "operating system",
			Ok:       false,
			Required: true,
			Detail:   err.Error(),
		})
		return section
	}

	section.Checks = append(section.Checks,
		tui.DoctorCheck{
			Name:     "operating system",
			Ok:       true,
			Required: true,
			Detail:   fmt.Sprintf("%s %s", profile.OSName, profile.OSVersion),
		},
		tui.DoctorCheck{
			Name:     "package manager",
			Ok:       profile.PackageManager.IsValid(),
			Required: true,
			Detail:   profile.PackageManager.String(),
		},
	)
	return section
}

func toolsSection() tui.DoctorSection {
	section := tui.DoctorSection{Name: "Tools"}
	for _, result := range checkTools().Results {
		detail := result.Version
		if detail == "" {
			detail = result.Path
		}
		if !result.Found {
			detail = result.Tool.Description
		}
		section.Checks = append(section.Checks, tui.DoctorCheck{
			Name:     result.Tool.Name,
			Ok:       result.Found,
			Required: result.Tool.Required,
			Detail:   detail,
		})
	}
	return section
}

func installSection(cfg *config.Config, manager host.Manager) tui.DoctorSection {
	section := tui.DoctorSection{Name: "Installation"}

	binary, err := threeproxy.ResolveBinary(manager, threeproxy.BinaryCandidates)
	section.Checks = append(section.Checks, tui.DoctorCheck{
		Name:     "proxy binary",
		Ok:       err == nil,
		Required: true,
		Detail:   binary,
	})

	section.Checks = append(section.Checks,
		fileCheck(manager, "proxy config", cfg.ConfigFilePath()),
		fileCheck(manager, "systemd unit", manager.UnitPath(threeproxy.UnitName)),
	)
	return section
}

func fileCheck(manager host.Manager, name, path string) tui.DoctorCheck {
	_, err := manager.Stat(path)
	return tui.DoctorCheck{Name: name, Ok: err == nil, Required: true, Detail: path}
}

func serviceSection(ctx context.Context, cfg *config.Config, manager host.Manager) tui.DoctorSection {
	section := tui.DoctorSection{Name: "Service"}

	active, err := manager.IsActive(ctx, threeproxy.UnitName)
	detail := "systemctl is-active " + threeproxy.UnitName
	if err != nil {
		detail = err.Error()
	}
	section.Checks = append(section.Checks, tui.DoctorCheck{
		Name:     "service active",
		Ok:       err == nil && active,
		Required: true,
		Detail:   detail,
	})

	out, err := manager.Run(ctx, "systemctl", "is-enabled", threeproxy.UnitName)
	section.Checks = append(section.Checks, tui.DoctorCheck{
		Name:     "starts on boot",
		Ok:       err == nil && strings.TrimSpace(out) == "enabled",
		Required: false,
		Detail:   "systemctl is-enabled " + threeproxy.UnitName,
	})

	section.Checks = append(section.Checks, tui.DoctorCheck{
		Name:     "port listening",
		Ok:       portOpen("127.0.0.1", cfg.Proxy.Port),
		Required: true,
		Detail:   fmt.Sprintf("127.0.0.1:%d", cfg.Proxy.Port),
	})
	return section
}

// liveSection performs one authenticated round-trip through the proxy using
// the password recovered from the rendered config.
func liveSection(ctx context.Context, cfg *config.Config, manager host.Manager) tui.DoctorSection {
	section := tui.DoctorSection{Name: "Live check"}

	fail := func(detail string) tui.DoctorSection {
		section.Checks = append(section.Checks, tui.DoctorCheck{
			Name:     "authenticated round-trip",
			Ok:       false,
			Required: true,
			Detail:   detail,
		})
		return section
	}

	data, err := manager.ReadFile(cfg.ConfigFilePath())
	if err != nil {
		return fail(fmt.Sprintf("reading %s: %v", cfg.ConfigFilePath(), err))
	}
	password, err := threeproxy.ReadPassword(string(data), cfg.Proxy.Users.Primary)
	if err != nil {
		return fail(fmt.Sprintf("recovering %s password: %v", cfg.Proxy.Users.Primary, err))
	}

	proxyAddr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Proxy.Port))
	auth := &proxy.Auth{User: cfg.Proxy.Users.Primary, Password: password}
	body, err := liveRoundTrip(ctx, proxyAddr, auth, cfg.Network.CheckURL, doctorTimeouts().Verify)
	if err != nil {
		return fail(err.Error())
	}

	section.Checks = append(section.Checks, tui.DoctorCheck{
		Name:     "authenticated round-trip",
		Ok:       true,
		Required: true,
		Detail:   fmt.Sprintf("public address %s", body),
	})
	return section
}
