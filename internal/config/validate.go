package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/socksup/socksup/internal/platform/threeproxy"
)

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string
	Message  string
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// Check runs every validation rule and returns all findings, warnings
// included. Callers that only need a pass/fail answer use Validate.
func (c *Config) Check() []ValidationError {
	var errs []ValidationError

	if c.Proxy.Version == "" {
		errs = append(errs, ValidationError{
			Field:    "proxy.version",
			Message:  "version is required",
			Severity: "error",
		})
	}

	if n := strings.Count(c.Proxy.DownloadURL, "%s"); n != 1 {
		errs = append(errs, ValidationError{
			Field:    "proxy.download_url",
			Message:  fmt.Sprintf("must contain exactly one %%s verb for the version, got %d", n),
			Severity: "error",
		})
	} else if _, err := url.Parse(fmt.Sprintf(c.Proxy.DownloadURL, c.Proxy.Version)); err != nil {
		errs = append(errs, ValidationError{
			Field:    "proxy.download_url",
			Message:  fmt.Sprintf("not a valid URL: %v", err),
			Severity: "error",
		})
	}

	errs = append(errs, c.checkPorts()...)
	errs = append(errs, c.checkUsers()...)
	errs = append(errs, c.checkResolvers()...)
	errs = append(errs, c.checkPaths()...)

	if c.Network.CheckURL != "" {
		if u, err := url.Parse(c.Network.CheckURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:    "network.check_url",
				Message:  "must be an absolute URL",
				Severity: "error",
			})
		}
	}

	return errs
}

// Validate returns the joined error-severity findings, or nil when the
// configuration is usable. Warnings never fail validation.
func (c *Config) Validate() error {
	var errs []error
	for _, ve := range c.Check() {
		if ve.IsError() {
			errs = append(errs, ve)
		}
	}
	return errors.Join(errs...)
}

// Warnings returns only the warning-severity findings.
func (c *Config) Warnings() []ValidationError {
	var warnings []ValidationError
	for _, ve := range c.Check() {
		if !ve.IsError() {
			warnings = append(warnings, ve)
		}
	}
	return warnings
}

func (c *Config) checkPorts() []ValidationError {
	var errs []ValidationError

	if c.Proxy.Port < 1 || c.Proxy.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:    "proxy.port",
			Message:  fmt.Sprintf("must be 1-65535, got %d", c.Proxy.Port),
			Severity: "error",
		})
	} else if c.Proxy.Port != threeproxy.DefaultPort {
		errs = append(errs, ValidationError{
			Field:    "proxy.port",
			Message:  fmt.Sprintf("non-default port %d; clients must be told explicitly", c.Proxy.Port),
			Severity: "warning",
		})
	}

	if c.Network.AdminPort < 1 || c.Network.AdminPort > 65535 {
		errs = append(errs, ValidationError{
			Field:    "network.admin_port",
			Message:  fmt.Sprintf("must be 1-65535, got %d", c.Network.AdminPort),
			Severity: "error",
		})
	}

	if c.Proxy.Port == c.Network.AdminPort {
		errs = append(errs, ValidationError{
			Field:    "proxy.port",
			Message:  fmt.Sprintf("must differ from the admin port (%d)", c.Network.AdminPort),
			Severity: "error",
		})
	}

	return errs
}

func (c *Config) checkUsers() []ValidationError {
	var errs []ValidationError

	check := func(field, name string) {
		if name == "" {
			errs = append(errs, ValidationError{
				Field:    field,
				Message:  "username is required",
				Severity: "error",
			})
			return
		}
		if strings.ContainsAny(name, ":, \t") {
			errs = append(errs, ValidationError{
				Field:    field,
				Message:  fmt.Sprintf("username %q contains a reserved character", name),
				Severity: "error",
			})
		}
	}
	check("proxy.users.primary", c.Proxy.Users.Primary)
	check("proxy.users.secondary", c.Proxy.Users.Secondary)

	if c.Proxy.Users.Primary != "" && c.Proxy.Users.Primary == c.Proxy.Users.Secondary {
		errs = append(errs, ValidationError{
			Field:    "proxy.users",
			Message:  "primary and secondary usernames must differ",
			Severity: "error",
		})
	}

	return errs
}

func (c *Config) checkResolvers() []ValidationError {
	var errs []ValidationError

	if len(c.Proxy.NServers) != 2 {
		errs = append(errs, ValidationError{
			Field:    "proxy.nservers",
			Message:  fmt.Sprintf("exactly two resolvers are required, got %d", len(c.Proxy.NServers)),
			Severity: "error",
		})
	}
	for i, ns := range c.Proxy.NServers {
		if net.ParseIP(ns) == nil {
			errs = append(errs, ValidationError{
				Field:    fmt.Sprintf("proxy.nservers[%d]", i),
				Message:  fmt.Sprintf("%q is not a valid IP address", ns),
				Severity: "error",
			})
		}
	}

	return errs
}

func (c *Config) checkPaths() []ValidationError {
	var errs []ValidationError

	paths := []struct {
		field string
		value string
	}{
		{"paths.config_dir", c.Paths.ConfigDir},
		{"paths.log_file", c.Paths.LogFile},
		{"paths.work_dir", c.Paths.WorkDir},
	}
	for _, p := range paths {
		if p.value == "" {
			errs = append(errs, ValidationError{
				Field:    p.field,
				Message:  "path is required",
				Severity: "error",
			})
			continue
		}
		if !filepath.IsAbs(p.value) {
			errs = append(errs, ValidationError{
				Field:    p.field,
				Message:  fmt.Sprintf("%q must be an absolute path", p.value),
				Severity: "error",
			})
		}
	}

	if c.Paths.LogFile != "" && filepath.IsAbs(c.Paths.LogFile) &&
		!strings.HasPrefix(c.Paths.LogFile, "/var/log/") {
		errs = append(errs, ValidationError{
			Field:    "paths.log_file",
			Message:  fmt.Sprintf("%q is outside /var/log; log rotation will not cover it", c.Paths.LogFile),
			Severity: "warning",
		})
	}

	return errs
}
