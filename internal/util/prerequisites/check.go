// Package prerequisites provides utilities for checking required host tools.
// The build tool set doubles as the dependency list the provisioning pipeline
// installs before compiling the proxy from source.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a host tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// AptPackage is the Debian/Ubuntu package providing the tool.
	AptPackage string

	// YumPackage is the RHEL/CentOS package providing the tool.
	YumPackage string
}

// BuildTools returns the toolchain needed to fetch, extract, and compile the
// proxy source. This is the fixed dependency set the resolver installs.
func BuildTools() []Tool {
	return []Tool{
		{
			Name:        "gcc",
			Required:    true,
			Description: "Compiles the proxy from source",
			AptPackage:  "build-essential",
			YumPackage:  "gcc",
		},
		{
			Name:        "make",
			Required:    true,
			Description: "Drives the proxy's platform makefile",
			AptPackage:  "build-essential",
			YumPackage:  "make",
		},
		{
			Name:        "wget",
			Required:    true,
			Description: "Fetches the pinned source archive",
			AptPackage:  "wget",
			YumPackage:  "wget",
		},
		{
			Name:        "tar",
			Required:    true,
			Description: "Unpacks the source archive",
			AptPackage:  "tar",
			YumPackage:  "tar",
		},
	}
}

// ServiceTools returns the host facilities the pipeline drives after the
// build. systemctl is mandatory; the firewall frontends are alternatives, so
// none of them is required on its own.
func ServiceTools() []Tool {
	return []Tool{
		{
			Name:        "systemctl",
			Required:    true,
			Description: "Registers and controls the proxy service unit",
		},
		{
			Name:        "ufw",
			Required:    false,
			Description: "Preferred firewall frontend for opening the proxy port",
		},
		{
			Name:        "firewall-cmd",
			Required:    false,
			Description: "firewalld frontend, used when ufw is absent",
		},
		{
			Name:        "iptables",
			Required:    false,
			Description: "Raw rule fallback when no firewall frontend exists",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, tool.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			// Try to get version (best effort)
			result.Version = getToolVersion(tool.Name)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckBuild checks the build toolchain.
func CheckBuild() *CheckResults {
	return Check(BuildTools())
}

// CheckAll checks the build toolchain plus the service-side facilities.
func CheckAll() *CheckResults {
	build := BuildTools()
	service := ServiceTools()
	all := make([]Tool, 0, len(build)+len(service))
	all = append(all, build...)
	all = append(all, service...)
	return Check(all)
}

// getToolVersion attempts to get the version of a tool.
// Returns empty string if version cannot be determined.
func getToolVersion(name string) string {
	// Common version flags to try
	versionFlags := []string{"--version", "version", "-v"}

	for _, flag := range versionFlags {
		// #nosec G204 - name comes from trusted Tool definitions, not user input
		cmd := exec.Command(name, flag)
		output, err := cmd.Output()
		if err == nil {
			// Return first line of output, trimmed
			lines := strings.Split(string(output), "\n")
			if len(lines) > 0 {
				return strings.TrimSpace(lines[0])
			}
		}
	}

	return ""
}
