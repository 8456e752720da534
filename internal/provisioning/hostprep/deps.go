package hostprep

import (
	"strings"

	"github.com/socksup/socksup/internal/platform/host"
	"github.com/socksup/socksup/internal/provisioning"
	"github.com/socksup/socksup/internal/util/prerequisites"
)

// installDependencies installs the build tools missing from the executable
// search path. A host that already has the full toolchain runs no installer
// command at all.
func (p *Provisioner) installDependencies(ctx *provisioning.Context) error {
	var missing []prerequisites.Tool
	for _, tool := range prerequisites.BuildTools() {
		if _, err := ctx.Host.LookPath(tool.Name); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) == 0 {
		ctx.Observer.Printf("[Host] Build toolchain already present")
		return nil
	}

	manager := ctx.State.Profile.PackageManager
	packages := packagesFor(manager, missing)
	ctx.Observer.Printf("[Host] Installing %s via %s", strings.Join(packages, ", "), manager)

	if err := ctx.Host.InstallPackages(ctx, manager, packages); err != nil {
		return &provisioning.DependencyInstallError{
			Manager:  manager.String(),
			Packages: packages,
			Err:      err,
		}
	}

	ctx.Observer.Printf("[Host] Build toolchain installed")
	return nil
}

// packagesFor maps missing tools to the dialect's package names. Packages
// that provide several tools (build-essential on apt) appear once.
func packagesFor(manager host.PackageManager, tools []prerequisites.Tool) []string {
	seen := make(map[string]bool)
	var packages []string
	for _, tool := range tools {
		pkg := tool.AptPackage
		if manager == host.Yum {
			pkg = tool.YumPackage
		}
		if pkg == "" || seen[pkg] {
			continue
		}
		seen[pkg] = true
		packages = append(packages, pkg)
	}
	return packages
}
