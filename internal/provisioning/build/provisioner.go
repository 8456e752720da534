package build

import (
	"fmt"
	"path/filepath"

	"github.com/socksup/socksup/internal/platform/threeproxy"
	"github.com/socksup/socksup/internal/provisioning"
)

// Provisioner fetches, compiles, and installs the proxy.
type Provisioner struct{}

// NewProvisioner creates a new build provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "build"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	workDir := ctx.Config.Paths.WorkDir

	// A previous aborted run may have left anything here.
	if err := ctx.Host.RemoveAll(workDir); err != nil {
		return fmt.Errorf("clearing %s: %w", workDir, err)
	}
	if err := ctx.Host.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", workDir, err)
	}
	defer func() { _ = ctx.Host.RemoveAll(workDir) }()

	// 1. Download
	url := ctx.Config.SourceURL()
	archive := filepath.Join(workDir, ctx.Config.Proxy.Version+".tar.gz")
	ctx.Observer.Progress(p.Name(), 1, 4)
	ctx.Observer.Printf("[Build] Fetching %s", url)
	if err := ctx.Host.Download(ctx, url, archive); err != nil {
		return &provisioning.DownloadError{URL: url, Err: err}
	}

	// 2. Extract
	ctx.Observer.Progress(p.Name(), 2, 4)
	if err := ctx.Host.ExtractTarGz(archive, workDir); err != nil {
		return &provisioning.DownloadError{URL: url, Err: fmt.Errorf("extracting %s: %w", archive, err)}
	}

	// 3. Compile
	srcDir := ctx.Config.SourceDir()
	ctx.Observer.Progress(p.Name(), 3, 4)
	ctx.Observer.Printf("[Build] Compiling %s %s", threeproxy.UnitName, ctx.Config.Proxy.Version)
	if _, err := ctx.Host.RunInDir(ctx, srcDir, "make", "-f", threeproxy.MakefileName); err != nil {
		return &provisioning.BuildError{Dir: srcDir, Err: err}
	}

	// 4. Install
	ctx.Observer.Progress(p.Name(), 4, 4)
	if _, err := ctx.Host.RunInDir(ctx, srcDir, "make", "-f", threeproxy.MakefileName, "install"); err != nil {
		return &provisioning.InstallError{Dir: srcDir, Err: err}
	}

	ctx.Observer.Printf("[Build] Installed %s %s", threeproxy.UnitName, ctx.Config.Proxy.Version)
	return nil
}
