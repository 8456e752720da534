package hostprep

import (
	"github.com/socksup/socksup/internal/platform/host"
	"github.com/socksup/socksup/internal/provisioning"
)

// detectPlatform identifies the OS and package manager and records the
// profile on the run state for the phases behind it.
func (p *Provisioner) detectPlatform(ctx *provisioning.Context) error {
	profile, err := host.DetectProfile(ctx.Host)
	if err != nil {
		return &provisioning.UnsupportedPlatformError{Reason: err.Error()}
	}
	if !profile.PackageManager.IsValid() {
		return &provisioning.UnsupportedPlatformError{
			OS:     profile.OSName,
			Reason: "no supported package manager (need apt or yum)",
		}
	}

	ctx.State.Profile = profile
	ctx.Observer.Printf("[Host] Detected %s %s (%s)", profile.OSName, profile.OSVersion, profile.PackageManager)
	return nil
}
