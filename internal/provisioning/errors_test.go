package provisioning

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "unsupported platform",
			err:  &UnsupportedPlatformError{OS: "alpine", Reason: "no supported package manager"},
			want: []string{"alpine", "no supported package manager"},
		},
		{
			name: "unsupported platform without os",
			err:  &UnsupportedPlatformError{Reason: "cannot read os-release"},
			want: []string{"unsupported platform", "cannot read os-release"},
		},
		{
			name: "dependency install",
			err:  &DependencyInstallError{Manager: "apt", Packages: []string{"build-essential", "wget"}, Err: errors.New("exit status 100")},
			want: []string{"build-essential, wget", "apt", "exit status 100"},
		},
		{
			name: "download",
			err:  &DownloadError{URL: "https://example.com/src.tar.gz", Err: errors.New("status 404")},
			want: []string{"https://example.com/src.tar.gz", "status 404"},
		},
		{
			name: "build",
			err:  &BuildError{Dir: "/tmp/3proxy-build/3proxy-0.9.4", Err: errors.New("exit status 2")},
			want: []string{"/tmp/3proxy-build/3proxy-0.9.4", "exit status 2"},
		},
		{
			name: "install",
			err:  &InstallError{Dir: "/tmp/3proxy-build/3proxy-0.9.4", Err: errors.New("permission denied")},
			want: []string{"/tmp/3proxy-build/3proxy-0.9.4", "permission denied"},
		},
		{
			name: "binary not found",
			err:  &BinaryNotFoundError{Candidates: []string{"/usr/local/bin/3proxy", "/usr/local/3proxy/bin/3proxy"}},
			want: []string{"/usr/local/bin/3proxy", "/usr/local/3proxy/bin/3proxy"},
		},
		{
			name: "service start with status",
			err:  &ServiceStartError{Service: "3proxy", Status: "inactive"},
			want: []string{"3proxy", "inactive", "journalctl -u 3proxy"},
		},
		{
			name: "service start with cause",
			err:  &ServiceStartError{Service: "3proxy", Err: errors.New("systemctl start failed")},
			want: []string{"3proxy", "systemctl start failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, fragment := range tt.want {
				assert.Contains(t, msg, fragment)
			}
		})
	}
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("root cause")

	wrapped := []error{
		&DependencyInstallError{Manager: "yum", Packages: []string{"gcc"}, Err: cause},
		&DownloadError{URL: "https://example.com", Err: cause},
		&BuildError{Dir: "/tmp", Err: cause},
		&InstallError{Dir: "/tmp", Err: cause},
		&ServiceStartError{Service: "3proxy", Err: cause},
	}

	for _, err := range wrapped {
		assert.ErrorIs(t, err, cause)
	}
}

func TestErrorsMatchWithAs(t *testing.T) {
	var err error = &BinaryNotFoundError{Candidates: []string{"/usr/local/bin/3proxy"}}

	var notFound *BinaryNotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Len(t, notFound.Candidates, 1)

	var startErr *ServiceStartError
	assert.False(t, errors.As(err, &startErr))
}

func TestWarningString(t *testing.T) {
	w := Warning{Kind: WarnPortConflict, Message: "terminated pid 1234 holding port 1080"}
	assert.Equal(t, "[port-conflict] terminated pid 1234 holding port 1080", w.String())
}
