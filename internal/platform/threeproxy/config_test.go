package threeproxy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socksup/socksup/internal/util/keygen"
)

func defaultTestCreds() []keygen.Credential {
	return []keygen.Credential{
		{Username: "admin", Password: "wAq7Pm2XcT9Lk4Rv"},
		{Username: "backup", Password: "Zt3Nh8Bd5Yw1Qs6J"},
	}
}

func TestRenderDefaults(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(DefaultSettings())
	text, err := gen.Render(defaultTestCreds())
	require.NoError(t, err)

	want := `daemon
nserver 1.1.1.1
nserver 8.8.8.8
nscache 65536
timeouts 1 5 30 60 180 1800 15
log /var/log/3proxy.log
logformat "- +_L%t.%. %N.%p %E %U %C:%c %R:%r %O %I %h %T"
auth strong
users admin:CL:wAq7Pm2XcT9Lk4Rv backup:CL:Zt3Nh8Bd5Yw1Qs6J
allow admin,backup
socks -p1080
`
	assert.Equal(t, want, text)
}

func TestRenderCustomPort(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	settings.Port = 8443
	gen := NewGenerator(settings)

	text, err := gen.Render(defaultTestCreds())
	require.NoError(t, err)
	assert.Contains(t, text, "socks -p8443\n")
	assert.NotContains(t, text, "1080")
}

func TestRenderAllowMatchesUsers(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(DefaultSettings())
	text, err := gen.Render(defaultTestCreds())
	require.NoError(t, err)

	var usersLine, allowLine string
	for _, line := range strings.Split(text, "\n") {
		if rest, ok := strings.CutPrefix(line, "users "); ok {
			usersLine = rest
		}
		if rest, ok := strings.CutPrefix(line, "allow "); ok {
			allowLine = rest
		}
	}
	require.NotEmpty(t, usersLine)
	require.NotEmpty(t, allowLine)

	declared := map[string]bool{}
	for _, entry := range strings.Fields(usersLine) {
		name, _, ok := strings.Cut(entry, ":")
		require.True(t, ok)
		declared[name] = true
	}
	for _, name := range strings.Split(allowLine, ",") {
		assert.True(t, declared[name], "allow lists undeclared user %q", name)
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings func(Settings) Settings
		creds    []keygen.Credential
	}{
		{
			name:     "no credentials",
			settings: func(s Settings) Settings { return s },
			creds:    nil,
		},
		{
			name:     "empty username",
			settings: func(s Settings) Settings { return s },
			creds:    []keygen.Credential{{Username: "", Password: "x"}},
		},
		{
			name:     "colon in username",
			settings: func(s Settings) Settings { return s },
			creds:    []keygen.Credential{{Username: "a:b", Password: "x"}},
		},
		{
			name:     "comma in username",
			settings: func(s Settings) Settings { return s },
			creds:    []keygen.Credential{{Username: "a,b", Password: "x"}},
		},
		{
			name:     "empty password",
			settings: func(s Settings) Settings { return s },
			creds:    []keygen.Credential{{Username: "admin", Password: ""}},
		},
		{
			name:     "colon in password",
			settings: func(s Settings) Settings { return s },
			creds:    []keygen.Credential{{Username: "admin", Password: "a:b"}},
		},
		{
			name: "port out of range",
			settings: func(s Settings) Settings {
				s.Port = 70000
				return s
			},
			creds: defaultTestCreds(),
		},
		{
			name: "quote in logformat",
			settings: func(s Settings) Settings {
				s.LogFormat = `bad"format`
				return s
			},
			creds: defaultTestCreds(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gen := NewGenerator(tt.settings(DefaultSettings()))
			_, err := gen.Render(tt.creds)
			assert.Error(t, err)
		})
	}
}

func TestReadPassword(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(DefaultSettings())
	text, err := gen.Render(defaultTestCreds())
	require.NoError(t, err)

	pw, err := ReadPassword(text, "admin")
	require.NoError(t, err)
	assert.Equal(t, "wAq7Pm2XcT9Lk4Rv", pw)

	pw, err = ReadPassword(text, "backup")
	require.NoError(t, err)
	assert.Equal(t, "Zt3Nh8Bd5Yw1Qs6J", pw)
}

func TestReadPasswordUnknownUser(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(DefaultSettings())
	text, err := gen.Render(defaultTestCreds())
	require.NoError(t, err)

	_, err = ReadPassword(text, "nobody")
	assert.Error(t, err)
}

func TestReadPasswordMalformedEntry(t *testing.T) {
	t.Parallel()

	_, err := ReadPassword("users admin:nopassword\n", "admin")
	assert.Error(t, err)
}

func TestReadPasswordRoundTripGenerated(t *testing.T) {
	t.Parallel()

	creds, err := keygen.GenerateCredentials("admin", "backup")
	require.NoError(t, err)

	gen := NewGenerator(DefaultSettings())
	text, err := gen.Render(creds)
	require.NoError(t, err)

	for _, c := range creds {
		pw, err := ReadPassword(text, c.Username)
		require.NoError(t, err)
		assert.Equal(t, c.Password, pw)
	}
}
