package firewall

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socksup/socksup/internal/platform/host/fakes"
)

func TestDetectPrefersUFW(t *testing.T) {
	t.Parallel()

	h := fakes.NewFakeHost()
	h.SetBinary("ufw", "/usr/sbin/ufw")
	h.SetBinary("firewall-cmd", "/usr/bin/firewall-cmd")
	h.SetBinary("iptables", "/usr/sbin/iptables")

	fw, err := Detect(h, 22)
	require.NoError(t, err)
	assert.Equal(t, "ufw", fw.Name())
}

func TestDetectFallsBackToFirewalld(t *testing.T) {
	t.Parallel()

	h := fakes.NewFakeHost()
	h.SetBinary("firewall-cmd", "/usr/bin/firewall-cmd")
	h.SetBinary("iptables", "/usr/sbin/iptables")

	fw, err := Detect(h, 22)
	require.NoError(t, err)
	assert.Equal(t, "firewalld", fw.Name())
}

func TestDetectUsesIptablesLast(t *testing.T) {
	t.Parallel()

	h := fakes.NewFakeHost()
	h.SetBinary("iptables", "/usr/sbin/iptables")

	fw, err := Detect(h, 22)
	require.NoError(t, err)
	assert.Equal(t, "iptables", fw.Name())
}

func TestDetectNothingFound(t *testing.T) {
	t.Parallel()

	fw, err := Detect(fakes.NewFakeHost(), 22)
	assert.Nil(t, fw)
	assert.ErrorIs(t, err, ErrNotDetected)
}

func TestUFWAllowsAdminPortBeforeEnabling(t *testing.T) {
	t.Parallel()

	h := fakes.NewFakeHost()
	h.SetBinary("ufw", "/usr/sbin/ufw")

	fw, err := Detect(h, 22)
	require.NoError(t, err)
	require.NoError(t, fw.OpenPort(context.Background(), 1080))

	assert.Equal(t, []string{
		"/usr/sbin/ufw allow 22/tcp",
		"/usr/sbin/ufw allow 1080/tcp",
		"/usr/sbin/ufw --force enable",
	}, h.CommandLines())
}

func TestFirewalldAddsPermanentRuleAndReloads(t *testing.T) {
	t.Parallel()

	h := fakes.NewFakeHost()
	h.SetBinary("firewall-cmd", "/usr/bin/firewall-cmd")

	fw, err := Detect(h, 22)
	require.NoError(t, err)
	require.NoError(t, fw.OpenPort(context.Background(), 1080))

	assert.Equal(t, []string{
		"/usr/bin/firewall-cmd --permanent --add-port=1080/tcp",
		"/usr/bin/firewall-cmd --reload",
	}, h.CommandLines())
}

func TestIptablesInsertsAcceptRule(t *testing.T) {
	t.Parallel()

	h := fakes.NewFakeHost()
	h.SetBinary("iptables", "/usr/sbin/iptables")

	fw, err := Detect(h, 22)
	require.NoError(t, err)
	require.NoError(t, fw.OpenPort(context.Background(), 1080))

	assert.Equal(t, []string{
		"/usr/sbin/iptables -I INPUT -p tcp --dport 1080 -j ACCEPT",
	}, h.CommandLines())
}

func TestOpenPortPropagatesCommandFailure(t *testing.T) {
	t.Parallel()

	h := fakes.NewFakeHost()
	h.SetBinary("ufw", "/usr/sbin/ufw")
	h.CommandErrs["/usr/sbin/ufw allow 1080/tcp"] = errors.New("exit status 1")

	fw, err := Detect(h, 22)
	require.NoError(t, err)

	err = fw.OpenPort(context.Background(), 1080)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ufw allow 1080/tcp")
}
