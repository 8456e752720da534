package provisioning_test

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/socksup/socksup/internal/config"
	"github.com/socksup/socksup/internal/platform/host/fakes"
	"github.com/socksup/socksup/internal/platform/threeproxy"
	"github.com/socksup/socksup/internal/provisioning"
	"github.com/socksup/socksup/internal/provisioning/build"
	"github.com/socksup/socksup/internal/provisioning/configure"
	"github.com/socksup/socksup/internal/provisioning/hostprep"
	"github.com/socksup/socksup/internal/provisioning/service"
	"github.com/socksup/socksup/internal/provisioning/verify"
	testutil "github.com/socksup/socksup/internal/testing"
)

var _ = Describe("Provisioning pipeline", func() {
	var (
		fixture     *testutil.HostFixture
		h           *fakes.FakeHost
		cfg         *config.Config
		observer    *testutil.RecordingObserver
		pctx        *provisioning.Context
		listener    net.Listener
		checkServer *httptest.Server
		port        int
	)

	pipeline := func() []provisioning.Phase {
		return []provisioning.Phase{
			hostprep.NewProvisioner(),
			build.NewProvisioner(),
			configure.NewProvisioner(),
			service.NewProvisioner(),
			verify.NewProvisioner(),
		}
	}

	run := func() error {
		pctx = testutil.NewPipelineContext(cfg, h, observer)
		return provisioning.RunPhases(pctx, pipeline())
	}

	BeforeEach(func() {
		// The verifier probes the listen port over real TCP, so the test
		// config points at a port this process actually listens on. The
		// accept loop closes connections immediately, which fails the
		// SOCKS handshake fast without stalling the suite.
		var err error
		listener, err = net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		port = listener.Addr().(*net.TCPAddr).Port
		go func() {
			for {
				conn, err := listener.Accept()
				if err != nil {
					return
				}
				_ = conn.Close()
			}
		}()

		checkServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "203.0.113.9")
		}))

		fixture = testutil.NewHostFixture()
		h = fixture.Host()
		h.PortOnStart = port

		cfg = testutil.NewConfigBuilder().
			WithPort(port).
			WithCheckURL(checkServer.URL).
			Build()
		observer = &testutil.RecordingObserver{}
	})

	AfterEach(func() {
		_ = listener.Close()
		checkServer.Close()
	})

	Context("on a fresh host", func() {
		It("provisions the proxy end to end", func() {
			Expect(run()).To(Succeed())

			By("writing the unit and starting the service")
			Expect(h.Units).To(HaveKey(threeproxy.UnitName))
			Expect(h.Active[threeproxy.UnitName]).To(BeTrue())
			Expect(h.Enabled[threeproxy.UnitName]).To(BeTrue())

			By("leaving the proxy as the port's owner")
			Expect(h.Listeners[port]).To(Equal([]int{fakes.ProxyPID}))

			By("issuing one credential per account")
			Expect(pctx.State.Credentials).To(HaveLen(2))
			Expect(pctx.State.Credentials[0].Username).To(Equal(cfg.Proxy.Users.Primary))
			Expect(pctx.State.Credentials[1].Username).To(Equal(cfg.Proxy.Users.Secondary))

			By("surfacing the credentials exactly once")
			Expect(observer.EventsOfType(provisioning.EventCredentials)).To(HaveLen(1))

			By("learning the public address through the check endpoint")
			Expect(pctx.State.PublicAddress).To(Equal("203.0.113.9"))
		})
	})

	Context("when an unrelated process holds the port", func() {
		BeforeEach(func() {
			h.SetListener(port, 999)
		})

		It("evicts the holder and records a warning", func() {
			Expect(run()).To(Succeed())

			Expect(h.Terminated).To(Equal([][]int{{999}}))
			Expect(pctx.State.Evicted).To(Equal([]int{999}))
			Expect(h.Listeners[port]).To(Equal([]int{fakes.ProxyPID}))

			warned := false
			for _, w := range pctx.State.Warnings {
				if w.Kind == provisioning.WarnPortConflict {
					warned = true
				}
			}
			Expect(warned).To(BeTrue(), "eviction should leave a port-conflict warning")
		})
	})

	Context("when the source download fails", func() {
		BeforeEach(func() {
			fixture.FailDownload()
		})

		It("aborts before any service artifact exists", func() {
			err := run()
			Expect(err).To(HaveOccurred())

			var downloadErr *provisioning.DownloadError
			Expect(errors.As(err, &downloadErr)).To(BeTrue())

			Expect(h.Units).NotTo(HaveKey(threeproxy.UnitName))
			Expect(h.Files).NotTo(HaveKey(cfg.ConfigFilePath()))
		})
	})

	Context("when no firewall frontend exists", func() {
		BeforeEach(func() {
			fixture.NoFirewall()
		})

		It("still provisions, with a firewall warning", func() {
			Expect(run()).To(Succeed())

			Expect(pctx.State.Firewall).To(BeEmpty())
			warned := false
			for _, w := range pctx.State.Warnings {
				if w.Kind == provisioning.WarnFirewallUnavailable {
					warned = true
				}
			}
			Expect(warned).To(BeTrue())
			Expect(h.Active[threeproxy.UnitName]).To(BeTrue())
		})
	})

	Context("when applied over an existing installation", func() {
		It("rotates the account passwords", func() {
			Expect(run()).To(Succeed())

			first, err := threeproxy.ReadPassword(string(h.Files[cfg.ConfigFilePath()]), cfg.Proxy.Users.Primary)
			Expect(err).NotTo(HaveOccurred())

			observer = &testutil.RecordingObserver{}
			Expect(run()).To(Succeed())

			rendered := string(h.Files[cfg.ConfigFilePath()])
			second, err := threeproxy.ReadPassword(rendered, cfg.Proxy.Users.Primary)
			Expect(err).NotTo(HaveOccurred())

			Expect(second).NotTo(Equal(first))
			Expect(rendered).NotTo(ContainSubstring(first))
		})
	})
})
