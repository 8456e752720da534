package verify

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// maxBodyBytes caps the check endpoint's response; it returns an address,
// not a document.
const maxBodyBytes = 512

// socksRoundTrip performs one authenticated HTTP GET through the SOCKS5
// proxy at proxyAddr and returns the trimmed response body.
func socksRoundTrip(ctx context.Context, proxyAddr string, auth *proxy.Auth, url string, timeout time.Duration) (string, error) {
	dialer, err := proxy.SOCKS5("tcp", proxyAddr, auth, &net.Dialer{Timeout: timeout})
	if err != nil {
		return "", fmt.Errorf("building SOCKS5 dialer: %w", err)
	}

	transport := &http.Transport{DisableKeepAlives: true}
	if contextDialer, ok := dialer.(proxy.ContextDialer); ok {
		transport.DialContext = contextDialer.DialContext
	} else {
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}

	return fetch(ctx, &http.Client{Transport: transport, Timeout: timeout}, url)
}

// RoundTrip performs one authenticated HTTP GET through the SOCKS5 proxy at
// proxyAddr and returns the trimmed response body. Exposed for the doctor
// command's live check.
func RoundTrip(ctx context.Context, proxyAddr string, auth *proxy.Auth, url string, timeout time.Duration) (string, error) {
	return socksRoundTrip(ctx, proxyAddr, auth, url, timeout)
}

// directGet fetches the URL without the proxy in the path.
func directGet(ctx context.Context, url string, timeout time.Duration) (string, error) {
	return fetch(ctx, &http.Client{Timeout: timeout}, url)
}

func fetch(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
