// ABOUTME: SSH+SOCKS5 tunnel dialer for reaching a FlyAir backend behind a jump host
// ABOUTME: Parses ssh+socks5://user@host:port?private-key=/path and dials lazily

package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	proxy "github.com/cloudfoundry/socks5-proxy"
)

// DialContextFunc matches http.Transport.DialContext.
type DialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// ProxySpec is a parsed ssh+socks5 proxy URL.
type ProxySpec struct {
	User    string
	Host    string
	KeyPath string
}

// ParseProxyURL parses ssh+socks5://user@host:port?private-key=/path/to/key.
func ParseProxyURL(raw string) (*ProxySpec, error) {
	trimmed := strings.TrimPrefix(raw, "ssh+")
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	if u.Scheme != "socks5" {
		return nil, fmt.Errorf("unsupported proxy scheme %q (want ssh+socks5)", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("proxy URL has no host")
	}
	spec := &ProxySpec{Host: u.Host, KeyPath: u.Query().Get("private-key")}
	if u.User != nil {
		spec.User = u.User.Username()
	}
	if spec.KeyPath == "" {
		return nil, errors.New("proxy URL missing required 'private-key' query param")
	}
	return spec, nil
}

// NewProxyDialer returns a dial function that tunnels through the SSH jump host.
// The SSH connection is established on first use and then reused.
func NewProxyDialer(raw string) (DialContextFunc, error) {
	spec, err := ParseProxyURL(raw)
	if err != nil {
		return nil, err
	}
	key, err := os.ReadFile(spec.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH private key: %w", err)
	}

	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug), time.Minute)

	var (
		dialer proxy.DialFunc
		mut    sync.RWMutex
	)

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		mut.RLock()
		d := dialer
		mut.RUnlock()
		if d != nil {
			return d(network, address)
		}

		mut.Lock()
		defer mut.Unlock()
		if dialer == nil {
			slog.Debug("Opening SSH tunnel", "host", spec.Host, "user", spec.User)
			proxyDialer, err := socks5Proxy.Dialer(spec.User, string(key), spec.Host)
			if err != nil {
				return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
			}
			dialer = proxyDialer
		}
		return dialer(network, address)
	}, nil
}
