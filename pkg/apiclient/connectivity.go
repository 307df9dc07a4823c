package apiclient

import (
	"context"
	"net"
	"net/url"
	"time"
)

// Connectivity is the pre-flight check run before every request. When it
// reports offline the request is not issued at all.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// DialConnectivity reports online when a TCP connection to the API host can
// be opened within Timeout.
type DialConnectivity struct {
	Address string
	Timeout time.Duration
}

func NewDialConnectivity(baseURL string, timeout time.Duration) (*DialConnectivity, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return &DialConnectivity{Address: net.JoinHostPort(u.Hostname(), port), Timeout: timeout}, nil
}

func (d *DialConnectivity) Online(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: d.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", d.Address)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// StaticConnectivity always reports the same state.
type StaticConnectivity bool

func (s StaticConnectivity) Online(context.Context) bool { return bool(s) }
