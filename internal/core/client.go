// Package core provides the REST client that announces this bridge to the
// core orchestrator at startup.
package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
	"time"

	"github.com/intentlabs/bridge/internal/app"
	"github.com/intentlabs/bridge/internal/logging"
)

// DefaultURL is the registration endpoint of a core running on the same
// machine with default settings.
const DefaultURL = "http://localhost:12777/"

// UnreachableError means the core refused the connection outright — almost
// always because no core is running at the configured URL.
type UnreachableError struct {
	URL string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("core at %s is not reachable — check that the core is running and the URL is correct", e.URL)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// Client registers apps with the core over REST.
type Client struct {
	baseURL *url.URL
	httpc   *http.Client
}

// NewClient builds a registration client for the given core base URL.
func NewClient(coreURL string) (*Client, error) {
	u, err := url.Parse(coreURL)
	if err != nil {
		return nil, fmt.Errorf("invalid core URL %q: %w", coreURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid core URL %q: unsupported scheme", coreURL)
	}
	return &Client{
		baseURL: u,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// URL returns the configured core registration URL.
func (c *Client) URL() string { return c.baseURL.String() }

// CallbackBaseURL builds the URL the core should call back on. When the core
// itself is loopback-addressed the callback stays on loopback; otherwise the
// machine's resolvable hostname is advertised so a remote core can reach us.
func (c *Client) CallbackBaseURL(port int) string {
	host := "localhost"
	if !c.coreIsLoopback() {
		if h, err := os.Hostname(); err == nil && h != "" {
			host = h
		}
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

func (c *Client) coreIsLoopback() bool {
	host := c.baseURL.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Register announces one app to the core. A refused connection maps to
// *UnreachableError; every other transport failure propagates wrapped.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	body, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return &UnreachableError{URL: c.baseURL.String(), Err: err}
		}
		return fmt.Errorf("register %s: %w", reg.AppID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("core returned %d for %s: %s", resp.StatusCode, reg.AppID, string(b))
	}
	return nil
}

// RegisterAll registers every loaded app, building a fresh capability
// descriptor per app. It is fail-fast: a partially registered bridge is not a
// supported state, so the first failure aborts the remaining registrations.
func (c *Client) RegisterAll(ctx context.Context, reg *app.Registry, port int, authKey string) error {
	callback := c.CallbackBaseURL(port)
	for _, a := range reg.Apps() {
		r := Registration{
			AppID:   a.ID,
			URL:     callback,
			AuthKey: authKey,
			Intents: app.BuildDescriptor(a),
		}
		if err := c.Register(ctx, r); err != nil {
			return err
		}
		logging.Infof("registered app %s with core at %s", a.ID, c.baseURL)
	}
	return nil
}
