// Package client provides a typed HTTP client for the iotshield server
// API: reading live simulation state, invoking engine actions, and the
// canned demo endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rparoni/iotshield/internal/demo"
	"github.com/rparoni/iotshield/internal/sim"
)

// Client talks to one iotshield server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL
// (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// NewWithHTTPClient creates a client using a caller-supplied http.Client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
	}
}

// do executes one request and decodes a JSON response into out when out
// is non-nil.
func (c *Client) do(ctx context.Context, method string, body any, out any, pathSegments ...string) error {
	u, err := url.JoinPath(c.baseURL, pathSegments...)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Devices returns the live device list with current statuses.
func (c *Client) Devices(ctx context.Context) ([]sim.Device, error) {
	var out []sim.Device
	if err := c.do(ctx, http.MethodGet, nil, &out, "api", "devices"); err != nil {
		return nil, err
	}
	return out, nil
}

// Attacks returns the active attack list.
func (c *Client) Attacks(ctx context.Context) ([]sim.Attack, error) {
	var out []sim.Attack
	if err := c.do(ctx, http.MethodGet, nil, &out, "api", "attacks"); err != nil {
		return nil, err
	}
	return out, nil
}

// StartAttack launches a manual attack of the given type.
func (c *Client) StartAttack(ctx context.Context, attackType sim.AttackType) error {
	body := map[string]string{"type": string(attackType)}
	return c.do(ctx, http.MethodPost, body, nil, "api", "attacks")
}

// StopAttack stops an active attack by id.
func (c *Client) StopAttack(ctx context.Context, attackID string) error {
	return c.do(ctx, http.MethodDelete, nil, nil, "api", "attacks", attackID)
}

// Events returns the event log, newest first.
func (c *Client) Events(ctx context.Context) ([]sim.Event, error) {
	var out []sim.Event
	if err := c.do(ctx, http.MethodGet, nil, &out, "api", "events"); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearEvents empties the event log.
func (c *Client) ClearEvents(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, nil, nil, "api", "events")
}

// Stats returns the engine's current stats snapshot.
func (c *Client) Stats(ctx context.Context) (sim.Stats, error) {
	var out sim.Stats
	if err := c.do(ctx, http.MethodGet, nil, &out, "api", "stats"); err != nil {
		return sim.Stats{}, err
	}
	return out, nil
}

// ProtocolEnabled reports whether the protection protocol is on.
func (c *Client) ProtocolEnabled(ctx context.Context) (bool, error) {
	var out map[string]bool
	if err := c.do(ctx, http.MethodGet, nil, &out, "api", "protocol"); err != nil {
		return false, err
	}
	return out["enabled"], nil
}

// ToggleProtocol flips the protection protocol and returns the new state.
func (c *Client) ToggleProtocol(ctx context.Context) (bool, error) {
	var out map[string]bool
	if err := c.do(ctx, http.MethodPost, nil, &out, "api", "protocol", "toggle"); err != nil {
		return false, err
	}
	return out["enabled"], nil
}

// MapLines returns the current attack-map lines, oldest first.
func (c *Client) MapLines(ctx context.Context) ([]sim.MapLine, error) {
	var out []sim.MapLine
	if err := c.do(ctx, http.MethodGet, nil, &out, "api", "map", "lines"); err != nil {
		return nil, err
	}
	return out, nil
}

// MapStats returns the map feed's cumulative counters.
func (c *Client) MapStats(ctx context.Context) (sim.MapStats, error) {
	var out sim.MapStats
	if err := c.do(ctx, http.MethodGet, nil, &out, "api", "map", "stats"); err != nil {
		return sim.MapStats{}, err
	}
	return out, nil
}

// DemoDevices returns the canned demo device list. The demo backend is
// independent of the live engine.
func (c *Client) DemoDevices(ctx context.Context) ([]demo.Device, error) {
	var out []demo.Device
	if err := c.do(ctx, http.MethodGet, nil, &out, "demo", "devices"); err != nil {
		return nil, err
	}
	return out, nil
}

// DemoProtocol returns the demo protocol status with its stage list.
func (c *Client) DemoProtocol(ctx context.Context) (demo.ProtocolStatus, error) {
	var out demo.ProtocolStatus
	if err := c.do(ctx, http.MethodGet, nil, &out, "demo", "protocol"); err != nil {
		return demo.ProtocolStatus{}, err
	}
	return out, nil
}

// DemoToggleProtocol flips the demo backend's protocol boolean and
// returns the new state.
func (c *Client) DemoToggleProtocol(ctx context.Context) (bool, error) {
	var out map[string]bool
	if err := c.do(ctx, http.MethodPost, nil, &out, "demo", "protocol", "toggle"); err != nil {
		return false, err
	}
	return out["enabled"], nil
}
