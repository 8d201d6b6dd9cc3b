// Package client is the CLI-side client for the multiverse control
// plane. It wraps the HTTP/JSON API so cobra subcommands stay thin.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LogEntry mirrors the wire form of a feed entry.
type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Client talks to a running multiverse server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given address ("host:port" or a
// full URL).
func NewClient(addr string) *Client {
	base := addr
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server rejected request: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	return data, nil
}

// Health checks the control plane liveness endpoint.
func (c *Client) Health() error {
	_, err := c.do(http.MethodGet, "/health", nil)
	return err
}

// CreateUniverse creates a new universe.
func (c *Client) CreateUniverse(name string) error {
	_, err := c.do(http.MethodPost, "/universes", map[string]string{"name": name})
	return err
}

// ListUniverses returns the names of all live universes.
func (c *Client) ListUniverses() ([]string, error) {
	data, err := c.do(http.MethodGet, "/universes", nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Universes []string `json:"universes"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return out.Universes, nil
}

// Resume resumes a paused universe.
func (c *Client) Resume(name string) error {
	_, err := c.do(http.MethodPost, "/universes/"+name+"/resume", nil)
	return err
}

// Pause pauses a universe's autonomous execution.
func (c *Client) Pause(name string) error {
	_, err := c.do(http.MethodPost, "/universes/"+name+"/pause", nil)
	return err
}

// Collapse shuts a universe down.
func (c *Client) Collapse(name string) error {
	_, err := c.do(http.MethodPost, "/universes/"+name+"/collapse", nil)
	return err
}

// Shatter injects damage into a universe.
func (c *Client) Shatter(name string, strength int) error {
	_, err := c.do(http.MethodPost, "/universes/"+name+"/events/shatter",
		map[string]int{"strength": strength})
	return err
}

// Heal injects a heal into a universe.
func (c *Client) Heal(name string, strength int) error {
	_, err := c.do(http.MethodPost, "/universes/"+name+"/events/heal",
		map[string]int{"strength": strength})
	return err
}

// Crash force-collapses a universe.
func (c *Client) Crash(name string) error {
	_, err := c.do(http.MethodPost, "/universes/"+name+"/events/crash", nil)
	return err
}

// RequestState asks a universe to publish a state snapshot to the feed.
func (c *Client) RequestState(name string) error {
	_, err := c.do(http.MethodGet, "/universes/"+name+"/state", nil)
	return err
}

// Logs fetches up to limit recent feed entries, oldest first. A
// non-positive limit sends no limit, so the server's default window
// applies.
func (c *Client) Logs(limit int) ([]LogEntry, error) {
	path := "/logs"
	if limit > 0 {
		path = fmt.Sprintf("/logs?limit=%d", limit)
	}
	data, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var entries []LogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return entries, nil
}
