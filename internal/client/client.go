// Package client talks to the game server's HTTP endpoints. A *Client
// satisfies runner.Backend, so the same game loop plays against a remote
// server or an in-process one.
//
//	c := client.New(client.Config{BaseURL: "http://localhost:8000"})
//	v, err := c.Speed(ctx)
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vovakirdan/jumpgame/internal/assets"
	"github.com/vovakirdan/jumpgame/internal/storage"
)

// SessionHeader carries the session id of a report.
const SessionHeader = "X-Session-ID"

// Config holds client configuration.
type Config struct {
	// BaseURL is the server root, e.g. "http://localhost:8000".
	BaseURL string

	// HTTPClient allows injecting a custom client. Defaults to a 5s timeout.
	HTTPClient *http.Client
}

// Client is a game server client.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for cfg.BaseURL. A bare host gets an http:// scheme.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{base: base, http: hc}
}

// BaseURL returns the normalized server root.
func (c *Client) BaseURL() string {
	return c.base
}

// Pairing calls GET /getImages.
func (c *Client) Pairing(ctx context.Context) (assets.Pairing, error) {
	body, err := c.get(ctx, "/getImages")
	if err != nil {
		return assets.Pairing{}, err
	}
	var p assets.Pairing
	if err := json.Unmarshal(body, &p); err != nil {
		return assets.Pairing{}, networkErr("decode pairing", err)
	}
	return p, nil
}

// Speed calls GET /speed.
func (c *Client) Speed(ctx context.Context) (float64, error) {
	body, err := c.get(ctx, "/speed")
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(body)), 64)
	if err != nil {
		return 0, networkErr("parse speed", err)
	}
	return v, nil
}

// Report calls GET /record/{seconds} and returns the updated best.
func (c *Client) Report(ctx context.Context, seconds int) (int, error) {
	return c.getInt(ctx, "/record/"+strconv.Itoa(seconds))
}

// Best calls GET /record.
func (c *Client) Best(ctx context.Context) (int, error) {
	return c.getInt(ctx, "/record")
}

func (c *Client) getInt(ctx context.Context, path string) (int, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil {
		return 0, networkErr("parse record", err)
	}
	return n, nil
}

// Every response is a short number or a two-field JSON object.
const maxBodySize = 4 << 10

// get sends one GET request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := fmt.Sprintf("%s%s", c.base, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}
	if id := storage.SessionIDFrom(ctx); id != "" {
		req.Header.Set(SessionHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, networkErr("http request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, networkErr("read response", err)
	}
	if len(body) > maxBodySize {
		return nil, networkErr("read response", fmt.Errorf("body exceeds %d bytes", maxBodySize))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
