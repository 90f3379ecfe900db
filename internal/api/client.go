package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/ledchaser/internal/api/models"
)

// Client talks to a running daemon over its unix socket.
type Client struct {
	http *http.Client
}

// NewClient returns a client for the API listening on socket.
func NewClient(socket string) *Client {
	if socket == "" {
		socket = DefaultSocket
	}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socket)
		},
	}
	return &Client{http: &http.Client{Transport: transport, Timeout: 5 * time.Second}}
}

// Health returns the daemon health.
func (c *Client) Health(ctx context.Context) (models.HealthData, error) {
	var out models.HealthData
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &out)
	return out, err
}

// List returns every attribute of the LED group.
func (c *Client) List(ctx context.Context) (models.AttributeListData, error) {
	var out models.AttributeListData
	err := c.do(ctx, http.MethodGet, "/api/attrs", nil, &out)
	return out, err
}

// Get reads one attribute.
func (c *Client) Get(ctx context.Context, name string) (models.AttributeData, error) {
	var out models.AttributeData
	err := c.do(ctx, http.MethodGet, "/api/attrs/"+url.PathEscape(name), nil, &out)
	return out, err
}

// Set writes one attribute. A rejected value is not an error; check Applied.
func (c *Client) Set(ctx context.Context, name, value string) (models.AttributeStoreData, error) {
	var out models.AttributeStoreData
	body := map[string]string{"value": value}
	err := c.do(ctx, http.MethodPut, "/api/attrs/"+url.PathEscape(name), body, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	// host is ignored by the unix dialer
	req, err := http.NewRequestWithContext(ctx, method, "http://ledchaser"+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach ledchaser: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr huma.ErrorModel
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Detail != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Detail)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
