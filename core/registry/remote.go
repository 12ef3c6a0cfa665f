package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"petrasense/auth"
	"petrasense/core/logger"
)

// Config configures access to the remote model registry service.
// An empty URL disables remote resolution entirely.
type Config struct {
	URL            string    `json:"url"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	Product        string    `json:"product"`
	Auth           auth.Conf `json:"auth"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 5
	}
	if c.Product == "" {
		c.Product = "PetraSense"
	}
}

// Version is one registered model version. The production alias marks
// the sanctioned deployable version.
type Version struct {
	Version int    `json:"version"`
	Alias   string `json:"alias,omitempty"`
}

// RegisteredModel lists a model and its known versions.
type RegisteredModel struct {
	Name     string    `json:"name"`
	Versions []Version `json:"versions"`
}

// Client talks to the registry's HTTP API. Requests carry a bounded
// timeout so a hanging registry cannot stall lazy loads.
type Client struct {
	base  string
	http  *http.Client
	creds *auth.ClientCred
	log   logger.Logger
}

// NewClient builds a registry client from configuration.
func NewClient(cfg Config, log logger.Logger) *Client {
	c := &Client{
		base: cfg.URL,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  log,
	}
	if cfg.Auth.Enabled() {
		c.creds = auth.NewClientCred(cfg.Auth)
	}
	return c
}

func (c *Client) authorize(req *http.Request) error {
	if c.creds == nil {
		return nil
	}
	return c.creds.SetAuthHeader(req)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	if err := c.authorize(req); err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry: %s returned %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Versions lists the registered versions of a model name. A missing
// model yields an empty slice, not an error.
func (c *Client) Versions(ctx context.Context, name string) ([]Version, error) {
	var out []Version
	path := fmt.Sprintf("/api/models/%s/versions", url.PathEscape(name))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Artifact downloads the checkpoint artifact of a model version.
func (c *Client) Artifact(ctx context.Context, name string, version int) ([]byte, error) {
	path := fmt.Sprintf("/api/models/%s/versions/%d/artifact", url.PathEscape(name), version)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(req); err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry: %s returned %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Models lists every registered model with its versions.
func (c *Client) Models(ctx context.Context) ([]RegisteredModel, error) {
	var out []RegisteredModel
	if err := c.get(ctx, "/api/models", &out); err != nil {
		return nil, err
	}
	return out, nil
}
