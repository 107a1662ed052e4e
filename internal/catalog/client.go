// Package catalog is the HTTP client for the external metadata catalog
// service. The catalog holds the authoritative descriptive metadata for
// datasets; this client reads it, validates it, and reports preservation
// state transitions back.
package catalog

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dpres-tools/presgw/internal/config"
	"github.com/dpres-tools/presgw/internal/log"
)

// ErrNotFound means the dataset reference does not resolve in the catalog.
var ErrNotFound = errors.New("dataset not found in catalog")

// maxErrorBodyBytes caps how much of an error response body is read for
// diagnostics.
const maxErrorBodyBytes = 4 * 1024

// Client talks to the metadata catalog REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a catalog client from configuration.
func New(cfg config.CatalogConfig) *Client {
	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: log.WithComponent("catalog"),
	}
}

// GetDataset fetches a dataset record by its identifier.
func (c *Client) GetDataset(ctx context.Context, datasetID string) (*Dataset, error) {
	var ds Dataset
	if err := c.getJSON(ctx, "/datasets/"+url.PathEscape(datasetID), &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// DatasetFiles fetches the file listing attached to a dataset.
func (c *Client) DatasetFiles(ctx context.Context, datasetID string) ([]File, error) {
	var files []File
	if err := c.getJSON(ctx, "/datasets/"+url.PathEscape(datasetID)+"/files", &files); err != nil {
		return nil, err
	}
	return files, nil
}

// SetPreservationState reports a state transition back to the catalog.
func (c *Client) SetPreservationState(ctx context.Context, datasetID, state, description string) error {
	body, err := json.Marshal(map[string]string{
		"preservation_state":       state,
		"preservation_description": description,
	})
	if err != nil {
		return fmt.Errorf("marshal preservation state: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.baseURL+"/datasets/"+url.PathEscape(datasetID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("set preservation state for %s: %w", datasetID, ErrNotFound)
	case resp.StatusCode >= 300:
		return fmt.Errorf("catalog rejected state update for %s: %s", datasetID, responseExcerpt(resp))
	}

	c.logger.Debug("preservation state updated",
		"dataset_id", datasetID, "state", state)
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 300:
		return fmt.Errorf("catalog returned %d for %s: %s", resp.StatusCode, path, responseExcerpt(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode catalog response for %s: %w", path, err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func responseExcerpt(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	excerpt := strings.TrimSpace(string(body))
	if excerpt == "" {
		return resp.Status
	}
	return excerpt
}
