// Package client talks to the project-enquiries REST backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/runnerr0/enquiry-desk/internal/config"
	"github.com/runnerr0/enquiry-desk/internal/enquiry"
)

var (
	// ErrUnauthorized is returned when no token is configured or the backend
	// rejects the one sent.
	ErrUnauthorized = errors.New("unauthorized: no valid API token")
	// ErrNotFound is returned when the backend has no enquiry with the given ID.
	ErrNotFound = errors.New("enquiry not found")
)

// APIError is a non-2xx response or a success:false envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Envelope is the response body every backend route returns.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Stats   *enquiry.Stats  `json:"stats,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ListResult is one fetch of the collection.
type ListResult struct {
	Leads []enquiry.Lead
	// Stats is nil when the backend sent none.
	Stats *enquiry.Stats
}

// Client wraps the backend's enquiry routes.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *logrus.Logger
}

// New constructs a client for the configured backend.
func New(cfg config.APIConfig, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

// WithHTTPClient swaps the transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// List fetches every enquiry, or only those in one status when filter
// selects one.
func (c *Client) List(ctx context.Context, filter enquiry.StatusFilter) (*ListResult, error) {
	endpoint := c.resolvePath("/project-enquiries/all")
	if !filter.IsAll() {
		endpoint += "?" + url.Values{"status": {filter.Wire()}}.Encode()
	}

	env, err := c.do(ctx, http.MethodGet, endpoint, nil, true)
	if err != nil {
		return nil, err
	}

	res := &ListResult{Leads: []enquiry.Lead{}, Stats: env.Stats}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		var items []json.RawMessage
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return nil, fmt.Errorf("decode enquiries: %w", err)
		}
		for i, item := range items {
			var lead enquiry.Lead
			if err := json.Unmarshal(item, &lead); err != nil {
				// Unknown stages are skipped, not fatal.
				if errors.Is(err, enquiry.ErrInvalidStatus) {
					c.log.WithError(err).WithField("index", i).Warn("skipping enquiry with unknown status")
					continue
				}
				return nil, fmt.Errorf("decode enquiry %d: %w", i, err)
			}
			res.Leads = append(res.Leads, lead)
		}
	}

	c.log.WithFields(logrus.Fields{
		"filter": string(filter),
		"count":  len(res.Leads),
	}).Debug("fetched enquiries")

	return res, nil
}

// UpdateStatus moves one enquiry to a new stage.
func (c *Client) UpdateStatus(ctx context.Context, id string, status enquiry.Status) error {
	if id == "" {
		return fmt.Errorf("update status: empty id")
	}
	payload := map[string]string{"status": status.Wire()}
	_, err := c.do(ctx, http.MethodPut, c.resolvePath("/project-enquiries/"+url.PathEscape(id)), payload, true)
	if err != nil {
		return fmt.Errorf("update status of %s: %w", id, err)
	}
	c.log.WithFields(logrus.Fields{"id": id, "status": string(status)}).Info("status updated")
	return nil
}

// Delete removes one enquiry.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete: empty id")
	}
	_, err := c.do(ctx, http.MethodDelete, c.resolvePath("/project-enquiries/"+url.PathEscape(id)), nil, true)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	c.log.WithField("id", id).Info("enquiry deleted")
	return nil
}

// Submit posts the landing-page form. It needs no token.
func (c *Client) Submit(ctx context.Context, sub enquiry.Submission) (*enquiry.Lead, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	env, err := c.do(ctx, http.MethodPost, c.resolvePath("/project-enquiries"), sub, false)
	if err != nil {
		return nil, fmt.Errorf("submit enquiry: %w", err)
	}

	var lead enquiry.Lead
	if err := json.Unmarshal(env.Data, &lead); err != nil {
		return nil, fmt.Errorf("decode submitted enquiry: %w", err)
	}
	return &lead, nil
}

func (c *Client) resolvePath(p string) string {
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + cleaned
	}
	u.Path = path.Join(u.Path, cleaned)
	return u.String()
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any, auth bool) (*Envelope, error) {
	if auth && c.token == "" {
		return nil, ErrUnauthorized
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"url":      endpoint,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("backend request")

	var env Envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	if !env.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}
