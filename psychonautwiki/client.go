// Package psychonautwiki queries the PsychonautWiki GraphQL API for substance records.
package psychonautwiki

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/triskis777/ketaverso-bot/interfaces"
	"github.com/triskis777/ketaverso-bot/logging"
	"github.com/triskis777/ketaverso-bot/metrics"
	"github.com/triskis777/ketaverso-bot/psychonautwiki/entities"
)

//go:embed query.graphql
var defaultQuery string

const (
	maxResponseBytes = 8 << 20
	logBodyPrefix    = 500
)

// Compile-time checks
var (
	_ interfaces.SubstanceQuerier = (*Client)(nil)
	_ interfaces.UpstreamStatus   = (*Client)(nil)
)

// Options configures a Client
type Options struct {
	Endpoint  string
	UserAgent string
	Origin    string
	Timeout   time.Duration
	// Query overrides the embedded GraphQL document when non-empty
	Query      string
	HTTPClient *http.Client
}

// Client issues the substance query. It is safe for concurrent use.
type Client struct {
	endpoint   string
	userAgent  string
	origin     string
	query      string
	httpClient *http.Client

	lastSuccess atomic.Int64
	lastFailure atomic.Int64
}

// DefaultQuery returns the embedded GraphQL document
func DefaultQuery() string {
	return defaultQuery
}

// LoadQuery reads a GraphQL document from path. An empty path yields the embedded document.
func LoadQuery(path string) (string, error) {
	if path == "" {
		return defaultQuery, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read query file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("query file %s is empty", path)
	}
	return string(data), nil
}

// NewClient creates a client from opts
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	query := opts.Query
	if query == "" {
		query = defaultQuery
	}
	return &Client{
		endpoint:   opts.Endpoint,
		userAgent:  opts.UserAgent,
		origin:     opts.Origin,
		query:      query,
		httpClient: httpClient,
	}
}

type requestBody struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type responseEnvelope struct {
	Data *struct {
		Substances []entities.Substance `json:"substances"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query sends one POST for name. Every failure matches ErrQueryFailed;
// a nil error with zero records means the knowledge base had no match.
func (c *Client) Query(ctx context.Context, name string) ([]entities.Substance, error) {
	start := time.Now()
	substances, err := c.do(ctx, name)

	result := "success"
	if err != nil {
		result = "failure"
		c.lastFailure.Store(time.Now().UnixNano())
		logging.Warn("Substance query failed", "name", name, "error", err)
	} else {
		c.lastSuccess.Store(time.Now().UnixNano())
		logging.Debug("Substance query completed", "name", name, "results", len(substances))
	}
	metrics.UpstreamQueryDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())

	return substances, err
}

func (c *Client) do(ctx context.Context, name string) ([]entities.Substance, error) {
	payload, err := json.Marshal(requestBody{
		Query:     c.query,
		Variables: map[string]any{"name": name},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %w", ErrQueryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrTransport, err)
	}
	logging.Debug("Substance query response", "status", resp.StatusCode, "body", prefix(body, logBodyPrefix))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: prefix(body, logBodyPrefix)}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrMalformedResponse
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return nil, &APIError{Messages: messages}
	}

	if envelope.Data == nil {
		return nil, ErrMissingData
	}

	if envelope.Data.Substances == nil {
		return []entities.Substance{}, nil
	}
	return envelope.Data.Substances, nil
}

// LastSuccess returns the time of the most recent successful query, or the zero time
func (c *Client) LastSuccess() time.Time {
	return unixNano(c.lastSuccess.Load())
}

// LastFailure returns the time of the most recent failed query, or the zero time
func (c *Client) LastFailure() time.Time {
	return unixNano(c.lastFailure.Load())
}

// IsQueryFailure reports whether err came from a failed query
func IsQueryFailure(err error) bool {
	return errors.Is(err, ErrQueryFailed)
}

func unixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

func prefix(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n])
}
