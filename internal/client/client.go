// Package client is the HTTP transport for the council REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/council-console/internal/session"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
	"github.com/noah-isme/council-console/pkg/middleware/requestid"
)

const maxBodyBytes = 8 << 20

// Client calls the council API. Authenticated operations take the session explicitly.
type Client struct {
	baseURL   string
	http      *http.Client
	endpoints Endpoints
	logger    *zap.Logger
	metrics   *Metrics
}

// Option customises a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }
func WithEndpoints(e Endpoints) Option      { return func(c *Client) { c.endpoints = e } }
func WithLogger(l *zap.Logger) Option       { return func(c *Client) { c.logger = l } }
func WithMetrics(m *Metrics) Option         { return func(c *Client) { c.metrics = m } }

// New builds a client for baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		endpoints: DefaultEndpoints(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Endpoints returns the configured routes.
func (c *Client) Endpoints() Endpoints { return c.endpoints }

type call struct {
	op      string
	method  string
	path    string
	session *session.Session
	auth    bool
	body    interface{}
}

// send performs the request and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, cl call) ([]byte, error) {
	if cl.auth {
		if err := cl.session.Valid(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "please log in first")
		}
	}

	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	reqID := requestid.New()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestid.Header, reqID)
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.auth {
		req.Header.Set("Authorization", cl.session.Authorization())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(cl.op, outcomeTransport, time.Since(start))
		c.logger.Warn("council api unreachable", zap.String("operation", cl.op), zap.String("request_id", reqID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "could not reach the council API")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(cl.op, outcomeTransport, elapsed)
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to read council API response")
	}

	c.metrics.observe(cl.op, outcomeFor(resp.StatusCode), elapsed)
	fields := []zap.Field{
		zap.String("operation", cl.op),
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", elapsed),
		zap.String("request_id", reqID),
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp.StatusCode, raw)
		c.logger.Warn("council api error", append(fields, zap.String("error", apiErr.Message))...)
		return nil, apiErr
	}
	c.logger.Debug("council api call", fields...)
	return raw, nil
}

func undecodable(op string, err error) error {
	return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, fmt.Sprintf("unexpected %s response from the council API", op))
}

// IsUnauthorized reports whether err means the session was rejected.
func IsUnauthorized(err error) bool {
	return errors.Is(err, appErrors.ErrUnauthorized)
}
