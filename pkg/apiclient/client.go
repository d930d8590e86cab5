// Package apiclient is the single gateway to the HR API: it resolves paths
// against the configured base URL, attaches the session token, and turns
// every failure into a structured *Error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hr-console/pkg/composables"
	"github.com/iota-uz/hr-console/pkg/metrics"
)

// TokenSource supplies the bearer token and is told when the API rejected it.
type TokenSource interface {
	Token() string
	Expire(ctx context.Context) error
}

type Client struct {
	baseURL         *url.URL
	httpClient      *http.Client
	tokens          TokenSource
	log             *logrus.Logger
	requestIDHeader string
	metrics         *metrics.APIMetrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithRequestIDHeader(header string) Option {
	return func(c *Client) { c.requestIDHeader = header }
}

func WithMetrics(m *metrics.APIMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTimeout sets a client-wide timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid base url: %q", baseURL)
	}
	c := &Client{
		baseURL:         u,
		httpClient:      &http.Client{},
		log:             logrus.StandardLogger(),
		requestIDHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	} else {
		u.RawQuery = ""
	}
	return u.String()
}

// Do sends one JSON request and decodes a success body into out. There are
// no retries. A 401 expires the session before Do returns, whatever the
// caller then does with the error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, reqBody, out any) error {
	resource := resourceLabel(path)
	requestID := uuid.NewString()
	logger := composables.LoggerOr(ctx, c.log).WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})
	start := time.Now()
	outcome := metrics.OutcomeOK
	defer func() {
		c.metrics.Observe(resource, method, outcome, time.Since(start))
	}()

	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			outcome = metrics.OutcomeTransport
			return errors.Wrap(err, "json marshal request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, query), body)
	if err != nil {
		outcome = metrics.OutcomeTransport
		return newTransportError(err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.requestIDHeader != "" {
		req.Header.Set(c.requestIDHeader, requestID)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = metrics.OutcomeTransport
		logger.WithError(err).Warn("api request failed")
		return newTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = metrics.OutcomeTransport
		return newTransportError(errors.Wrap(err, "read response"))
	}
	logger = logger.WithField("status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		outcome = metrics.OutcomeUnauthorized
		logger.Warn("api rejected session token")
		if c.tokens != nil {
			if err := c.tokens.Expire(ctx); err != nil {
				logger.WithError(err).Error("failed to expire session")
			}
		}
		return newResponseError(ErrUnauthorized, resp.StatusCode, respBody)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		if resp.StatusCode >= 500 {
			outcome = metrics.OutcomeServerError
		} else {
			outcome = metrics.OutcomeClientError
		}
		logger.Debug("api returned error status")
		return newResponseError(ErrStatus, resp.StatusCode, respBody)
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	var flag struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(respBody, &flag); err == nil && flag.Success != nil && !*flag.Success {
		outcome = metrics.OutcomeUnsuccessful
		logger.Debug("api returned success:false")
		return newResponseError(ErrUnsuccessful, resp.StatusCode, respBody)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		outcome = metrics.OutcomeTransport
		return newTransportError(errors.Wrap(err, "json unmarshal response"))
	}
	return nil
}

func resourceLabel(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}
