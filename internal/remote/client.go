package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/shiftbook/internal/config"
)

// TokenSource supplies the signed-in user's access token. An empty token
// falls back to the anon key.
type TokenSource interface {
	AccessToken() string
}

// Client talks to a hosted PostgREST + GoTrue backend.
type Client struct {
	cfg      config.RemoteConfig
	http     *http.Client
	tokens   TokenSource
	observer Observer
	// backoff is the wait before the first retry; it doubles per attempt.
	backoff time.Duration
}

// DefaultRetryBackoff is the delay before the first read retry.
const DefaultRetryBackoff = 250 * time.Millisecond

func NewClient(cfg config.RemoteConfig, tokens TokenSource, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		tokens:   tokens,
		observer: observer,
		backoff:  DefaultRetryBackoff,
	}
}

// SetTokenSource attaches the session after construction; the session and
// its auth backend share one client.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	prefer string
	// token overrides the TokenSource, for auth calls made before a session exists.
	token string
}

// do sends req and decodes a 2xx body into out (when non-nil). Only GET
// requests are retried; writes are attempted once.
func (c *Client) do(ctx context.Context, req request, out any) error {
	start := time.Now()

	if c.cfg.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout())
		defer cancel()
	}

	var payload []byte
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		payload = data
	}

	attempts := 1
	if req.method == http.MethodGet {
		attempts += c.cfg.MaxRetries
	}

	var (
		lastErr error
		status  int
		tried   int
	)
	for tried < attempts {
		tried++
		status, lastErr = c.send(ctx, req, payload, out)
		if lastErr == nil {
			c.observer.OnCallComplete(CallEvent{
				Method:    req.method,
				Path:      req.path,
				Status:    status,
				Attempts:  tried,
				LatencyMs: time.Since(start).Milliseconds(),
				Success:   true,
			})
			return nil
		}
		// Don't retry on context cancellation/timeout or client errors.
		if ctx.Err() != nil || !retryable(lastErr) || tried >= attempts {
			break
		}
		if !sleepCtx(ctx, c.backoff<<(tried-1)) {
			break
		}
	}

	err := c.classify(ctx, lastErr, tried)
	c.observer.OnCallComplete(CallEvent{
		Method:    req.method,
		Path:      req.path,
		Status:    status,
		Attempts:  tried,
		LatencyMs: time.Since(start).Milliseconds(),
		ErrorCode: errorCode(err),
	})
	return err
}

// sleepCtx waits for d and reports false if ctx ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Client) send(ctx context.Context, req request, payload []byte, out any) (int, error) {
	u := c.cfg.URL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	token := req.token
	if token == "" && c.tokens != nil {
		token = c.tokens.AccessToken()
	}
	if token == "" {
		token = c.cfg.AnonKey
	}
	httpReq.Header.Set("apikey", c.cfg.AnonKey)
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.prefer != "" {
		httpReq.Header.Set("Prefer", req.prefer)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return httpResp.StatusCode, decodeAPIError(httpResp.StatusCode, respBody)
	}

	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return httpResp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return httpResp.StatusCode, nil
}

func (c *Client) classify(ctx context.Context, err error, tried int) error {
	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if tried > 1 {
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
	return err
}

// errorBody covers both PostgREST ({code, message, details, hint}) and
// GoTrue ({error, error_description} or {code, error_code, msg}) shapes.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	Message          string          `json:"message"`
	Details          string          `json:"details"`
	Hint             string          `json:"hint"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}

	var code string
	if err := json.Unmarshal(eb.Code, &code); err == nil {
		apiErr.Code = code
	}
	switch {
	case eb.ErrorCode != "":
		apiErr.Code = eb.ErrorCode
	case apiErr.Code == "" && eb.Error != "":
		apiErr.Code = eb.Error
	}

	for _, m := range []string{eb.Message, eb.Msg, eb.ErrorDescription, eb.Error, http.StatusText(status)} {
		if m != "" {
			apiErr.Message = m
			break
		}
	}
	apiErr.Details = eb.Details
	apiErr.Hint = eb.Hint
	return apiErr
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.As(err, &apiErr):
		if apiErr.Code != "" {
			return apiErr.Code
		}
		return fmt.Sprintf("HTTP_%d", apiErr.Status)
	default:
		return "UNKNOWN"
	}
}

// eq builds a PostgREST equality filter value.
func eq(v string) string {
	return "eq." + v
}

// Close releases idle keep-alive connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
