package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/akyairhashvil/taskwatch/internal/config"
	"github.com/akyairhashvil/taskwatch/internal/models"
)

// maxErrorBody bounds how much of a non-JSON error body is quoted.
const maxErrorBody = 256

// envelope is the response wrapper used by every endpoint.
type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Client implements Service over HTTP.
type Client struct {
	base     *url.URL
	token    string
	http     *http.Client
	timeout  time.Duration
	retryCfg retry.Config
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport (tests use httptest clients).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the admin token sent in the Authorization header.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds every single request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry sets how often list reads are attempted. Mutations are never retried.
func WithRetry(attempts int, initialDelay time.Duration) Option {
	return func(c *Client) {
		c.retryCfg.MaxAttempts = attempts
		c.retryCfg.InitialDelay = initialDelay
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for server (scheme://host[:port]) and API prefix.
func New(server, prefix string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(server, "/") + "/" + strings.Trim(prefix, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server url: %q", server)
	}
	c := &Client{
		base:    base,
		http:    http.DefaultClient,
		timeout: config.RequestTimeout,
		retryCfg: retry.Config{
			MaxAttempts:   config.RetryAttempts,
			InitialDelay:  config.RetryDelay,
			BackoffPolicy: retry.BackoffExponential,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retryCfg.MaxAttempts < 1 {
		c.retryCfg.MaxAttempts = 1
	}
	return c, nil
}

// ListTasks fetches tasks of one type and doneness.
func (c *Client) ListTasks(ctx context.Context, taskType string, done models.Doneness) ([]models.Task, error) {
	op := "list " + taskType + "/" + string(done)
	path := taskPath(taskType, string(done))

	// lastErr keeps the attempt's own error so callers can still match
	// ErrUnauthorized after the retrier gives up.
	var lastErr error
	r := retry.New[*envelope[[]models.Task]](c.retryCfg)
	env, err := r.Do(ctx, func(ctx context.Context) (*envelope[[]models.Task], error) {
		var out envelope[[]models.Task]
		if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
			lastErr = err
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		if lastErr != nil {
			err = lastErr
		}
		return nil, &OpError{Op: "list", Resource: taskType + " tasks", Err: err}
	}
	if err := checkCode(op, env.Code, env.Message); err != nil {
		return nil, err
	}
	for i := range env.Data {
		if env.Data[i].Type == "" {
			env.Data[i].Type = taskType
		}
	}
	return env.Data, nil
}

// ClearDone removes all finished tasks of a type.
func (c *Client) ClearDone(ctx context.Context, taskType string) error {
	var out envelope[json.RawMessage]
	if err := c.do(ctx, http.MethodPost, taskPath(taskType, "clear_done"), nil, nil, &out); err != nil {
		return &OpError{Op: "clear", Resource: taskType + " tasks", Err: err}
	}
	return checkCode("clear "+taskType, out.Code, out.Message)
}

// DeleteTask removes one task by id.
func (c *Client) DeleteTask(ctx context.Context, taskType string, id int64) error {
	q := url.Values{"tid": []string{strconv.FormatInt(id, 10)}}
	var out envelope[json.RawMessage]
	if err := c.do(ctx, http.MethodPost, taskPath(taskType, "delete"), q, nil, &out); err != nil {
		return &OpError{Op: "delete", Resource: taskType + " task", ID: id, Err: err}
	}
	return checkCode(fmt.Sprintf("delete %s task %d", taskType, id), out.Code, out.Message)
}

// Copy submits a file-copy job.
func (c *Client) Copy(ctx context.Context, req models.CopyRequest) error {
	var out envelope[json.RawMessage]
	if err := c.do(ctx, http.MethodPost, config.CopyPath, nil, req, &out); err != nil {
		return &OpError{Op: "copy", Resource: req.SrcDir, Err: err}
	}
	return checkCode("copy "+req.SrcDir, out.Code, out.Message)
}

func taskPath(taskType, action string) string {
	return config.TaskPath + "/" + url.PathEscape(taskType) + "/" + url.PathEscape(action)
}

func checkCode(op string, code int, message string) error {
	if code == config.SuccessCode {
		return nil
	}
	return &APIError{Op: op, Code: code, Message: message}
}

// do performs one request and decodes the envelope into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(config.AuthHeaderKey, c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapTransport(err)
	}
	defer resp.Body.Close()
	c.logger.Debug("task api request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("http %d: %s", resp.StatusCode, snippet(data))
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func wrapTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
