package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	v1 "github.com/kubev2v/taskpool/api/v1"
	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
)

const apiPrefix = "/api/v1"

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(c *Client)

// WithToken sends token as a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("failed to initialize taskpool client: invalid url %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// GetPool returns the pool status.
// GET /api/v1/pool
func (c *Client) GetPool(ctx context.Context) (*v1.PoolStatus, error) {
	var status v1.PoolStatus
	if err := c.do(ctx, http.MethodGet, "/pool", nil, &status, http.StatusOK); err != nil {
		return nil, err
	}
	return &status, nil
}

// ResizePool applies new bounds.
// PUT /api/v1/pool
func (c *Client) ResizePool(ctx context.Context, req v1.ResizeRequest) (*v1.PoolStatus, error) {
	var status v1.PoolStatus
	if err := c.do(ctx, http.MethodPut, "/pool", req, &status, http.StatusOK); err != nil {
		return nil, err
	}
	return &status, nil
}

// SubmitTask queues a task without waiting for it.
// POST /api/v1/tasks
func (c *Client) SubmitTask(ctx context.Context, req v1.TaskRequest) (*v1.TaskAccepted, error) {
	var accepted v1.TaskAccepted
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &accepted, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &accepted, nil
}

// RunTask submits a task and waits for its result.
// POST /api/v1/tasks?wait=true
func (c *Client) RunTask(ctx context.Context, req v1.TaskRequest) (*v1.TaskResult, error) {
	var result v1.TaskResult
	if err := c.do(ctx, http.MethodPost, "/tasks?wait=true", req, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTask returns the live state or the recorded outcome of a task.
// GET /api/v1/tasks/{id}
func (c *Client) GetTask(ctx context.Context, id string) (*v1.TaskStatus, error) {
	var status v1.TaskStatus
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &status, http.StatusOK); err != nil {
		if srvErrors.IsResourceNotFoundError(err) {
			return nil, srvErrors.NewTaskNotFoundError(id)
		}
		return nil, err
	}
	return &status, nil
}

// CancelTask cancels a pending task.
// DELETE /api/v1/tasks/{id}
func (c *Client) CancelTask(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
	if srvErrors.IsResourceNotFoundError(err) {
		return srvErrors.NewTaskNotFoundError(id)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, expected int) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	zap.S().Named("client").Debugw("request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return srvErrors.NewUnauthorizedError()
	case http.StatusNotFound:
		return srvErrors.NewResourceNotFoundError("resource", "")
	case http.StatusBadRequest:
		return srvErrors.NewInvalidArgumentError("request", msg)
	default:
		return fmt.Errorf("request failed: %s: %s", resp.Status, msg)
	}
}
