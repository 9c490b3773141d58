package recipebook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Resource names map one-to-one to the collection paths of the API.
type Resource string

const (
	Category Resource = "category"
	Recipe   Resource = "recipe"
)

// Response is a fully read HTTP response. Status codes are not interpreted.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) String() string {
	return string(r.Body)
}

// IsNull reports whether the body is the literal JSON null the API answers
// for a missing record.
func (r *Response) IsNull() bool {
	return strings.TrimSpace(string(r.Body)) == "null"
}

type Options struct {
	Timeout time.Duration
	// RateLimit caps requests per second. Zero disables the limiter.
	RateLimit float64
	Transport http.RoundTripper
}

type Client struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
}

func NewClient(baseURL string, opts Options) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithToken returns a copy of the client that sends the bearer token on
// every request. The underlying connection pool is shared.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Close releases idle connections held by the transport.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

func (c *Client) Login(ctx context.Context, path, email, password string) (*Response, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	return c.do(ctx, http.MethodPost, path, payload, false)
}

func (c *Client) Create(ctx context.Context, res Resource, payload any) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/"+string(res), payload, true)
}

func (c *Client) List(ctx context.Context, res Resource) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/"+string(res), nil, true)
}

func (c *Client) Get(ctx context.Context, res Resource, id string) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/"+string(res)+"/"+id, nil, true)
}

func (c *Client) Update(ctx context.Context, res Resource, id string, payload any) (*Response, error) {
	return c.do(ctx, http.MethodPut, "/"+string(res)+"/"+id, payload, true)
}

func (c *Client) Delete(ctx context.Context, res Resource, id string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, "/"+string(res)+"/"+id, nil, true)
}

func (c *Client) HealthCheck(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/health", nil, false)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, authenticated bool) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
