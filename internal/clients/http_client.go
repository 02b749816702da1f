package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "emascan/1.0"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// HTTPClient performs single-shot JSON requests over fasthttp.
type HTTPClient struct {
	client  *fasthttp.Client
	timeout time.Duration
}

// HTTPOption configures HTTPClient.
type HTTPOption func(*HTTPClient)

// WithFastHTTPClient replaces the underlying fasthttp client.
func WithFastHTTPClient(c *fasthttp.Client) HTTPOption {
	return func(h *HTTPClient) {
		h.client = c
	}
}

// NewHTTPClient creates a client whose requests are bounded by timeout.
func NewHTTPClient(timeout time.Duration, opts ...HTTPOption) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	h := &HTTPClient{
		client: &fasthttp.Client{
			Name: defaultUserAgent,
			// failed calls are reported to the caller, never replayed
			MaxIdemponentCallAttempts: 1,
		},
		timeout: timeout,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Get sends a GET request with the given query parameters and returns the response body.
func (h *HTTPClient) Get(ctx context.Context, uri string, query map[string]string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	args := req.URI().QueryArgs()
	for k, v := range query {
		args.Set(k, v)
	}

	return h.do(ctx, req)
}

// PostJSON sends payload as a JSON body and returns the response body.
func (h *HTTPClient) PostJSON(ctx context.Context, uri string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	return h.do(ctx, req)
}

func (h *HTTPClient) do(ctx context.Context, req *fasthttp.Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	timeout := h.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := h.client.DoTimeout(req, resp, timeout); err != nil {
		return nil, errors.Wrapf(err, "%s %s failed", req.Header.Method(), req.URI().Path())
	}

	// resp is returned to the pool, copy the body out
	body := append([]byte(nil), resp.Body()...)

	if code := resp.StatusCode(); code < fasthttp.StatusOK || code >= fasthttp.StatusMultipleChoices {
		return body, &StatusError{Code: code, Body: string(body)}
	}

	return body, nil
}
