package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	apperrors "tratador/pkg/errors"
)

// RetryPolicy bounds how often a request is repeated after a throttled or
// unavailable response. MaxTries counts the first attempt.
type RetryPolicy struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
}

var DefaultRetryPolicy = RetryPolicy{
	MaxTries:        3,
	InitialInterval: 500 * time.Millisecond,
	MaxElapsedTime:  30 * time.Second,
}

type HttpClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Retry      RetryPolicy
}

func NewHttpClient(baseURL string) *HttpClient {
	return &HttpClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		Retry: DefaultRetryPolicy,
	}
}

type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

// Err turns a non-2xx response into the server's AppError. Bodies that are
// not a JSON error envelope keep the raw text as the message.
func (r *Response) Err() error {
	if r.StatusCode < 300 {
		return nil
	}

	var body apperrors.ErrorResponse
	if err := r.DecodeJSON(&body); err != nil || body.Code == "" {
		return apperrors.New(apperrors.CodeInternal, string(r.Body), r.StatusCode)
	}
	return apperrors.New(body.Code, body.Message, r.StatusCode).WithDetails(body.Details)
}

func (c *HttpClient) GET(ctx context.Context, path string) (*Response, error) {
	return c.doWithRetry(ctx, http.MethodGet, path, nil, nil)
}

func (c *HttpClient) POST(ctx context.Context, path string, body []byte, headers map[string]string) (*Response, error) {
	return c.doWithRetry(ctx, http.MethodPost, path, body, headers)
}

// doWithRetry repeats the request on transport errors and on 429/502/503/504.
// Any other response is returned as is for the caller to inspect.
func (c *HttpClient) doWithRetry(ctx context.Context, method, path string, body []byte, headers map[string]string) (*Response, error) {
	exp := backoff.NewExponentialBackOff()
	if c.Retry.InitialInterval > 0 {
		exp.InitialInterval = c.Retry.InitialInterval
	}

	op := func() (*Response, error) {
		var reqBody io.Reader
		if body != nil {
			reqBody = bytes.NewReader(body)
		}
		resp, err := c.do(ctx, method, path, reqBody, headers)
		if err != nil {
			return nil, err
		}
		if isRetryable(resp.StatusCode) {
			return nil, resp.Err()
		}
		return resp, nil
	}

	resp, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(exp),
		backoff.WithMaxTries(max(c.Retry.MaxTries, 1)),
		backoff.WithMaxElapsedTime(c.Retry.MaxElapsedTime),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return nil, permanent.Err
		}
		return nil, err
	}
	return resp, nil
}

func isRetryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func (c *HttpClient) do(ctx context.Context, method, path string, reqBody io.Reader, headers map[string]string) (*Response, error) {
	url := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		Response: resp,
		Body:     respBody,
	}, nil
}
