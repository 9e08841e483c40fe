// Package client is a Go client for the contact processing API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
)

type Client struct {
	http *HttpClient
}

func NewClient(baseURL string) *Client {
	return &Client{http: NewHttpClient(baseURL)}
}

// WithRetry replaces the retry policy. A policy with MaxTries 1 disables retries.
func (c *Client) WithRetry(p RetryPolicy) *Client {
	c.http.Retry = p
	return c
}

// WithHTTPClient swaps the underlying transport, e.g. for custom timeouts.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http.HTTPClient = hc
	return c
}

type ProcessOptions struct {
	Label     string
	GroupSize int
	WarmUp    bool
}

type ProcessResult struct {
	Filename      string
	ContentType   string
	Data          []byte
	RequestID     string
	RowsIn        int
	RowsOut       int
	Duplicates    int
	InvalidPhones int
	Groups        int
}

// Process uploads a spreadsheet and returns the processed file. Server-side
// failures come back as *errors.AppError carrying the server's code.
func (c *Client) Process(ctx context.Context, filename string, file io.Reader, opts ProcessOptions) (*ProcessResult, error) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	fields := map[string]string{
		"etiqueta_nome": opts.Label,
		"aquecimento":   strconv.FormatBool(opts.WarmUp),
	}
	if !opts.WarmUp || opts.GroupSize > 0 {
		fields["num_grupos"] = strconv.Itoa(opts.GroupSize)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	resp, err := c.http.POST(ctx, "/process", body.Bytes(), map[string]string{
		"Content-Type": mw.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	return &ProcessResult{
		Filename:      attachmentName(resp.Header.Get("Content-Disposition")),
		ContentType:   resp.Header.Get("Content-Type"),
		Data:          resp.Body,
		RequestID:     resp.Header.Get("X-Request-ID"),
		RowsIn:        headerInt(resp.Header, "X-Rows-In"),
		RowsOut:       headerInt(resp.Header, "X-Rows-Out"),
		Duplicates:    headerInt(resp.Header, "X-Duplicates-Removed"),
		InvalidPhones: headerInt(resp.Header, "X-Invalid-Phones"),
		Groups:        headerInt(resp.Header, "X-Groups"),
	}, nil
}

func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.GET(ctx, "/health")
	if err != nil {
		return err
	}
	return resp.Err()
}

func (c *Client) Ready(ctx context.Context) error {
	resp, err := c.http.GET(ctx, "/ready")
	if err != nil {
		return err
	}
	return resp.Err()
}

func attachmentName(header string) string {
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func headerInt(h http.Header, key string) int {
	n, _ := strconv.Atoi(h.Get(key))
	return n
}
