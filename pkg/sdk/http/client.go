package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	DefaultTimeout = 30 * time.Second

	// Mirrors a desktop Chrome build; the import endpoints reject default agents.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/88.0.4324.152 Safari/537.36"

	formContentType = "application/x-www-form-urlencoded"
	maxErrorBody    = 512
)

// Client is a thin resty wrapper. It never retries: callers own the pacing
// of every request.
type Client struct {
	client *resty.Client
}

// NewClient builds a client on top of a shallow copy of hc (a fresh
// *http.Client when nil). hc itself is left untouched; its Transport, and
// so its connection pool, is shared.
func NewClient(hc *http.Client, timeout time.Duration) *Client {
	own := &http.Client{}
	if hc != nil {
		copied := *hc
		own = &copied
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.NewWithClient(own).
		SetTimeout(timeout).
		SetRetryCount(0)

	return &Client{client: client}
}

func (c *Client) newRequest(ctx context.Context, headers map[string]string) *resty.Request {
	r := c.client.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	r.SetHeader("Accept", "application/json")
	for k, v := range headers {
		r.SetHeader(k, v)
	}
	return r
}

// PostForm sends body verbatim as a form-encoded POST and returns the fully
// buffered response body. The body is never re-encoded, so a signature
// computed over it stays valid on the wire.
func (c *Client) PostForm(ctx context.Context, url string, headers map[string]string, body []byte) ([]byte, error) {
	resp, err := c.newRequest(ctx, headers).
		SetHeader("Content-Type", formContentType).
		SetBody(body).
		Post(url)
	if err := checkResponse(http.MethodPost, url, resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Get issues a GET and discards the response body.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) error {
	resp, err := c.newRequest(ctx, headers).Get(url)
	return checkResponse(http.MethodGet, url, resp, err)
}

func checkResponse(method, url string, resp *resty.Response, err error) error {
	if err != nil {
		return &TransportError{
			Method: method,
			URL:    url,
			Err:    errors.Wrapf(err, "%s %s", method, url),
		}
	}
	if resp.IsSuccess() {
		return nil
	}
	body := strings.TrimSpace(string(resp.Body()))
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &TransportError{
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       body,
	}
}

// TransportError reports a request that failed on the network or came back
// with a non-2xx status. StatusCode is zero for network failures.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %v", e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("transport: %s %s: http %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("transport: %s %s: http %d", e.Method, e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
