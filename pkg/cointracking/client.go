package cointracking

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pyronexus/cointracking/pkg/logger"
	"github.com/pyronexus/cointracking/pkg/ratelimit"
	sdkhttp "github.com/pyronexus/cointracking/pkg/sdk/http"
)

const DefaultBaseURL = "https://cointracking.info/api/v1/"

// Client signs and sends requests to the CoinTracking API. Authenticated
// calls are serialized: the API rejects nonces that do not increase, so a
// Client never has more than one call in flight.
type Client struct {
	key       string
	secret    string
	endpoint  string
	transport *sdkhttp.Client
	pacer     *ratelimit.Pacer
	log       logrus.FieldLogger
	strict    bool
	nonces    *nonceSource

	mu sync.Mutex
}

type options struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	log         logrus.FieldLogger
	minInterval time.Duration
	strict      bool
	now         func() time.Time
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithHTTPClient shares an existing connection pool.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the sink for server-reported errors.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

// WithMinInterval spaces consecutive calls at least d apart.
func WithMinInterval(d time.Duration) Option {
	return func(o *options) { o.minInterval = d }
}

// WithStrictEnvelope makes a success=0 response fail the call with a
// *ServerError instead of only being logged.
func WithStrictEnvelope() Option {
	return func(o *options) { o.strict = true }
}

// WithClock replaces the nonce clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New returns a client for the given API key and secret.
func New(key, secret string, opts ...Option) *Client {
	o := &options{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Component("cointracking")
	}

	return &Client{
		key:       key,
		secret:    secret,
		endpoint:  o.baseURL,
		transport: sdkhttp.NewClient(o.httpClient, o.timeout),
		pacer:     ratelimit.NewPacer(o.minInterval),
		log:       o.log,
		strict:    o.strict,
		nonces:    newNonceSource(o.now),
	}
}

// Call performs one authenticated request and maps every entity of the
// response onto T, keyed by its identifier.
//
// A response with success=0 is logged and, unless the client is strict,
// still decoded; the result is then usually empty. Transport and decode
// failures return no map at all.
func Call[T any](ctx context.Context, c *Client, method Method, params url.Values) (map[string]T, error) {
	body, err := c.post(ctx, method, params)
	if err != nil {
		return nil, err
	}
	if err := c.checkEnvelope(method, body); err != nil {
		return nil, err
	}
	return decodeEntities[T](method, body)
}

func (c *Client) post(ctx context.Context, method Method, params url.Values) ([]byte, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("cointracking: unknown method %q", method)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	body := buildRequest(method, params, c.nonces.Next())
	headers := map[string]string{
		headerKey:  c.key,
		headerSign: Sign(body, c.secret),
	}

	c.log.WithField("method", method).Debug("sending request")
	return c.transport.PostForm(ctx, c.endpoint, headers, body)
}

func (c *Client) checkEnvelope(method Method, body []byte) error {
	env, err := decodeEnvelope(method, body)
	if err != nil {
		return err
	}
	serr := env.serverError(method)
	if serr == nil {
		return nil
	}

	c.log.WithFields(logrus.Fields{
		"method": method,
		"code":   serr.Code,
	}).Errorf("%s: %s", serr.Code, serr.Message)

	if c.strict {
		return serr
	}
	return nil
}
