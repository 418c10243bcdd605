package cointracking

import (
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	paramMethod = "method"
	paramNonce  = "nonce"
)

// nonceSource hands out millisecond timestamps that strictly increase even
// when the clock has not advanced since the previous request.
type nonceSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func newNonceSource(now func() time.Time) *nonceSource {
	if now == nil {
		now = time.Now
	}
	return &nonceSource{now: now}
}

func (n *nonceSource) Next() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	ms := n.now().UnixMilli()
	if ms <= n.last {
		ms = n.last + 1
	}
	n.last = ms
	return ms
}

// buildRequest form-encodes params together with method and nonce. params is
// not modified; caller-supplied method or nonce keys are overwritten.
func buildRequest(method Method, params url.Values, nonce int64) []byte {
	values := make(url.Values, len(params)+2)
	for k, v := range params {
		values[k] = append([]string(nil), v...)
	}
	values.Set(paramMethod, method.String())
	values.Set(paramNonce, strconv.FormatInt(nonce, 10))
	return []byte(values.Encode())
}
