package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostFormSendsBodyVerbatim(t *testing.T) {
	var gotBody []byte
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeader = r.Header.Clone()
		_, _ = w.Write([]byte(`{"success":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), 0)
	body := []byte("method=getTrades&nonce=1&order=ASC")

	resp, err := c.PostForm(context.Background(), srv.URL, map[string]string{"Key": "k", "Sign": "s"}, body)
	require.NoError(t, err)

	assert.Equal(t, `{"success":1}`, string(resp))
	assert.Equal(t, body, gotBody)
	assert.Equal(t, "application/x-www-form-urlencoded", gotHeader.Get("Content-Type"))
	assert.Equal(t, "k", gotHeader.Get("Key"))
	assert.Equal(t, "s", gotHeader.Get("Sign"))
}

func TestPostFormNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(nil, 0)
	resp, err := c.PostForm(context.Background(), srv.URL, nil, []byte("a=b"))
	require.Error(t, err)
	assert.Nil(t, resp)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusTooManyRequests, te.StatusCode)
	assert.Equal(t, "slow down", te.Body)
}

func TestPostFormNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(nil, 0)
	_, err := c.PostForm(context.Background(), url, nil, []byte("a=b"))

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.StatusCode)
	assert.NotNil(t, te.Unwrap())
}

func TestImportTrigger(t *testing.T) {
	var gotPath, gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAgent = r.UserAgent()
		_, _ = w.Write([]byte("<html>ignored</html>"))
	}))
	defer srv.Close()

	trigger := NewImportTrigger(NewClient(nil, 0), srv.URL+"/import/", "")

	require.NoError(t, trigger.Trigger(context.Background(), "bittrex_api", 25297))
	assert.Equal(t, "/import/bittrex_api/check.php", gotPath)
	assert.Equal(t, "j=25297&check=check", gotQuery)
	assert.Equal(t, BrowserUserAgent, gotAgent)
}

func TestImportTriggerURL(t *testing.T) {
	trigger := NewImportTrigger(NewClient(nil, 0), "", "agent")
	assert.Equal(t,
		"https://cointracking.info/import/kraken_api/check.php?j=7&check=check",
		trigger.URL("/kraken_api/", 7))
}

func TestImportTriggerMultiSegmentPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
	}))
	defer srv.Close()

	trigger := NewImportTrigger(NewClient(nil, 0), srv.URL, "")
	assert.Equal(t,
		srv.URL+"/exchange/kraken/check.php?j=3&check=check",
		trigger.URL("exchange//kraken/", 3))
	assert.Equal(t,
		srv.URL+"/my%20api/x%3Fy/check.php?j=3&check=check",
		trigger.URL("my api/x?y", 3))

	require.NoError(t, trigger.Trigger(context.Background(), "exchange/kraken", 3))
	assert.Equal(t, "/exchange/kraken/check.php", gotPath)
}

func TestImportTriggerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	trigger := NewImportTrigger(NewClient(nil, 0), srv.URL, "")
	err := trigger.Trigger(context.Background(), "x", 1)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
}

func TestNewClientLeavesSharedClientUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	hc := srv.Client()
	hc.Timeout = 2 * time.Minute
	transport := hc.Transport

	api := NewClient(hc, 3*time.Second)
	trigger := NewClient(hc, 0)

	assert.Equal(t, 2*time.Minute, hc.Timeout)
	assert.Same(t, transport, hc.Transport)

	_, err := api.PostForm(context.Background(), srv.URL, nil, []byte("a=b"))
	require.NoError(t, err)
	require.NoError(t, trigger.Get(context.Background(), srv.URL, nil))
	assert.Equal(t, 2*time.Minute, hc.Timeout)

	bare := &http.Client{}
	NewClient(bare, time.Second)
	assert.Nil(t, bare.Transport)
	assert.Zero(t, bare.Timeout)
}
