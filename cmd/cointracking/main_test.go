package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyronexus/cointracking/pkg/cointracking"
)

func TestParseTimeFlag(t *testing.T) {
	ts, err := parseTimeFlag("")
	require.NoError(t, err)
	assert.Zero(t, ts)

	ts, err = parseTimeFlag("1514764800")
	require.NoError(t, err)
	assert.Equal(t, int64(1514764800), ts)

	ts, err = parseTimeFlag("2018-01-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1514764800), ts)

	ts, err = parseTimeFlag("2018-01-01T01:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, int64(1514768400), ts)

	_, err = parseTimeFlag("yesterday")
	assert.Error(t, err)
}

func decodeTrades(t *testing.T, body string) map[string]cointracking.Trade {
	t.Helper()
	var trades map[string]cointracking.Trade
	require.NoError(t, json.Unmarshal([]byte(body), &trades))
	return trades
}

func TestNetPositions(t *testing.T) {
	trades := decodeTrades(t, `{
		"1": {"buy_amount":"1","buy_currency":"BTC","sell_amount":"10000","sell_currency":"EUR","fee_amount":"0.001","fee_currency":"BTC","time":"100"},
		"2": {"buy_amount":"5000","buy_currency":"EUR","sell_amount":"0.5","sell_currency":"BTC","fee_amount":"","fee_currency":"","time":"200"}
	}`)

	net := netPositions(trades)
	assert.Equal(t, "0.499", net["BTC"].String())
	assert.Equal(t, "-5000", net["EUR"].String())
}

func TestRenderTrades(t *testing.T) {
	trades := decodeTrades(t, `{
		"b": {"buy_amount":"2","buy_currency":"ETH","sell_amount":"1","sell_currency":"BTC","type":"Trade","exchange":"Kraken","time":"1514764800"},
		"a": {"buy_amount":"1","buy_currency":"BTC","type":"Deposit","exchange":"Bittrex","time":"1514678400"}
	}`)

	out := renderTrades(trades)
	assert.Contains(t, out, "Trades (2)")
	assert.Contains(t, out, "2 ETH")
	assert.Contains(t, out, "Kraken")
	assert.Less(t, bytes.Index([]byte(out), []byte("Bittrex")), bytes.Index([]byte(out), []byte("Kraken")))

	assert.Contains(t, renderTrades(nil), "no trades")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Withdra~", truncate("Withdrawal", 8))

	got := truncate("Börse Stuttgart", 4)
	assert.Equal(t, "Bör~", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "日本取引所", truncate("日本取引所", 5))
	assert.Equal(t, "日本~", truncate("日本取引所グループ", 3))
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := newApp()
	defer a.close()

	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTradesCommand(t *testing.T) {
	requests := make(chan url.Values, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		values, _ := url.ParseQuery(string(body))
		requests <- values
		if r.Header.Get("Sign") != cointracking.Sign(body, "secret") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"success":1,"method":"getTrades","9":{"buy_amount":"1","buy_currency":"BTC","time":"1514764800"}}`))
	}))
	defer server.Close()

	t.Setenv("COINTRACKING_API_URL", server.URL)
	t.Setenv("COINTRACKING_API_KEY", "key")
	t.Setenv("COINTRACKING_API_SECRET", "secret")
	t.Setenv("LOG_FILE", "")

	out, err := runCLI(t, "trades", "--json", "--order", "desc", "--start", "2018-01-01", "--log-level", "error")
	require.NoError(t, err)

	require.Len(t, requests, 1)
	got := <-requests
	assert.Equal(t, "DESC", got.Get("order"))
	assert.Equal(t, "1514764800", got.Get("start"))

	trades := decodeTrades(t, out)
	require.Contains(t, trades, "9")
	assert.Equal(t, "BTC", trades["9"].BuyCurrency)
}

func TestCommandRequiresCredentials(t *testing.T) {
	t.Setenv("COINTRACKING_API_KEY", "")
	t.Setenv("COINTRACKING_API_SECRET", "")
	t.Setenv("LOG_FILE", "")

	_, err := runCLI(t, "balance", "--log-level", "error")
	assert.ErrorContains(t, err, "COINTRACKING_API_KEY")
}

func TestUpdateCommand(t *testing.T) {
	hits := make(chan string, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- r.URL.RequestURI()
	}))
	defer server.Close()

	config := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte(`
update:
  url: `+server.URL+`/import/
  job_id_delay: 1ms
  job_delay: 1ms
  jobs:
    - name: Bittrex
      path: bittrex_api
      job_ids: [25297]
`), 0o600))
	t.Setenv("COINTRACKING_IMPORT_URL", "")
	t.Setenv("LOG_FILE", "")

	start := time.Now()
	_, err := runCLI(t, "update", "--config", config, "--log-level", "error")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	require.Len(t, hits, 1)
	assert.Equal(t, "/import/bittrex_api/check.php?j=25297&check=check", <-hits)
}

func TestUpdateCommandWithoutJobs(t *testing.T) {
	config := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("log:\n  level: error\n"), 0o600))
	t.Setenv("LOG_FILE", "")

	_, err := runCLI(t, "update", "--config", config)
	assert.ErrorContains(t, err, "no update jobs")
}
