package cointracking

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignKnownAnswers(t *testing.T) {
	// RFC 4231 test case 2.
	assert.Equal(t,
		"164b7a7bfcf819e2e395fbe73b56e0a387bd64222e831fd610270cd7ea250554"+
			"9758bf75c05a994a6d034f65f8f0e6fdcaeab1a34d4a6b4b636e070a38bce737",
		Sign([]byte("what do ya want for nothing?"), "Jefe"))

	body := buildRequest(MethodTrades, url.Values{"order": {OrderAsc}}, 1514764800000)
	assert.Equal(t, "method=getTrades&nonce=1514764800000&order=ASC", string(body))
	assert.Equal(t,
		"5273d729961218e0f04a5c745cb4bb41e923081f67d26ec779a6fa3b513384af"+
			"60afff09ec349600756c56f166881d7e6f32b1ee2697f51deb79898ec9d6e34f",
		Sign(body, "api-secret"))
}

func TestSignShape(t *testing.T) {
	tests := []struct {
		name   string
		method Method
		params url.Values
	}{
		{name: "no params", method: MethodBalance, params: url.Values{}},
		{name: "trades", method: MethodTrades, params: url.Values{"order": {"ASC"}, "limit": {"200"}}},
		{name: "escaping", method: MethodGains, params: url.Values{"price": {"transaction & more"}}},
		{name: "unicode", method: MethodHistoricalCurrency, params: url.Values{"currency": {"€UR"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := buildRequest(tt.method, tt.params, 1612345678901)
			got := Sign(body, "s3cr3t")

			assert.Equal(t, got, Sign(body, "s3cr3t"))
			assert.Len(t, got, 128)
			assert.Equal(t, strings.ToLower(got), got)
		})
	}
}

func TestSignDependsOnExactBytes(t *testing.T) {
	a := Sign([]byte("a=1&b=2"), "k")
	b := Sign([]byte("b=2&a=1"), "k")

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Sign([]byte("a=1&b=2"), "k"))
	assert.NotEqual(t, a, Sign([]byte("a=1&b=2"), "other"))
}
