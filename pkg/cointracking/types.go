package cointracking

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Amount is a decimal that also accepts "" and null, which the API sends for
// unset fees and values.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		a.Decimal = decimal.Zero
		return nil
	}
	return a.Decimal.UnmarshalJSON(data)
}

// Timestamp is a unix time in seconds sent either as a number or a string.
type Timestamp int64

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*t = 0
			return nil
		}
		data = []byte(s)
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*t = Timestamp(v)
	return nil
}

func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// Trade is one entry of getTrades.
type Trade struct {
	BuyAmount    Amount    `json:"buy_amount"`
	BuyCurrency  string    `json:"buy_currency"`
	SellAmount   Amount    `json:"sell_amount"`
	SellCurrency string    `json:"sell_currency"`
	FeeAmount    Amount    `json:"fee_amount"`
	FeeCurrency  string    `json:"fee_currency"`
	Type         string    `json:"type"`
	Exchange     string    `json:"exchange"`
	Group        string    `json:"group"`
	Comment      string    `json:"comment"`
	ImportedFrom string    `json:"imported_from"`
	Time         Timestamp `json:"time"`
	ImportedTime Timestamp `json:"imported_time"`
	TradeID      string    `json:"trade_id"`

	// Only present when requested with trade prices.
	BuyPriceFiat  Amount `json:"buy_pricefiat"`
	SellPriceFiat Amount `json:"sell_pricefiat"`
}

// GroupedBalance is one group of getGroupedBalance.
type GroupedBalance struct {
	Amount Amount `json:"amount"`
	Fiat   Amount `json:"fiat"`
	BTC    Amount `json:"btc"`
}
