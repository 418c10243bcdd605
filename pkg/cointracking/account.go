package cointracking

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

const DefaultBalanceGroup = "exchange"

// GetBalance returns the account and per-currency balance sections as raw
// JSON; their shapes differ from section to section.
func (c *Client) GetBalance(ctx context.Context) (map[string]json.RawMessage, error) {
	return Call[json.RawMessage](ctx, c, MethodBalance, url.Values{})
}

type HistoricalSummaryQuery struct {
	BTC   bool
	Start int64
	End   int64
}

// GetHistoricalSummary returns the total account value per point in time.
func (c *Client) GetHistoricalSummary(ctx context.Context, q HistoricalSummaryQuery) (map[string]json.RawMessage, error) {
	values := url.Values{}
	setFlag(values, "btc", q.BTC)
	setTime(values, "start", q.Start)
	setTime(values, "end", q.End)
	return Call[json.RawMessage](ctx, c, MethodHistoricalSummary, values)
}

type HistoricalCurrencyQuery struct {
	Currency string
	Start    int64
	End      int64
}

// GetHistoricalCurrency returns amounts and values per currency over time.
func (c *Client) GetHistoricalCurrency(ctx context.Context, q HistoricalCurrencyQuery) (map[string]json.RawMessage, error) {
	values := url.Values{}
	if q.Currency != "" {
		values.Set("currency", q.Currency)
	}
	setTime(values, "start", q.Start)
	setTime(values, "end", q.End)
	return Call[json.RawMessage](ctx, c, MethodHistoricalCurrency, values)
}

// GroupedBalanceQuery selects the grouping; an empty Group means
// DefaultBalanceGroup.
type GroupedBalanceQuery struct {
	Group          string
	ExcludeDepWith bool
	Type           string
}

func (c *Client) GetGroupedBalance(ctx context.Context, q GroupedBalanceQuery) (map[string]GroupedBalance, error) {
	group := q.Group
	if group == "" {
		group = DefaultBalanceGroup
	}
	values := url.Values{}
	values.Set("group", group)
	if q.Type != "" {
		values.Set("type", q.Type)
	}
	setFlag(values, "exclude_dep_with", q.ExcludeDepWith)
	return Call[GroupedBalance](ctx, c, MethodGroupedBalance, values)
}

type GainsQuery struct {
	Price string
	BTC   bool
}

// GetGains returns realized and unrealized gains per currency.
func (c *Client) GetGains(ctx context.Context, q GainsQuery) (map[string]json.RawMessage, error) {
	values := url.Values{}
	if q.Price != "" {
		values.Set("price", q.Price)
	}
	setFlag(values, "btc", q.BTC)
	return Call[json.RawMessage](ctx, c, MethodGains, values)
}

func setFlag(values url.Values, key string, on bool) {
	if on {
		values.Set(key, "1")
	}
}

func setTime(values url.Values, key string, ts int64) {
	if ts > 0 {
		values.Set(key, strconv.FormatInt(ts, 10))
	}
}
