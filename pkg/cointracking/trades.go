package cointracking

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// TradesQuery holds the optional getTrades arguments. Zero values mean
// "not set" and are left out of the request, except Order which defaults to
// ascending and is always sent.
type TradesQuery struct {
	Limit       int
	Order       string
	Start       int64
	End         int64
	TradePrices bool
}

func (q TradesQuery) params() (url.Values, error) {
	order := strings.ToUpper(strings.TrimSpace(q.Order))
	if order == "" {
		order = OrderAsc
	}
	if order != OrderAsc && order != OrderDesc {
		return nil, fmt.Errorf("cointracking: invalid trade order %q", q.Order)
	}

	values := url.Values{}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	values.Set("order", order)
	setTime(values, "start", q.Start)
	setTime(values, "end", q.End)
	setFlag(values, "trade_prices", q.TradePrices)
	return values, nil
}

// GetTrades lists trades keyed by trade id.
func (c *Client) GetTrades(ctx context.Context, q TradesQuery) (map[string]Trade, error) {
	params, err := q.params()
	if err != nil {
		return nil, err
	}
	return Call[Trade](ctx, c, MethodTrades, params)
}
