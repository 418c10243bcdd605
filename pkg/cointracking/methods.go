package cointracking

// Method names a remote API operation.
type Method string

const (
	MethodTrades             Method = "getTrades"
	MethodBalance            Method = "getBalance"
	MethodHistoricalSummary  Method = "getHistoricalSummary"
	MethodHistoricalCurrency Method = "getHistoricalCurrency"
	MethodGroupedBalance     Method = "getGroupedBalance"
	MethodGains              Method = "getGains"
)

var knownMethods = map[Method]struct{}{
	MethodTrades:             {},
	MethodBalance:            {},
	MethodHistoricalSummary:  {},
	MethodHistoricalCurrency: {},
	MethodGroupedBalance:     {},
	MethodGains:              {},
}

// Valid reports whether m is one of the operations the API accepts.
func (m Method) Valid() bool {
	_, ok := knownMethods[m]
	return ok
}

func (m Method) String() string {
	return string(m)
}
