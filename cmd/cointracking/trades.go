package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pyronexus/cointracking/pkg/cointracking"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	buyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	sellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

func newTradesCmd(a *app) *cobra.Command {
	var (
		query      cointracking.TradesQuery
		start, end string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "trades",
		Short: "List trades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if query.Start, err = parseTimeFlag(start); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			if query.End, err = parseTimeFlag(end); err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			client, err := a.apiClient()
			if err != nil {
				return err
			}
			trades, err := client.GetTrades(cmd.Context(), query)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), trades)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTrades(trades))
			return nil
		},
	}

	cmd.Flags().IntVar(&query.Limit, "limit", 0, "maximum number of trades (0 = all)")
	cmd.Flags().StringVar(&query.Order, "order", cointracking.OrderAsc, "ASC or DESC")
	cmd.Flags().StringVar(&start, "start", "", "only trades after this time (unix seconds or 2006-01-02)")
	cmd.Flags().StringVar(&end, "end", "", "only trades before this time (unix seconds or 2006-01-02)")
	cmd.Flags().BoolVar(&query.TradePrices, "trade-prices", false, "include fiat prices at trade time")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

type tradeRow struct {
	id    string
	trade cointracking.Trade
}

func sortedTrades(trades map[string]cointracking.Trade) []tradeRow {
	rows := make([]tradeRow, 0, len(trades))
	for id, t := range trades {
		rows = append(rows, tradeRow{id: id, trade: t})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].trade.Time != rows[j].trade.Time {
			return rows[i].trade.Time < rows[j].trade.Time
		}
		return rows[i].id < rows[j].id
	})
	return rows
}

// netPositions sums bought minus sold minus fees per currency.
func netPositions(trades map[string]cointracking.Trade) map[string]decimal.Decimal {
	net := make(map[string]decimal.Decimal)
	add := func(currency string, amount decimal.Decimal) {
		if currency == "" || amount.IsZero() {
			return
		}
		net[currency] = net[currency].Add(amount)
	}
	for _, t := range trades {
		add(t.BuyCurrency, t.BuyAmount.Decimal)
		add(t.SellCurrency, t.SellAmount.Decimal.Neg())
		add(t.FeeCurrency, t.FeeAmount.Decimal.Neg())
	}
	return net
}

func renderTrades(trades map[string]cointracking.Trade) string {
	title := titleStyle.Render(fmt.Sprintf("Trades (%d)", len(trades)))
	if len(trades) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, borderStyle.Render("no trades"))
	}

	const rowFormat = "%-16s  %-10s  %22s  %22s  %-14s"
	lines := []string{headerStyle.Render(fmt.Sprintf(rowFormat, "TIME", "TYPE", "BUY", "SELL", "EXCHANGE"))}
	for _, row := range sortedTrades(trades) {
		t := row.trade
		buy := buyStyle.Render(fmt.Sprintf("%22s", formatAmount(t.BuyAmount, t.BuyCurrency)))
		sell := sellStyle.Render(fmt.Sprintf("%22s", formatAmount(t.SellAmount, t.SellCurrency)))
		lines = append(lines, fmt.Sprintf("%-16s  %-10s  %s  %s  %-14s",
			t.Time.Time().Format("2006-01-02 15:04"), truncate(t.Type, 10), buy, sell, truncate(t.Exchange, 14)))
	}

	net := netPositions(trades)
	currencies := make([]string, 0, len(net))
	for c := range net {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	summary := make([]string, 0, len(currencies))
	for _, c := range currencies {
		style := buyStyle
		if net[c].IsNegative() {
			style = sellStyle
		}
		summary = append(summary, style.Render(fmt.Sprintf("%s %s", net[c].String(), c)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		borderStyle.Render(strings.Join(lines, "\n")),
		titleStyle.Render("Net"),
		borderStyle.Render(strings.Join(summary, "\n")),
	)
}

func formatAmount(a cointracking.Amount, currency string) string {
	if currency == "" {
		return "-"
	}
	return a.Decimal.String() + " " + currency
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "~"
}

// parseTimeFlag accepts unix seconds, a date or an RFC 3339 time. Empty
// means unset.
func parseTimeFlag(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if ts, err := strconv.ParseInt(value, 10, 64); err == nil {
		return ts, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q", value)
}
