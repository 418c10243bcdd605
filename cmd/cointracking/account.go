package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pyronexus/cointracking/pkg/cointracking"
)

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newBalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the current account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			balance, err := client.GetBalance(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), balance)
		},
	}
}

func newGroupedBalanceCmd(a *app) *cobra.Command {
	var query cointracking.GroupedBalanceQuery

	cmd := &cobra.Command{
		Use:   "grouped-balance",
		Short: "Show balances grouped by exchange, group or type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			groups, err := client.GetGroupedBalance(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), groups)
		},
	}

	cmd.Flags().StringVar(&query.Group, "group", cointracking.DefaultBalanceGroup, "exchange, group, smart or currency")
	cmd.Flags().BoolVar(&query.ExcludeDepWith, "exclude-dep-with", false, "exclude deposits and withdrawals")
	cmd.Flags().StringVar(&query.Type, "type", "", "only this transaction type")
	return cmd
}

func newGainsCmd(a *app) *cobra.Command {
	var query cointracking.GainsQuery

	cmd := &cobra.Command{
		Use:   "gains",
		Short: "Show realized and unrealized gains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			gains, err := client.GetGains(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), gains)
		},
	}

	cmd.Flags().StringVar(&query.Price, "price", "", "transaction, latest or historical")
	cmd.Flags().BoolVar(&query.BTC, "btc", false, "values in BTC instead of fiat")
	return cmd
}

func newHistoricalSummaryCmd(a *app) *cobra.Command {
	var (
		query      cointracking.HistoricalSummaryQuery
		start, end string
	)

	cmd := &cobra.Command{
		Use:   "historical-summary",
		Short: "Show the account value over time",
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
			summary, err := client.GetHistoricalSummary(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().BoolVar(&query.BTC, "btc", false, "values in BTC instead of fiat")
	cmd.Flags().StringVar(&start, "start", "", "unix seconds or 2006-01-02")
	cmd.Flags().StringVar(&end, "end", "", "unix seconds or 2006-01-02")
	return cmd
}

func newHistoricalCurrencyCmd(a *app) *cobra.Command {
	var (
		query      cointracking.HistoricalCurrencyQuery
		start, end string
	)

	cmd := &cobra.Command{
		Use:   "historical-currency [currency]",
		Short: "Show amounts and values per currency over time",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				query.Currency = args[0]
			}
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
			history, err := client.GetHistoricalCurrency(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), history)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "unix seconds or 2006-01-02")
	cmd.Flags().StringVar(&end, "end", "", "unix seconds or 2006-01-02")
	return cmd
}
