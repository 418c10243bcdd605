package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pyronexus/cointracking/pkg/cointracking"
	"github.com/pyronexus/cointracking/pkg/config"
	"github.com/pyronexus/cointracking/pkg/logger"
	sdkhttp "github.com/pyronexus/cointracking/pkg/sdk/http"
	"github.com/pyronexus/cointracking/pkg/shutdown"
)

const (
	defaultConfigPath = "config.yaml"
	shutdownTimeout   = 5 * time.Second
)

// app carries what the subcommands share once the root command has loaded
// the configuration.
type app struct {
	configPath string
	logLevel   string

	cfg        *config.Config
	httpClient *http.Client
	shutdown   *shutdown.Manager
}

func newApp() *app {
	return &app{
		httpClient: &http.Client{},
		shutdown:   shutdown.NewManager(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "cointracking",
		Short:         "Query the CoinTracking API and trigger importer updates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.Flags().Changed("config"))
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath, "config file (.yaml, .yml or .json)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newTradesCmd(a),
		newBalanceCmd(a),
		newGroupedBalanceCmd(a),
		newGainsCmd(a),
		newHistoricalSummaryCmd(a),
		newHistoricalCurrencyCmd(a),
		newUpdateCmd(a),
	)
	return root
}

// load reads the config file. A missing default file is not an error so the
// tool can run from environment variables alone.
func (a *app) load(explicit bool) error {
	path := a.configPath
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := logger.Init(cfg.Log); err != nil {
		return err
	}

	a.cfg = cfg
	a.shutdown.OnShutdown("http", func(context.Context) error {
		a.httpClient.CloseIdleConnections()
		return nil
	})
	a.shutdown.OnShutdown("log", func(context.Context) error {
		return logger.Close()
	})
	return nil
}

func (a *app) apiClient() (*cointracking.Client, error) {
	if err := a.cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	opts := []cointracking.Option{
		cointracking.WithBaseURL(a.cfg.API.URL),
		cointracking.WithHTTPClient(a.httpClient),
		cointracking.WithTimeout(a.cfg.API.Timeout),
		cointracking.WithMinInterval(a.cfg.API.MinInterval),
		cointracking.WithLogger(logger.Component("cointracking")),
	}
	if a.cfg.API.Strict {
		opts = append(opts, cointracking.WithStrictEnvelope())
	}
	return cointracking.New(a.cfg.API.Key, a.cfg.API.Secret, opts...), nil
}

func (a *app) importTrigger() *sdkhttp.ImportTrigger {
	client := sdkhttp.NewClient(a.httpClient, a.cfg.API.Timeout)
	return sdkhttp.NewImportTrigger(client, a.cfg.Update.URL, a.cfg.Update.UserAgent)
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.shutdown.Shutdown(ctx)
}
