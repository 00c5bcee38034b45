// Package cli implements the backtype command line.
package cli

import (
	"fmt"
	"time"

	"github.com/samvad-hq/backtype-go/internal/app"
	"github.com/samvad-hq/backtype-go/internal/config"
	"github.com/samvad-hq/backtype-go/internal/logger"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
	apiKey   string
	timeout  time.Duration
}

// NewRootCmd constructs the root command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "backtype",
		Short:         "Query the BackType comment API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "BackType API key; overrides BACKTYPE_API_KEY")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout; overrides HTTP_TIMEOUT_SECONDS")

	rootCmd.AddCommand(newFetchCmd(opts))
	rootCmd.AddCommand(newEndpointsCmd())
	rootCmd.AddCommand(newImageURLCmd(opts))
	rootCmd.AddCommand(newHistoryCmd(opts))

	return rootCmd
}

// open loads configuration, applies flag overrides and builds the runtime. Commands that
// never touch the API pass journaled=false and leave the journal file alone.
// The caller must Close the returned App.
func (o *rootOptions) open(cmd *cobra.Command, journaled bool) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Override(o.apiKey, o.logLevel, o.timeout); err != nil {
		return nil, fmt.Errorf("apply flags: %w", err)
	}
	if !journaled {
		cfg.JournalType = "none"
	}

	sugar, err := logger.Init(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log := logger.NewZapLogger(sugar)
	log.DebugObj("config loaded", "config", cfg.Redacted())

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	return a, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		logger.WarnObj("close failed", "error", err.Error())
	}
	_ = logger.Close()
}
