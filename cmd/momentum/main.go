// Command momentum downloads an index constituent list and its price
// history, then backtests a cross-sectional momentum strategy over it.
//
// Usage:
//
//	momentum universe --bucket LARGECAP
//	momentum fetch --from 2015-01-01 --to 2020-12-31
//	momentum backtest --lookback 60 --freq W-TUE --selector top_n --size 50
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"momentum/internal/config"
	"momentum/internal/util"
)

const defaultConfigPath = "config/momentum.yaml"

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "momentum",
	Short:         "Cross-sectional momentum backtester",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cfgPath)
		if err != nil {
			return err
		}
		util.SetDefault(util.NewLogger(cfg.Logging.Level, cfg.Logging.Format))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $MOMENTUM_CONFIG or "+defaultConfigPath+")")
}

// loadConfig reads path, falling back to $MOMENTUM_CONFIG and then the
// default location. A missing default file yields built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		if p := os.Getenv("MOMENTUM_CONFIG"); p != "" {
			path, explicit = p, true
		} else {
			path = defaultConfigPath
		}
	}

	c, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		slog.Debug("no config file, using defaults", "path", path)
		c = config.Default()
		return c, c.Validate()
	}
	return c, err
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("momentum: %v", err)
	}
}
