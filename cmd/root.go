// Package cmd implements the chargelog command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargelog/app"
	"github.com/kilianp07/chargelog/config"
	"github.com/kilianp07/chargelog/core/logbook"
	coremon "github.com/kilianp07/chargelog/core/monitoring"
	"github.com/kilianp07/chargelog/infra/logger"
	inframon "github.com/kilianp07/chargelog/infra/monitoring"
)

// cli carries the state shared by every subcommand of one invocation.
type cli struct {
	cfgPath string
	cfg     *config.Config
}

// NewRootCmd builds the chargelog command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:               "chargelog",
		Short:             "EV charging logbook and statistics",
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			coremon.Flush(2 * time.Second)
			return logger.Close()
		},
	}
	root.PersistentFlags().StringVarP(&c.cfgPath, "config", "c", "", "configuration file (yaml or json)")
	root.AddCommand(
		c.serveCmd(),
		c.vehicleCmd(),
		c.sessionCmd(),
		c.statsCmd(),
		c.chartCmd(),
		c.exportCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute() error { return NewRootCmd().Execute() }

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Setup(logger.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	}); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)
	c.cfg = cfg
	return nil
}

// withLogbook opens the configured store for the duration of fn.
func (c *cli) withLogbook(cmd *cobra.Command, fn func(ctx context.Context, svc *logbook.Service) error) error {
	svc, err := app.OpenLogbook(c.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("cli").Errorf("close store: %v", err)
		}
	}()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, svc)
}

// output returns the file named path, or the command output for "" and "-".
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
