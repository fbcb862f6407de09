package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargelog/core/logbook"
	"github.com/kilianp07/chargelog/infra/chart"
)

func (c *cli) chartCmd() *cobra.Command {
	var (
		vehicle string
		out     string
		window  int
		rng     dateRange
	)
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the statistics of a vehicle as an HTML dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = strings.ReplaceAll(vehicle, " ", "_") + "-charts.html"
			}
			return c.withLogbook(cmd, func(ctx context.Context, svc *logbook.Service) error {
				r, err := c.report(ctx, svc, vehicle, rng, window)
				if err != nil {
					return err
				}
				w, closeFn, err := output(cmd, out)
				if err != nil {
					return err
				}
				if err := chart.RenderDashboard(w, r); err != nil {
					_ = closeFn()
					return fmt.Errorf("render charts: %w", err)
				}
				return closeFn()
			})
		},
	}
	cmd.Flags().StringVar(&vehicle, "vehicle", "", "vehicle name")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout (default <vehicle>-charts.html)")
	cmd.Flags().IntVar(&window, "window", 0, "weeks in the rolling series (default from config)")
	rng.bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("vehicle")
	return cmd
}
