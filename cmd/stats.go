package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargelog/core/logbook"
	"github.com/kilianp07/chargelog/core/stats"
	"github.com/kilianp07/chargelog/pkg/export"
)

// report loads the sessions of vehicle within rng and summarizes them at now.
func (c *cli) report(ctx context.Context, svc *logbook.Service, vehicle string, rng dateRange, window int) (stats.Report, error) {
	sessions, err := svc.LoadAll(ctx, vehicle)
	if err != nil {
		return stats.Report{}, err
	}
	if sessions, err = rng.filter(sessions); err != nil {
		return stats.Report{}, err
	}
	if window == 0 {
		window = c.cfg.Stats.WindowSize
	}
	if err := stats.ValidateWindowSize(window); err != nil {
		return stats.Report{}, fmt.Errorf("--window: %w", err)
	}
	return stats.Summarize(vehicle, sessions, time.Now(), window), nil
}

func optional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

func writeTable(w io.Writer, r stats.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Vehicle\t%s\n", r.VehicleID)
	fmt.Fprintf(tw, "Sessions\t%d\n", r.Sessions)
	fmt.Fprintf(tw, "Total energy (kWh)\t%.2f\n", r.TotalEnergyKWh)
	fmt.Fprintf(tw, "Total cost\t%.2f\n", r.TotalCost)
	fmt.Fprintf(tw, "Average cost\t%.2f\n", r.AverageCost)
	fmt.Fprintf(tw, "Average energy (kWh)\t%.2f\n", r.AverageEnergyKWh)
	fmt.Fprintf(tw, "Average duration (min)\t%.1f\n", r.AverageDurationMinutes)
	fmt.Fprintf(tw, "Current mileage (km)\t%s\n", optional(r.CurrentMileage))
	fmt.Fprintf(tw, "Efficiency (km/kWh)\t%s\n", optional(r.KmPerKWh))

	fmt.Fprintln(tw, "\nLOCATION\tSESSIONS\tKWH")
	for _, k := range stats.SortedKeys(r.CountByLocation) {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\n", k, r.CountByLocation[k], r.EnergyByLocation[k])
	}
	fmt.Fprintln(tw, "\nSITE\tSESSIONS")
	for _, k := range stats.SortedKeys(r.CountBySite) {
		fmt.Fprintf(tw, "%s\t%d\n", k, r.CountBySite[k])
	}
	fmt.Fprintln(tw, "\nWEEK\tCOST\tKWH")
	for i, wk := range r.RollingWeeks {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\n", wk, r.RollingCost[i], r.RollingEnergy[i])
	}
	return tw.Flush()
}

func (c *cli) statsCmd() *cobra.Command {
	var (
		vehicle string
		window  int
		format  string
		rng     dateRange
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the statistics of a vehicle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withLogbook(cmd, func(ctx context.Context, svc *logbook.Service) error {
				r, err := c.report(ctx, svc, vehicle, rng, window)
				if err != nil {
					return err
				}
				switch format {
				case "table":
					return writeTable(cmd.OutOrStdout(), r)
				case "json":
					return export.WriteJSON(cmd.OutOrStdout(), r)
				case "yaml":
					return export.WriteYAML(cmd.OutOrStdout(), r)
				default:
					return fmt.Errorf("unknown format %q (table, json, yaml)", format)
				}
			})
		},
	}
	cmd.Flags().StringVar(&vehicle, "vehicle", "", "vehicle name")
	cmd.Flags().IntVar(&window, "window", 0, "weeks in the rolling series (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or yaml")
	rng.bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("vehicle")
	return cmd
}
