package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargelog/core/logbook"
	"github.com/kilianp07/chargelog/pkg/export"
)

func (c *cli) exportCmd() *cobra.Command {
	var (
		vehicle string
		format  string
		out     string
		rng     dateRange
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions as CSV, JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withLogbook(cmd, func(ctx context.Context, svc *logbook.Service) error {
				sessions, err := svc.LoadAll(ctx, vehicle)
				if err != nil {
					return err
				}
				if sessions, err = rng.filter(sessions); err != nil {
					return err
				}
				var write func(w io.Writer) error
				switch format {
				case "csv":
					write = func(w io.Writer) error { return export.WriteCSV(w, sessions) }
				case "json":
					write = func(w io.Writer) error { return export.WriteJSON(w, sessions) }
				case "yaml":
					write = func(w io.Writer) error { return export.WriteYAML(w, sessions) }
				default:
					return fmt.Errorf("unknown format %q (csv, json, yaml)", format)
				}
				w, closeFn, err := output(cmd, out)
				if err != nil {
					return err
				}
				if err := write(w); err != nil {
					_ = closeFn()
					return err
				}
				return closeFn()
			})
		},
	}
	cmd.Flags().StringVar(&vehicle, "vehicle", "", "only sessions of this vehicle (default all)")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv, json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	rng.bind(cmd.Flags())
	return cmd
}
