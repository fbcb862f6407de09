package cmd

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kilianp07/chargelog/core/logbook"
	"github.com/kilianp07/chargelog/core/model"
	"github.com/kilianp07/chargelog/pkg/export"
)

// sessionFlags are the editable fields of a session.
type sessionFlags struct {
	vehicle  string
	odometer float64
	date     string
	cost     float64
	hours    int
	minutes  int
	location string
	site     string
	energy   float64
}

func (f *sessionFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.vehicle, "vehicle", "", "vehicle name")
	fs.Float64Var(&f.odometer, "odometer", 0, "odometer reading in km")
	fs.StringVar(&f.date, "date", "", "charge date, YYYY-MM-DD or RFC 3339 (default today)")
	fs.Float64Var(&f.cost, "cost", 0, "total cost")
	fs.IntVar(&f.hours, "hours", 0, "charging duration, hours part")
	fs.IntVar(&f.minutes, "minutes", 0, "charging duration, minutes part")
	fs.StringVar(&f.location, "location", "", "station operator")
	fs.StringVar(&f.site, "site", "", "charging site")
	fs.Float64Var(&f.energy, "energy", 0, "energy delivered in kWh")
}

// apply copies the flags set on the command line onto rec.
func (f *sessionFlags) apply(fs *pflag.FlagSet, rec *model.ChargingSession) error {
	if fs.Changed("vehicle") {
		rec.VehicleID = f.vehicle
	}
	if fs.Changed("odometer") {
		rec.Odometer = f.odometer
	}
	if fs.Changed("date") {
		d, _, err := export.ParseDay(f.date)
		if err != nil {
			return fmt.Errorf("%w: date: %v", model.ErrInvalidSession, err)
		}
		rec.Date = d
	}
	if fs.Changed("cost") {
		rec.TotalCost = f.cost
	}
	if fs.Changed("hours") || fs.Changed("minutes") {
		h, m := rec.DurationMinutes/60, rec.DurationMinutes%60
		if fs.Changed("hours") {
			h = f.hours
		}
		if fs.Changed("minutes") {
			m = f.minutes
		}
		rec.DurationMinutes = model.DurationMinutes(h, m)
	}
	if fs.Changed("location") {
		rec.LocationName = f.location
	}
	if fs.Changed("site") {
		rec.SiteName = f.site
	}
	if fs.Changed("energy") {
		rec.EnergyKWh = f.energy
	}
	return nil
}

func (c *cli) sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Record and edit charging sessions",
	}
	cmd.AddCommand(c.sessionAddCmd(), c.sessionLsCmd(), c.sessionEditCmd(), c.sessionRmCmd())
	return cmd
}

func (c *cli) sessionAddCmd() *cobra.Command {
	var f sessionFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a charging session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			rec := model.ChargingSession{Date: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)}
			if err := f.apply(cmd.Flags(), &rec); err != nil {
				return err
			}
			return c.withLogbook(cmd, func(ctx context.Context, svc *logbook.Service) error {
				rec, err := svc.Record(ctx, rec)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
				return nil
			})
		},
	}
	f.bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("vehicle")
	return cmd
}

func (c *cli) sessionEditCmd() *cobra.Command {
	var f sessionFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLogbook(cmd, func(ctx context.Context, svc *logbook.Service) error {
				rec, err := svc.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if err := f.apply(cmd.Flags(), &rec); err != nil {
					return err
				}
				return svc.Edit(ctx, rec)
			})
		},
	}
	f.bind(cmd.Flags())
	return cmd
}

func (c *cli) sessionRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLogbook(cmd, func(ctx context.Context, svc *logbook.Service) error {
				return svc.Remove(ctx, args[0])
			})
		},
	}
}

// dateRange holds the optional --since and --until bounds.
type dateRange struct {
	since, until string
}

func (d *dateRange) bind(fs *pflag.FlagSet) {
	fs.StringVar(&d.since, "since", "", "first day included, YYYY-MM-DD")
	fs.StringVar(&d.until, "until", "", "last day included, YYYY-MM-DD")
}

func (d dateRange) filter(sessions []model.ChargingSession) ([]model.ChargingSession, error) {
	since, until, err := export.ParseRange(d.since, d.until)
	if err != nil {
		return nil, err
	}
	return model.FilterByDate(sessions, since, until), nil
}

func (c *cli) sessionLsCmd() *cobra.Command {
	var vehicle string
	var rng dateRange
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List sessions, newest first",
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
				slices.SortStableFunc(sessions, func(a, b model.ChargingSession) int {
					return b.Date.Compare(a.Date)
				})
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tVEHICLE\tDATE\tODOMETER\tCOST\tDURATION\tLOCATION\tSITE\tKWH")
				for _, s := range sessions {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						s.ID, s.VehicleID, s.Date.Format(export.DateLayout),
						num(s.Odometer), num(s.TotalCost), s.FormattedDuration(),
						s.LocationName, s.SiteName, num(s.EnergyKWh))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&vehicle, "vehicle", "", "only sessions of this vehicle")
	rng.bind(cmd.Flags())
	return cmd
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
