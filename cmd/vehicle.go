package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargelog/core/logbook"
	"github.com/kilianp07/chargelog/core/model"
)

func (c *cli) vehicleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vehicle",
		Aliases: []string{"vehicles"},
		Short:   "Manage the garage",
	}

	var image string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLogbook(cmd, func(ctx context.Context, svc *logbook.Service) error {
				return svc.AddVehicle(ctx, model.Vehicle{Name: args[0], ImagePath: image})
			})
		},
	}
	add.Flags().StringVar(&image, "image", "", "path of the vehicle picture")

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List vehicles in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withLogbook(cmd, func(ctx context.Context, svc *logbook.Service) error {
				vs, err := svc.Vehicles(ctx)
				if err != nil {
					return err
				}
				for _, v := range vs {
					if v.ImagePath != "" {
						fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", v.Name, v.ImagePath)
						continue
					}
					fmt.Fprintln(cmd.OutOrStdout(), v.Name)
				}
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm NAME",
		Short: "Remove a vehicle, keeping its sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLogbook(cmd, func(ctx context.Context, svc *logbook.Service) error {
				return svc.RemoveVehicle(ctx, args[0])
			})
		},
	}

	mv := &cobra.Command{
		Use:   "mv NAME INDEX",
		Short: "Move a vehicle to a zero based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index %q: %w", args[1], err)
			}
			return c.withLogbook(cmd, func(ctx context.Context, svc *logbook.Service) error {
				return svc.MoveVehicle(ctx, args[0], idx)
			})
		},
	}

	img := &cobra.Command{
		Use:   "image NAME PATH",
		Short: "Set the picture of a vehicle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLogbook(cmd, func(ctx context.Context, svc *logbook.Service) error {
				return svc.SetVehicleImage(ctx, args[0], args[1])
			})
		},
	}

	cmd.AddCommand(add, ls, rm, mv, img)
	return cmd
}
