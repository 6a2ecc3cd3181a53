package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasks/internal/settings"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or change the settings record",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.svc.Settings(cmd.Context())
			if err != nil {
				return err
			}
			printSettings(cmd, s)
			return nil
		},
	}

	var x, y int
	set := &cobra.Command{
		Use:   "set",
		Short: "Store a window position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.svc.Settings(cmd.Context())
			if err != nil {
				return err
			}
			pos := current.Position
			if cmd.Flags().Changed("x") {
				pos.X = x
			}
			if cmd.Flags().Changed("y") {
				pos.Y = y
			}
			s, err := a.svc.SetPosition(cmd.Context(), pos)
			if err != nil {
				return err
			}
			printSettings(cmd, s)
			return nil
		},
	}
	set.Flags().IntVar(&x, "x", settings.DefaultX, "Window x position")
	set.Flags().IntVar(&y, "y", settings.DefaultY, "Window y position")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Replace the settings record with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.ResetSettings(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings reset")
			return nil
		},
	}

	cmd.AddCommand(show, set, reset)
	return cmd
}

func printSettings(cmd *cobra.Command, s settings.Settings) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "state:    %s\n", s.State)
	fmt.Fprintf(out, "position: %d,%d\n", s.Position.X, s.Position.Y)
}
