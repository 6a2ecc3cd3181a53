package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasks/internal/model"
	"github.com/sandeepkv93/tasks/internal/service"
)

func newAddCmd(a *app) *cobra.Command {
	var name, desc, tags string
	cmd := &cobra.Command{
		Use:   "add [list]",
		Short: "Add a task to a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.Add(cmd.Context(), args[0], service.Draft{
				Name:        name,
				Description: desc,
				Tags:        model.SplitTags(tags),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d to %s\n", t.ID, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Task name (required)")
	cmd.Flags().StringVar(&desc, "desc", "", "Task description")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma separated tags")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var name, desc, tags string
	cmd := &cobra.Command{
		Use:   "edit [list] [task-id]",
		Short: "Change the name, description or tags of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			var p service.Patch
			if cmd.Flags().Changed("name") {
				p.Name = &name
			}
			if cmd.Flags().Changed("desc") {
				p.Description = &desc
			}
			if cmd.Flags().Changed("tags") {
				split := model.SplitTags(tags)
				p.Tags = &split
			}
			if p == (service.Patch{}) {
				return fmt.Errorf("nothing to change: pass --name, --desc or --tags")
			}
			if _, err := a.svc.Update(cmd.Context(), args[0], id, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d in %s\n", id, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New task name")
	cmd.Flags().StringVar(&desc, "desc", "", "New description")
	cmd.Flags().StringVar(&tags, "tags", "", "New comma separated tags")
	return cmd
}

func newCompleteCmd(a *app, use string, done bool) *cobra.Command {
	short, verb := "Mark a task done", "done"
	if !done {
		short, verb = "Mark a task open again", "open"
	}
	return &cobra.Command{
		Use:   use + " [list] [task-id]",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			if _, err := a.svc.SetCompleted(cmd.Context(), args[0], id, done); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task #%d marked %s\n", id, verb)
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm [list] [task-id]",
		Short: "Remove a task; later tasks are renumbered",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			if err := a.svc.Remove(cmd.Context(), args[0], id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task #%d from %s\n", id, args[0])
			return nil
		},
	}
}
