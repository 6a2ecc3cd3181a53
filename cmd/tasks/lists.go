package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasks/internal/storage"
)

func newListsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List the task lists in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.svc.Lists(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No lists found")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create [list]",
		Short: "Create an empty list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.CreateList(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created list: %s\n", args[0])
			return nil
		},
	}
}

func newDropCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drop [list]",
		Short: "Delete a list and all of its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.DeleteList(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped list: %s\n", args[0])
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var term string
	cmd := &cobra.Command{
		Use:   "show [list]",
		Short: "Show the tasks of a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				tasks []storage.Task
				err   error
			)
			if term != "" {
				tasks, err = a.svc.Search(cmd.Context(), args[0], term)
			} else {
				var c storage.Collection
				c, err = a.svc.Tasks(cmd.Context(), args[0])
				tasks = c.Tasks
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tNAME\tTAGS\tDESCRIPTION")
			for _, t := range tasks {
				status := "open"
				if t.Completed {
					status = "done"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, status, t.Name, strings.Join(t.Tags, ", "), firstLine(t.Description))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&term, "search", "", "Only show tasks whose name, description or tags contain this text")
	return cmd
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid task id: %s", raw)
	}
	return id, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
