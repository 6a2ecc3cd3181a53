package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasks/internal/storage"
)

// withSnapshots opens the snapshot database at path for the duration of fn.
func withSnapshots(cmd *cobra.Command, path string, fn func(*storage.SnapshotStore) error) error {
	store, err := storage.OpenSnapshots(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [db]",
		Short: "Save every list into a SQLite snapshot database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd, args[0], func(store *storage.SnapshotStore) error {
				snap, err := a.svc.Export(cmd.Context(), store)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported snapshot %s (%d lists, %d tasks)\n", snap.ID, snap.Lists, snap.Tasks)
				return nil
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var snapshotID string
	cmd := &cobra.Command{
		Use:   "import [db]",
		Short: "Merge a snapshot back into the data directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd, args[0], func(store *storage.SnapshotStore) error {
				snap, err := a.svc.Import(cmd.Context(), store, snapshotID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported snapshot %s (%d lists, %d tasks)\n", snap.ID, snap.Lists, snap.Tasks)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&snapshotID, "snapshot", "", "Snapshot id (defaults to the latest)")
	return cmd
}

func newSnapshotsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots [db]",
		Short: "List the snapshots stored in a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(cmd, args[0], func(store *storage.SnapshotStore) error {
				snaps, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(snaps) == 0 {
					fmt.Fprintln(out, "No snapshots found")
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tCREATED\tLISTS\tTASKS")
				for _, s := range snaps {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", s.ID, s.CreatedAt.Local().Format(time.DateTime), s.Lists, s.Tasks)
				}
				return w.Flush()
			})
		},
	}
}
