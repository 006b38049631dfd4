package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/settlesavvy/settlemap-cli/internal/store"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect locally cached map renders",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		snapshots, err := initSnapshots()
		if err != nil {
			return err
		}
		defer snapshots.Close() //nolint:errcheck
		if err := snapshots.Migrate(ctx); err != nil {
			return err
		}

		snaps, err := snapshots.ListSnapshots(ctx)
		if err != nil {
			return eris.Wrap(err, "snapshots list")
		}

		if len(snaps) == 0 {
			fmt.Fprintln(os.Stderr, "No snapshots stored.")
			return nil
		}

		formatSnapshots(os.Stdout, snaps)
		return nil
	},
}

var snapshotsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete snapshots older than a cutoff",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		olderThan, _ := cmd.Flags().GetDuration("older-than")

		snapshots, err := initSnapshots()
		if err != nil {
			return err
		}
		defer snapshots.Close() //nolint:errcheck
		if err := snapshots.Migrate(ctx); err != nil {
			return err
		}

		n, err := snapshots.Prune(ctx, olderThan)
		if err != nil {
			return eris.Wrap(err, "snapshots prune")
		}

		fmt.Printf("Pruned %d snapshot(s).\n", n)
		return nil
	},
}

// formatSnapshots writes a tabular snapshot listing to w.
func formatSnapshots(out io.Writer, snaps []store.Snapshot) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MAP\tNAME\tFETCHED\tOVERLAY")
	for _, s := range snaps {
		size := "-"
		if len(s.Overlay) > 0 {
			size = fmt.Sprintf("%d KB", len(s.Overlay)/1024)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			truncateID(s.MapID),
			s.Map.Name,
			s.FetchedAt.Format("2006-01-02 15:04"),
			size,
		)
	}
	_ = w.Flush()
}

func init() {
	snapshotsPruneCmd.Flags().Duration("older-than", 7*24*time.Hour, "age cutoff (e.g. 24h, 168h)")

	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsPruneCmd)
	rootCmd.AddCommand(snapshotsCmd)
}
