package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/settlesavvy/settlemap-cli/internal/choropleth"
	"github.com/settlesavvy/settlemap-cli/internal/export"
	"github.com/settlesavvy/settlemap-cli/internal/model"
	"github.com/settlesavvy/settlemap-cli/internal/store"
	"github.com/settlesavvy/settlemap-cli/internal/viewdata"
)

var viewCmd = &cobra.Command{
	Use:   "view <map-id>",
	Short: "Render a map's choropleth overlay",
	Long:  "Fetches the map and its neighborhood scores, classifies them into bins, and prints a summary. The overlay GeoJSON and a score spreadsheet can be written to disk.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mapID := args[0]
		offline, _ := cmd.Flags().GetBool("offline")

		if offline {
			return viewOffline(cmd, mapID)
		}

		e := initEnv()
		screen := viewdata.NewScreen[viewdata.MapDetail](e.guard, cliNav{})
		st := screen.Load(cmd.Context(), viewdata.FetchMapDetail(e.api, mapID))
		if st.Status != viewdata.StatusReady {
			return stateError(st.Status, st.Err)
		}

		fc, err := choropleth.BuildOverlay(st.Data.Scores)
		if err != nil {
			return eris.Wrap(err, "view: build overlay")
		}

		var overlay []byte
		if fc != nil {
			if overlay, err = json.Marshal(fc); err != nil {
				return eris.Wrap(err, "view: encode overlay")
			}
		}

		// Capture the render for offline viewing.
		if snapshots, serr := initSnapshots(); serr == nil {
			defer snapshots.Close() //nolint:errcheck
			if serr = snapshots.Migrate(cmd.Context()); serr == nil {
				if _, serr = snapshots.SaveSnapshot(cmd.Context(), st.Data.Map, overlay); serr != nil {
					zap.L().Warn("view: snapshot save failed", zap.Error(serr))
				}
			}
		}

		printView(os.Stdout, st.Data.Map, st.Data.Scores)

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if overlay == nil {
				fmt.Fprintln(os.Stderr, "No scored neighborhoods; overlay not written.")
			} else if err := os.WriteFile(out, overlay, 0o644); err != nil {
				return eris.Wrap(err, "view: write overlay")
			} else {
				fmt.Printf("Overlay written to %s\n", out)
			}
		}

		if xlsxPath, _ := cmd.Flags().GetString("xlsx"); xlsxPath != "" {
			if err := export.WriteScoresXLSX(xlsxPath, st.Data.Map, st.Data.Scores); err != nil {
				return eris.Wrap(err, "view: write spreadsheet")
			}
			fmt.Printf("Scores written to %s\n", xlsxPath)
		}

		return nil
	},
}

// viewOffline renders the newest stored snapshot instead of fetching.
func viewOffline(cmd *cobra.Command, mapID string) error {
	snapshots, err := initSnapshots()
	if err != nil {
		return err
	}
	defer snapshots.Close() //nolint:errcheck
	if err := snapshots.Migrate(cmd.Context()); err != nil {
		return err
	}

	snap, err := snapshots.GetLatest(cmd.Context(), mapID)
	if err != nil {
		if errors.Is(err, store.ErrNoSnapshot) {
			return eris.New("no snapshot for this map, run 'settlemap view' online first")
		}
		return err
	}

	fmt.Printf("%s (snapshot from %s)\n", snap.Map.Name, snap.FetchedAt.Format("2006-01-02 15:04"))
	printCamera(os.Stdout, snap.Map)

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if len(snap.Overlay) == 0 {
			fmt.Fprintln(os.Stderr, "Snapshot has no overlay.")
			return nil
		}
		if err := os.WriteFile(out, snap.Overlay, 0o644); err != nil {
			return eris.Wrap(err, "view: write overlay")
		}
		fmt.Printf("Overlay written to %s\n", out)
	}
	return nil
}

// printView prints the camera, the bin distribution, and the legend.
func printView(out io.Writer, m model.Map, scores []model.NeighborhoodScore) {
	fmt.Fprintln(out, m.Name)
	printCamera(out, m)

	if len(scores) == 0 {
		fmt.Fprintln(out, "No scored neighborhoods.")
		return
	}

	counts := map[choropleth.Bin]int{}
	for _, s := range scores {
		counts[choropleth.Classify(s.Score, s.IsFiltered)]++
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "\nBIN\tCOUNT")
	for b := choropleth.BinVeryHigh; b >= choropleth.BinNeutral; b-- {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", b.Label(), counts[b])
	}
	_ = w.Flush()

	fmt.Fprintln(out, "\nLegend:")
	for _, entry := range choropleth.LegendEntries() {
		fmt.Fprintf(out, "  %s  %s\n", entry.Color, entry.Label)
	}
}

// printCamera prints the viewport the renderer would open with,
// falling back to the continental default when the map has none.
func printCamera(out io.Writer, m model.Map) {
	cam := choropleth.NewCamera()
	cam.SyncView(m.CenterPoint, m.ZoomLevel)
	lat, lng, zoom := cam.View()
	fmt.Fprintf(out, "Center %.4f,%.4f zoom %g\n", lat, lng, zoom)
}

func init() {
	viewCmd.Flags().String("out", "", "write overlay GeoJSON to this path")
	viewCmd.Flags().String("xlsx", "", "write a score spreadsheet to this path")
	viewCmd.Flags().Bool("offline", false, "render the newest local snapshot instead of fetching")
	rootCmd.AddCommand(viewCmd)
}
