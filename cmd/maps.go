package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/settlesavvy/settlemap-cli/internal/model"
	"github.com/settlesavvy/settlemap-cli/internal/viewdata"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "Manage scored maps",
}

// -- maps list --

var mapsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your maps",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e := initEnv()
		screen := viewdata.NewScreen[[]model.Map](e.guard, cliNav{})
		st := screen.Load(cmd.Context(), viewdata.FetchMapList(e.api))
		if st.Status != viewdata.StatusReady {
			return stateError(st.Status, st.Err)
		}

		if len(st.Data) == 0 {
			fmt.Fprintln(os.Stderr, "No maps yet. Create one with 'settlemap maps create'.")
			return nil
		}

		formatMapsList(os.Stdout, st.Data)
		return nil
	},
}

// -- maps get --

var mapsGetCmd = &cobra.Command{
	Use:   "get <map-id>",
	Short: "Show one map as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := initEnv()
		screen := viewdata.NewScreen[*model.Map](e.guard, cliNav{})
		st := screen.Load(cmd.Context(), func(ctx context.Context) (*model.Map, error) {
			return e.api.GetMap(ctx, args[0])
		})
		if st.Status != viewdata.StatusReady {
			return stateError(st.Status, st.Err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st.Data)
	},
}

// -- maps create --

var mapsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a map",
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("name")
		lat, _ := cmd.Flags().GetFloat64("lat")
		lng, _ := cmd.Flags().GetFloat64("lng")
		zoom, _ := cmd.Flags().GetFloat64("zoom")

		if name == "" {
			return eris.New("maps create: --name is required")
		}
		if !model.ZoomInRange(zoom, model.MaxZoomCreate) {
			return eris.Errorf("maps create: zoom %g outside range %g-%g",
				zoom, model.MinZoom, model.MaxZoomCreate)
		}

		req := model.CreateMapRequest{Name: name, ZoomLevel: zoom}
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
			req.Latitude = &lat
			req.Longitude = &lng
		}

		e := initEnv()
		mut := viewdata.NewMutator(cliNav{}, cliNotify{})
		var created *model.Map
		err := mut.Run(func() error {
			m, err := e.api.CreateMap(cmd.Context(), req)
			if err != nil {
				return err
			}
			created = m
			return nil
		}, "Map created successfully!", viewdata.RouteMaps)
		if err != nil {
			return err
		}

		fmt.Printf("Map ID: %s\n", created.MapID)
		return nil
	},
}

// -- maps update --

var mapsUpdateCmd = &cobra.Command{
	Use:   "update <map-id>",
	Short: "Update a map's name or viewport",
	Long:  "Only the flags you pass are sent; everything else keeps its current value on the server.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req model.UpdateMapRequest
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			req.Name = &name
		}
		if cmd.Flags().Changed("lat") {
			lat, _ := cmd.Flags().GetFloat64("lat")
			req.Latitude = &lat
		}
		if cmd.Flags().Changed("lng") {
			lng, _ := cmd.Flags().GetFloat64("lng")
			req.Longitude = &lng
		}
		if cmd.Flags().Changed("zoom") {
			zoom, _ := cmd.Flags().GetFloat64("zoom")
			if !model.ZoomInRange(zoom, model.MaxZoom) {
				return eris.Errorf("maps update: zoom %g outside range %g-%g",
					zoom, model.MinZoom, model.MaxZoom)
			}
			req.ZoomLevel = &zoom
		}

		if req.Name == nil && req.Latitude == nil && req.Longitude == nil && req.ZoomLevel == nil {
			return eris.New("maps update: nothing to update, pass at least one of --name, --lat, --lng, --zoom")
		}

		e := initEnv()
		mut := viewdata.NewMutator(cliNav{}, cliNotify{})
		return mut.Run(func() error {
			_, err := e.api.UpdateMap(cmd.Context(), args[0], req)
			return err
		}, "Map updated successfully!", "")
	},
}

// -- maps delete --

var mapsDeleteCmd = &cobra.Command{
	Use:   "delete <map-id>",
	Short: "Delete a map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			answer, err := prompt(fmt.Sprintf("Delete map %s? [y/N] ", args[0]))
			if err != nil {
				return err
			}
			if answer != "y" && answer != "Y" {
				fmt.Fprintln(os.Stderr, "Aborted.")
				return nil
			}
		}

		e := initEnv()
		mut := viewdata.NewMutator(cliNav{}, cliNotify{})
		return mut.Run(func() error {
			return e.api.DeleteMap(cmd.Context(), args[0])
		}, "Map deleted.", viewdata.RouteMaps)
	},
}

func init() {
	mapsCreateCmd.Flags().String("name", "", "map name")
	mapsCreateCmd.Flags().Float64("lat", 0, "initial center latitude")
	mapsCreateCmd.Flags().Float64("lng", 0, "initial center longitude")
	mapsCreateCmd.Flags().Float64("zoom", 10, "initial zoom level")

	mapsUpdateCmd.Flags().String("name", "", "new map name")
	mapsUpdateCmd.Flags().Float64("lat", 0, "new center latitude")
	mapsUpdateCmd.Flags().Float64("lng", 0, "new center longitude")
	mapsUpdateCmd.Flags().Float64("zoom", 0, "new zoom level")

	mapsDeleteCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	mapsCmd.AddCommand(mapsListCmd)
	mapsCmd.AddCommand(mapsGetCmd)
	mapsCmd.AddCommand(mapsCreateCmd)
	mapsCmd.AddCommand(mapsUpdateCmd)
	mapsCmd.AddCommand(mapsDeleteCmd)
	rootCmd.AddCommand(mapsCmd)
}

// stateError converts a non-ready view state into a command error. The
// redirect case already printed its guidance through the navigator.
func stateError(status viewdata.Status, msg string) error {
	if status == viewdata.StatusRedirect {
		return eris.New("not logged in")
	}
	return eris.New(msg)
}

// formatMapsList writes a tabular list of maps to w.
func formatMapsList(out io.Writer, maps []model.Map) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCENTER\tZOOM\tUPDATED")
	_, _ = fmt.Fprintln(w, "--\t----\t------\t----\t-------")

	for _, m := range maps {
		center := "-"
		if m.CenterPoint != nil {
			center = fmt.Sprintf("%.4f,%.4f", m.CenterPoint.Lat(), m.CenterPoint.Lng())
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%s\n",
			truncateID(m.MapID),
			m.Name,
			center,
			m.ZoomLevel,
			m.LastUpdated.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
