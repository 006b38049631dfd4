package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/settlesavvy/settlemap-cli/internal/geoimport"
)

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Build neighborhood fixtures from shapefiles",
}

var fixturesImportCmd = &cobra.Command{
	Use:   "import <manifest.yaml>",
	Short: "Convert shapefiles listed in a manifest to score fixtures",
	Long:  "Reads a YAML manifest of shapefiles and writes neighborhood fixture files shaped like the score endpoint output, for seeding local development.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manifestPath, _ := cmd.Flags().GetString("manifest")
		if len(args) == 1 {
			manifestPath = args[0]
		}

		m, err := geoimport.LoadManifest(manifestPath)
		if err != nil {
			return err
		}

		if err := geoimport.Run(m); err != nil {
			return err
		}

		fmt.Printf("Converted %d fixture(s).\n", len(m.Fixtures))
		return nil
	},
}

func init() {
	fixturesImportCmd.Flags().String("manifest", "fixtures.yaml", "path to the fixture manifest")

	fixturesCmd.AddCommand(fixturesImportCmd)
	rootCmd.AddCommand(fixturesCmd)
}
