package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/settlesavvy/settlemap-cli/internal/model"
	"github.com/settlesavvy/settlemap-cli/internal/viewdata"
)

var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "Browse the factor catalog and configure map factors",
}

// -- factors list --

var factorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available scoring factors",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e := initEnv()
		factors, err := e.api.ListFactors(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "factors list")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tNAME\tSOURCE\tDEFAULT STRATEGY")
		for _, f := range factors {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				f.FactorID, f.Name, f.Source, f.DefaultScoringStrategy)
		}
		return w.Flush()
	},
}

// -- factors show --

var factorsShowCmd = &cobra.Command{
	Use:   "show <map-id>",
	Short: "List the factors configured on a map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := initEnv()
		mfs, err := e.api.ListMapFactors(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "factors show")
		}

		if len(mfs) == 0 {
			fmt.Fprintln(os.Stderr, "No factors configured on this map.")
			return nil
		}

		formatMapFactors(os.Stdout, mfs)
		return nil
	},
}

// -- factors attach --

var factorsAttachCmd = &cobra.Command{
	Use:   "attach <map-id>",
	Short: "Attach a factor to a map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		factorID, _ := cmd.Flags().GetInt("factor")
		weight, _ := cmd.Flags().GetFloat64("weight")
		scoring, _ := cmd.Flags().GetString("scoring")
		filter, _ := cmd.Flags().GetString("filter")

		if factorID == 0 {
			return eris.New("factors attach: --factor is required")
		}

		req := model.CreateMapFactorRequest{
			Map:             args[0],
			Factor:          factorID,
			Weight:          weight,
			ScoringStrategy: scoring,
			FilterStrategy:  filter,
		}
		req.ScoreTipping1 = float64FlagPtr(cmd, "score-tip-1")
		req.ScoreTipping2 = float64FlagPtr(cmd, "score-tip-2")
		req.FilterTipping1 = float64FlagPtr(cmd, "filter-tip-1")
		req.FilterTipping2 = float64FlagPtr(cmd, "filter-tip-2")

		e := initEnv()
		mut := viewdata.NewMutator(cliNav{}, cliNotify{})
		var created *model.MapFactor
		err := mut.Run(func() error {
			mf, err := e.api.CreateMapFactor(cmd.Context(), req)
			if err != nil {
				return err
			}
			created = mf
			return nil
		}, "Factor attached.", "")
		if err != nil {
			return err
		}

		fmt.Printf("Map factor ID: %s\n", created.MapFactorID)
		return nil
	},
}

// -- factors update --

var factorsUpdateCmd = &cobra.Command{
	Use:   "update <map-factor-id>",
	Short: "Update a configured map factor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req model.UpdateMapFactorRequest
		req.Weight = float64FlagPtr(cmd, "weight")
		req.ScoreTipping1 = float64FlagPtr(cmd, "score-tip-1")
		req.ScoreTipping2 = float64FlagPtr(cmd, "score-tip-2")
		req.FilterTipping1 = float64FlagPtr(cmd, "filter-tip-1")
		req.FilterTipping2 = float64FlagPtr(cmd, "filter-tip-2")
		if cmd.Flags().Changed("scoring") {
			s, _ := cmd.Flags().GetString("scoring")
			req.ScoringStrategy = &s
		}
		if cmd.Flags().Changed("filter") {
			s, _ := cmd.Flags().GetString("filter")
			req.FilterStrategy = &s
		}

		e := initEnv()
		mut := viewdata.NewMutator(cliNav{}, cliNotify{})
		return mut.Run(func() error {
			_, err := e.api.UpdateMapFactor(cmd.Context(), args[0], req)
			return err
		}, "Factor updated.", "")
	},
}

// -- factors detach --

var factorsDetachCmd = &cobra.Command{
	Use:   "detach <map-factor-id>",
	Short: "Remove a factor from a map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := initEnv()
		mut := viewdata.NewMutator(cliNav{}, cliNotify{})
		return mut.Run(func() error {
			return e.api.DeleteMapFactor(cmd.Context(), args[0])
		}, "Factor detached.", "")
	},
}

// -- factors calc --

var factorsCalcCmd = &cobra.Command{
	Use:   "calc <map-factor-id>",
	Short: "Trigger score recalculation for a map factor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := initEnv()
		mut := viewdata.NewMutator(cliNav{}, cliNotify{})
		return mut.Run(func() error {
			return e.api.CalculateScores(cmd.Context(), args[0])
		}, "Score calculation started.", "")
	},
}

// float64FlagPtr returns a pointer to the flag value only when the
// flag was passed, so PATCH payloads omit untouched fields.
func float64FlagPtr(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

// formatMapFactors writes a tabular map-factor listing to w.
func formatMapFactors(out io.Writer, mfs []model.MapFactor) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tFACTOR\tWEIGHT\tSCORING\tFILTER")
	for _, mf := range mfs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%g\t%s\t%s\n",
			truncateID(mf.MapFactorID),
			mf.FactorName,
			mf.Weight,
			mf.ScoringStrategy,
			mf.FilterStrategy,
		)
	}
	_ = w.Flush()
}

func addTippingFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("score-tip-1", 0, "first scoring tipping point")
	cmd.Flags().Float64("score-tip-2", 0, "second scoring tipping point")
	cmd.Flags().Float64("filter-tip-1", 0, "first filter tipping point")
	cmd.Flags().Float64("filter-tip-2", 0, "second filter tipping point")
}

func init() {
	factorsAttachCmd.Flags().Int("factor", 0, "factor catalog id")
	factorsAttachCmd.Flags().Float64("weight", 1, "factor weight")
	factorsAttachCmd.Flags().String("scoring", "", "scoring strategy")
	factorsAttachCmd.Flags().String("filter", "", "filter strategy")
	addTippingFlags(factorsAttachCmd)

	factorsUpdateCmd.Flags().Float64("weight", 0, "factor weight")
	factorsUpdateCmd.Flags().String("scoring", "", "scoring strategy")
	factorsUpdateCmd.Flags().String("filter", "", "filter strategy")
	addTippingFlags(factorsUpdateCmd)

	factorsCmd.AddCommand(factorsListCmd)
	factorsCmd.AddCommand(factorsShowCmd)
	factorsCmd.AddCommand(factorsAttachCmd)
	factorsCmd.AddCommand(factorsUpdateCmd)
	factorsCmd.AddCommand(factorsDetachCmd)
	factorsCmd.AddCommand(factorsCalcCmd)
	rootCmd.AddCommand(factorsCmd)
}
