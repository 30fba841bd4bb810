package cmd

import (
	"fmt"

	"github.com/laccsec/growthbi/internal/cli"

	"github.com/spf13/cobra"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Month-over-month follower change per channel",
	RunE:  runHeatmap,
}

func init() {
	rootCmd.AddCommand(heatmapCmd)
}

func runHeatmap(cmd *cobra.Command, _ []string) error {
	d, _, err := loadDashboard(cmd)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MONTH-OVER-MONTH CHANGE"))
	fmt.Println()

	names := make([]string, len(d.Deltas))
	deltas := make([][]int64, len(d.Deltas))
	for i, ds := range d.Deltas {
		names[i] = ds.Name
		deltas[i] = ds.Deltas
	}
	months := make([]string, 0, d.Total.Len())
	for _, t := range d.Total.Dates() {
		months = append(months, cli.FormatMonthShort(t))
	}

	fmt.Print(cli.RenderHeatmap(names, months, deltas))
	fmt.Println()
	return nil
}
