package cmd

import (
	"fmt"

	"github.com/laccsec/growthbi/internal/cli"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Headline follower metrics and forecast",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	d, _, err := loadDashboard(cmd)
	if err != nil {
		return err
	}
	st := d.Summary

	fmt.Println()
	fmt.Println(cli.RenderTitle(d.Title))
	fmt.Println()

	rows := [][]string{
		{"Followers now", cli.FormatNumber(st.TotalNow)},
		{fmt.Sprintf("Followers %s", cli.FormatMonth(d.Start)), cli.FormatNumber(st.TotalStart)},
		{"Gain", cli.FormatDelta(st.AbsoluteGain)},
		{"CAGR", cli.FormatSignedPercent(st.CAGRPercent)},
		{"Leading channel", st.LeaderChannel},
		{"---"},
		{"Goal", cli.FormatNumber(st.Goal)},
		{"Goal progress", cli.FormatPercent(st.GoalProgress)},
		{"---"},
	}

	fc := d.Forecast
	if fc.Available {
		last := fc.Points[len(fc.Points)-1]
		rows = append(rows,
			[]string{fmt.Sprintf("Projected %s", cli.FormatMonth(fc.HeadlineMonth)), cli.FormatFloat(fc.Headline)},
			[]string{"Interval", fmt.Sprintf("%s to %s", cli.FormatFloat(last.Lower), cli.FormatFloat(last.Upper))},
			[]string{"Fit MAPE", fmt.Sprintf("%.1f%%", fc.MAPE)},
		)
	} else {
		rows = append(rows, []string{"Forecast", "unavailable"})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	fmt.Println()
	fmt.Printf("  %s\n", cli.RenderProgressBar(st.TotalNow, st.Goal, 40))
	fmt.Printf("  Total trend  %s\n", cli.RenderSparkline(d.Total.Values()))

	if !fc.Available {
		fmt.Printf("\n  Forecast unavailable: %s\n", fc.Reason)
	}

	if len(d.Milestones) > 0 {
		fmt.Println()
		fmt.Println("  Upcoming milestones")
		for _, m := range d.Milestones {
			fmt.Printf("    %-9s %s\n", m.When, m.What)
		}
	}
	fmt.Println()
	return nil
}
