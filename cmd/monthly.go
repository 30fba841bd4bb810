package cmd

import (
	"fmt"

	"github.com/laccsec/growthbi/internal/cli"

	"github.com/spf13/cobra"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Monthly total followers table",
	RunE:  runMonthly,
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(cmd *cobra.Command, _ []string) error {
	d, _, err := loadDashboard(cmd)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MONTHLY TOTAL  %d months", d.Total.Len())))
	fmt.Println()

	rows := make([][]string, 0, d.Total.Len())
	var prev float64
	for i, p := range d.Total.Points {
		change := ""
		if i > 0 {
			change = cli.FormatDelta(int64(p.Value - prev))
			if prev > 0 {
				change += fmt.Sprintf(" (%s)", cli.FormatSignedPercent((p.Value-prev)/prev*100))
			}
		}
		rows = append(rows, []string{
			cli.FormatMonth(p.Date),
			cli.FormatNumber(int64(p.Value)),
			change,
		})
		prev = p.Value
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Followers", "Change"},
		Rows:    rows,
	}))
	return nil
}
