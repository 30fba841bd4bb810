package cmd

import (
	"fmt"

	"github.com/laccsec/growthbi/internal/cli"

	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Projected total followers with uncertainty interval",
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	d, cfg, err := loadDashboard(cmd)
	if err != nil {
		return err
	}
	fc := d.Forecast

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FORECAST  Next %d months", fc.Horizon)))
	fmt.Println()

	if !fc.Available {
		fmt.Printf("  Forecast unavailable: %s\n\n", fc.Reason)
		return nil
	}

	rows := make([][]string, 0, len(fc.Points))
	for _, p := range fc.Points {
		rows = append(rows, []string{
			cli.FormatMonth(p.Date),
			cli.FormatFloat(p.Value),
			cli.FormatFloat(p.Lower),
			cli.FormatFloat(p.Upper),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("%.0f%% interval", cfg.Forecast.IntervalWidth*100),
		Headers: []string{"Month", "Projected", "Lower", "Upper"},
		Rows:    rows,
	}))

	fitted := make([]float64, len(fc.Fitted))
	for i, p := range fc.Fitted {
		fitted[i] = p.Value
	}

	fmt.Println()
	fmt.Printf("  Projected total by %s: %s\n", cli.FormatMonth(fc.HeadlineMonth), cli.FormatFloat(fc.Headline))
	fmt.Printf("  History  %s\n", cli.RenderSparkline(d.Total.Values()))
	fmt.Printf("  Trend    %s\n", cli.RenderSparkline(fitted))
	fmt.Printf("  Fit      MAE %s  RMSE %s  MAPE %.1f%%\n",
		cli.FormatFloat(fc.MAE), cli.FormatFloat(fc.RMSE), fc.MAPE)
	fmt.Println()
	return nil
}
