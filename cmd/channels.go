package cmd

import (
	"fmt"

	"github.com/laccsec/growthbi/internal/cli"

	"github.com/spf13/cobra"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Per-channel followers, growth, and share",
	RunE:  runChannels,
}

func init() {
	rootCmd.AddCommand(channelsCmd)
}

func runChannels(cmd *cobra.Command, _ []string) error {
	d, _, err := loadDashboard(cmd)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CHANNELS  %s to %s", cli.FormatMonth(d.Start), cli.FormatMonth(d.End))))
	fmt.Println()

	rows := make([][]string, 0, len(d.Channels)+2)
	for i, ch := range d.Channels {
		first := int64(ch.First().Value)
		last := int64(ch.Last().Value)
		rows = append(rows, []string{
			ch.Name,
			cli.FormatNumber(first),
			cli.FormatNumber(last),
			cli.FormatDelta(last - first),
			fmt.Sprintf("%.1f%%", d.Summary.Shares[i].SharePercent),
			cli.RenderSparkline(ch.Values()),
		})
	}
	rows = append(rows, []string{"---"}, []string{
		d.Total.Name,
		cli.FormatNumber(d.Summary.TotalStart),
		cli.FormatNumber(d.Summary.TotalNow),
		cli.FormatDelta(d.Summary.AbsoluteGain),
		"100.0%",
		cli.RenderSparkline(d.Total.Values()),
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Channel", "Start", "Now", "Gain", "Share", "Trend"},
		Rows:    rows,
	}))

	fmt.Println()
	labelWidth := 0
	peak := 0.0
	for _, ch := range d.Channels {
		if len(ch.Name) > labelWidth {
			labelWidth = len(ch.Name)
		}
		if v := ch.Last().Value; v > peak {
			peak = v
		}
	}
	for _, ch := range d.Channels {
		fmt.Println(cli.RenderHorizontalBar(ch.Name, labelWidth, ch.Last().Value, peak, 40))
	}
	fmt.Println()
	return nil
}
