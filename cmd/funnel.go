package cmd

import (
	"fmt"

	"github.com/laccsec/growthbi/internal/cli"

	"github.com/spf13/cobra"
)

var funnelCmd = &cobra.Command{
	Use:   "funnel",
	Short: "Conversion funnel and channel share",
	RunE:  runFunnel,
}

func init() {
	rootCmd.AddCommand(funnelCmd)
}

func runFunnel(cmd *cobra.Command, _ []string) error {
	d, _, err := loadDashboard(cmd)
	if err != nil {
		return err
	}
	st := d.Summary

	fmt.Println()
	fmt.Println(cli.RenderTitle("CONVERSION FUNNEL"))
	fmt.Println()

	rows := make([][]string, 0, len(st.Funnel))
	for i, s := range st.Funnel {
		conv := ""
		if i > 0 && st.Funnel[i-1].Count > 0 {
			conv = cli.FormatPercent(float64(s.Count) / float64(st.Funnel[i-1].Count))
		}
		rows = append(rows, []string{s.Stage, cli.FormatNumber(s.Count), conv})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Stage", "Count", "Conversion"},
		Rows:    rows,
	}))

	fmt.Println()
	labelWidth := 0
	for _, s := range st.Funnel {
		if len(s.Stage) > labelWidth {
			labelWidth = len(s.Stage)
		}
	}
	top := float64(st.TotalNow)
	for _, s := range st.Funnel {
		fmt.Println(cli.RenderHorizontalBar(s.Stage, labelWidth, float64(s.Count), top, 40))
	}

	fmt.Println()
	shareRows := make([][]string, 0, len(st.Shares))
	for _, sh := range st.Shares {
		shareRows = append(shareRows, []string{sh.Channel, cli.FormatNumber(sh.Followers), fmt.Sprintf("%.1f%%", sh.SharePercent)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Channel share",
		Headers: []string{"Channel", "Followers", "Share"},
		Rows:    shareRows,
	}))
	return nil
}
