package cmd

import (
	"fmt"

	"github.com/laccsec/growthbi/internal/cli"
	"github.com/laccsec/growthbi/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := configPath()
	fmt.Printf("  Config file: %s\n", path)
	if config.ExistsAt(path) {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Title:  %s\n", cfg.General.Title)
	fmt.Printf("    Range:  %s to %s\n", cfg.General.Start, cfg.General.End)
	fmt.Printf("    Seed:   %d\n", cfg.General.Seed)
	fmt.Println()

	fmt.Println("  [Channels]")
	for _, ch := range cfg.Channels {
		fmt.Printf("    %-16s %10s\n", ch.Name, cli.FormatNumber(ch.Followers))
	}
	fmt.Println()

	fmt.Println("  [Forecast]")
	fmt.Printf("    Horizon:  %d months (%d to %d, step %d)\n",
		cfg.Forecast.Horizon, cfg.Forecast.MinHorizon, cfg.Forecast.MaxHorizon, cfg.Forecast.Step)
	fmt.Printf("    Interval: %.0f%%\n", cfg.Forecast.IntervalWidth*100)
	fmt.Println()

	fmt.Println("  [Goal]")
	if cfg.Goal.Target != nil {
		fmt.Printf("    Target: %s\n", cli.FormatNumber(*cfg.Goal.Target))
	} else {
		fmt.Println("    Target: 1.5x current total")
	}
	fmt.Println()

	fmt.Println("  [Funnel]")
	fmt.Printf("    Newsletter:   %s\n", cli.FormatPercent(cfg.Funnel.NewsletterRate))
	fmt.Printf("    Participants: %s\n", cli.FormatPercent(cfg.Funnel.ParticipantRate))
	fmt.Printf("    Leads:        %s\n", cli.FormatPercent(cfg.Funnel.LeadRate))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  Run `growthbi setup` to reconfigure.")
	return nil
}
