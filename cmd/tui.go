package cmd

import (
	"fmt"
	"os"

	"github.com/laccsec/growthbi/internal/config"
	"github.com/laccsec/growthbi/internal/logging"
	"github.com/laccsec/growthbi/internal/tui"
	"github.com/laccsec/growthbi/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	h, err := resolveHorizon(cmd, cfg)
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The terminal belongs to Bubble Tea; only errors reach stderr.
	log, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Quiet:  true,
	}, os.Stderr)
	if err != nil {
		return err
	}

	path := configPath()
	needSetup := !config.ExistsAt(path)
	app := tui.NewApp(cfg, h, needSetup, log).WithConfigPath(path)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
