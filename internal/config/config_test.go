package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/laccsec/growthbi/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.General.Seed != 42 {
		t.Fatalf("Seed = %d, want 42", cfg.General.Seed)
	}
	if cfg.Forecast.Horizon != 12 || cfg.Forecast.MinHorizon != 3 || cfg.Forecast.MaxHorizon != 24 {
		t.Fatalf("horizon defaults = %d [%d,%d], want 12 [3,24]",
			cfg.Forecast.Horizon, cfg.Forecast.MinHorizon, cfg.Forecast.MaxHorizon)
	}
	if cfg.Forecast.Changepoints != 25 || cfg.Forecast.ChangepointPriorScale != 0.05 {
		t.Fatalf("model defaults = %+v", cfg.Forecast.Options)
	}
	if cfg.Funnel.NewsletterRate != 0.30 || cfg.Funnel.LeadRate != 0.10 {
		t.Fatalf("funnel defaults = %+v", cfg.Funnel)
	}
	if len(cfg.Endpoints()) != 7 {
		t.Fatalf("default endpoints = %d, want 7", len(cfg.Endpoints()))
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.Start != "2024-01" || cfg.General.End != "2025-06" {
		t.Fatalf("range = %s..%s, want 2024-01..2025-06", cfg.General.Start, cfg.General.End)
	}
}

func TestLoadFromOverridesChannels(t *testing.T) {
	path := writeConfig(t, `
[general]
start = "2023-06"
end = "2023-12"

[[channels]]
name = "Mastodon"
followers = 50

[[channels]]
name = "Bluesky"
followers = 80

[forecast]
horizon = 6
changepoint_prior_scale = 0.5
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	eps := cfg.Endpoints()
	if len(eps) != 2 || eps[0].Name != "Mastodon" || eps[1].Current != 80 {
		t.Fatalf("endpoints = %+v", eps)
	}
	if cfg.Forecast.Horizon != 6 || cfg.Forecast.ChangepointPriorScale != 0.5 {
		t.Fatalf("forecast = %+v", cfg.Forecast)
	}
	if cfg.Forecast.MaxHorizon != 24 {
		t.Fatalf("MaxHorizon = %d, want default 24", cfg.Forecast.MaxHorizon)
	}
	start, end, err := cfg.Range()
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if start.Format(MonthLayout) != "2023-06" || end.Format(MonthLayout) != "2023-12" {
		t.Fatalf("range = %v..%v", start, end)
	}
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"horizon above max": "[forecast]\nhorizon = 30\n",
		"horizon below min": "[forecast]\nhorizon = 1\n",
		"negative followers": "[[channels]]\nname = \"A\"\nfollowers = -5\n",
		"duplicate channels": "[[channels]]\nname = \"A\"\nfollowers = 1\n[[channels]]\nname = \"A\"\nfollowers = 2\n",
		"bad month":          "[general]\nstart = \"2024-13\"\n",
		"reversed range":     "[general]\nstart = \"2025-01\"\nend = \"2024-01\"\n",
		"bad log level":      "[log]\nlevel = \"chatty\"\n",
		"funnel rate":        "[funnel]\nlead_rate = 1.5\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, body))
			if !errors.Is(err, model.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSaveToLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	target := int64(9000)
	cfg.Goal.Target = &target
	cfg.Appearance.Theme = "flexoki-dark"
	cfg.Channels = cfg.Channels[:2]

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Goal.Target == nil || *got.Goal.Target != 9000 {
		t.Fatalf("Goal.Target = %v, want 9000", got.Goal.Target)
	}
	if got.Appearance.Theme != "flexoki-dark" || len(got.Channels) != 2 {
		t.Fatalf("got = %+v", got)
	}
}

func TestHorizonBounds(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.CheckHorizon(3); err != nil {
		t.Fatalf("CheckHorizon(3): %v", err)
	}
	if err := cfg.CheckHorizon(25); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("CheckHorizon(25) = %v, want ErrInvalidInput", err)
	}
	if got := cfg.StepHorizon(12, 1); got != 15 {
		t.Fatalf("StepHorizon(12, +1) = %d, want 15", got)
	}
	if got := cfg.StepHorizon(3, -1); got != 3 {
		t.Fatalf("StepHorizon(3, -1) = %d, want 3", got)
	}
	if got := cfg.StepHorizon(24, 1); got != 24 {
		t.Fatalf("StepHorizon(24, +1) = %d, want 24", got)
	}
}

func TestLoadFromChannelsReplaceDefaults(t *testing.T) {
	path := writeConfig(t, `
[[channels]]
name = "Mastodon"
followers = 0

[[channels]]
name = "Bluesky"
followers = 10
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	want := []ChannelConfig{{Name: "Mastodon", Followers: 0}, {Name: "Bluesky", Followers: 10}}
	if len(cfg.Channels) != len(want) {
		t.Fatalf("channels = %+v, want %+v", cfg.Channels, want)
	}
	for i := range want {
		if cfg.Channels[i] != want[i] {
			t.Fatalf("channel %d = %+v, want %+v", i, cfg.Channels[i], want[i])
		}
	}
	if len(cfg.Milestones) != len(DefaultMilestones()) {
		t.Fatalf("milestones = %d, want defaults", len(cfg.Milestones))
	}
}

func TestLoadFromRejectsChannelWithoutFollowers(t *testing.T) {
	path := writeConfig(t, `
[[channels]]
name = "Mastodon"

[[channels]]
name = "Bluesky"
followers = 10
`)
	_, err := LoadFrom(path)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if !strings.Contains(err.Error(), "Mastodon") {
		t.Fatalf("err = %v, want it to name Mastodon", err)
	}
}

func TestLoadFromMilestonesReplaceDefaults(t *testing.T) {
	path := writeConfig(t, `
[[milestones]]
when = "Mar 2026"
what = "Regional finals"
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if len(cfg.Milestones) != 1 || cfg.Milestones[0].What != "Regional finals" {
		t.Fatalf("milestones = %+v", cfg.Milestones)
	}
	if len(cfg.Channels) != len(DefaultChannels()) {
		t.Fatalf("channels = %d, want defaults", len(cfg.Channels))
	}
}
