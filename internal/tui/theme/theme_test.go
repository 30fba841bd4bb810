package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("flexoki-dark").Name; got != "flexoki-dark" {
		t.Fatalf("ByName(flexoki-dark) = %q", got)
	}
	if got := ByName("no-such-theme").Name; got != LaccNight.Name {
		t.Fatalf("unknown theme resolved to %q, want %q", got, LaccNight.Name)
	}
}

func TestSetActive(t *testing.T) {
	defer SetActive(LaccNight.Name)

	SetActive("terminal")
	if Active.Name != "terminal" {
		t.Fatalf("Active = %q, want terminal", Active.Name)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != len(All) || names[0] != "lacc-night" {
		t.Fatalf("Names() = %v", names)
	}
}

func TestLaccNightDataRoles(t *testing.T) {
	if LaccNight.History != "#00E5FF" {
		t.Errorf("History = %q, want #00E5FF", LaccNight.History)
	}
	if LaccNight.Projection == LaccNight.History {
		t.Error("projection should differ from history")
	}
}

func TestShadeScales(t *testing.T) {
	th := LaccNight
	cases := []struct {
		frac float64
		gain int
		loss int
	}{
		{0.01, 0, 0},
		{0.25, 0, 0},
		{0.3, 1, 0},
		{0.5, 1, 0},
		{0.51, 2, 1},
		{0.75, 2, 1},
		{1, 3, 1},
		{1.5, 3, 1},
	}
	for _, c := range cases {
		if got := th.GainShade(c.frac); got != th.Gain[c.gain] {
			t.Errorf("GainShade(%v) = %q, want Gain[%d]", c.frac, got, c.gain)
		}
		if got := th.LossShade(c.frac); got != th.Loss[c.loss] {
			t.Errorf("LossShade(%v) = %q, want Loss[%d]", c.frac, got, c.loss)
		}
	}
}

func TestSeriesColorCycles(t *testing.T) {
	th := LaccNight
	n := len(th.Series)
	if th.SeriesColor(n) != th.Series[0] || th.SeriesColor(n+1) != th.Series[1] {
		t.Error("series colors do not wrap")
	}
	if got := (Theme{Accent: lipgloss.Color("6")}).SeriesColor(3); got != "6" {
		t.Errorf("empty series = %q, want accent", got)
	}
}
