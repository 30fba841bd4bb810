// Package pipeline runs synthesis, aggregation, summary, and forecasting for one dashboard.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/laccsec/growthbi/internal/config"
	"github.com/laccsec/growthbi/internal/forecast"
	"github.com/laccsec/growthbi/internal/model"
	"github.com/laccsec/growthbi/internal/series"
)

// Dashboard is everything the presentation layers render.
type Dashboard struct {
	Title      string
	Start      time.Time
	End        time.Time
	Channels   []model.MonthlySeries
	Total      model.MonthlySeries
	Deltas     []model.DeltaSeries
	Summary    model.SummaryStats
	Forecast   model.ForecastStats
	Milestones []config.Milestone
	BuildTime  time.Duration
}

// Build produces a full dashboard. An invalid configuration or a non-positive
// horizon is rejected before any series is generated. A forecast that cannot
// be fitted leaves Forecast.Available false; the rest is still returned.
func Build(cfg config.Config, horizon int) (*Dashboard, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d", model.ErrInvalidInput, horizon)
	}
	d, err := BuildHistory(cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	fs, err := RunForecast(d.Total, horizon, cfg.Forecast.Options)
	if err != nil {
		return nil, err
	}
	d.Forecast = fs
	d.BuildTime += time.Since(start)
	return d, nil
}

// BuildHistory produces the dashboard without the forecast section.
func BuildHistory(cfg config.Config) (*Dashboard, error) {
	began := time.Now()

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	start, end, err := cfg.Range()
	if err != nil {
		return nil, err
	}

	channels, err := series.Synthesize(cfg.Endpoints(), start, end, series.WithSeed(cfg.General.Seed))
	if err != nil {
		return nil, fmt.Errorf("synthesizing series: %w", err)
	}
	total, err := series.Aggregate(channels)
	if err != nil {
		return nil, fmt.Errorf("aggregating series: %w", err)
	}

	return &Dashboard{
		Title:      cfg.General.Title,
		Start:      start,
		End:        end,
		Channels:   channels,
		Total:      total,
		Deltas:     series.MonthOverMonth(channels),
		Summary:    Summarize(channels, total, cfg.Goal.Target, cfg.Funnel),
		Milestones: cfg.Milestones,
		BuildTime:  time.Since(began),
	}, nil
}

// RunForecast fits the total series. A model fit failure is reported as an
// unavailable forecast; invalid input is returned as an error.
func RunForecast(total model.MonthlySeries, horizon int, opts forecast.Options) (model.ForecastStats, error) {
	res, err := forecast.Forecast(total, horizon, opts)
	if err != nil {
		if errors.Is(err, model.ErrModelFit) {
			return model.ForecastStats{Horizon: horizon, Reason: err.Error()}, nil
		}
		return model.ForecastStats{}, err
	}

	last := res.Points[len(res.Points)-1]
	return model.ForecastStats{
		Available:     true,
		Horizon:       horizon,
		Points:        res.Points,
		Fitted:        res.Fitted,
		Headline:      last.Value,
		HeadlineMonth: last.Date,
		MAE:           res.Metrics.MAE,
		RMSE:          res.Metrics.RMSE,
		MAPE:          res.Metrics.MAPE,
	}, nil
}
