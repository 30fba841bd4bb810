package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/laccsec/growthbi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthly(start string, values ...float64) model.MonthlySeries {
	d, err := time.Parse("2006-01", start)
	if err != nil {
		panic(err)
	}
	s := model.MonthlySeries{Name: "Total"}
	for i, v := range values {
		s.Points = append(s.Points, model.Point{Date: d.AddDate(0, i, 0), Value: v})
	}
	return s
}

func linear(n int, intercept, slope float64) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = intercept + slope*float64(i)
	}
	return vals
}

func TestForecastExampleScenario(t *testing.T) {
	res, err := Forecast(monthly("2024-01", 5, 52, 100), 2, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Points, 2)
	assert.Equal(t, "2024-04", res.Points[0].Date.Format("2006-01"))
	assert.Equal(t, "2024-05", res.Points[1].Date.Format("2006-01"))
	assert.Greater(t, res.Points[0].Value, 100.0)
	assert.Greater(t, res.Points[1].Value, res.Points[0].Value)
}

func TestForecastDatesFollowHistory(t *testing.T) {
	series := monthly("2024-01", linear(18, 200, 35)...)
	for _, horizon := range []int{1, 3, 12, 24} {
		res, err := Forecast(series, horizon, DefaultOptions())
		require.NoError(t, err)
		require.Len(t, res.Points, horizon)

		last := series.Last().Date
		prev := last
		for _, p := range res.Points {
			assert.True(t, p.Date.After(last))
			assert.Equal(t, prev.AddDate(0, 1, 0), p.Date)
			assert.Equal(t, 1, p.Date.Day())
			prev = p.Date
		}

		require.Len(t, res.Fitted, series.Len()+horizon)
		assert.Equal(t, series.Len(), res.HistoryLen)
		for i, p := range res.Points {
			assert.Equal(t, res.Fitted[series.Len()+i].Value, p.Value)
		}
	}
}

func TestForecastRecoversLinearTrend(t *testing.T) {
	series := monthly("2024-01", linear(18, 100, 10)...)
	res, err := Forecast(series, 6, DefaultOptions())
	require.NoError(t, err)

	for h, p := range res.Points {
		want := 100 + 10*float64(18+h)
		assert.InDelta(t, want, p.Value, 5, "step %d", h+1)
		assert.LessOrEqual(t, p.Lower, p.Value)
		assert.GreaterOrEqual(t, p.Upper, p.Value)
	}
	assert.Less(t, res.Metrics.MAE, 2.0)
	assert.Less(t, res.Metrics.MAPE, 2.0)
}

func TestForecastIntervalWidens(t *testing.T) {
	vals := linear(18, 500, 40)
	for i := range vals {
		if i%2 == 0 {
			vals[i] += 25
		} else {
			vals[i] -= 25
		}
	}
	res, err := Forecast(monthly("2024-01", vals...), 12, DefaultOptions())
	require.NoError(t, err)

	first := res.Points[0].Upper - res.Points[0].Lower
	last := res.Points[11].Upper - res.Points[11].Lower
	assert.Greater(t, first, 0.0)
	assert.Greater(t, last, first)
}

func TestForecastRejectsNonPositiveHorizon(t *testing.T) {
	for _, h := range []int{0, -3} {
		_, err := Forecast(monthly("2024-01", 1, 2), h, DefaultOptions())
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		assert.NotErrorIs(t, err, model.ErrModelFit)
	}
}

func TestForecastHorizonCheckedBeforeFit(t *testing.T) {
	// A single point cannot be fitted, but the horizon error must win.
	_, err := Forecast(monthly("2024-01", 7), 0, DefaultOptions())
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestForecastFitFailures(t *testing.T) {
	cases := map[string]model.MonthlySeries{
		"empty":     {Name: "Total"},
		"one point": monthly("2024-01", 42),
		"constant":  monthly("2024-01", 10, 10, 10, 10),
		"zeros":     monthly("2024-01", 0, 0, 0),
		"nan":       monthly("2024-01", 1, math.NaN(), 3),
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Forecast(s, 3, DefaultOptions())
			assert.ErrorIs(t, err, model.ErrModelFit)
		})
	}
}

func TestFitRejectsUnorderedDates(t *testing.T) {
	d := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	_, err := Fit([]time.Time{d, d}, []float64{1, 2}, DefaultOptions())
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestChangepointsShrinkForShortHistory(t *testing.T) {
	t18 := make([]float64, 18)
	for i := range t18 {
		t18[i] = float64(i) / 17
	}
	breaks := changepoints(t18, 25, 0.8)
	require.Len(t, breaks, 13)
	assert.Equal(t, t18[1], breaks[0])
	assert.Equal(t, t18[13], breaks[12])

	assert.Empty(t, changepoints([]float64{0, 1}, 25, 0.8))
	assert.Len(t, changepoints(t18, 5, 0.8), 5)
	assert.Empty(t, changepoints(t18, 0, 0.8))
}

func TestFutureMonthsHandlesMonthEnds(t *testing.T) {
	last := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	got := FutureMonths(last, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "2026-01", got[0].Format("2006-01"))
	assert.Equal(t, "2026-03", got[2].Format("2006-01"))
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{Changepoints: -1}.normalized()
	assert.Equal(t, 0, o.Changepoints)
	assert.Equal(t, 0.8, o.ChangepointRange)
	assert.Equal(t, 0.05, o.ChangepointPriorScale)
	assert.Equal(t, 0.8, o.IntervalWidth)
}
