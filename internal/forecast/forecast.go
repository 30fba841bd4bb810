package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/laccsec/growthbi/internal/model"

	"gonum.org/v1/gonum/stat/distuv"
)

// Result holds a forecast and the fitted curve behind it.
type Result struct {
	// Points are the predictions for the months after the history, one per horizon step.
	Points []model.ForecastPoint
	// Fitted covers every history month followed by every forecast month.
	Fitted []model.Point
	// HistoryLen is the number of leading Fitted entries that are in-sample.
	HistoryLen int

	Metrics Metrics
	Model   *Model
}

// Metrics are in-sample error measures of the fitted trend.
type Metrics struct {
	MAE  float64
	RMSE float64
	MAPE float64 // percent, over non-zero observations
}

// Forecast fits the trend model to the series and predicts horizon further
// months. horizon must be positive; it is checked before any fitting.
func Forecast(series model.MonthlySeries, horizon int, opts Options) (*Result, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d", model.ErrInvalidInput, horizon)
	}

	dates := series.Dates()
	values := series.Values()
	m, err := Fit(dates, values, opts)
	if err != nil {
		return nil, fmt.Errorf("fitting %q: %w", series.Name, err)
	}

	future := FutureMonths(dates[len(dates)-1], horizon)
	all := make([]time.Time, 0, len(dates)+horizon)
	all = append(all, dates...)
	all = append(all, future...)
	yhat := m.Predict(all)

	fitted := make([]model.Point, len(all))
	for i, d := range all {
		fitted[i] = model.Point{Date: d, Value: yhat[i]}
	}

	z := distuv.UnitNormal.Quantile(0.5 + m.opts.IntervalWidth/2)
	n := float64(len(dates))
	points := make([]model.ForecastPoint, horizon)
	for h := 1; h <= horizon; h++ {
		v := yhat[len(dates)+h-1]
		half := z * m.Sigma * math.Sqrt(1+float64(h)/n)
		points[h-1] = model.ForecastPoint{
			Date:  future[h-1],
			Value: v,
			Lower: v - half,
			Upper: v + half,
		}
	}

	return &Result{
		Points:     points,
		Fitted:     fitted,
		HistoryLen: len(dates),
		Metrics:    inSampleMetrics(values, yhat[:len(dates)]),
		Model:      m,
	}, nil
}

// FutureMonths returns the first day of each of the n months after last.
func FutureMonths(last time.Time, n int) []time.Time {
	last = last.UTC()
	out := make([]time.Time, n)
	for h := 1; h <= n; h++ {
		out[h-1] = time.Date(last.Year(), last.Month()+time.Month(h), 1, 0, 0, 0, 0, time.UTC)
	}
	return out
}

func inSampleMetrics(actual, predicted []float64) Metrics {
	var absSum, sqSum, pctSum float64
	pctN := 0
	for i, a := range actual {
		e := a - predicted[i]
		absSum += math.Abs(e)
		sqSum += e * e
		if a != 0 {
			pctSum += math.Abs(e / a)
			pctN++
		}
	}
	n := float64(len(actual))
	met := Metrics{
		MAE:  absSum / n,
		RMSE: math.Sqrt(sqSum / n),
	}
	if pctN > 0 {
		met.MAPE = pctSum / float64(pctN) * 100
	}
	return met
}
