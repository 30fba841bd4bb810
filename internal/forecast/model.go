// Package forecast fits an additive piecewise-linear trend model to a monthly
// series and extrapolates it. Seasonal components are not modelled.
package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/laccsec/growthbi/internal/model"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	priorScaleK = 5.0 // Normal(0, 5) on base slope and offset
	irlsMaxIter = 100
	irlsTol     = 1e-9
	irlsEps     = 1e-6
	minSigma    = 1e-3 // scaled units
)

// Options controls the trend model.
type Options struct {
	// Changepoints is the maximum number of potential slope changes.
	Changepoints int `toml:"changepoints" default:"25" validate:"gte=0,lte=100"`
	// ChangepointRange is the leading fraction of history that may hold changepoints.
	ChangepointRange float64 `toml:"changepoint_range" default:"0.8" validate:"gt=0,lte=1"`
	// ChangepointPriorScale is the Laplace scale on slope changes. Larger is more flexible.
	ChangepointPriorScale float64 `toml:"changepoint_prior_scale" default:"0.05" validate:"gt=0"`
	// IntervalWidth is the coverage of the uncertainty interval.
	IntervalWidth float64 `toml:"interval_width" default:"0.8" validate:"gt=0,lt=1"`
}

// DefaultOptions returns the standard model settings.
func DefaultOptions() Options {
	return Options{
		Changepoints:          25,
		ChangepointRange:      0.8,
		ChangepointPriorScale: 0.05,
		IntervalWidth:         0.8,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Changepoints < 0 {
		o.Changepoints = 0
	}
	if o.ChangepointRange <= 0 || o.ChangepointRange > 1 {
		o.ChangepointRange = d.ChangepointRange
	}
	if o.ChangepointPriorScale <= 0 {
		o.ChangepointPriorScale = d.ChangepointPriorScale
	}
	if o.IntervalWidth <= 0 || o.IntervalWidth >= 1 {
		o.IntervalWidth = d.IntervalWidth
	}
	return o
}

// Model is a fitted trend:
//
//	y(t) = k*t + m + sum_j delta_j * max(0, t - s_j)
//
// on time scaled to [0, 1] over the history and values scaled by max |y|.
type Model struct {
	opts Options

	start  time.Time
	span   float64 // seconds between first and last history date
	yScale float64

	K      float64
	M      float64
	Deltas []float64
	Breaks []float64 // changepoint positions in scaled time

	// Sigma is the residual standard deviation in unscaled units.
	Sigma float64
	n     int
}

// Fit estimates the trend from history. It fails with model.ErrModelFit when
// there are fewer than two points, every value is identical, a value is not
// finite, or the normal equations cannot be solved.
func Fit(dates []time.Time, values []float64, opts Options) (*Model, error) {
	if len(dates) != len(values) {
		return nil, fmt.Errorf("%w: %d dates for %d values", model.ErrInvalidInput, len(dates), len(values))
	}
	n := len(values)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, have %d", model.ErrModelFit, n)
	}
	for i := 1; i < n; i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("%w: dates not strictly increasing at index %d", model.ErrInvalidInput, i)
		}
	}

	yScale := 0.0
	identical := true
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite value at index %d", model.ErrModelFit, i)
		}
		if math.Abs(v) > yScale {
			yScale = math.Abs(v)
		}
		if v != values[0] {
			identical = false
		}
	}
	if identical {
		return nil, fmt.Errorf("%w: degenerate trend, all %d values equal %g", model.ErrModelFit, n, values[0])
	}

	m := &Model{
		opts:   opts.normalized(),
		start:  dates[0],
		span:   dates[n-1].Sub(dates[0]).Seconds(),
		yScale: yScale,
		n:      n,
	}

	t := make([]float64, n)
	y := make([]float64, n)
	for i := range dates {
		t[i] = m.scaleTime(dates[i])
		y[i] = values[i] / yScale
	}
	m.Breaks = changepoints(t, m.opts.Changepoints, m.opts.ChangepointRange)

	if err := m.solve(t, y); err != nil {
		return nil, err
	}

	var sse float64
	for i := range t {
		r := values[i] - m.at(t[i])
		sse += r * r
	}
	dof := n - 2
	if dof < 1 {
		dof = n
	}
	m.Sigma = math.Sqrt(sse / float64(dof))

	return m, nil
}

// changepoints spreads up to want breaks evenly over the first frac of the
// history, skipping the first point. Short histories get fewer breaks.
func changepoints(t []float64, want int, frac float64) []float64 {
	histSize := int(math.Floor(float64(len(t)) * frac))
	if want+1 > histSize {
		want = histSize - 1
	}
	if want <= 0 {
		return nil
	}

	breaks := make([]float64, 0, want)
	for i := 1; i <= want; i++ {
		idx := int(math.RoundToEven(float64(i) * float64(histSize-1) / float64(want)))
		breaks = append(breaks, t[idx])
	}
	return breaks
}

// solve finds the MAP estimate under Normal priors on k and m and a Laplace
// prior on the slope changes, using iteratively reweighted ridge regression.
func (m *Model) solve(t, y []float64) error {
	n := len(t)
	p := 2 + len(m.Breaks)

	a := mat.NewDense(n, p, nil)
	for i, ti := range t {
		a.Set(i, 0, ti)
		a.Set(i, 1, 1)
		for j, s := range m.Breaks {
			if ti >= s {
				a.Set(i, 2+j, ti-s)
			}
		}
	}
	yv := mat.NewVecDense(n, y)

	var ata mat.Dense
	ata.Mul(a.T(), a)
	var aty mat.VecDense
	aty.MulVec(a.T(), yv)

	// Observation noise comes from a plain linear fit so the penalty weight
	// stays fixed while the slope changes are estimated.
	intercept, slope := stat.LinearRegression(t, y, nil, false)
	var sse float64
	for i := range t {
		r := y[i] - (intercept + slope*t[i])
		sse += r * r
	}
	sigma2 := math.Max(sse/float64(n), minSigma*minSigma)

	tau := m.opts.ChangepointPriorScale
	weights := make([]float64, len(m.Breaks))
	for j := range weights {
		weights[j] = 1 / tau
	}

	beta := mat.NewVecDense(p, nil)
	prev := make([]float64, p)
	for iter := 0; iter < irlsMaxIter; iter++ {
		lhs := mat.NewSymDense(p, nil)
		for i := 0; i < p; i++ {
			for j := i; j < p; j++ {
				lhs.SetSym(i, j, ata.At(i, j))
			}
		}
		prior := sigma2 / (priorScaleK * priorScaleK)
		lhs.SetSym(0, 0, lhs.At(0, 0)+prior)
		lhs.SetSym(1, 1, lhs.At(1, 1)+prior)
		for j, w := range weights {
			lhs.SetSym(2+j, 2+j, lhs.At(2+j, 2+j)+sigma2*w)
		}

		var chol mat.Cholesky
		if ok := chol.Factorize(lhs); !ok {
			return fmt.Errorf("%w: normal equations not positive definite", model.ErrModelFit)
		}
		if err := chol.SolveVecTo(beta, &aty); err != nil {
			return fmt.Errorf("%w: %v", model.ErrModelFit, err)
		}

		change := 0.0
		for i := 0; i < p; i++ {
			change = math.Max(change, math.Abs(beta.AtVec(i)-prev[i]))
			prev[i] = beta.AtVec(i)
		}
		for j := range weights {
			weights[j] = 1 / (tau * (math.Abs(beta.AtVec(2+j)) + irlsEps))
		}
		if change < irlsTol {
			break
		}
	}

	for i := 0; i < p; i++ {
		if v := beta.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite coefficient", model.ErrModelFit)
		}
	}

	m.K = beta.AtVec(0)
	m.M = beta.AtVec(1)
	m.Deltas = make([]float64, len(m.Breaks))
	for j := range m.Deltas {
		m.Deltas[j] = beta.AtVec(2 + j)
	}
	return nil
}

func (m *Model) scaleTime(d time.Time) float64 {
	return d.Sub(m.start).Seconds() / m.span
}

// at evaluates the trend in unscaled units at scaled time t.
func (m *Model) at(t float64) float64 {
	v := m.K*t + m.M
	for j, s := range m.Breaks {
		if t >= s {
			v += m.Deltas[j] * (t - s)
		}
	}
	return v * m.yScale
}

// Predict evaluates the fitted trend at each date.
func (m *Model) Predict(dates []time.Time) []float64 {
	out := make([]float64, len(dates))
	for i, d := range dates {
		out[i] = m.at(m.scaleTime(d))
	}
	return out
}

// Slope returns the final trend slope in unscaled units per scaled time unit.
func (m *Model) Slope() float64 {
	k := m.K
	for _, d := range m.Deltas {
		k += d
	}
	return k * m.yScale
}
