// Package series synthesizes and aggregates monthly follower series.
package series

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/laccsec/growthbi/internal/model"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultSeed makes repeated runs produce identical series.
	DefaultSeed uint64 = 42

	baselineFraction = 0.05
	noiseFraction    = 0.02
)

// NoiseFunc returns one noise draw for the given standard deviation.
type NoiseFunc func(sigma float64) float64

type options struct {
	seed  uint64
	noise NoiseFunc
}

// Option configures Synthesize.
type Option func(*options)

// WithSeed sets the seed of the Gaussian noise generator.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithNoise replaces the Gaussian generator. Used by tests to pin noise.
func WithNoise(fn NoiseFunc) Option {
	return func(o *options) { o.noise = fn }
}

// gaussian returns a seeded N(0, sigma) generator. A single source is shared
// by every channel so draws follow endpoint order.
func gaussian(seed uint64) NoiseFunc {
	src := rand.NewPCG(seed, seed)
	return func(sigma float64) float64 {
		n := distuv.Normal{Mu: 0, Sigma: sigma, Src: src}
		return n.Rand()
	}
}

// MonthStart truncates t to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthIndex returns every month from start to end inclusive.
func MonthIndex(start, end time.Time) ([]time.Time, error) {
	first := MonthStart(start)
	last := MonthStart(end)
	if last.Before(first) {
		return nil, fmt.Errorf("%w: end %s before start %s",
			model.ErrInvalidInput, last.Format("2006-01"), first.Format("2006-01"))
	}

	var dates []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 1, 0) {
		dates = append(dates, d)
	}
	return dates, nil
}

// Synthesize builds one monthly series per endpoint, interpolating linearly
// from 5% of the current count up to the current count, with Gaussian noise
// of 2% of the current count. Values are clamped at zero and truncated.
func Synthesize(endpoints []model.ChannelEndpoint, start, end time.Time, opts ...Option) ([]model.MonthlySeries, error) {
	if err := ValidateEndpoints(endpoints); err != nil {
		return nil, err
	}

	dates, err := MonthIndex(start, end)
	if err != nil {
		return nil, err
	}

	o := options{seed: DefaultSeed}
	for _, opt := range opts {
		opt(&o)
	}
	if o.noise == nil {
		o.noise = gaussian(o.seed)
	}

	n := len(dates)
	out := make([]model.MonthlySeries, 0, len(endpoints))
	for _, ep := range endpoints {
		current := float64(ep.Current)
		base := math.Floor(current * baselineFraction)
		sigma := current * noiseFraction

		points := make([]model.Point, n)
		for i, d := range dates {
			trend := base
			if n > 1 {
				trend = base + (current-base)*float64(i)/float64(n-1)
			}
			v := trend + o.noise(sigma)
			if v < 0 {
				v = 0
			}
			points[i] = model.Point{Date: d, Value: math.Trunc(v)}
		}
		out = append(out, model.MonthlySeries{Name: ep.Name, Points: points})
	}

	return out, nil
}

// ValidateEndpoints rejects an empty endpoint list, blank or duplicate names,
// and negative counts.
func ValidateEndpoints(endpoints []model.ChannelEndpoint) error {
	if len(endpoints) == 0 {
		return fmt.Errorf("%w: no channel endpoints", model.ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(endpoints))
	for _, ep := range endpoints {
		if ep.Name == "" {
			return fmt.Errorf("%w: channel with empty name", model.ErrInvalidInput)
		}
		if _, dup := seen[ep.Name]; dup {
			return fmt.Errorf("%w: duplicate channel %q", model.ErrInvalidInput, ep.Name)
		}
		seen[ep.Name] = struct{}{}
		if ep.Current < 0 {
			return fmt.Errorf("%w: channel %q has negative count %d", model.ErrInvalidInput, ep.Name, ep.Current)
		}
	}
	return nil
}
