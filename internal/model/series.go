// Package model defines domain types for growthbi series, forecasts, and summaries.
package model

import "time"

// ChannelEndpoint is the known current follower count of one channel.
type ChannelEndpoint struct {
	Name    string
	Current int64
}

// Point is one monthly observation. Date is the first day of the month (UTC).
type Point struct {
	Date  time.Time
	Value float64
}

// MonthlySeries is an ordered sequence of monthly points for one channel
// or for the aggregate of all channels.
type MonthlySeries struct {
	Name   string
	Points []Point
}

// Len returns the number of points.
func (s MonthlySeries) Len() int { return len(s.Points) }

// Dates returns the date index of the series.
func (s MonthlySeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Values returns the series values in date order.
func (s MonthlySeries) Values() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = p.Value
	}
	return vals
}

// Last returns the final point, or a zero Point for an empty series.
func (s MonthlySeries) Last() Point {
	if len(s.Points) == 0 {
		return Point{}
	}
	return s.Points[len(s.Points)-1]
}

// First returns the first point, or a zero Point for an empty series.
func (s MonthlySeries) First() Point {
	if len(s.Points) == 0 {
		return Point{}
	}
	return s.Points[0]
}

// DeltaSeries holds month-over-month follower changes for one channel.
// Deltas[0] is always zero.
type DeltaSeries struct {
	Name   string
	Dates  []time.Time
	Deltas []int64
}

// ForecastPoint is a predicted value for a month after the historical range.
type ForecastPoint struct {
	Date  time.Time
	Value float64
	Lower float64
	Upper float64
}
