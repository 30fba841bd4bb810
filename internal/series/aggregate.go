package series

import (
	"fmt"

	"github.com/laccsec/growthbi/internal/model"
)

// TotalName is the name given to the aggregate series.
const TotalName = "Total"

// Aggregate sums channel values month by month. Every input series must share
// the same date index.
func Aggregate(channels []model.MonthlySeries) (model.MonthlySeries, error) {
	if len(channels) == 0 {
		return model.MonthlySeries{}, fmt.Errorf("%w: no series to aggregate", model.ErrInvalidInput)
	}
	if err := checkAligned(channels); err != nil {
		return model.MonthlySeries{}, err
	}

	ref := channels[0].Points
	points := make([]model.Point, len(ref))
	for i, p := range ref {
		points[i].Date = p.Date
	}
	for _, s := range channels {
		for i, p := range s.Points {
			points[i].Value += p.Value
		}
	}

	return model.MonthlySeries{Name: TotalName, Points: points}, nil
}

// MonthOverMonth returns per-channel differences between consecutive months.
// The first month has no predecessor and reports zero.
func MonthOverMonth(channels []model.MonthlySeries) []model.DeltaSeries {
	out := make([]model.DeltaSeries, 0, len(channels))
	for _, s := range channels {
		ds := model.DeltaSeries{
			Name:   s.Name,
			Dates:  s.Dates(),
			Deltas: make([]int64, len(s.Points)),
		}
		for i := 1; i < len(s.Points); i++ {
			ds.Deltas[i] = int64(s.Points[i].Value) - int64(s.Points[i-1].Value)
		}
		out = append(out, ds)
	}
	return out
}

func checkAligned(channels []model.MonthlySeries) error {
	ref := channels[0]
	for _, s := range channels[1:] {
		if len(s.Points) != len(ref.Points) {
			return fmt.Errorf("%w: series %q has %d points, %q has %d",
				model.ErrInvalidInput, s.Name, len(s.Points), ref.Name, len(ref.Points))
		}
		for i := range s.Points {
			if !s.Points[i].Date.Equal(ref.Points[i].Date) {
				return fmt.Errorf("%w: series %q date %s does not match %s at index %d",
					model.ErrInvalidInput, s.Name,
					s.Points[i].Date.Format("2006-01"), ref.Points[i].Date.Format("2006-01"), i)
			}
		}
	}
	return nil
}
