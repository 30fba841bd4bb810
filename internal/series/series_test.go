package series

import (
	"errors"
	"testing"
	"time"

	"github.com/laccsec/growthbi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01", s)
	require.NoError(t, err)
	return d
}

func zeroNoise(float64) float64 { return 0 }

var lacc = []model.ChannelEndpoint{
	{Name: "LinkedIn ICC", Current: 3386},
	{Name: "LinkedIn Latin", Current: 307},
	{Name: "X Contacto", Current: 3},
	{Name: "X LatamCaribe", Current: 272},
	{Name: "Instagram", Current: 126},
	{Name: "TikTok", Current: 12},
	{Name: "YouTube", Current: 103},
}

func TestMonthIndex(t *testing.T) {
	dates, err := MonthIndex(month(t, "2024-01"), month(t, "2025-06"))
	require.NoError(t, err)
	require.Len(t, dates, 18)
	assert.Equal(t, "2024-01", dates[0].Format("2006-01"))
	assert.Equal(t, "2025-06", dates[17].Format("2006-01"))
	for i := 1; i < len(dates); i++ {
		assert.Equal(t, dates[i-1].AddDate(0, 1, 0), dates[i])
	}
}

func TestMonthIndexNormalizesDay(t *testing.T) {
	start := time.Date(2024, time.January, 31, 15, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
	dates, err := MonthIndex(start, end)
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.Equal(t, 1, dates[1].Day())
	assert.Equal(t, time.February, dates[1].Month())
}

func TestMonthIndexRejectsReversedRange(t *testing.T) {
	_, err := MonthIndex(month(t, "2024-05"), month(t, "2024-01"))
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestSynthesizeWithoutNoise(t *testing.T) {
	got, err := Synthesize(
		[]model.ChannelEndpoint{{Name: "A", Current: 100}},
		month(t, "2024-01"), month(t, "2024-03"),
		WithNoise(zeroNoise),
	)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []float64{5, 52, 100}, got[0].Values())
}

func TestSynthesizeExampleScenario(t *testing.T) {
	got, err := Synthesize(
		[]model.ChannelEndpoint{{Name: "A", Current: 100}},
		month(t, "2024-01"), month(t, "2024-03"),
	)
	require.NoError(t, err)
	vals := got[0].Values()
	require.Len(t, vals, 3)

	// sigma is 2 followers; 6 sigma is far outside any plausible draw.
	want := []float64{5, 52.5, 100}
	for i, v := range vals {
		assert.InDelta(t, want[i], v, 13, "point %d", i)
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestSynthesizeDefaultSeedValues(t *testing.T) {
	got, err := Synthesize(
		[]model.ChannelEndpoint{{Name: "A", Current: 100}},
		month(t, "2024-01"), month(t, "2024-03"),
	)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 50, 97}, got[0].Values())
}

func TestSynthesizeDefaultSeedLACC(t *testing.T) {
	got, err := Synthesize(lacc, month(t, "2024-01"), month(t, "2025-06"))
	require.NoError(t, err)

	wantLast := map[string]float64{
		"LinkedIn ICC":   3403,
		"LinkedIn Latin": 303,
		"X Contacto":     2,
		"X LatamCaribe":  270,
		"Instagram":      125,
		"TikTok":         12,
		"YouTube":        104,
	}
	for _, s := range got {
		assert.Equal(t, wantLast[s.Name], s.Last().Value, s.Name)
	}
	assert.Equal(t,
		[]float64{150, 286, 465, 863, 945, 1226, 1200, 1523, 1661, 1808, 2148, 2214, 2459, 2641, 2831, 3020, 3326, 3403},
		got[0].Values())

	total, err := Aggregate(got)
	require.NoError(t, err)
	assert.Equal(t, 197.0, total.First().Value)
	assert.Equal(t, 4219.0, total.Last().Value)
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	start, end := month(t, "2024-01"), month(t, "2025-06")
	a, err := Synthesize(lacc, start, end)
	require.NoError(t, err)
	b, err := Synthesize(lacc, start, end)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Synthesize(lacc, start, end, WithSeed(7))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSynthesizeInvariants(t *testing.T) {
	start, end := month(t, "2024-01"), month(t, "2025-06")
	got, err := Synthesize(lacc, start, end)
	require.NoError(t, err)
	require.Len(t, got, len(lacc))

	dates, err := MonthIndex(start, end)
	require.NoError(t, err)

	for i, s := range got {
		assert.Equal(t, lacc[i].Name, s.Name)
		assert.Equal(t, dates, s.Dates())
		for _, p := range s.Points {
			assert.GreaterOrEqual(t, p.Value, 0.0)
			assert.Equal(t, float64(int64(p.Value)), p.Value, "values are whole numbers")
		}
		sigma := float64(lacc[i].Current) * noiseFraction
		assert.InDelta(t, float64(lacc[i].Current), s.Last().Value, 6*sigma+1)
	}
}

func TestSynthesizeZeroChannel(t *testing.T) {
	got, err := Synthesize(
		[]model.ChannelEndpoint{{Name: "Quiet", Current: 0}},
		month(t, "2024-01"), month(t, "2024-12"),
	)
	require.NoError(t, err)
	for _, v := range got[0].Values() {
		assert.Zero(t, v)
	}
}

func TestSynthesizeClampsNegativeNoise(t *testing.T) {
	got, err := Synthesize(
		[]model.ChannelEndpoint{{Name: "A", Current: 10}},
		month(t, "2024-01"), month(t, "2024-02"),
		WithNoise(func(float64) float64 { return -1000 }),
	)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, got[0].Values())
}

func TestSynthesizeSingleMonthHoldsBaseline(t *testing.T) {
	got, err := Synthesize(
		[]model.ChannelEndpoint{{Name: "A", Current: 200}},
		month(t, "2024-01"), month(t, "2024-01"),
		WithNoise(zeroNoise),
	)
	require.NoError(t, err)
	assert.Equal(t, []float64{10}, got[0].Values())
}

func TestSynthesizeRejectsBadEndpoints(t *testing.T) {
	start, end := month(t, "2024-01"), month(t, "2024-03")
	cases := map[string][]model.ChannelEndpoint{
		"empty":     nil,
		"blank":     {{Name: "", Current: 1}},
		"duplicate": {{Name: "A", Current: 1}, {Name: "A", Current: 2}},
		"negative":  {{Name: "A", Current: -1}},
	}
	for name, eps := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Synthesize(eps, start, end)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestAggregateSumsByIndex(t *testing.T) {
	start, end := month(t, "2024-01"), month(t, "2025-06")
	channels, err := Synthesize(lacc, start, end)
	require.NoError(t, err)

	total, err := Aggregate(channels)
	require.NoError(t, err)
	require.Equal(t, channels[0].Len(), total.Len())
	assert.Equal(t, TotalName, total.Name)

	for i, p := range total.Points {
		var sum float64
		for _, s := range channels {
			sum += s.Points[i].Value
		}
		assert.Equal(t, sum, p.Value, "index %d", i)
		assert.Equal(t, channels[0].Points[i].Date, p.Date)
	}
}

func TestAggregateSingleChannelIsIdentity(t *testing.T) {
	channels, err := Synthesize(
		[]model.ChannelEndpoint{{Name: "A", Current: 100}},
		month(t, "2024-01"), month(t, "2024-03"),
	)
	require.NoError(t, err)
	total, err := Aggregate(channels)
	require.NoError(t, err)
	assert.Equal(t, channels[0].Points, total.Points)
}

func TestAggregateRejectsMisalignedSeries(t *testing.T) {
	a := model.MonthlySeries{Name: "a", Points: []model.Point{{Date: month(t, "2024-01")}, {Date: month(t, "2024-02")}}}
	short := model.MonthlySeries{Name: "b", Points: []model.Point{{Date: month(t, "2024-01")}}}
	shifted := model.MonthlySeries{Name: "c", Points: []model.Point{{Date: month(t, "2024-02")}, {Date: month(t, "2024-03")}}}

	_, err := Aggregate([]model.MonthlySeries{a, short})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	_, err = Aggregate([]model.MonthlySeries{a, shifted})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	_, err = Aggregate(nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestMonthOverMonth(t *testing.T) {
	s := model.MonthlySeries{Name: "a", Points: []model.Point{
		{Date: month(t, "2024-01"), Value: 5},
		{Date: month(t, "2024-02"), Value: 12},
		{Date: month(t, "2024-03"), Value: 9},
	}}
	got := MonthOverMonth([]model.MonthlySeries{s})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, []int64{0, 7, -3}, got[0].Deltas)
	assert.Equal(t, s.Dates(), got[0].Dates)
}
