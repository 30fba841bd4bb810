package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/laccsec/growthbi/internal/config"
	"github.com/laccsec/growthbi/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := New(config.DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestService(t).Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestSeriesEndpoint(t *testing.T) {
	rec := get(t, newTestService(t).Handler(), "/v1/series")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp seriesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Channels, 7)
	assert.Equal(t, "Total", resp.Total.Name)
	require.Len(t, resp.Total.Points, 18)
	assert.Equal(t, "2024-01", resp.Total.Points[0].Month)
	assert.Equal(t, "2025-06", resp.Total.Points[17].Month)
	assert.Equal(t, int64(0), resp.Deltas[0].Deltas[0])
}

func TestForecastEndpoint(t *testing.T) {
	rec := get(t, newTestService(t).Handler(), "/v1/forecast?horizon=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp forecastJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Available)
	assert.Equal(t, 3, resp.Horizon)
	require.Len(t, resp.Points, 3)
	assert.Equal(t, []string{"2025-07", "2025-08", "2025-09"},
		[]string{resp.Points[0].Month, resp.Points[1].Month, resp.Points[2].Month})
	assert.Equal(t, "2025-09", resp.HeadlineMonth)
	for _, p := range resp.Points {
		assert.LessOrEqual(t, p.Lower, p.Value)
		assert.GreaterOrEqual(t, p.Upper, p.Value)
	}
}

func TestForecastDefaultHorizon(t *testing.T) {
	rec := get(t, newTestService(t).Handler(), "/v1/forecast")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp forecastJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Horizon)
	assert.Len(t, resp.Points, 12)
}

func TestForecastRejectsHorizon(t *testing.T) {
	h := newTestService(t).Handler()
	for _, q := range []string{"0", "-1", "2", "25", "abc"} {
		rec := get(t, h, "/v1/forecast?horizon="+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "horizon=%s", q)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Error)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	rec := get(t, newTestService(t).Handler(), "/v1/dashboard?horizon=6")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Channels, 7)
	assert.Equal(t, "LinkedIn ICC", resp.Summary.LeaderChannel)
	assert.Len(t, resp.Summary.Funnel, 4)
	assert.Len(t, resp.Forecast.Points, 6)
	assert.Len(t, resp.Milestones, 3)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestService(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/series", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestForecastMemoized(t *testing.T) {
	s := newTestService(t)

	var wg sync.WaitGroup
	results := make([]model.ForecastStats, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fs, err := s.Forecast(9)
			assert.NoError(t, err)
			results[i] = fs
		}(i)
	}
	wg.Wait()

	_, err := s.Forecast(9)
	require.NoError(t, err)

	assert.Equal(t, int64(1), s.fits.Load())
	for _, fs := range results[1:] {
		assert.Equal(t, results[0].Points, fs.Points)
	}

	st := s.snapshotStatus()
	assert.Equal(t, []int{9}, st.Horizons)
	assert.Equal(t, 1, st.EventCount)
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := newTestService(t)
	s.eventsBuffer = 2

	s.publishEvent(Event{Horizon: 3})
	s.publishEvent(Event{Horizon: 6})
	s.publishEvent(Event{Horizon: 9})

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.events, 2)
	assert.Equal(t, int64(2), s.events[0].ID)
	assert.Equal(t, int64(3), s.events[1].ID)
	assert.Equal(t, 9, s.events[1].Horizon)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Channels = nil
	_, err := New(cfg, zerolog.Nop())
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
