// Package server exposes the dashboard as a read-only JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/laccsec/growthbi/internal/config"
	"github.com/laccsec/growthbi/internal/model"
	"github.com/laccsec/growthbi/internal/pipeline"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const defaultEventsBuffer = 100

// Event records a forecast fit performed for some horizon.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Horizon   int       `json:"horizon"`
	Available bool      `json:"available"`
	Headline  float64   `json:"headline,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	Title        string    `json:"title"`
	StartedAt    time.Time `json:"started_at"`
	Months       int       `json:"months"`
	Channels     int       `json:"channels"`
	Horizons     []int     `json:"cached_horizons"`
	ForecastFits int64     `json:"forecast_fits"`
	Requests     int64     `json:"requests"`
	EventCount   int       `json:"event_count"`
}

// Service holds the synthesized history and memoizes forecasts by horizon.
type Service struct {
	cfg     config.Config
	log     zerolog.Logger
	history *pipeline.Dashboard

	startedAt time.Time
	requests  atomic.Int64
	fits      atomic.Int64

	group singleflight.Group

	mu           sync.RWMutex
	forecasts    map[int]model.ForecastStats
	nextEventID  int64
	events       []Event
	eventsBuffer int
}

// New synthesizes the history once and returns a service ready to serve it.
func New(cfg config.Config, log zerolog.Logger) (*Service, error) {
	history, err := pipeline.BuildHistory(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:          cfg,
		log:          log.With().Str("component", "server").Logger(),
		history:      history,
		startedAt:    time.Now(),
		forecasts:    make(map[int]model.ForecastStats),
		eventsBuffer: defaultEventsBuffer,
	}, nil
}

// Handler returns the API routes wrapped in request logging.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/series", s.handleSeries)
	mux.HandleFunc("GET /v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	return s.logRequests(mux)
}

// Run serves on the configured address until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Forecast returns the forecast for horizon, fitting it at most once.
// Concurrent requests for the same horizon share a single fit.
func (s *Service) Forecast(horizon int) (model.ForecastStats, error) {
	if err := s.cfg.CheckHorizon(horizon); err != nil {
		return model.ForecastStats{}, err
	}

	s.mu.RLock()
	fs, ok := s.forecasts[horizon]
	s.mu.RUnlock()
	if ok {
		return fs, nil
	}

	v, err, _ := s.group.Do(strconv.Itoa(horizon), func() (any, error) {
		s.mu.RLock()
		cached, ok := s.forecasts[horizon]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		start := time.Now()
		fs, err := pipeline.RunForecast(s.history.Total, horizon, s.cfg.Forecast.Options)
		if err != nil {
			return nil, err
		}
		s.fits.Add(1)
		s.log.Debug().
			Int("horizon", horizon).
			Bool("available", fs.Available).
			Dur("took", time.Since(start)).
			Msg("forecast fitted")

		s.mu.Lock()
		s.forecasts[horizon] = fs
		s.mu.Unlock()
		s.publishEvent(Event{
			Type:      "forecast_fit",
			Timestamp: time.Now(),
			Horizon:   horizon,
			Available: fs.Available,
			Headline:  fs.Headline,
		})
		return fs, nil
	})
	if err != nil {
		return model.ForecastStats{}, err
	}
	return v.(model.ForecastStats), nil
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.eventsBuffer {
		s.events = s.events[len(s.events)-s.eventsBuffer:]
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	horizons := make([]int, 0, len(s.forecasts))
	for h := s.cfg.Forecast.MinHorizon; h <= s.cfg.Forecast.MaxHorizon; h++ {
		if _, ok := s.forecasts[h]; ok {
			horizons = append(horizons, h)
		}
	}
	return Status{
		Title:        s.history.Title,
		StartedAt:    s.startedAt,
		Months:       s.history.Total.Len(),
		Channels:     len(s.history.Channels),
		Horizons:     horizons,
		ForecastFits: s.fits.Load(),
		Requests:     s.requests.Load(),
		EventCount:   len(s.events),
	}
}

// horizonParam reads ?horizon=, falling back to the configured default.
func (s *Service) horizonParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("horizon")
	if raw == "" {
		return s.cfg.Forecast.Horizon, nil
	}
	h, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: horizon %q is not an integer", model.ErrInvalidInput, raw)
	}
	return h, nil
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleSeries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, seriesResponseFrom(s.history))
}

func (s *Service) handleForecast(w http.ResponseWriter, r *http.Request) {
	h, err := s.horizonParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	fs, err := s.Forecast(h)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forecastFrom(fs))
}

func (s *Service) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h, err := s.horizonParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	fs, err := s.Forecast(h)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{
		seriesResponse: seriesResponseFrom(s.history),
		Summary:        summaryFrom(s.history.Summary),
		Forecast:       forecastFrom(fs),
		Milestones:     milestonesFrom(s.history.Milestones),
	})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
	} else {
		s.log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
