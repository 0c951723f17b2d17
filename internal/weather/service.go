package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/backspace-weather/internal/location"
	"github.com/i474232898/backspace-weather/internal/logging"
)

const (
	DefaultHours      = 24
	MaxHours          = 48
	DefaultTrendDays  = 7
	MaxTrendDays      = 14
	DefaultHistDays   = 30
	MaxHistoricalDays = 365
	ForecastDays      = 14

	currentLookbackDays = 7

	SummaryFavorable    = "Favorable"
	SummaryNotFavorable = "Not favorable"

	// GeocodeProbeSource names the geocoder in probe results.
	GeocodeProbeSource = "geocode"
)

// Service runs the reanalysis and forecast pipelines for resolved points.
type Service struct {
	resolver   Resolver
	reanalysis ReanalysisSource
	forecast   ForecastSource
	probes     ProbeStore

	sentinels       Sentinels
	defaultLocation string
	now             func() time.Time
	logger          *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithSentinels replaces DefaultSentinels.
func WithSentinels(s Sentinels) Option {
	return func(svc *Service) {
		if len(s) > 0 {
			svc.sentinels = s
		}
	}
}

func WithProbeStore(store ProbeStore) Option {
	return func(svc *Service) { svc.probes = store }
}

func WithDefaultLocation(name string) Option {
	return func(svc *Service) {
		if name != "" {
			svc.defaultLocation = name
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(svc *Service) {
		if logger != nil {
			svc.logger = logger
		}
	}
}

// NewService creates a new Service.
func NewService(resolver Resolver, reanalysis ReanalysisSource, forecast ForecastSource, opts ...Option) *Service {
	s := &Service{
		resolver:        resolver,
		reanalysis:      reanalysis,
		forecast:        forecast,
		sentinels:       DefaultSentinels,
		defaultLocation: "New York, NY",
		now:             time.Now,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultLocation is the place used when a request names none.
func (s *Service) DefaultLocation() string {
	return s.defaultLocation
}

// Now returns the service clock in UTC.
func (s *Service) Now() time.Time {
	return s.now().UTC()
}

// Locate prefers an explicit lat/lon pair and otherwise resolves text.
func (s *Service) Locate(ctx context.Context, lat, lon *float64, text string) (location.Coordinate, error) {
	if lat != nil && lon != nil {
		c := location.FromPoint(*lat, *lon)
		if !c.Valid() {
			return location.Coordinate{}, location.ErrUnresolved
		}
		return c, nil
	}
	if s.resolver == nil {
		return location.Coordinate{}, location.ErrUnresolved
	}
	return s.resolver.Resolve(ctx, text)
}

// Current builds the "now" summary and the trailing hourly records (at most
// `hours`, the last labelled "Now") for a point.
func (s *Service) Current(ctx context.Context, coord location.Coordinate, hours int) (*CurrentConditions, []HourlyRecord, error) {
	log := logging.Subsystem(s.logger, "reanalysis")
	now := s.Now()

	daily, err := s.reanalysis.Daily(ctx, PointRequest{
		Coordinate: coord,
		Parameters: currentParameters,
		Start:      now.AddDate(0, 0, -currentLookbackDays),
		End:        now,
	})
	if err != nil {
		log.Error("daily point request failed", zap.String("location", coord.DisplayName), zap.Error(err))
		return nil, nil, upstreamError("daily reanalysis", err)
	}

	hourly, err := s.hourly(ctx, coord, hours, now)
	if err != nil {
		log.Error("hourly point request failed", zap.String("location", coord.DisplayName), zap.Error(err))
		return nil, nil, upstreamError("hourly reanalysis", err)
	}

	current := BuildCurrent(daily, hourly, s.sentinels)
	return &current, hourly, nil
}

func (s *Service) hourly(ctx context.Context, coord location.Coordinate, hours int, now time.Time) ([]HourlyRecord, error) {
	if hours <= 0 {
		hours = DefaultHours
	}
	if hours > MaxHours {
		hours = MaxHours
	}

	params, err := s.reanalysis.Hourly(ctx, PointRequest{
		Coordinate: coord,
		Parameters: hourlyParameters,
		Start:      now.Add(-(MaxHours - 1) * time.Hour),
		End:        now,
	})
	if errors.Is(err, ErrMissingParameters) {
		return []HourlyRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	return BuildHourly(params, hours, s.sentinels), nil
}

// Trend returns the recent daily trend, days clamped to [1, MaxTrendDays].
func (s *Service) Trend(ctx context.Context, coord location.Coordinate, days int) ([]DailyTrendEntry, error) {
	days = clamp(days, DefaultTrendDays, MaxTrendDays)
	now := s.Now()

	daily, err := s.reanalysis.Daily(ctx, PointRequest{
		Coordinate: coord,
		Parameters: trendParameters,
		Start:      now.AddDate(0, 0, -(days - 1)),
		End:        now,
	})
	if err == nil {
		var trend []DailyTrendEntry
		if trend, err = BuildTrend(daily, days, s.sentinels); err == nil {
			return trend, nil
		}
	}
	logging.Subsystem(s.logger, "trend").Error("trend request failed",
		zap.String("location", coord.DisplayName), zap.Error(err))
	return nil, upstreamError("trend", err)
}

// Historical returns daily history, days clamped to [1, MaxHistoricalDays].
func (s *Service) Historical(ctx context.Context, coord location.Coordinate, days int) ([]HistoricalEntry, error) {
	days = clamp(days, DefaultHistDays, MaxHistoricalDays)
	now := s.Now()

	daily, err := s.reanalysis.Daily(ctx, PointRequest{
		Coordinate: coord,
		Parameters: historicalParameters,
		Start:      now.AddDate(0, 0, -days),
		End:        now,
	})
	if err == nil {
		var hist []HistoricalEntry
		if hist, err = BuildHistorical(daily, s.sentinels); err == nil {
			return hist, nil
		}
	}
	logging.Subsystem(s.logger, "historical").Error("historical request failed",
		zap.String("location", coord.DisplayName), zap.Error(err))
	return nil, upstreamError("historical", err)
}

// EventAdvice scores the forecast hours inside window for eventType. An
// empty window is not an error: the result has NoData set.
func (s *Service) EventAdvice(ctx context.Context, coord location.Coordinate, window EventWindow, eventType string) (EventAdvice, error) {
	fc, err := s.forecast.HourlyForecast(ctx, coord, ForecastDays)
	if err != nil {
		logging.Subsystem(s.logger, "event-advice").Error("forecast request failed",
			zap.String("location", coord.DisplayName), zap.Error(err))
		return EventAdvice{}, upstreamError("forecast", err)
	}

	entries := SelectWindow(fc, window)
	if len(entries) == 0 {
		return EventAdvice{
			NoData:     true,
			Message:    NoWindowDataMessage,
			Coordinate: coord,
			Window:     window,
			EventType:  eventType,
		}, nil
	}

	metrics := Summarize(entries)
	risks := Assess(metrics, eventType)

	metrics.MaxPrecipMM = Round(metrics.MaxPrecipMM, 2)
	for i := range entries {
		entries[i].PrecipitationMM = Round(entries[i].PrecipitationMM, 2)
	}

	summary := SummaryNotFavorable
	if risks.Favorable {
		summary = SummaryFavorable
	}

	return EventAdvice{
		Coordinate:  coord,
		Window:      window,
		EventType:   eventType,
		Risks:       risks,
		Metrics:     metrics,
		Hourly:      entries,
		Favorable:   risks.Favorable,
		Summary:     summary,
		Suggestions: risks.Suggestions,
	}, nil
}

// Compare fetches current conditions for each name in order, one at a time.
// Names that fail to resolve or fetch are logged and skipped.
func (s *Service) Compare(ctx context.Context, names []string) []ComparisonEntry {
	log := logging.Subsystem(s.logger, "compare")

	out := make([]ComparisonEntry, 0, len(names))
	for _, name := range names {
		coord, err := s.Locate(ctx, nil, nil, name)
		if err != nil {
			log.Warn("skipping unresolved location", zap.String("location", name), zap.Error(err))
			continue
		}
		current, _, err := s.Current(ctx, coord, DefaultHours)
		if err != nil {
			log.Warn("skipping location without data", zap.String("location", name), zap.Error(err))
			continue
		}
		out = append(out, ComparisonEntry{Location: coord.DisplayName, Weather: current})
	}
	return out
}

// Probe checks each upstream once against the default location and records
// the outcome in the probe store.
func (s *Service) Probe(ctx context.Context) []ProbeResult {
	log := logging.Subsystem(s.logger, "probe")

	var results []ProbeResult
	record := func(source string, started time.Time, err error) {
		r := ProbeResult{
			Source:    source,
			OK:        err == nil,
			Latency:   s.now().Sub(started),
			CheckedAt: s.Now(),
		}
		if err != nil {
			r.Error = err.Error()
			log.Warn("upstream probe failed", zap.String("source", source), zap.Error(err))
		}
		results = append(results, r)
		if s.probes != nil {
			s.probes.SaveProbe(r)
		}
	}

	started := s.now()
	coord, err := s.Locate(ctx, nil, nil, s.defaultLocation)
	record(GeocodeProbeSource, started, err)
	if err != nil {
		return results
	}

	if s.reanalysis != nil {
		started = s.now()
		today := s.Now()
		_, err = s.reanalysis.Daily(ctx, PointRequest{
			Coordinate: coord,
			Parameters: []string{ParamTemperature},
			Start:      today.AddDate(0, 0, -1),
			End:        today,
		})
		record(s.reanalysis.Name(), started, err)
	}

	if s.forecast != nil {
		started = s.now()
		_, err = s.forecast.HourlyForecast(ctx, coord, 1)
		record(s.forecast.Name(), started, err)
	}

	return results
}

// upstreamError makes sure err matches ErrUpstreamData.
func upstreamError(op string, err error) error {
	if errors.Is(err, ErrUpstreamData) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrUpstreamData, err)
}

func clamp(v, def, limit int) int {
	if v <= 0 {
		return def
	}
	if v > limit {
		return limit
	}
	return v
}
