package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/backspace-weather/internal/location"
	"github.com/i474232898/backspace-weather/internal/logging"
	"github.com/i474232898/backspace-weather/internal/store"
	"github.com/i474232898/backspace-weather/internal/weather"
)

const (
	SourceReanalysis = "NASA POWER API"
	SourceCombined   = "Open-Meteo (forecast) + NASA POWER (current/historical)"

	msgWeatherFailed    = "Unable to fetch weather data"
	msgTrendFailed      = "Unable to fetch trend data"
	msgHistoricalFailed = "Unable to fetch historical data"
	msgEventArgs        = "lat, lon, start, end are required"
	msgEventFailed      = "Failed to compute event advice"
	msgUnresolved       = "Unable to resolve location"
)

var validate = validator.New()

// ProbeReader is the read side of the probe store.
type ProbeReader interface {
	Latest() []weather.ProbeResult
	GetRange(source string, from, to time.Time) ([]weather.ProbeResult, error)
}

type handler struct {
	service *weather.Service
	probes  ProbeReader
	logger  *zap.Logger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, probes ProbeReader, logger *zap.Logger) {
	h := &handler{service: service, probes: probes, logger: logging.Subsystem(logger, "http")}

	api := app.Group("/api")
	api.Get("/weather", h.weather)
	api.Get("/forecast", h.forecast)
	api.Get("/historical", h.historical)
	api.Get("/event-advice", h.eventAdvice)
	api.Get("/compare", h.compare)
	api.Get("/probes", h.probeHistory)
}

// NewErrorHandler renders every error as {"error": message}.
func NewErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	log := logging.Subsystem(logger, "http")
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("path", c.Path()), zap.Int("status", code), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}

func (h *handler) weather(c *fiber.Ctx) error {
	var q weatherQuery
	if err := q.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	coord, err := h.locate(c, q.Point, h.service.DefaultLocation())
	if err != nil {
		return err
	}

	current, hourly, err := h.service.Current(c.UserContext(), coord, q.Hours)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgWeatherFailed)
	}

	report := weather.ShapeUnits(&weather.Report{Current: current, Hourly: hourly}, q.Point.Unit)
	return c.JSON(fiber.Map{
		"location":  coord.DisplayName,
		"current":   report.Current,
		"hourly":    nonNil(report.Hourly),
		"timestamp": h.timestamp(),
		"source":    SourceReanalysis,
		"unit":      report.Unit,
	})
}

func (h *handler) forecast(c *fiber.Ctx) error {
	var q daysQuery
	if err := q.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	coord, err := h.locate(c, q.Point, h.service.DefaultLocation())
	if err != nil {
		return err
	}

	trend, err := h.service.Trend(c.UserContext(), coord, q.Days)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgTrendFailed)
	}

	report := weather.ShapeUnits(&weather.Report{Forecast: trend}, q.Point.Unit)
	return c.JSON(fiber.Map{
		"location":  coord.DisplayName,
		"forecast":  nonNil(report.Forecast),
		"timestamp": h.timestamp(),
		"source":    SourceReanalysis,
		"unit":      report.Unit,
	})
}

func (h *handler) historical(c *fiber.Ctx) error {
	var q daysQuery
	if err := q.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	coord, err := h.locate(c, q.Point, h.service.DefaultLocation())
	if err != nil {
		return err
	}

	hist, err := h.service.Historical(c.UserContext(), coord, q.Days)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgHistoricalFailed)
	}

	report := weather.ShapeUnits(&weather.Report{Historical: hist}, q.Point.Unit)
	return c.JSON(fiber.Map{
		"location":   coord.DisplayName,
		"historical": nonNil(report.Historical),
		"timestamp":  h.timestamp(),
		"source":     SourceReanalysis,
		"unit":       report.Unit,
	})
}

type pointJSON struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type eventAdviceResponse struct {
	Location pointJSON `json:"location"`
	*weather.EventAdvice
	Source string `json:"source"`
}

func (h *handler) eventAdvice(c *fiber.Ctx) error {
	var q eventQuery
	if err := q.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	// No default location here: an event needs an explicit place.
	p := q.Point
	if p.Location == "" && (p.Lat == nil || p.Lon == nil) {
		return fiber.NewError(fiber.StatusBadRequest, msgEventArgs)
	}
	coord, err := h.service.Locate(c.UserContext(), p.Lat, p.Lon, p.Location)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgEventArgs)
	}

	advice, err := h.service.EventAdvice(c.UserContext(), coord, weather.EventWindow{Start: q.Start, End: q.End}, q.EventType)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, msgEventFailed)
	}
	if advice.NoData {
		return c.JSON(fiber.Map{"error": advice.Message})
	}

	report := weather.ShapeUnits(&weather.Report{Event: &advice}, p.Unit)
	return c.JSON(eventAdviceResponse{
		Location:    pointJSON{Lat: coord.Latitude, Lon: coord.Longitude},
		EventAdvice: report.Event,
		Source:      SourceCombined,
	})
}

func (h *handler) compare(c *fiber.Ctx) error {
	unit := weather.ParseUnit(c.Query("unit"))

	var names []string
	for _, key := range []string{"locations[]", "locations"} {
		for _, v := range c.Context().QueryArgs().PeekMulti(key) {
			if name := strings.TrimSpace(string(v)); name != "" {
				names = append(names, name)
			}
		}
	}

	comparison := h.service.Compare(c.UserContext(), names)
	for _, entry := range comparison {
		weather.ShapeUnits(&weather.Report{Current: entry.Weather}, unit)
	}

	return c.JSON(fiber.Map{
		"comparison": comparison,
		"timestamp":  h.timestamp(),
		"source":     SourceReanalysis,
		"unit":       unit.Symbol(),
	})
}

func (h *handler) probeHistory(c *fiber.Ctx) error {
	if h.probes == nil {
		return fiber.NewError(fiber.StatusNotFound, "probing is disabled")
	}
	if c.Query("source") == "" {
		return c.JSON(fiber.Map{"probes": h.probes.Latest()})
	}

	var req probeQuery
	if err := req.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	results, err := h.probes.GetRange(req.Source, req.From, req.To)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no probe results for requested range")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to read probe history")
	}

	return c.JSON(fiber.Map{
		"source": req.Source,
		"from":   req.From,
		"to":     req.To,
		"probes": results,
	})
}

// locate resolves the request point, falling back to def when the query
// names neither coordinates nor a place.
func (h *handler) locate(c *fiber.Ctx, q pointQuery, def string) (location.Coordinate, error) {
	text := q.Location
	if text == "" {
		text = def
	}
	coord, err := h.service.Locate(c.UserContext(), q.Lat, q.Lon, text)
	if err != nil {
		h.logger.Warn("location not resolved", zap.String("location", text), zap.Error(err))
		return location.Coordinate{}, fiber.NewError(fiber.StatusBadRequest, msgUnresolved)
	}
	return coord, nil
}

// timestamp renders the response time as ISO-8601 UTC with a trailing Z.
func (h *handler) timestamp() string {
	return h.service.Now().Format("2006-01-02T15:04:05.000000") + "Z"
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// pointQuery holds the query parameters that identify a location.
// Unparsable coordinates count as absent.
type pointQuery struct {
	Lat      *float64 `validate:"omitempty,min=-90,max=90"`
	Lon      *float64 `validate:"omitempty,min=-180,max=180"`
	Location string
	Unit     weather.Unit
}

func (p *pointQuery) bind(c *fiber.Ctx) {
	p.Lat = queryFloat(c, "lat")
	p.Lon = queryFloat(c, "lon")
	p.Location = strings.TrimSpace(c.Query("location"))
	p.Unit = weather.ParseUnit(c.Query("unit"))
}

type weatherQuery struct {
	Point pointQuery
	Hours int `validate:"omitempty,min=1"`
}

func (q *weatherQuery) bind(c *fiber.Ctx) error {
	q.Point.bind(c)
	q.Hours = c.QueryInt("hours", weather.DefaultHours)
	return validate.Struct(q)
}

// daysQuery serves both the trend and historical endpoints; the service
// clamps the upper bound.
type daysQuery struct {
	Point pointQuery
	Days int `validate:"omitempty,min=1"`
}

func (q *daysQuery) bind(c *fiber.Ctx) error {
	q.Point.bind(c)
	q.Days = c.QueryInt("days", 0)
	return validate.Struct(q)
}

type eventQuery struct {
	Point     pointQuery
	Start     string `validate:"required"`
	End       string `validate:"required"`
	EventType string
}

func (q *eventQuery) bind(c *fiber.Ctx) error {
	q.Point.bind(c)
	q.Start = strings.TrimSpace(c.Query("start"))
	q.End = strings.TrimSpace(c.Query("end"))
	q.EventType = c.Query("eventType", "General")
	if q.Start == "" || q.End == "" {
		return errors.New(msgEventArgs)
	}
	return validate.Struct(q)
}

// probeQuery holds query parameters for the probe history endpoint.
type probeQuery struct {
	Source string    `validate:"required"`
	From   time.Time `validate:"required"`
	To     time.Time `validate:"required,gtefield=From"`
}

func (p *probeQuery) bind(c *fiber.Ctx) error {
	p.Source = c.Query("source")

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	p.From = from
	p.To = to
	return nil
}

func queryFloat(c *fiber.Ctx, key string) *float64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
