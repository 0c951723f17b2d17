package location

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/backspace-weather/internal/logging"
)

// ErrUnresolved is returned when a place name or coordinate string cannot be
// turned into a coordinate pair. It is never retried.
var ErrUnresolved = errors.New("location could not be resolved")

// Coordinate is a resolved point on the globe. It is produced once per
// request and not modified afterwards.
type Coordinate struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
}

// Valid reports whether the coordinate lies inside the WGS84 ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// FormatName renders a coordinate pair the way it is shown to users when no
// geocoded name is available.
func FormatName(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

// FromPoint builds a coordinate for an explicit lat/lon pair.
func FromPoint(lat, lon float64) Coordinate {
	return Coordinate{Latitude: lat, Longitude: lon, DisplayName: FormatName(lat, lon)}
}

// Geocoder looks up the first match for a free-text place name.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, query string) (Coordinate, error)
}

var coordinatePattern = regexp.MustCompile(`^\s*([-+]?\d+(?:\.\d+)?)\s*,\s*([-+]?\d+(?:\.\d+)?)\s*$`)

// ParseCoordinates recognises "<lat>, <lon>" strings. The second return value
// is false when text is not in that form.
func ParseCoordinates(text string) (Coordinate, bool) {
	m := coordinatePattern.FindStringSubmatch(text)
	if m == nil {
		return Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Coordinate{}, false
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Coordinate{}, false
	}
	return FromPoint(lat, lon), true
}

// Resolver turns user input into coordinates, going to the geocoder only when
// the input is not already a coordinate pair.
type Resolver struct {
	geocoder Geocoder
	timeout  time.Duration
	logger   *zap.Logger
}

// NewResolver creates a Resolver. A zero timeout leaves the geocoder call
// bounded only by the caller's context.
func NewResolver(geocoder Geocoder, timeout time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		timeout:  timeout,
		logger:   logging.Subsystem(logger, "geocode"),
	}
}

// Resolve returns the coordinate for text or ErrUnresolved.
func (r *Resolver) Resolve(ctx context.Context, text string) (Coordinate, error) {
	if c, ok := ParseCoordinates(text); ok {
		if !c.Valid() {
			return Coordinate{}, fmt.Errorf("%w: %q is out of range", ErrUnresolved, text)
		}
		return c, nil
	}

	if strings.TrimSpace(text) == "" || r.geocoder == nil {
		return Coordinate{}, ErrUnresolved
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	c, err := r.geocoder.Geocode(ctx, text)
	if err != nil {
		r.logger.Warn("geocoding failed",
			zap.String("geocoder", r.geocoder.Name()),
			zap.String("query", text),
			zap.Error(err))
		if errors.Is(err, ErrUnresolved) {
			return Coordinate{}, err
		}
		return Coordinate{}, fmt.Errorf("%w: %v", ErrUnresolved, err)
	}
	if !c.Valid() {
		return Coordinate{}, fmt.Errorf("%w: geocoder returned out of range point", ErrUnresolved)
	}
	if c.DisplayName == "" {
		c.DisplayName = text
	}
	return c, nil
}
