package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/backspace-weather/internal/logging"
	"github.com/i474232898/backspace-weather/internal/weather"
)

// DefaultUserAgent identifies this service to upstream APIs.
const DefaultUserAgent = "BackspaceWeather/1.0"

// Options bundles settings shared by every upstream client.
type Options struct {
	UserAgent string
	// Breaker wraps calls in a circuit breaker when set.
	Breaker bool
	Logger  *zap.Logger
}

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errUnexpected  = errors.New("unexpected status code")
	errCircuitOpen = errors.New("circuit breaker open")
)

// upstream is a JSON-over-HTTP client for one external service.
type upstream struct {
	name    string
	client  *resty.Client
	circuit *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func newUpstream(name, baseURL string, timeout time.Duration, opts Options) *upstream {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	logger := logging.Subsystem(opts.Logger, name)

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", ua).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(0)

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("upstream response",
			zap.String("url", resp.Request.URL),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("elapsed", resp.Time()))
		return nil
	})

	u := &upstream{name: name, client: client, logger: logger}
	if opts.Breaker {
		u.circuit = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		})
	}
	return u
}

// getJSON issues a GET for path and decodes the body into out. Every error
// it returns matches weather.ErrUpstreamData.
func (u *upstream) getJSON(ctx context.Context, path string, params map[string]string, out any) error {
	call := func() (interface{}, error) {
		resp, err := u.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(path)
		if err != nil {
			return nil, err
		}

		// Handle rate limiting and server errors explicitly.
		if resp.StatusCode() == http.StatusTooManyRequests {
			return nil, errRateLimited
		}
		if resp.StatusCode() >= 500 {
			return nil, errServerError
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode())
		}
		return resp.Body(), nil
	}

	var (
		result interface{}
		err    error
	)
	if u.circuit != nil {
		result, err = u.circuit.Execute(call)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
	} else {
		result, err = call()
	}
	if err != nil {
		return fmt.Errorf("%s: %w: %w", u.name, weather.ErrUpstreamData, err)
	}

	body, ok := result.([]byte)
	if !ok {
		return fmt.Errorf("%s: %w: unexpected result type", u.name, weather.ErrUpstreamData)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: %w: decode: %v", u.name, weather.ErrUpstreamData, err)
	}
	return nil
}
