// Package geolocate finds the user's current position.
package geolocate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/verte-zerg/mapty/internal/workout"
)

const (
	ProviderStatic = "static"
	ProviderHTTP   = "http"

	DefaultURL     = "https://ipapi.co/json/"
	DefaultTimeout = 10 * time.Second
)

// ErrUnavailable is returned when the position cannot be determined.
var ErrUnavailable = errors.New("location unavailable")

// Locator yields the current position once per call.
type Locator interface {
	Locate(ctx context.Context) (workout.Coordinates, error)
}

// Static always reports the same position.
type Static struct {
	At workout.Coordinates
}

// Locate implements Locator.
func (s Static) Locate(ctx context.Context) (workout.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return workout.Coordinates{}, err
	}
	return s.At, nil
}

// HTTP looks the position up from an IP geolocation service that answers
// with JSON carrying lat/lon or latitude/longitude.
type HTTP struct {
	URL     string
	Timeout time.Duration
}

type lookupResponse struct {
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

// Locate implements Locator.
func (h HTTP) Locate(ctx context.Context) (workout.Coordinates, error) {
	url := h.URL
	if url == "" {
		url = DefaultURL
	}
	resp, err := httpRequest(ctx, url, h.Timeout)
	if err != nil {
		return workout.Coordinates{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return workout.Coordinates{}, fmt.Errorf("%w: unexpected status %s", ErrUnavailable, resp.Status)
	}
	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return workout.Coordinates{}, fmt.Errorf("failed to decode location response: %w", err)
	}
	return payload.coordinates()
}

func (p lookupResponse) coordinates() (workout.Coordinates, error) {
	if p.Error || p.Status == "fail" {
		reason := p.Reason
		if reason == "" {
			reason = p.Message
		}
		return workout.Coordinates{}, fmt.Errorf("%w: %s", ErrUnavailable, reason)
	}
	lat, lng := p.Lat, p.Lon
	if lat == nil || lng == nil {
		lat, lng = p.Latitude, p.Longitude
	}
	if lat == nil || lng == nil {
		return workout.Coordinates{}, fmt.Errorf("%w: response has no coordinates", ErrUnavailable)
	}
	if math.Abs(*lat) > 90 || math.Abs(*lng) > 180 {
		return workout.Coordinates{}, fmt.Errorf("%w: coordinates out of range", ErrUnavailable)
	}
	return workout.Coordinates{Lat: *lat, Lng: *lng}, nil
}

// New builds the locator named by provider.
func New(provider string, at workout.Coordinates, url string, timeout time.Duration) (Locator, error) {
	switch provider {
	case "", ProviderStatic:
		return Static{At: at}, nil
	case ProviderHTTP:
		return HTTP{URL: url, Timeout: timeout}, nil
	default:
		return nil, fmt.Errorf("unknown location provider %q", provider)
	}
}

func httpRequest(ctx context.Context, url string, timeout time.Duration) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
