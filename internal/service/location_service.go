package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/metrics"
	"ticket-marketplace-be/internal/pkg/serverutils"

	"github.com/patrickmn/go-cache"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	DefaultGeoapifyURL = "https://api.geoapify.com/v1/geocode/search"
	geocodeCacheTTL    = 24 * time.Hour
	geocodeBreakerName = "geoapify"
)

type ILocationService interface {
	Geocode(ctx context.Context, query string) (*dto.GeocodeResponse, error)
}

type locationService struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *cache.Cache
	breaker *gobreaker.CircuitBreaker[*dto.GeocodeResponse]
	logger  logger.ILogger
}

// NewLocationService geocodes through Geoapify. An empty baseURL uses the public API.
func NewLocationService(apiKey, baseURL string, log logger.ILogger) ILocationService {
	if baseURL == "" {
		baseURL = DefaultGeoapifyURL
	}

	metrics.BreakerState.WithLabelValues(geocodeBreakerName).Set(0)
	breaker := gobreaker.NewCircuitBreaker[*dto.GeocodeResponse](gobreaker.Settings{
		Name:        geocodeBreakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("LOCATION", "Circuit breaker state change", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			metrics.BreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})

	return &locationService{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache.New(geocodeCacheTTL, time.Hour),
		breaker: breaker,
		logger:  log,
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	}
	return 0
}

func (s *locationService) Geocode(ctx context.Context, query string) (*dto.GeocodeResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, serverutils.BadRequest("Query parameter q is required")
	}
	if s.apiKey == "" {
		return nil, serverutils.Unavailable("Geocoding is not configured", nil)
	}

	key := strings.ToLower(query)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*dto.GeocodeResponse), nil
	}

	res, err := s.breaker.Execute(func() (*dto.GeocodeResponse, error) {
		return s.fetch(ctx, query)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, serverutils.Unavailable("Geocoding is temporarily unavailable", err)
		}
		s.logger.Error("LOCATION", "Geocoding failed", map[string]interface{}{"query": query, "error": err.Error()})
		return nil, serverutils.Unavailable("Geocoding failed", err)
	}

	s.cache.Set(key, res, cache.DefaultExpiration)
	return res, nil
}

func (s *locationService) fetch(ctx context.Context, query string) (*dto.GeocodeResponse, error) {
	params := url.Values{}
	params.Add("text", query)
	params.Add("format", "json")
	params.Add("limit", "5")
	params.Add("apiKey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoapify returned %d", resp.StatusCode)
	}

	var body struct {
		Results []struct {
			Formatted string  `json:"formatted"`
			City      string  `json:"city"`
			State     string  `json:"state"`
			Country   string  `json:"country"`
			Postcode  string  `json:"postcode"`
			Lat       float64 `json:"lat"`
			Lon       float64 `json:"lon"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	out := &dto.GeocodeResponse{Query: query, Results: []dto.GeocodeResult{}}
	for _, r := range body.Results {
		out.Results = append(out.Results, dto.GeocodeResult{
			Formatted: r.Formatted,
			City:      r.City,
			State:     r.State,
			Country:   r.Country,
			Postcode:  r.Postcode,
			Latitude:  r.Lat,
			Longitude: r.Lon,
		})
	}
	return out, nil
}
