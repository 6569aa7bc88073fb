package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dharmasatrya/farefinder/internal/dates"
	"github.com/dharmasatrya/farefinder/internal/models"
)

const (
	DefaultRyanairBaseURL = "https://www.ryanair.com"
	defaultUserAgent      = "Mozilla/5.0"
	maxBodyBytes          = 10 << 20

	endpointOneWay    = "oneWayFares"
	endpointRoundTrip = "roundTripFares"
)

type RyanairConfig struct {
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	UserAgent      string
}

func DefaultRyanairConfig() RyanairConfig {
	return RyanairConfig{
		BaseURL:        DefaultRyanairBaseURL,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    12 * time.Second,
		UserAgent:      defaultUserAgent,
	}
}

type RyanairProvider struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewRyanairProvider(cfg RyanairConfig) *RyanairProvider {
	def := DefaultRyanairConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = def.ConnectTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}

	return &RyanairProvider{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    NewHTTPClient(cfg.ConnectTimeout, cfg.ReadTimeout),
	}
}

func (p *RyanairProvider) Name() string {
	return "ryanair"
}

func (p *RyanairProvider) FetchOneWay(ctx context.Context, q OneWayQuery) (*models.RawFareResponse, error) {
	params := url.Values{}
	params.Set("outboundDateFrom", dates.Format(q.DateFrom))
	params.Set("outboundDateTo", dates.Format(q.DateTo))
	params.Set("market", q.Market)
	params.Set("adultPaxCount", "1")

	endpoint := fmt.Sprintf("%s/api/farfnd/3/oneWayFares/%s/%s/cheapestPerDay?%s",
		p.baseURL, url.PathEscape(q.Route.Origin), url.PathEscape(q.Route.Destination), params.Encode())

	body, err := p.get(ctx, endpointOneWay, q.Route, endpoint)
	if err != nil {
		return nil, err
	}

	return &models.RawFareResponse{
		Trip:  models.TripOneWay,
		Route: q.Route,
		Body:  body,
	}, nil
}

func (p *RyanairProvider) FetchRoundTrip(ctx context.Context, q RoundTripQuery) (*models.RawFareResponse, error) {
	inFrom, inTo := q.InboundWindow()

	params := url.Values{}
	params.Set("departureAirportIataCode", q.Route.Origin)
	params.Set("arrivalAirportIataCode", q.Route.Destination)
	params.Set("outboundDepartureDateFrom", dates.Format(q.DateFrom))
	params.Set("outboundDepartureDateTo", dates.Format(q.DateTo))
	params.Set("inboundDepartureDateFrom", dates.Format(inFrom))
	params.Set("inboundDepartureDateTo", dates.Format(inTo))
	params.Set("durationFrom", strconv.Itoa(q.MinStay))
	params.Set("durationTo", strconv.Itoa(q.MaxStay))
	params.Set("market", q.Market)
	params.Set("adultPaxCount", "1")

	endpoint := p.baseURL + "/api/farfnd/v4/roundTripFares?" + params.Encode()

	body, err := p.get(ctx, endpointRoundTrip, q.Route, endpoint)
	if err != nil {
		return nil, err
	}

	return &models.RawFareResponse{
		Trip:  models.TripRoundTrip,
		Route: q.Route,
		Body:  body,
	}, nil
}

func (p *RyanairProvider) get(ctx context.Context, endpoint string, route models.Route, rawURL string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, NewUpstreamError(p.Name(), endpoint, route, 0, err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, newNetworkError(p.Name(), endpoint, route, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, newNetworkError(p.Name(), endpoint, route, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewUpstreamError(p.Name(), endpoint, route, resp.StatusCode, errors.New(http.StatusText(resp.StatusCode)))
	}

	if !json.Valid(body) {
		return nil, NewUpstreamError(p.Name(), endpoint, route, 0, ErrMalformedResponse)
	}

	return body, nil
}
