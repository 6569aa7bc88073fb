package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dharmasatrya/farefinder/internal/dates"
	"github.com/dharmasatrya/farefinder/internal/models"
)

// FareSource issues exactly one upstream call per route and trip type.
type FareSource interface {
	Name() string
	FetchOneWay(ctx context.Context, q OneWayQuery) (*models.RawFareResponse, error)
	FetchRoundTrip(ctx context.Context, q RoundTripQuery) (*models.RawFareResponse, error)
}

type OneWayQuery struct {
	Route    models.Route
	DateFrom time.Time
	DateTo   time.Time
	Market   string
}

type RoundTripQuery struct {
	Route    models.Route
	DateFrom time.Time
	DateTo   time.Time
	MinStay  int
	MaxStay  int
	Market   string
}

// InboundWindow covers [DateFrom, DateTo + MaxStay] so the last outbound day
// combined with the longest stay is still reachable.
func (q RoundTripQuery) InboundWindow() (time.Time, time.Time) {
	return q.DateFrom, dates.AddDays(q.DateTo, q.MaxStay)
}

type UpstreamError struct {
	Provider   string
	Endpoint   string
	Route      models.Route
	StatusCode int
	Err        error
	temporary  bool
}

func (e *UpstreamError) Error() string {
	msg := e.Provider + " " + e.Endpoint
	if e.Route != (models.Route{}) {
		msg += " " + e.Route.String()
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Temporary reports rate limiting, server errors and network failures.
func (e *UpstreamError) Temporary() bool {
	return e.temporary
}

func NewUpstreamError(provider, endpoint string, route models.Route, status int, err error) *UpstreamError {
	return &UpstreamError{
		Provider:   provider,
		Endpoint:   endpoint,
		Route:      route,
		StatusCode: status,
		Err:        err,
		temporary:  isTemporaryStatus(status),
	}
}

func newNetworkError(provider, endpoint string, route models.Route, err error) *UpstreamError {
	return &UpstreamError{
		Provider:  provider,
		Endpoint:  endpoint,
		Route:     route,
		Err:       err,
		temporary: true,
	}
}

func isTemporaryStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

var ErrMalformedResponse = errors.New("malformed response body")

func IsTemporary(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Temporary()
	}
	return false
}

// NewHTTPClient bounds connection setup by connect and waiting for response
// headers by read. The overall client timeout is the sum of both.
func NewHTTPClient(connect, read time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   connect,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   connect,
		ResponseHeaderTimeout: read,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   connect + read,
	}
}
