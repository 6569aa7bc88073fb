package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dharmasatrya/farefinder/internal/filter"
	"github.com/dharmasatrya/farefinder/internal/models"
	"github.com/dharmasatrya/farefinder/internal/normalizer"
	"github.com/dharmasatrya/farefinder/internal/providers"
	"github.com/dharmasatrya/farefinder/internal/ranking"
	"github.com/dharmasatrya/farefinder/internal/ratelimit"
)

var ErrSearchFailed = errors.New("search failed")

type Config struct {
	Timeout        time.Duration
	MaxConcurrency int
	MaxRetries     int
	RetryDelays    []time.Duration
	RateLimiter    *ratelimit.UpstreamLimiter
	// FailFast aborts the whole search on the first route that fails after
	// retries. Otherwise failed routes are skipped and reported.
	FailFast bool
	PageSize int
}

func DefaultConfig() Config {
	return Config{
		Timeout:        90 * time.Second,
		MaxConcurrency: 4,
		MaxRetries:     3,
		RetryDelays: []time.Duration{
			400 * time.Millisecond,
			800 * time.Millisecond,
			1600 * time.Millisecond,
		},
		PageSize: ranking.PageSize,
	}
}

type Aggregator struct {
	source     providers.FareSource
	normalizer *normalizer.Normalizer
	config     Config
}

type Result struct {
	Page            models.ResultPage
	RoutesQueried   int
	RoutesSucceeded int
	RoutesFailed    int
	FailedRoutes    []string
	Warnings        []string
}

func NewAggregator(source providers.FareSource, n *normalizer.Normalizer, config Config) *Aggregator {
	if n == nil {
		n = normalizer.New(nil, "")
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 1
	}
	if config.PageSize <= 0 {
		config.PageSize = ranking.PageSize
	}
	return &Aggregator{
		source:     source,
		normalizer: n,
		config:     config,
	}
}

type routeResult struct {
	fares []models.FareRecord
	err   error
	done  bool
}

// Search fetches every route with at most MaxConcurrency calls in flight,
// merges the fares in route order, sorts them by price and returns the
// requested page.
func (a *Aggregator) Search(ctx context.Context, criteria models.SearchCriteria, routeList []models.Route) (*Result, error) {
	searchCtx := ctx
	if a.config.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		searchCtx, cancelTimeout = context.WithTimeout(ctx, a.config.Timeout)
		defer cancelTimeout()
	}
	searchCtx, cancel := context.WithCancel(searchCtx)
	defer cancel()

	opts := normalizer.Options{
		Currency: criteria.Currency,
		Filter:   filter.FromSearch(criteria),
	}

	results := make([]routeResult, len(routeList))
	jobs := make(chan int)

	workers := a.config.MaxConcurrency
	if workers > len(routeList) {
		workers = len(routeList)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fares, err := a.fetchRoute(searchCtx, criteria, routeList[i], opts)
				results[i] = routeResult{fares: fares, err: err, done: true}
				if err != nil && a.config.FailFast {
					cancel()
				}
			}
		}()
	}

dispatch:
	for i := range routeList {
		select {
		case jobs <- i:
		case <-searchCtx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{RoutesQueried: len(routeList)}
	merged := make([]models.FareRecord, 0)
	var firstErr error

	for i, rr := range results {
		route := routeList[i]
		switch {
		case rr.err != nil:
			if firstErr == nil && !isCancellation(rr.err) {
				firstErr = rr.err
			}
			log.Printf("Route %s failed: %v", route, rr.err)
			result.RoutesFailed++
			result.FailedRoutes = append(result.FailedRoutes, route.String())
		case !rr.done:
			// never dispatched: the search was cut short
			result.RoutesFailed++
			result.FailedRoutes = append(result.FailedRoutes, route.String())
		default:
			result.RoutesSucceeded++
			merged = append(merged, rr.fares...)
		}
	}

	if a.config.FailFast && result.RoutesFailed > 0 {
		if firstErr == nil {
			firstErr = searchCtx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, firstErr)
	}
	if len(routeList) > 0 && result.RoutesSucceeded == 0 {
		if firstErr == nil {
			firstErr = searchCtx.Err()
		}
		return nil, fmt.Errorf("%w: all %d routes failed: %v", ErrSearchFailed, len(routeList), firstErr)
	}
	if result.RoutesFailed > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d of %d routes could not be searched; results are partial", result.RoutesFailed, len(routeList)))
	}

	ranking.SortByPrice(merged)
	result.Page = ranking.Paginate(merged, criteria.Page, a.config.PageSize)

	return result, nil
}

func (a *Aggregator) fetchRoute(ctx context.Context, criteria models.SearchCriteria, route models.Route, opts normalizer.Options) ([]models.FareRecord, error) {
	resp, err := a.fetchWithRetry(ctx, criteria, route)
	if err != nil {
		return nil, err
	}
	return a.normalizer.Normalize(*resp, opts), nil
}

func (a *Aggregator) fetchOnce(ctx context.Context, criteria models.SearchCriteria, route models.Route) (*models.RawFareResponse, error) {
	if criteria.IsOneWay() {
		return a.source.FetchOneWay(ctx, providers.OneWayQuery{
			Route:    route,
			DateFrom: criteria.DateFrom,
			DateTo:   criteria.DateTo,
			Market:   criteria.Market(),
		})
	}
	return a.source.FetchRoundTrip(ctx, providers.RoundTripQuery{
		Route:    route,
		DateFrom: criteria.DateFrom,
		DateTo:   criteria.DateTo,
		MinStay:  criteria.MinStay,
		MaxStay:  criteria.MaxStay,
		Market:   criteria.Market(),
	})
}

// fetchWithRetry retries temporary upstream failures only. Every attempt
// waits for the rate limiter first.
func (a *Aggregator) fetchWithRetry(ctx context.Context, criteria models.SearchCriteria, route models.Route) (*models.RawFareResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if attempt > 0 {
			delay := a.retryDelay(attempt)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if a.config.RateLimiter != nil {
			if err := a.config.RateLimiter.Wait(ctx, a.source.Name()); err != nil {
				return nil, err
			}
		}

		resp, err := a.fetchOnce(ctx, criteria, route)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if !providers.IsTemporary(err) {
			return nil, err
		}
		log.Printf("Route %s attempt %d failed: %v", route, attempt+1, err)
	}

	return nil, lastErr
}

func (a *Aggregator) retryDelay(attempt int) time.Duration {
	if len(a.config.RetryDelays) == 0 {
		return 0
	}
	idx := attempt - 1
	if idx >= len(a.config.RetryDelays) {
		idx = len(a.config.RetryDelays) - 1
	}
	return a.config.RetryDelays[idx]
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
