package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/farefinder/internal/aggregator"
	"github.com/dharmasatrya/farefinder/internal/models"
	"github.com/dharmasatrya/farefinder/internal/refdata"
	"github.com/dharmasatrya/farefinder/internal/routes"
)

type SearchHandler struct {
	aggregator *aggregator.Aggregator
	index      *refdata.Index
}

func NewSearchHandler(agg *aggregator.Aggregator, idx *refdata.Index) *SearchHandler {
	if idx == nil {
		idx = refdata.NewIndex(nil)
	}
	return &SearchHandler{
		aggregator: agg,
		index:      idx,
	}
}

func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	criteria, errs := req.Validate()
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	origins, destinations, errs := routes.Expand(criteria, h.index)
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	routeList := routes.Pairs(origins, destinations)
	result, err := h.aggregator.Search(ctx, criteria, routeList)
	if err != nil {
		status := http.StatusBadGateway
		if !errors.Is(err, aggregator.ErrSearchFailed) {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, models.ErrorResponse{
			Error:   "search_error",
			Message: "Search failed",
			Code:    status,
		})
	}

	return c.JSON(http.StatusOK, models.SearchResponse{
		SearchCriteria: criteria.Summary(origins, destinations),
		Metadata: models.SearchMetadata{
			TotalResults:    result.Page.TotalCount,
			RoutesQueried:   result.RoutesQueried,
			RoutesSucceeded: result.RoutesSucceeded,
			RoutesFailed:    result.RoutesFailed,
			FailedRoutes:    result.FailedRoutes,
			Warnings:        result.Warnings,
			SearchTimeMs:    time.Since(startTime).Milliseconds(),
		},
		Results: result.Page,
	})
}

func (h *SearchHandler) Airports(c echo.Context) error {
	return c.JSON(http.StatusOK, h.index.Airports())
}

func (h *SearchHandler) Countries(c echo.Context) error {
	return c.JSON(http.StatusOK, h.index.Countries())
}

func validationError(c echo.Context, errs models.ValidationErrors) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: errs.Error(),
		Code:    http.StatusBadRequest,
		Errors:  errs.Messages(),
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
