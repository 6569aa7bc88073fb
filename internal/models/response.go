package models

type SearchMetadata struct {
	TotalResults    int      `json:"total_results"`
	RoutesQueried   int      `json:"routes_queried"`
	RoutesSucceeded int      `json:"routes_succeeded"`
	RoutesFailed    int      `json:"routes_failed"`
	FailedRoutes    []string `json:"failed_routes,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	SearchTimeMs    int64    `json:"search_time_ms"`
}

type CriteriaSummary struct {
	Departures   []string `json:"departures"`
	Destinations []string `json:"destinations"`
	DateFrom     string   `json:"date_from"`
	DateTo       string   `json:"date_to"`
	TripType     TripType `json:"trip_type"`
	MinStay      int      `json:"min_stay,omitempty"`
	MaxStay      int      `json:"max_stay,omitempty"`
	Currency     string   `json:"currency"`
	Market       string   `json:"market"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	Weekday      *int     `json:"out_weekday,omitempty"`
}

type SearchResponse struct {
	SearchCriteria CriteriaSummary `json:"search_criteria"`
	Metadata       SearchMetadata  `json:"metadata"`
	Results        ResultPage      `json:"results"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Code    int      `json:"code"`
	Errors  []string `json:"errors,omitempty"`
}
