package models

import "encoding/json"

type TripType string

const (
	TripOneWay    TripType = "one_way"
	TripRoundTrip TripType = "round_trip"
)

type Route struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

func (r Route) String() string {
	return r.Origin + " → " + r.Destination
}

// RawFareResponse is an upstream body as received for a single route. The
// body is known to be valid JSON but its shape is not checked.
type RawFareResponse struct {
	Trip  TripType
	Route Route
	Body  json.RawMessage
}

type FareRecord struct {
	Route          string  `json:"route"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	OutDate        string  `json:"out_date"`
	OutWeekday     string  `json:"out_weekday"`
	InDate         string  `json:"in_date,omitempty"`
	Price          string  `json:"price"`
	PriceFormatted string  `json:"price_formatted"`
	Currency       string  `json:"currency"`
	DeepLink       string  `json:"deep_link"`
	Amount         float64 `json:"-"`
}

type ResultPage struct {
	Items      []FareRecord `json:"items"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	TotalCount int          `json:"total_count"`
	PageSize   int          `json:"page_size"`
}
