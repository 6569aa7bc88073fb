package models

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dharmasatrya/farefinder/internal/dates"
	"github.com/dharmasatrya/farefinder/pkg/currency"
)

// NumericField binds either a JSON number or a string, so form posts and
// JSON clients share the same request type and validation messages.
type NumericField string

func (n *NumericField) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*n = NumericField(v)
		return nil
	}
	*n = NumericField(s)
	return nil
}

func (n NumericField) String() string {
	return strings.TrimSpace(string(n))
}

// Checkbox binds a JSON boolean or a form value. HTML checkboxes post "on".
type Checkbox bool

func (b *Checkbox) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	return b.UnmarshalParam(s)
}

// UnmarshalParam is used by echo's form and query binder.
func (b *Checkbox) UnmarshalParam(param string) error {
	switch strings.ToLower(strings.TrimSpace(param)) {
	case "on", "true", "1", "yes":
		*b = true
	default:
		*b = false
	}
	return nil
}

type SearchRequest struct {
	Departures       []string     `json:"departures" form:"departures"`
	DepartureCountry string       `json:"departure_country" form:"departure_country"`
	Arrival          string       `json:"arrival" form:"arrival"`
	ArrivalCountries []string     `json:"arrival_countries" form:"arrival_countries"`
	DateFrom         string       `json:"date_from" form:"date_from"`
	DateTo           string       `json:"date_to" form:"date_to"`
	Currency         string       `json:"currency" form:"currency"`
	OneWay           Checkbox     `json:"one_way" form:"one_way"`
	MinStay          NumericField `json:"min_stay" form:"min_stay"`
	MaxStay          NumericField `json:"max_stay" form:"max_stay"`
	MaxPrice         NumericField `json:"max_price" form:"max_price"`
	Weekday          NumericField `json:"out_weekday" form:"out_weekday"`
	Page             NumericField `json:"page" form:"page"`
}

// SearchCriteria is a validated SearchRequest. Airport and country
// selections are upper-cased but not yet checked against reference data.
type SearchCriteria struct {
	Departures       []string
	DepartureCountry string
	Arrival          string
	ArrivalCountries []string
	DateFrom         time.Time
	DateTo           time.Time
	Trip             TripType
	MinStay          int
	MaxStay          int
	Currency         string
	MaxPrice         *float64
	Weekday          *int
	Page             int
}

func (c SearchCriteria) IsOneWay() bool {
	return c.Trip == TripOneWay
}

func (c SearchCriteria) Market() string {
	return currency.MarketFor(c.Currency)
}

func (c SearchCriteria) Summary(departures, destinations []string) CriteriaSummary {
	s := CriteriaSummary{
		Departures:   departures,
		Destinations: destinations,
		DateFrom:     dates.Format(c.DateFrom),
		DateTo:       dates.Format(c.DateTo),
		TripType:     c.Trip,
		Currency:     c.Currency,
		Market:       c.Market(),
		MaxPrice:     c.MaxPrice,
		Weekday:      c.Weekday,
	}
	if !c.IsOneWay() {
		s.MinStay = c.MinStay
		s.MaxStay = c.MaxStay
	}
	return s
}

// Validate checks everything that can be checked without reference data.
// Selection checks against the airport index are done by the route expander.
func (r SearchRequest) Validate() (SearchCriteria, ValidationErrors) {
	var errs ValidationErrors

	c := SearchCriteria{
		Departures:       upperAll(r.Departures),
		DepartureCountry: strings.ToUpper(strings.TrimSpace(r.DepartureCountry)),
		Arrival:          strings.ToUpper(strings.TrimSpace(r.Arrival)),
		ArrivalCountries: upperAll(r.ArrivalCountries),
		Trip:             TripRoundTrip,
		Page:             parsePage(r.Page.String()),
	}
	if r.OneWay {
		c.Trip = TripOneWay
	}

	c.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if c.Currency == "" {
		c.Currency = currency.EUR
	}
	if !currency.IsSupported(c.Currency) {
		errs = append(errs, UnsupportedCurrency(c.Currency))
	}

	from, errFrom := dates.ParseDay(r.DateFrom)
	to, errTo := dates.ParseDay(r.DateTo)
	if errFrom != nil || errTo != nil {
		errs = append(errs, ErrInvalidDates)
	} else {
		if from.After(to) {
			errs = append(errs, ErrDateOrder)
		}
		c.DateFrom, c.DateTo = from, to
	}

	if !r.OneWay {
		minStay, errMin := strconv.Atoi(r.MinStay.String())
		maxStay, errMax := strconv.Atoi(r.MaxStay.String())
		if errMin != nil || errMax != nil {
			errs = append(errs, ErrStayRequired)
		} else {
			if minStay <= 0 || maxStay <= 0 {
				errs = append(errs, ErrStayNotPositive)
			}
			if minStay > maxStay {
				errs = append(errs, ErrStayOrder)
			}
			c.MinStay, c.MaxStay = minStay, maxStay
		}
	}

	if s := r.MaxPrice.String(); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, ErrInvalidMaxPrice)
		} else {
			c.MaxPrice = &v
		}
	}

	if s := r.Weekday.String(); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > 6 {
			errs = append(errs, ErrInvalidWeekday)
		} else {
			c.Weekday = &v
		}
	}

	return c, errs
}

// parsePage never fails: anything that is not an integer is page 1 and an
// overflowing number saturates, to be clamped against the result later.
func parsePage(s string) int {
	page, err := strconv.Atoi(s)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return 1
		}
	}
	if page < 1 {
		return 1
	}
	return page
}

func upperAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingDeparture ValidationError = "Select at least one Departure airport."
	ErrMissingArrival   ValidationError = "Select Arrival airport or at least one Destination country."
	ErrInvalidArrival   ValidationError = "Invalid Arrival airport."
	ErrInvalidDates     ValidationError = "Invalid dates (use the pickers)."
	ErrDateOrder        ValidationError = "Departure 'from' date must be before 'to' date."
	ErrStayRequired     ValidationError = "Provide valid stay days for round trips."
	ErrStayNotPositive  ValidationError = "Stay days must be positive."
	ErrStayOrder        ValidationError = "Stay 'from' must be <= 'to'."
	ErrInvalidMaxPrice  ValidationError = "Max price must be a positive number."
	ErrInvalidWeekday   ValidationError = "Outbound weekday must be between 0 (Monday) and 6 (Sunday)."
)

func InvalidDeparture(code string) ValidationError {
	return ValidationError("Invalid departure airport: " + code)
}

func NoAirportsForCountry(code string) ValidationError {
	return ValidationError("No airports found for country: " + code)
}

func UnsupportedCurrency(code string) ValidationError {
	return ValidationError("Unsupported currency: " + code)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	return strings.Join(v.Messages(), "; ")
}

func (v ValidationErrors) Messages() []string {
	out := make([]string, len(v))
	for i, e := range v {
		out[i] = string(e)
	}
	return out
}
