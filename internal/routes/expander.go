package routes

import (
	"sort"

	"github.com/dharmasatrya/farefinder/internal/models"
)

// Index is the part of the reference data the expander needs.
type Index interface {
	HasAirport(code string) bool
	AirportsInCountry(countryCode string) []string
}

// Expand resolves the departure and arrival selections into airport code
// sets. A departure country replaces explicit departure codes and arrival
// countries replace the single arrival airport; the two are never merged.
func Expand(c models.SearchCriteria, idx Index) (origins, destinations []string, errs models.ValidationErrors) {
	origins, errs = expandDepartures(c, idx)

	dest, destErrs := expandArrivals(c, idx)
	errs = append(errs, destErrs...)

	if len(errs) > 0 {
		return nil, nil, errs
	}
	return origins, dest, nil
}

func expandDepartures(c models.SearchCriteria, idx Index) ([]string, models.ValidationErrors) {
	if c.DepartureCountry != "" {
		codes := countryAirports(idx, []string{c.DepartureCountry})
		if len(codes) == 0 {
			return nil, models.ValidationErrors{models.NoAirportsForCountry(c.DepartureCountry)}
		}
		return codes, nil
	}

	if len(c.Departures) == 0 {
		return nil, models.ValidationErrors{models.ErrMissingDeparture}
	}

	seen := make(map[string]bool, len(c.Departures))
	codes := make([]string, 0, len(c.Departures))
	for _, code := range c.Departures {
		if !idx.HasAirport(code) {
			return nil, models.ValidationErrors{models.InvalidDeparture(code)}
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes, nil
}

func expandArrivals(c models.SearchCriteria, idx Index) ([]string, models.ValidationErrors) {
	if len(c.ArrivalCountries) > 0 {
		var errs models.ValidationErrors
		for _, cc := range c.ArrivalCountries {
			if len(idx.AirportsInCountry(cc)) == 0 {
				errs = append(errs, models.NoAirportsForCountry(cc))
			}
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return countryAirports(idx, c.ArrivalCountries), nil
	}

	if c.Arrival == "" {
		return nil, models.ValidationErrors{models.ErrMissingArrival}
	}
	if !idx.HasAirport(c.Arrival) {
		return nil, models.ValidationErrors{models.ErrInvalidArrival}
	}
	return []string{c.Arrival}, nil
}

// countryAirports returns the de-duplicated union of the countries'
// airports, sorted by code.
func countryAirports(idx Index, countries []string) []string {
	set := make(map[string]struct{})
	for _, cc := range countries {
		for _, code := range idx.AirportsInCountry(cc) {
			set[code] = struct{}{}
		}
	}

	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Pairs is the full cross product in origin-major order. Self pairs are
// kept.
func Pairs(origins, destinations []string) []models.Route {
	out := make([]models.Route, 0, len(origins)*len(destinations))
	for _, o := range origins {
		for _, d := range destinations {
			out = append(out, models.Route{Origin: o, Destination: d})
		}
	}
	return out
}
