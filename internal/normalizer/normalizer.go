package normalizer

import (
	"encoding/json"
	"time"

	"github.com/dharmasatrya/farefinder/internal/dates"
	"github.com/dharmasatrya/farefinder/internal/filter"
	"github.com/dharmasatrya/farefinder/internal/models"
	"github.com/dharmasatrya/farefinder/pkg/currency"
)

type Options struct {
	Currency string
	Filter   filter.Criteria
}

type Normalizer struct {
	converter *currency.Converter
	linkBase  string
}

func New(converter *currency.Converter, linkBase string) *Normalizer {
	if converter == nil {
		converter = currency.Default()
	}
	if linkBase == "" {
		linkBase = DefaultLinkBase
	}
	return &Normalizer{
		converter: converter,
		linkBase:  linkBase,
	}
}

// Normalize turns one upstream response into canonical fares, in upstream
// order. Entries that cannot be read or do not pass the filters are skipped.
// A body without a recognisable fare list yields no fares.
func (n *Normalizer) Normalize(resp models.RawFareResponse, opts Options) []models.FareRecord {
	var (
		entries []json.RawMessage
		err     error
	)
	if resp.Trip == models.TripRoundTrip {
		entries, err = roundTripEntries(resp.Body)
	} else {
		entries, err = oneWayEntries(resp.Body)
	}
	if err != nil {
		return []models.FareRecord{}
	}

	out := make([]models.FareRecord, 0, len(entries))
	for _, raw := range entries {
		var (
			rec models.FareRecord
			ok  bool
		)
		if resp.Trip == models.TripRoundTrip {
			rec, ok = n.RoundTrip(resp.Route, raw, opts)
		} else {
			rec, ok = n.OneWay(resp.Route, raw, opts)
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out
}

// OneWay normalizes a single per-day entry.
func (n *Normalizer) OneWay(route models.Route, raw json.RawMessage, opts Options) (models.FareRecord, bool) {
	var entry oneWayEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return models.FareRecord{}, false
	}

	leg := entry.leg()
	if leg.Unavailable || leg.SoldOut || entry.Unavailable || entry.SoldOut {
		return models.FareRecord{}, false
	}

	price, code, ok := leg.Price.resolve(opts.Currency)
	if !ok {
		return models.FareRecord{}, false
	}

	out, err := dates.ParseDay(leg.date())
	if err != nil {
		return models.FareRecord{}, false
	}

	return n.finish(route, models.TripOneWay, out, time.Time{}, price, code, opts)
}

// RoundTrip normalizes a single outbound/inbound combination.
func (n *Normalizer) RoundTrip(route models.Route, raw json.RawMessage, opts Options) (models.FareRecord, bool) {
	var combo roundTripCombo
	if err := json.Unmarshal(raw, &combo); err != nil {
		return models.FareRecord{}, false
	}

	out, err := dates.ParseDay(combo.Outbound.date())
	if err != nil {
		return models.FareRecord{}, false
	}
	in, err := dates.ParseDay(combo.Inbound.date())
	if err != nil {
		return models.FareRecord{}, false
	}

	price, code, ok := combo.price().resolve(opts.Currency)
	if !ok {
		return models.FareRecord{}, false
	}

	return n.finish(route, models.TripRoundTrip, out, in, price, code, opts)
}

// finish applies weekday, conversion and max price in that order. The max
// price is compared against the unrounded converted amount.
func (n *Normalizer) finish(route models.Route, trip models.TripType, out, in time.Time, price float64, code string, opts Options) (models.FareRecord, bool) {
	if !opts.Filter.MatchesWeekday(out) {
		return models.FareRecord{}, false
	}

	converted, ok := n.converter.Convert(price, code, opts.Currency)
	if !ok {
		return models.FareRecord{}, false
	}

	if !opts.Filter.MatchesPrice(converted) {
		return models.FareRecord{}, false
	}

	outDate := dates.Format(out)
	inDate := dates.Format(in)

	return models.FareRecord{
		Route:          route.String(),
		Origin:         route.Origin,
		Destination:    route.Destination,
		OutDate:        outDate,
		OutWeekday:     dates.WeekdayName(out),
		InDate:         inDate,
		Price:          currency.FormatAmount(converted),
		PriceFormatted: currency.Format(converted, opts.Currency),
		Currency:       opts.Currency,
		DeepLink:       BuildLink(n.linkBase, trip, route.Origin, route.Destination, outDate, inDate),
		Amount:         converted,
	}, true
}
