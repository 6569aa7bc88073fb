package normalizer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/farefinder/internal/dates"
	"github.com/dharmasatrya/farefinder/internal/filter"
	"github.com/dharmasatrya/farefinder/internal/models"
	"github.com/dharmasatrya/farefinder/pkg/currency"
)

var (
	dubStn = models.Route{Origin: "DUB", Destination: "STN"}
	dubBer = models.Route{Origin: "DUB", Destination: "BER"}
)

func fixture(t *testing.T, name string) json.RawMessage {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return b
}

func normalize(t *testing.T, trip models.TripType, route models.Route, file string, opts Options) []models.FareRecord {
	t.Helper()
	n := New(currency.Default(), "")
	return n.Normalize(models.RawFareResponse{Trip: trip, Route: route, Body: fixture(t, file)}, opts)
}

func TestNormalize_OneWayCheapestPerDay(t *testing.T) {
	got := normalize(t, models.TripOneWay, dubStn, "oneway_cheapest_per_day.json", Options{Currency: "EUR"})
	require.Len(t, got, 2)

	assert.Equal(t, "DUB → STN", got[0].Route)
	assert.Equal(t, "2025-06-01", got[0].OutDate)
	assert.Equal(t, "Sunday", got[0].OutWeekday)
	assert.Empty(t, got[0].InDate)
	assert.Equal(t, "29.99", got[0].Price)
	assert.Equal(t, "29.99 EUR", got[0].PriceFormatted)
	assert.Equal(t, "EUR", got[0].Currency)
	assert.Equal(t,
		"https://www.ryanair.com/gb/en/trip/flights/select?adults=1&teens=0&children=0&infants=0"+
			"&originIata=DUB&destinationIata=STN&dateOut=2025-06-01&isConnectedFlight=false&isReturn=false&reserveSeats=false",
		got[0].DeepLink)

	assert.Equal(t, "2025-06-03", got[1].OutDate)
	assert.Equal(t, "14.99", got[1].Price)
}

func TestNormalize_OneWayFaresWithOutboundWrapper(t *testing.T) {
	got := normalize(t, models.TripOneWay, dubStn, "oneway_fares_outbound.json", Options{Currency: "EUR"})
	require.Len(t, got, 2)

	gbp, _ := currency.Default().Convert(19.50, "GBP", "EUR")
	assert.Equal(t, "2025-06-01", got[0].OutDate)
	assert.InDelta(t, gbp, got[0].Amount, 1e-9)
	assert.Equal(t, currency.FormatAmount(gbp), got[0].Price)

	// no currency in the price object means the requested currency
	assert.Equal(t, "2025-06-02", got[1].OutDate)
	assert.Equal(t, "21.00", got[1].Price)
}

func TestNormalize_OneWayEnvelopes(t *testing.T) {
	bodies := map[string]string{
		"top-level list":  `[{"day":"2025-06-01","price":{"value":10,"currencyCode":"EUR"}}]`,
		"outbound list":   `{"outbound":[{"date":"2025-06-01T00:00:00","price":{"value":10}}]}`,
		"outbound.fares":  `{"outbound":{"fares":[{"day":"2025-06-01","price":{"amount":10}}]}}`,
		"fares with wrap": `{"fares":[{"outbound":{"departureDate":"2025-06-01T06:00:00","price":{"value":"10"}}}]}`,
	}

	n := New(nil, "")
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			got := n.Normalize(models.RawFareResponse{Trip: models.TripOneWay, Route: dubStn, Body: json.RawMessage(body)}, Options{Currency: "EUR"})
			require.Len(t, got, 1)
			assert.Equal(t, "2025-06-01", got[0].OutDate)
			assert.Equal(t, "10.00", got[0].Price)
		})
	}
}

func TestNormalize_UnrecognisedEnvelope(t *testing.T) {
	n := New(nil, "")
	for _, body := range []string{`{}`, `{"fares":null}`, `{"outbound":{"minFare":null}}`, `"nope"`, `42`} {
		got := n.Normalize(models.RawFareResponse{Trip: models.TripOneWay, Route: dubStn, Body: json.RawMessage(body)}, Options{Currency: "EUR"})
		assert.NotNil(t, got, body)
		assert.Empty(t, got, body)
	}
}

func TestNormalize_RoundTripFares(t *testing.T) {
	got := normalize(t, models.TripRoundTrip, dubBer, "roundtrip_fares.json", Options{Currency: "EUR"})
	require.Len(t, got, 2)

	assert.Equal(t, "2025-06-01", got[0].OutDate)
	assert.Equal(t, "2025-06-04", got[0].InDate)
	assert.Equal(t, "45.00", got[0].Price)
	assert.Contains(t, got[0].DeepLink, "dateOut=2025-06-01&dateIn=2025-06-04")
	assert.Contains(t, got[0].DeepLink, "isReturn=true")

	// top-level price wins over summary.price
	assert.Equal(t, "2025-06-03", got[1].OutDate)
	assert.Equal(t, "2025-06-08", got[1].InDate)
	assert.Equal(t, "60.50", got[1].Price)
}

func TestNormalize_RoundTripTripsEnvelope(t *testing.T) {
	got := normalize(t, models.TripRoundTrip, dubBer, "roundtrip_trips.json", Options{Currency: "PLN"})
	require.Len(t, got, 1)

	assert.Equal(t, "2025-06-02", got[0].OutDate)
	assert.Equal(t, "2025-06-06", got[0].InDate)
	assert.Equal(t, "100.00", got[0].Price)
	assert.Equal(t, "PLN", got[0].Currency)
}

func TestNormalize_WeekdayFilterUsesOutboundDate(t *testing.T) {
	sunday := 6
	opts := Options{Currency: "EUR", Filter: filter.Criteria{Weekday: &sunday}}

	got := normalize(t, models.TripRoundTrip, dubBer, "roundtrip_fares.json", opts)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-06-01", got[0].OutDate)

	for _, f := range got {
		d, err := dates.ParseDay(f.OutDate)
		require.NoError(t, err)
		assert.Equal(t, sunday, dates.Weekday(d))
	}
}

func TestNormalize_MaxPriceAfterConversion(t *testing.T) {
	limit := 150.0
	opts := Options{Currency: "PLN", Filter: filter.Criteria{MaxPrice: &limit}}
	n := New(currency.Default(), "")

	body := `{"fares":[
		{"outbound":{"date":"2025-06-01"},"inbound":{"date":"2025-06-03"},"price":{"value":50,"currencyCode":"EUR"}},
		{"outbound":{"date":"2025-06-02"},"inbound":{"date":"2025-06-04"},"price":{"value":30,"currencyCode":"EUR"}}
	]}`

	got := n.Normalize(models.RawFareResponse{Trip: models.TripRoundTrip, Route: dubBer, Body: json.RawMessage(body)}, opts)
	require.Len(t, got, 1)
	assert.Equal(t, "129.00", got[0].Price)
	assert.Equal(t, "PLN", got[0].Currency)

	for _, f := range got {
		v, err := strconv.ParseFloat(f.Price, 64)
		require.NoError(t, err)
		assert.LessOrEqual(t, v, limit)
	}
}

func TestNormalize_MaxPriceUsesUnroundedAmount(t *testing.T) {
	limit := 10.0
	opts := Options{Currency: "EUR", Filter: filter.Criteria{MaxPrice: &limit}}
	n := New(nil, "")

	_, ok := n.OneWay(dubStn, json.RawMessage(`{"day":"2025-06-01","price":{"value":10.004}}`), opts)
	assert.False(t, ok, "10.004 formats as 10.00 but is above the limit")

	rec, ok := n.OneWay(dubStn, json.RawMessage(`{"day":"2025-06-01","price":{"value":9.996}}`), opts)
	require.True(t, ok)
	assert.Equal(t, "10.00", rec.Price)
	assert.Equal(t, 9.996, rec.Amount)
}

func TestOneWay_Skips(t *testing.T) {
	n := New(nil, "")
	opts := Options{Currency: "EUR"}

	skipped := map[string]string{
		"unavailable":      `{"day":"2025-06-01","unavailable":true,"price":{"value":10}}`,
		"sold out":         `{"day":"2025-06-01","soldOut":true,"price":{"value":10}}`,
		"no price":         `{"day":"2025-06-01","price":null}`,
		"empty price":      `{"day":"2025-06-01","price":{"currencyCode":"EUR"}}`,
		"no date":          `{"price":{"value":10}}`,
		"bad date":         `{"day":"06/01/2025","price":{"value":10}}`,
		"bad amount":       `{"day":"2025-06-01","price":{"value":"ten"}}`,
		"unknown currency": `{"day":"2025-06-01","price":{"value":10,"currencyCode":"USD"}}`,
		"not an object":    `"2025-06-01"`,
	}

	for name, raw := range skipped {
		_, ok := n.OneWay(dubStn, json.RawMessage(raw), opts)
		assert.False(t, ok, name)
	}
}

func TestBuildLink(t *testing.T) {
	link := BuildLink("https://example.test/select", models.TripRoundTrip, "DUB", "BER", "2025-06-01", "2025-06-05")
	assert.Equal(t,
		"https://example.test/select?adults=1&teens=0&children=0&infants=0&originIata=DUB&destinationIata=BER"+
			"&dateOut=2025-06-01&dateIn=2025-06-05&isConnectedFlight=false&isReturn=true&reserveSeats=false",
		link)

	oneWay := BuildLink("", models.TripOneWay, "DUB", "STN", "2025-06-01", "")
	assert.NotContains(t, oneWay, "dateIn")
	assert.Contains(t, oneWay, DefaultLinkBase+"?")
}
