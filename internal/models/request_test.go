package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRoundTrip() SearchRequest {
	return SearchRequest{
		DepartureCountry: "ie",
		ArrivalCountries: []string{"gb", "de"},
		DateFrom:         "2025-06-01",
		DateTo:           "2025-06-03",
		MinStay:          "2",
		MaxStay:          "5",
	}
}

func TestValidate_RoundTripDefaults(t *testing.T) {
	c, errs := validRoundTrip().Validate()
	require.Empty(t, errs)

	assert.Equal(t, TripRoundTrip, c.Trip)
	assert.Equal(t, "IE", c.DepartureCountry)
	assert.Equal(t, []string{"GB", "DE"}, c.ArrivalCountries)
	assert.Equal(t, "EUR", c.Currency)
	assert.Equal(t, "en-ie", c.Market())
	assert.Equal(t, 1, c.Page)
	assert.Equal(t, 2, c.MinStay)
	assert.Equal(t, 5, c.MaxStay)
	assert.Nil(t, c.MaxPrice)
	assert.Nil(t, c.Weekday)
}

func TestValidate_OneWayIgnoresStay(t *testing.T) {
	req := SearchRequest{
		Departures: []string{"dub"},
		Arrival:    "stn",
		DateFrom:   "2025-06-01",
		DateTo:     "2025-06-03",
		Currency:   "pln",
		OneWay:     true,
		MaxPrice:   "150",
		Weekday:    "4",
		Page:       "-3",
	}

	c, errs := req.Validate()
	require.Empty(t, errs)

	assert.True(t, c.IsOneWay())
	assert.Equal(t, []string{"DUB"}, c.Departures)
	assert.Equal(t, "STN", c.Arrival)
	assert.Equal(t, "PLN", c.Currency)
	require.NotNil(t, c.MaxPrice)
	assert.Equal(t, 150.0, *c.MaxPrice)
	require.NotNil(t, c.Weekday)
	assert.Equal(t, 4, *c.Weekday)
	assert.Equal(t, 1, c.Page)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *SearchRequest)
		want   ValidationErrors
	}{
		{
			name:   "unparsable date",
			mutate: func(r *SearchRequest) { r.DateFrom = "01/06/2025" },
			want:   ValidationErrors{ErrInvalidDates},
		},
		{
			name:   "inverted dates",
			mutate: func(r *SearchRequest) { r.DateFrom = "2025-06-05" },
			want:   ValidationErrors{ErrDateOrder},
		},
		{
			name:   "missing stay",
			mutate: func(r *SearchRequest) { r.MaxStay = "" },
			want:   ValidationErrors{ErrStayRequired},
		},
		{
			name:   "non-positive stay",
			mutate: func(r *SearchRequest) { r.MinStay = "0" },
			want:   ValidationErrors{ErrStayNotPositive},
		},
		{
			name:   "inverted stay",
			mutate: func(r *SearchRequest) { r.MinStay = "7" },
			want:   ValidationErrors{ErrStayOrder},
		},
		{
			name:   "non-numeric max price",
			mutate: func(r *SearchRequest) { r.MaxPrice = "cheap" },
			want:   ValidationErrors{ErrInvalidMaxPrice},
		},
		{
			name:   "negative max price",
			mutate: func(r *SearchRequest) { r.MaxPrice = "-10" },
			want:   ValidationErrors{ErrInvalidMaxPrice},
		},
		{
			name:   "weekday out of range",
			mutate: func(r *SearchRequest) { r.Weekday = "7" },
			want:   ValidationErrors{ErrInvalidWeekday},
		},
		{
			name:   "unsupported currency",
			mutate: func(r *SearchRequest) { r.Currency = "usd" },
			want:   ValidationErrors{UnsupportedCurrency("USD")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRoundTrip()
			tt.mutate(&req)
			_, errs := req.Validate()
			assert.Equal(t, tt.want, errs)
		})
	}
}

func TestSearchRequest_UnmarshalNumericFields(t *testing.T) {
	body := `{"departures":["DUB"],"arrival":"STN","date_from":"2025-06-01","date_to":"2025-06-03",
		"min_stay":2,"max_stay":"5","max_price":99.5,"out_weekday":null}`

	var req SearchRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, NumericField("2"), req.MinStay)
	assert.Equal(t, NumericField("5"), req.MaxStay)
	assert.Equal(t, NumericField("99.5"), req.MaxPrice)
	assert.Equal(t, NumericField(""), req.Weekday)
}

func TestValidate_PageNeverFails(t *testing.T) {
	tests := []struct {
		page NumericField
		want int
	}{
		{"", 1},
		{"2", 2},
		{"0", 1},
		{"-3", 1},
		{"1.5", 1},
		{"abc", 1},
		{"99999999999999999999", math.MaxInt},
		{"-99999999999999999999", 1},
	}

	for _, tt := range tests {
		req := validRoundTrip()
		req.Page = tt.page

		c, errs := req.Validate()
		require.Empty(t, errs)
		assert.Equal(t, tt.want, c.Page, "page %q", tt.page)
	}
}

func TestCheckbox(t *testing.T) {
	var req SearchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"one_way":true}`), &req))
	assert.True(t, bool(req.OneWay))

	require.NoError(t, json.Unmarshal([]byte(`{"one_way":"on"}`), &req))
	assert.True(t, bool(req.OneWay))

	require.NoError(t, json.Unmarshal([]byte(`{"one_way":false}`), &req))
	assert.False(t, bool(req.OneWay))

	var b Checkbox
	for _, v := range []string{"on", "ON", "true", "1", "yes"} {
		require.NoError(t, b.UnmarshalParam(v))
		assert.True(t, bool(b), v)
	}
	for _, v := range []string{"", "off", "false", "0"} {
		require.NoError(t, b.UnmarshalParam(v))
		assert.False(t, bool(b), v)
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{ErrInvalidDates, InvalidDeparture("XXX")}
	assert.Equal(t, "Invalid dates (use the pickers).; Invalid departure airport: XXX", errs.Error())
	assert.Equal(t, []string{"Invalid dates (use the pickers).", "Invalid departure airport: XXX"}, errs.Messages())
}

func TestRouteString(t *testing.T) {
	assert.Equal(t, "DUB → STN", Route{Origin: "DUB", Destination: "STN"}.String())
}
