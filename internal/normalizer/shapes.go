package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errNoFareList = errors.New("no fare list in response")

// amount accepts a JSON number or a numeric string.
type amount float64

func (a *amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*a = amount(v)
	return nil
}

// priceShape covers both known price objects:
// {"value": 19.99, "currencyCode": "EUR"} and {"amount": 19.99, "currency": "EUR"}.
type priceShape struct {
	Value        *amount `json:"value"`
	Amount       *amount `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
	Currency     string  `json:"currency"`
}

func (p *priceShape) present() bool {
	return p != nil && (p.Value != nil || p.Amount != nil)
}

// resolve returns the price and its currency, falling back to fallback when
// the upstream omits the currency.
func (p *priceShape) resolve(fallback string) (float64, string, bool) {
	if p == nil {
		return 0, "", false
	}

	var v *amount
	switch {
	case p.Value != nil:
		v = p.Value
	case p.Amount != nil:
		v = p.Amount
	default:
		return 0, "", false
	}

	code := p.CurrencyCode
	if code == "" {
		code = p.Currency
	}
	if code == "" {
		code = fallback
	}
	return float64(*v), strings.ToUpper(code), true
}

// legShape is one flight leg or one per-day entry.
type legShape struct {
	Day           string      `json:"day"`
	Date          string      `json:"date"`
	DepartureDate string      `json:"departureDate"`
	Price         *priceShape `json:"price"`
	Unavailable   bool        `json:"unavailable"`
	SoldOut       bool        `json:"soldOut"`
}

func (l *legShape) date() string {
	if l == nil {
		return ""
	}
	for _, s := range []string{l.Day, l.Date, l.DepartureDate} {
		if s != "" {
			return s
		}
	}
	return ""
}

// oneWayEntry is either a flat per-day entry or one wrapped in "outbound".
type oneWayEntry struct {
	legShape
	Outbound *legShape `json:"outbound"`
}

func (e *oneWayEntry) leg() *legShape {
	if e.Outbound != nil {
		return e.Outbound
	}
	return &e.legShape
}

type summaryShape struct {
	Price *priceShape `json:"price"`
}

type roundTripCombo struct {
	Outbound *legShape     `json:"outbound"`
	Inbound  *legShape     `json:"inbound"`
	Price    *priceShape   `json:"price"`
	Summary  *summaryShape `json:"summary"`
}

// price prefers the top-level price over summary.price.
func (c *roundTripCombo) price() *priceShape {
	if c.Price.present() {
		return c.Price
	}
	if c.Summary != nil && c.Summary.Price.present() {
		return c.Summary.Price
	}
	return nil
}

type envelope struct {
	Fares    json.RawMessage `json:"fares"`
	Outbound json.RawMessage `json:"outbound"`
	Trips    json.RawMessage `json:"trips"`
}

// oneWayEntries locates the per-day list. Known envelopes:
//
//	{"outbound": {"fares": [...]}}
//	{"outbound": [...]}
//	{"fares": [...]}
//	[...]
func oneWayEntries(body []byte) ([]json.RawMessage, error) {
	if list, ok := asList(body); ok {
		return list, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if list, ok := asList(env.Fares); ok {
		return list, nil
	}
	if list, ok := asList(env.Outbound); ok {
		return list, nil
	}

	var nested envelope
	if len(env.Outbound) > 0 && json.Unmarshal(env.Outbound, &nested) == nil {
		if list, ok := asList(nested.Fares); ok {
			return list, nil
		}
	}
	return nil, errNoFareList
}

// roundTripEntries locates the combination list under "fares" or "trips".
func roundTripEntries(body []byte) ([]json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if list, ok := asList(env.Fares); ok {
		return list, nil
	}
	if list, ok := asList(env.Trips); ok {
		return list, nil
	}
	return nil, errNoFareList
}

func asList(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	return list, true
}
