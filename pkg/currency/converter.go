package currency

import "strings"

const (
	EUR = "EUR"
	PLN = "PLN"
	GBP = "GBP"
)

type Pair struct {
	From string
	To   string
}

// DefaultRates lists one direction per pair; the converter derives the
// inverse unless it is given explicitly.
var DefaultRates = map[Pair]float64{
	{EUR, PLN}: 4.30,
	{EUR, GBP}: 0.85,
	{GBP, PLN}: 5.05,
}

var marketByCurrency = map[string]string{
	EUR: "en-ie",
	PLN: "pl-pl",
	GBP: "en-gb",
}

const defaultMarket = "en-ie"

type Converter struct {
	rates map[Pair]float64
	codes map[string]struct{}
}

func NewConverter(rates map[Pair]float64) *Converter {
	c := &Converter{
		rates: make(map[Pair]float64, len(rates)*2),
		codes: make(map[string]struct{}),
	}

	for p, r := range rates {
		if r <= 0 {
			continue
		}
		p = Pair{From: strings.ToUpper(p.From), To: strings.ToUpper(p.To)}
		c.rates[p] = r
		c.codes[p.From] = struct{}{}
		c.codes[p.To] = struct{}{}
	}

	for p, r := range c.rates {
		inverse := Pair{From: p.To, To: p.From}
		if _, ok := c.rates[inverse]; !ok {
			c.rates[inverse] = 1 / r
		}
	}

	return c
}

var defaultConverter = NewConverter(DefaultRates)

func Default() *Converter {
	return defaultConverter
}

// Convert reports false when no rate exists for the pair. Same-currency
// conversion is the identity.
func (c *Converter) Convert(amount float64, from, to string) (float64, bool) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return amount, true
	}

	rate, ok := c.rates[Pair{From: from, To: to}]
	if !ok {
		return 0, false
	}
	return amount * rate, true
}

func (c *Converter) Supports(code string) bool {
	_, ok := c.codes[strings.ToUpper(code)]
	return ok
}

func IsSupported(code string) bool {
	return defaultConverter.Supports(code)
}

// MarketFor maps a display currency to the upstream market parameter.
func MarketFor(code string) string {
	if m, ok := marketByCurrency[strings.ToUpper(code)]; ok {
		return m
	}
	return defaultMarket
}
