package refdata

import (
	"sort"
	"strings"

	"github.com/dharmasatrya/farefinder/internal/models"
)

// Index is an immutable snapshot of the airport list. It is built once and
// safe for concurrent reads.
type Index struct {
	airports  []models.AirportRecord
	byCode    map[string]models.AirportRecord
	byCountry map[string][]string
	countries []models.Country
}

// NewIndex drops records without a code and keeps the first record for a
// duplicated code.
func NewIndex(records []models.AirportRecord) *Index {
	idx := &Index{
		byCode:    make(map[string]models.AirportRecord, len(records)),
		byCountry: make(map[string][]string),
	}

	countryNames := make(map[string]string)
	for _, r := range records {
		r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
		r.CountryCode = strings.ToUpper(strings.TrimSpace(r.CountryCode))
		if r.Code == "" {
			continue
		}
		if _, dup := idx.byCode[r.Code]; dup {
			continue
		}

		idx.byCode[r.Code] = r
		idx.airports = append(idx.airports, r)

		if r.CountryCode != "" {
			idx.byCountry[r.CountryCode] = append(idx.byCountry[r.CountryCode], r.Code)
			if _, ok := countryNames[r.CountryCode]; !ok || countryNames[r.CountryCode] == r.CountryCode {
				name := r.CountryName
				if name == "" {
					name = r.CountryCode
				}
				countryNames[r.CountryCode] = name
			}
		}
	}

	sort.SliceStable(idx.airports, func(i, j int) bool {
		return idx.airports[i].Label < idx.airports[j].Label
	})
	for cc := range idx.byCountry {
		sort.Strings(idx.byCountry[cc])
	}

	for code, name := range countryNames {
		idx.countries = append(idx.countries, models.Country{Code: code, Name: name})
	}
	sort.Slice(idx.countries, func(i, j int) bool {
		if idx.countries[i].Name == idx.countries[j].Name {
			return idx.countries[i].Code < idx.countries[j].Code
		}
		return idx.countries[i].Name < idx.countries[j].Name
	})

	return idx
}

func (i *Index) Len() int {
	return len(i.airports)
}

func (i *Index) Airport(code string) (models.AirportRecord, bool) {
	r, ok := i.byCode[strings.ToUpper(code)]
	return r, ok
}

func (i *Index) HasAirport(code string) bool {
	_, ok := i.Airport(code)
	return ok
}

// AirportsInCountry returns the country's airport codes sorted by code.
func (i *Index) AirportsInCountry(countryCode string) []string {
	codes := i.byCountry[strings.ToUpper(countryCode)]
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}

// Airports returns all airports sorted by label.
func (i *Index) Airports() []models.AirportRecord {
	out := make([]models.AirportRecord, len(i.airports))
	copy(out, i.airports)
	return out
}

// Countries returns all countries with at least one airport, sorted by name.
func (i *Index) Countries() []models.Country {
	out := make([]models.Country, len(i.countries))
	copy(out, i.countries)
	return out
}
