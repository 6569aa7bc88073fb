package normalizer

import (
	"net/url"
	"strings"

	"github.com/dharmasatrya/farefinder/internal/models"
)

const DefaultLinkBase = "https://www.ryanair.com/gb/en/trip/flights/select"

// BuildLink renders the booking deep link. Parameter order is fixed and the
// passenger mix is always one adult.
func BuildLink(base string, trip models.TripType, origin, destination, outDate, inDate string) string {
	if base == "" {
		base = DefaultLinkBase
	}

	isReturn := trip == models.TripRoundTrip && inDate != ""

	params := [][2]string{
		{"adults", "1"},
		{"teens", "0"},
		{"children", "0"},
		{"infants", "0"},
		{"originIata", origin},
		{"destinationIata", destination},
		{"dateOut", outDate},
	}
	if isReturn {
		params = append(params, [2]string{"dateIn", inDate})
	}
	params = append(params,
		[2]string{"isConnectedFlight", "false"},
		[2]string{"isReturn", boolString(isReturn)},
		[2]string{"reserveSeats", "false"},
	)

	var b strings.Builder
	b.WriteString(base)
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
