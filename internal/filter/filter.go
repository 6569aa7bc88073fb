package filter

import (
	"time"

	"github.com/dharmasatrya/farefinder/internal/dates"
	"github.com/dharmasatrya/farefinder/internal/models"
)

// Criteria holds the optional per-fare filters. A nil field matches
// everything.
type Criteria struct {
	Weekday  *int
	MaxPrice *float64
}

func FromSearch(c models.SearchCriteria) Criteria {
	return Criteria{
		Weekday:  c.Weekday,
		MaxPrice: c.MaxPrice,
	}
}

// MatchesWeekday checks the outbound date only.
func (c Criteria) MatchesWeekday(outbound time.Time) bool {
	if c.Weekday == nil {
		return true
	}
	return dates.Weekday(outbound) == *c.Weekday
}

// MatchesPrice expects the converted, unrounded amount.
func (c Criteria) MatchesPrice(amount float64) bool {
	if c.MaxPrice == nil {
		return true
	}
	return amount <= *c.MaxPrice
}
