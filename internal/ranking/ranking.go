package ranking

import (
	"sort"

	"github.com/dharmasatrya/farefinder/internal/models"
)

const PageSize = 48

// SortByPrice orders fares by their unrounded converted amount. Equal
// amounts keep discovery order.
func SortByPrice(fares []models.FareRecord) []models.FareRecord {
	sort.SliceStable(fares, func(i, j int) bool {
		return fares[i].Amount < fares[j].Amount
	})
	return fares
}

// TotalPages is never below 1, even for an empty result.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate slices an already sorted result. Out of range pages are clamped
// to the nearest valid page.
func Paginate(fares []models.FareRecord, page, pageSize int) models.ResultPage {
	if pageSize <= 0 {
		pageSize = PageSize
	}

	total := len(fares)
	totalPages := TotalPages(total, pageSize)
	page = ClampPage(page, totalPages)

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]models.FareRecord, 0, end-start)
	items = append(items, fares[start:end]...)

	return models.ResultPage{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: total,
		PageSize:   pageSize,
	}
}
