package view

import "github.com/99minutos/shipment-dashboard/internal/core/domain"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page is one page of a derived view.
type Page struct {
	Items      []domain.Shipment
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// Paginate slices items into 1-based pages. Out-of-range pages are empty.
func Paginate(items []domain.Shipment, page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	total := len(items)
	p := Page{
		Items:      []domain.Shipment{},
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}

	if total == 0 || page-1 > (total-1)/limit {
		return p
	}
	skip := (page - 1) * limit
	end := min(skip+limit, total)
	p.Items = items[skip:end]
	return p
}
