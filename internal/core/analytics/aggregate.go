// Package analytics computes the summary figures shown above the shipment
// table. All functions operate on the full, unfiltered collection.
package analytics

import (
	"math"
	"time"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
)

// StatusCount is one slice of the status distribution.
type StatusCount struct {
	Status domain.ShipmentStatus `json:"status"`
	Count  int                   `json:"count"`
}

// MonthBucket counts shipments created in one calendar month.
type MonthBucket struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Rates are percentages rounded to one decimal place.
type Rates struct {
	DeliveryRate float64 `json:"delivery_rate"`
	OnTimeRate   float64 `json:"on_time_rate"`
}

// Summary bundles every figure of the analytics panel.
type Summary struct {
	Total        int           `json:"total"`
	InTransit    int           `json:"in_transit"`
	Delivered    int           `json:"delivered"`
	Delayed      int           `json:"delayed"`
	Distribution []StatusCount `json:"distribution"`
	Monthly      []MonthBucket `json:"monthly"`
	Rates        Rates         `json:"rates"`
}

// StatusDistribution counts shipments per status over the whole status
// domain, zero counts included, in domain.Statuses order.
func StatusDistribution(items []domain.Shipment) []StatusCount {
	counts := make(map[domain.ShipmentStatus]int, len(domain.Statuses))
	for _, s := range items {
		counts[s.Status]++
	}
	out := make([]StatusCount, len(domain.Statuses))
	for i, st := range domain.Statuses {
		out[i] = StatusCount{Status: st, Count: counts[st]}
	}
	return out
}

// MonthlyHistogram buckets shipments by the short month name of CreatedAt
// (UTC). Months of different years share a bucket. Buckets appear in the order
// their month is first seen in items.
func MonthlyHistogram(items []domain.Shipment) []MonthBucket {
	index := make(map[string]int)
	var out []MonthBucket
	for _, s := range items {
		month := ShortMonth(s.CreatedAt.UTC().Month())
		if i, ok := index[month]; ok {
			out[i].Count++
			continue
		}
		index[month] = len(out)
		out = append(out, MonthBucket{Month: month, Count: 1})
	}
	return out
}

// ShortMonth renders m as its three-letter English abbreviation ("Jun").
func ShortMonth(m time.Month) string {
	return m.String()[:3]
}

// ComputeRates returns the delivery and on-time rates. Both are 0 for an
// empty collection.
func ComputeRates(items []domain.Shipment) Rates {
	total := len(items)
	if total == 0 {
		return Rates{}
	}
	var delivered, delayed int
	for _, s := range items {
		switch s.Status {
		case domain.StatusDelivered:
			delivered++
		case domain.StatusDelayed:
			delayed++
		}
	}
	return Rates{
		DeliveryRate: round1(float64(delivered) / float64(total) * 100),
		OnTimeRate:   round1(float64(total-delayed) / float64(total) * 100),
	}
}

// Summarize computes the full analytics panel.
func Summarize(items []domain.Shipment) Summary {
	dist := StatusDistribution(items)
	sum := Summary{
		Total:        len(items),
		Distribution: dist,
		Monthly:      MonthlyHistogram(items),
		Rates:        ComputeRates(items),
	}
	for _, c := range dist {
		switch c.Status {
		case domain.StatusInTransit:
			sum.InTransit = c.Count
		case domain.StatusDelivered:
			sum.Delivered = c.Count
		case domain.StatusDelayed:
			sum.Delayed = c.Count
		}
	}
	if sum.Monthly == nil {
		sum.Monthly = []MonthBucket{}
	}
	return sum
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
