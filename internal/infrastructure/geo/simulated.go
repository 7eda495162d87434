// Package geo provides a simulated geocoder for the shipment form and map.
// Names it knows resolve to real coordinates; any other name maps to a stable
// pseudo-random point.
package geo

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
)

// jitter is the half-width, in degrees, of a simulated movement step.
const jitter = 0.05

var knownPlaces = map[string][2]float64{
	"port of los angeles, ca":  {34.0522, -118.2437},
	"san francisco, ca":        {37.7749, -122.4194},
	"seattle, wa":              {47.6062, -122.3321},
	"vancouver, bc":            {49.2827, -123.1207},
	"port of shanghai, china":  {31.2304, 121.4737},
	"port of new york, ny":     {40.7831, -73.9712},
	"london, uk":               {51.5074, -0.1278},
	"berlin, germany":          {52.5200, 13.4050},
	"port of hamburg, germany": {53.5511, 9.9937},
	"dubai, uae":               {25.2048, 55.2708},
	"antalya, turkey":          {36.8985, 30.7133},
	"hong kong":                {22.3193, 114.1694},
	"singapore port":           {1.3521, 103.8198},
	"sydney, australia":        {-33.8688, 151.2093},
}

// Simulated implements ports.Locator.
type Simulated struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulated seeds the movement generator with seed. The same seed yields
// the same sequence of nudges.
func NewSimulated(seed uint64) *Simulated {
	return &Simulated{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Locate resolves name to a point. Unknown names hash to a deterministic
// point inside the valid coordinate range.
func (s *Simulated) Locate(name string) domain.Location {
	if c, ok := knownPlaces[strings.ToLower(strings.TrimSpace(name))]; ok {
		return domain.Location{Lat: c[0], Lng: c[1], Name: name}
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	sum := h.Sum64()

	lat := float64(sum>>32)/float64(math.MaxUint32)*180 - 90
	lng := float64(sum&math.MaxUint32)/float64(math.MaxUint32)*360 - 180
	return domain.Location{Lat: round4(lat), Lng: round4(lng), Name: name}
}

// Nudge moves from by up to ±0.05° on each axis and names the result after
// the time of the move.
func (s *Simulated) Nudge(from domain.Location, at time.Time) domain.Location {
	s.mu.Lock()
	dLat := (s.rnd.Float64() - 0.5) * 2 * jitter
	dLng := (s.rnd.Float64() - 0.5) * 2 * jitter
	s.mu.Unlock()

	ts := at.UTC()
	return domain.Location{
		Lat:       clamp(from.Lat+dLat, -90, 90),
		Lng:       wrapLng(from.Lng + dLng),
		Name:      "Updated Location " + ts.Format("15:04:05"),
		Timestamp: &ts,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func wrapLng(v float64) float64 {
	switch {
	case v > 180:
		return v - 360
	case v < -180:
		return v + 360
	}
	return v
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
