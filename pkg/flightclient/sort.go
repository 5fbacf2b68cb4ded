package flightclient

import (
	"math"
	"sort"
)

const (
	priceWeight    = 0.45
	durationWeight = 0.35
	stopsWeight    = 0.20
)

// sortGenerated orders stand-in results the way the provider's sort
// parameter would. Unknown criteria keep generation order, and equal
// values stay in generation order.
func sortGenerated(items []generated, by string) {
	if len(items) <= 1 {
		return
	}

	switch by {
	case "price":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].flight.Price < items[j].flight.Price
		})
	case "duration":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].minutes < items[j].minutes
		})
	case "date":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].departure.Before(items[j].departure)
		})
	case "quality":
		calculateQualityScores(items)
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].score > items[j].score
		})
	}
}

// calculateQualityScores weighs price, duration and stops; 1.0 is the
// best value in the set.
func calculateQualityScores(items []generated) {
	minPrice, maxPrice := math.MaxFloat64, 0.0
	minDuration, maxDuration := math.MaxInt, 0
	minStops, maxStops := math.MaxInt, 0

	for _, it := range items {
		minPrice = math.Min(minPrice, it.flight.Price)
		maxPrice = math.Max(maxPrice, it.flight.Price)
		minDuration = min(minDuration, it.minutes)
		maxDuration = max(maxDuration, it.minutes)
		minStops = min(minStops, it.flight.Stops)
		maxStops = max(maxStops, it.flight.Stops)
	}

	for i := range items {
		normPrice := normalize(items[i].flight.Price, minPrice, maxPrice)
		normDuration := normalize(float64(items[i].minutes), float64(minDuration), float64(maxDuration))
		normStops := normalize(float64(items[i].flight.Stops), float64(minStops), float64(maxStops))

		items[i].score = (priceWeight * normPrice) + (durationWeight * normDuration) + (stopsWeight * normStops)
	}
}

func normalize(val, lo, hi float64) float64 {
	if hi > lo {
		// Lower raw value scores higher.
		return 1.0 - (val-lo)/(hi-lo)
	}
	return 1.0
}
