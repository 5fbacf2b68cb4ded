package flightclient

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"flightchat/internal/chat"
	"flightchat/pkg/idgen"
	"flightchat/pkg/logger"
)

const (
	standInMinPrice   = 100.0
	standInMaxPrice   = 1000.0
	standInMinMinutes = 60
	standInMaxMinutes = 600
	standInMaxStops   = 2
	standInMaxResults = 5
)

type airline struct {
	Name string
	Code string
}

var standInAirlines = []airline{
	{Name: "Skyward Airways", Code: "SW"},
	{Name: "Northwind Air", Code: "NW"},
	{Name: "Blue Meridian", Code: "BM"},
	{Name: "Coastal Connect", Code: "CC"},
	{Name: "Aurora Airlines", Code: "AU"},
	{Name: "Pacific Crest", Code: "PC"},
}

// StandIn fabricates plausible flights for environments without provider
// credentials. A fixed seed makes its output reproducible.
type StandIn struct {
	mu     sync.Mutex
	rng    *rand.Rand
	ids    idgen.Generator
	limit  int
	now    func() time.Time
	logger logger.Client
}

func NewStandIn(seed uint64, ids idgen.Generator, limit int, log logger.Client) *StandIn {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if limit <= 0 || limit > standInMaxResults {
		limit = standInMaxResults
	}
	return &StandIn{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ids:    ids,
		limit:  limit,
		now:    time.Now,
		logger: log,
	}
}

// generated keeps the numeric values the sort needs next to the flight.
type generated struct {
	flight    chat.Flight
	departure time.Time
	minutes   int
	score     float64
}

func (s *StandIn) SearchFlights(ctx context.Context, req chat.FlightSearchParams) ([]chat.Flight, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProviderSearchError{Err: err}
	}

	windowStart, windowEnd := s.departureWindow(req)
	maxStops := standInMaxStops
	if req.MaxStopovers != nil && *req.MaxStopovers < maxStops {
		maxStops = *req.MaxStopovers
	}
	currency := req.Curr
	if currency == "" {
		currency = "USD"
	}

	s.mu.Lock()
	count := 1 + s.rng.IntN(s.limit)
	items := make([]generated, 0, count)
	for i := 0; i < count; i++ {
		al := standInAirlines[s.rng.IntN(len(standInAirlines))]
		minutes := standInMinMinutes + s.rng.IntN(standInMaxMinutes-standInMinMinutes+1)
		stops := s.rng.IntN(maxStops + 1)
		price := math.Round((standInMinPrice+s.rng.Float64()*(standInMaxPrice-standInMinPrice))*100) / 100

		window := windowEnd.Sub(windowStart)
		offset := time.Duration(s.rng.Int64N(int64(window/time.Minute)+1)) * time.Minute
		departure := windowStart.Add(offset)
		arrival := departure.Add(time.Duration(minutes) * time.Minute)

		items = append(items, generated{
			flight: chat.Flight{
				ID:            s.ids.NewID("sti"),
				Airline:       al.Name,
				FlightNumber:  fmt.Sprintf("%s%d", al.Code, 100+s.rng.IntN(9900)),
				DepartureTime: departure.UTC().Format(time.RFC3339),
				ArrivalTime:   arrival.UTC().Format(time.RFC3339),
				Price:         price,
				Currency:      currency,
				Duration:      formatDuration(time.Duration(minutes) * time.Minute),
				Stops:         stops,
			},
			departure: departure,
			minutes:   minutes,
		})
	}
	s.mu.Unlock()

	sortGenerated(items, req.Sort)

	flights := make([]chat.Flight, 0, len(items))
	for _, it := range items {
		flights = append(flights, it.flight)
	}

	s.logger.Debug("stand-in generated flights",
		logger.Field{Key: "route", Value: req.FlyFrom + "->" + req.FlyTo},
		logger.Field{Key: "results", Value: len(flights)},
	)
	return flights, nil
}

// departureWindow derives the departure range from the request, defaulting
// to the day after now.
func (s *StandIn) departureWindow(req chat.FlightSearchParams) (time.Time, time.Time) {
	start, ok := chat.ParseISODate(req.DepartAfter)
	if !ok {
		start = s.now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	}
	end, ok := chat.ParseISODate(req.DepartBefore)
	if !ok || !end.After(start) {
		end = start.Add(24 * time.Hour)
	}
	return start, end
}
