package main

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type SearchResponse struct {
	SearchID string      `json:"search_id"`
	Currency string      `json:"currency"`
	FxRate   float64     `json:"fx_rate"`
	Data     []Itinerary `json:"data"`
}

type Itinerary struct {
	ID           string   `json:"id"`
	FlyFrom      string   `json:"flyFrom"`
	FlyTo        string   `json:"flyTo"`
	CityFrom     string   `json:"cityFrom"`
	CityTo       string   `json:"cityTo"`
	UTCDeparture string   `json:"utc_departure"`
	UTCArrival   string   `json:"utc_arrival"`
	Price        float64  `json:"price"`
	Airlines     []string `json:"airlines"`
	Route        []Leg    `json:"route"`
	Duration     Duration `json:"duration"`
	DeepLink     string   `json:"deep_link"`
}

type Leg struct {
	ID           string `json:"id"`
	FlyFrom      string `json:"flyFrom"`
	FlyTo        string `json:"flyTo"`
	Airline      string `json:"airline"`
	FlightNo     int    `json:"flight_no"`
	UTCDeparture string `json:"utc_departure"`
	UTCArrival   string `json:"utc_arrival"`
	Return       int    `json:"return"`
}

type Duration struct {
	Departure int `json:"departure"`
	Return    int `json:"return"`
	Total     int `json:"total"`
}

var carriers = []string{"GA", "QZ", "JT", "ID", "SQ", "TG"}

var hubs = []string{"SIN", "KUL", "BKK", "HKG"}

func SearchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	from, to := q.Get("fly_from"), q.Get("fly_to")
	if from == "" || to == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "fly_from and fly_to are required"})
		return
	}

	limit := intParam(q.Get("limit"), 20)
	maxStops := intParam(q.Get("max_stopovers"), 2)
	currency := q.Get("curr")
	if currency == "" {
		currency = "EUR"
	}
	departAfter := timeParam(q.Get("depart_after"), time.Now().UTC().Add(24*time.Hour).Truncate(time.Hour))

	// Same route, same answer.
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToUpper(from + "-" + to)))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	resp := SearchResponse{
		SearchID: fmt.Sprintf("mock-%x", h.Sum64()),
		Currency: currency,
		FxRate:   1,
		Data:     []Itinerary{},
	}

	count := 3 + rng.Intn(6)
	if count > limit {
		count = limit
	}
	for i := 0; i < count; i++ {
		resp.Data = append(resp.Data, buildItinerary(rng, from, to, departAfter, maxStops, i))
	}

	writeJSON(w, http.StatusOK, resp)
}

func buildItinerary(rng *rand.Rand, from, to string, departAfter time.Time, maxStops, n int) Itinerary {
	carrier := carriers[rng.Intn(len(carriers))]
	stops := 0
	if maxStops > 0 {
		stops = rng.Intn(min(maxStops, 2) + 1)
	}

	depart := departAfter.Add(time.Duration(rng.Intn(18*60)) * time.Minute)
	cursor := depart
	stopsAt := append([]string{from}, hubs[:stops]...)
	stopsAt = append(stopsAt, to)

	var legs []Leg
	for i := 0; i+1 < len(stopsAt); i++ {
		legMinutes := 60 + rng.Intn(240)
		arrive := cursor.Add(time.Duration(legMinutes) * time.Minute)
		legs = append(legs, Leg{
			ID:           fmt.Sprintf("leg-%d-%d", n, i),
			FlyFrom:      stopsAt[i],
			FlyTo:        stopsAt[i+1],
			Airline:      carrier,
			FlightNo:     100 + rng.Intn(900),
			UTCDeparture: cursor.Format(time.RFC3339),
			UTCArrival:   arrive.Format(time.RFC3339),
		})
		cursor = arrive.Add(time.Duration(45+rng.Intn(120)) * time.Minute)
	}
	arrival, _ := time.Parse(time.RFC3339, legs[len(legs)-1].UTCArrival)
	seconds := int(arrival.Sub(depart).Seconds())

	return Itinerary{
		ID:           fmt.Sprintf("%s_%s_%d", from, to, n),
		FlyFrom:      from,
		FlyTo:        to,
		CityFrom:     from,
		CityTo:       to,
		UTCDeparture: depart.Format(time.RFC3339),
		UTCArrival:   arrival.Format(time.RFC3339),
		Price:        float64(80 + rng.Intn(900)),
		Airlines:     []string{carrier},
		Route:        legs,
		Duration:     Duration{Departure: seconds, Total: seconds},
		DeepLink:     "https://www.kiwi.com/deep?from=" + from + "&to=" + to,
	}
}

func intParam(v string, fallback int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func timeParam(v string, fallback time.Time) time.Time {
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return fallback
}
