package main

import (
	"encoding/json"
	"net/http"
	"strings"
)

type LocationsResponse struct {
	Locations []Location `json:"locations"`
	Meta      struct {
		Locale struct {
			Code string `json:"code"`
		} `json:"locale"`
	} `json:"meta"`
	LastRefresh      int `json:"last_refresh"`
	ResultsRetrieved int `json:"results_retrieved"`
}

type Location struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Timezone string `json:"timezone"`
	Type     string `json:"type"`
}

var cities = []Location{
	{ID: "jakarta_id", Code: "JKT", Name: "Jakarta", Slug: "jakarta-indonesia", Timezone: "Asia/Jakarta", Type: "city"},
	{ID: "denpasar_id", Code: "DPS", Name: "Denpasar", Slug: "denpasar-indonesia", Timezone: "Asia/Makassar", Type: "city"},
	{ID: "bali_id", Code: "DPS", Name: "Bali", Slug: "bali-indonesia", Timezone: "Asia/Makassar", Type: "city"},
	{ID: "surabaya_id", Code: "SUB", Name: "Surabaya", Slug: "surabaya-indonesia", Timezone: "Asia/Jakarta", Type: "city"},
	{ID: "singapore_sg", Code: "SIN", Name: "Singapore", Slug: "singapore-singapore", Timezone: "Asia/Singapore", Type: "city"},
	{ID: "bangkok_th", Code: "BKK", Name: "Bangkok", Slug: "bangkok-thailand", Timezone: "Asia/Bangkok", Type: "city"},
	{ID: "tokyo_jp", Code: "TYO", Name: "Tokyo", Slug: "tokyo-japan", Timezone: "Asia/Tokyo", Type: "city"},
	{ID: "sydney_ns_au", Code: "SYD", Name: "Sydney", Slug: "sydney-new-south-wales-australia", Timezone: "Australia/Sydney", Type: "city"},
	{ID: "london_gb", Code: "LON", Name: "London", Slug: "london-united-kingdom", Timezone: "Europe/London", Type: "city"},
	{ID: "paris_fr", Code: "PAR", Name: "Paris", Slug: "paris-france", Timezone: "Europe/Paris", Type: "city"},
	{ID: "new-york-city_ny_us", Code: "NYC", Name: "New York", Slug: "new-york-city-new-york-united-states", Timezone: "America/New_York", Type: "city"},
	{ID: "san-francisco_ca_us", Code: "SFO", Name: "San Francisco", Slug: "san-francisco-california-united-states", Timezone: "America/Los_Angeles", Type: "city"},
}

func LocationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	term := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("term")))
	if term == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "term: Missing data for required field."})
		return
	}

	resp := LocationsResponse{Locations: []Location{}}
	for _, c := range cities {
		if strings.HasPrefix(strings.ToLower(c.Name), term) || strings.EqualFold(c.Code, term) {
			resp.Locations = append(resp.Locations, c)
		}
	}
	resp.Meta.Locale.Code = "en-US"
	resp.ResultsRetrieved = len(resp.Locations)

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
