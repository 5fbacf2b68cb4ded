package flightclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"flightchat/internal/chat"
	"flightchat/pkg/cache"
	"flightchat/pkg/logger"

	"golang.org/x/time/rate"
)

const (
	DefaultTequilaBaseURL = "https://api.tequila.kiwi.com"
	maxErrorBody          = 4096
)

type TequilaConfig struct {
	BaseURL     string
	APIKey      string
	ResultLimit int
	// RateLimit is the sustained outbound requests per second; 0 disables limiting.
	RateLimit float64
	// CodeTTL is how long resolved place codes are cached.
	CodeTTL time.Duration
}

// TequilaClient talks to the Kiwi Tequila locations and search API.
type TequilaClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limit      int
	limiter    *rate.Limiter
	cache      cache.Cache
	codeTTL    time.Duration
	logger     logger.Client
}

func NewTequilaClient(httpClient *http.Client, cfg TequilaConfig, c cache.Cache, log logger.Client) *TequilaClient {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultTequilaBaseURL
	}
	limit := cfg.ResultLimit
	if limit <= 0 {
		limit = 5
	}
	if c == nil {
		c = cache.NewNoopCache()
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &TequilaClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		limit:      limit,
		limiter:    limiter,
		cache:      c,
		codeTTL:    cfg.CodeTTL,
		logger:     log,
	}
}

type tequilaLocationsResponse struct {
	Locations []tequilaLocation `json:"locations"`
}

type tequilaLocation struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type tequilaSearchResponse struct {
	Currency string             `json:"currency"`
	Data     []tequilaItinerary `json:"data"`
}

type tequilaItinerary struct {
	ID           string           `json:"id"`
	FlyFrom      string           `json:"flyFrom"`
	FlyTo        string           `json:"flyTo"`
	CityFrom     string           `json:"cityFrom"`
	CityTo       string           `json:"cityTo"`
	UTCDeparture string           `json:"utc_departure"`
	UTCArrival   string           `json:"utc_arrival"`
	Price        float64          `json:"price"`
	Airlines     []string         `json:"airlines"`
	Route        []tequilaSegment `json:"route"`
	Duration     tequilaDuration  `json:"duration"`
}

type tequilaSegment struct {
	FlyFrom      string `json:"flyFrom"`
	FlyTo        string `json:"flyTo"`
	Airline      string `json:"airline"`
	FlightNo     int    `json:"flight_no"`
	UTCDeparture string `json:"utc_departure"`
	UTCArrival   string `json:"utc_arrival"`
	Return       int    `json:"return"`
}

type tequilaDuration struct {
	Departure int `json:"departure"`
	Return    int `json:"return"`
	Total     int `json:"total"`
}

// ResolvePlaceCode returns the first city code matching name. It never
// returns an empty code without an error.
func (t *TequilaClient) ResolvePlaceCode(ctx context.Context, name string) (string, error) {
	cacheKey := "place:code:" + strings.ToLower(strings.TrimSpace(name))
	if code, err := t.cache.Get(ctx, cacheKey); err == nil && code != "" {
		return code, nil
	} else if err != nil && !errors.Is(err, cache.ErrMiss) {
		t.logger.Warn("place code cache read failed", logger.Field{Key: "place", Value: name}, logger.Err(err))
	}

	params := url.Values{}
	params.Set("term", name)
	params.Set("location_types", "city")

	var apiResp tequilaLocationsResponse
	status, body, err := t.get(ctx, "/locations/query", params, &apiResp)
	if err != nil {
		t.logger.Error("tequila location lookup failed", logger.Field{Key: "place", Value: name}, logger.Err(err))
		return "", &ProviderLookupError{Place: name, Err: err}
	}
	if status != http.StatusOK {
		t.logger.Error("tequila location lookup returned error status",
			logger.Field{Key: "place", Value: name},
			logger.Field{Key: "status", Value: status},
			logger.Field{Key: "body", Value: body},
		)
		return "", &ProviderLookupError{Place: name, StatusCode: status, Body: body}
	}
	if len(apiResp.Locations) == 0 || apiResp.Locations[0].Code == "" {
		return "", &ProviderLookupError{Place: name}
	}

	code := apiResp.Locations[0].Code
	if err := t.cache.Set(ctx, cacheKey, code, t.codeTTL); err != nil {
		t.logger.Warn("failed to cache place code", logger.Field{Key: "place", Value: name}, logger.Err(err))
	}
	return code, nil
}

// SearchFlights resolves both endpoints to codes and queries /v2/search,
// returning at most the configured number of results.
func (t *TequilaClient) SearchFlights(ctx context.Context, req chat.FlightSearchParams) ([]chat.Flight, error) {
	fromCode, err := t.ResolvePlaceCode(ctx, req.FlyFrom)
	if err != nil {
		return nil, err
	}
	toCode, err := t.ResolvePlaceCode(ctx, req.FlyTo)
	if err != nil {
		return nil, err
	}

	params := searchQuery(req, fromCode, toCode, t.limit)

	var apiResp tequilaSearchResponse
	status, body, err := t.get(ctx, "/v2/search", params, &apiResp)
	if err != nil {
		t.logger.Error("tequila search failed", logger.Err(err))
		return nil, &ProviderSearchError{Err: err}
	}
	if status != http.StatusOK {
		t.logger.Error("tequila search returned error status",
			logger.Field{Key: "status", Value: status},
			logger.Field{Key: "body", Value: body},
		)
		return nil, &ProviderSearchError{StatusCode: status, Body: body}
	}

	currency := apiResp.Currency
	if currency == "" {
		currency = req.Curr
	}

	flights := mapTequilaFlights(apiResp.Data, currency)
	if len(flights) > t.limit {
		flights = flights[:t.limit]
	}
	return flights, nil
}

func searchQuery(req chat.FlightSearchParams, fromCode, toCode string, limit int) url.Values {
	q := url.Values{}
	q.Set("fly_from", fromCode)
	q.Set("fly_to", toCode)
	setIf(q, "depart_after", req.DepartAfter)
	setIf(q, "depart_before", req.DepartBefore)
	setIf(q, "rt_depart_after", req.RtDepartAfter)
	setIf(q, "rt_depart_before", req.RtDepartBefore)
	q.Set("adults", strconv.Itoa(req.Adults))
	q.Set("children", strconv.Itoa(req.Children))
	q.Set("infants", strconv.Itoa(req.Infants))
	setIf(q, "selected_cabins", req.SelectedCabins)
	setIf(q, "curr", req.Curr)
	setIf(q, "locale", req.Locale)
	if req.MaxStopovers != nil {
		q.Set("max_stopovers", strconv.Itoa(*req.MaxStopovers))
	}
	setIf(q, "vehicle_type", req.VehicleType)
	setIf(q, "sort", req.Sort)
	q.Set("limit", strconv.Itoa(limit))
	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// get performs a rate-limited GET and decodes a 200 body into out. For
// other statuses it returns the status and a truncated body instead.
func (t *TequilaClient) get(ctx context.Context, path string, params url.Values, out any) (int, string, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return 0, "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	endpoint := t.baseURL + path + "?" + params.Encode()
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to build request: %w", err)
	}
	r.Header.Set("accept", "application/json")
	r.Header.Set("apikey", t.apiKey)

	resp, err := t.httpClient.Do(r)
	if err != nil {
		return 0, "", fmt.Errorf("external api call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, string(b), nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, "", fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, "", nil
}

func mapTequilaFlights(items []tequilaItinerary, currency string) []chat.Flight {
	mapped := make([]chat.Flight, 0, len(items))

	for _, it := range items {
		outbound := make([]tequilaSegment, 0, len(it.Route))
		for _, seg := range it.Route {
			if seg.Return == 0 {
				outbound = append(outbound, seg)
			}
		}

		airline := ""
		if len(it.Airlines) > 0 {
			airline = it.Airlines[0]
		}
		flightNumber := ""
		arrival := it.UTCArrival
		stops := 0
		if len(outbound) > 0 {
			first := outbound[0]
			if airline == "" {
				airline = first.Airline
			}
			flightNumber = fmt.Sprintf("%s%d", first.Airline, first.FlightNo)
			if last := outbound[len(outbound)-1]; last.UTCArrival != "" {
				arrival = last.UTCArrival
			}
			stops = len(outbound) - 1
		}

		mapped = append(mapped, chat.Flight{
			ID:            it.ID,
			Airline:       airline,
			FlightNumber:  flightNumber,
			DepartureTime: it.UTCDeparture,
			ArrivalTime:   arrival,
			Price:         it.Price,
			Currency:      currency,
			Duration:      formatDuration(time.Duration(it.Duration.Departure) * time.Second),
			Stops:         stops,
		})
	}
	return mapped
}

// formatDuration renders d as "3h 15m".
func formatDuration(d time.Duration) string {
	minutes := int(d.Round(time.Minute).Minutes())
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
