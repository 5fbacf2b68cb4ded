package chat

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const searchParamsPrompt = `You are a flight search assistant.
Based on the search parameters and chat history, generate the api parameters to call the flight search api.
Make sure all dates and times are in ISO format (YYYY-MM-DDThh:mm).
Prices should be in USD.
Use city names for fly_from and fly_to.`

const filtersPrompt = `Based on the provided flight results and user search request,
suggest relevant refinement filters the user could find useful.
Examples:
- Under $150
- Non-stop flights only
- Island destinations only
- Under 5 hours flight duration
Consider factors like:
- Time of day (morning/evening flights)
- Price ranges
- Direct vs connecting flights
- Airlines
- Duration
Each filter should be contextual and relevant to the actual flights provided.
Filters should have the following fields:
- label: string, e.g. "Non-stop flights only"
- prompt: string, e.g. "Search for non-stop flights only"`

const formUpdatesPrompt = `Based on the user's search request and chat history, suggest new state for the search form.
Consider what fields should be updated based on the user's intent.
If no changes are needed, return null for all fields.`

func chatPrompt(form FormData) string {
	returnDate := "N/A"
	if form.ReturnDate != nil && *form.ReturnDate != "" {
		returnDate = *form.ReturnDate
	}

	return fmt.Sprintf(`You are a helpful flight search assistant. Help users find flights based on their preferences.
Current search parameters:
- From: %s
- To: %s
- Departure: %s
- Return: %s

Provide helpful suggestions and answer questions about flights, travel tips, and destinations.`,
		form.DeparturePlace, form.ReturnPlace, form.DepartureDate, returnDate)
}

// requestContext renders the envelope fields the model needs as JSON. The
// current date is included so relative phrases like "next friday" resolve.
func requestContext(env *SearchRequestEnvelope, now time.Time) string {
	payload := struct {
		Today    string        `json:"today"`
		FormData FormData      `json:"formData"`
		Messages []ChatMessage `json:"messages"`
		Trigger  Trigger       `json:"trigger"`
	}{
		Today:    now.Format("2006-01-02"),
		FormData: env.FormData,
		Messages: env.Messages,
		Trigger:  env.Trigger,
	}
	return mustJSON(payload)
}

func filtersContext(params *FlightSearchParams, form FormData, flights []Flight) string {
	payload := struct {
		SearchParams *FlightSearchParams `json:"searchParams,omitempty"`
		FormData     FormData            `json:"formData"`
		Flights      []Flight            `json:"flights"`
	}{
		SearchParams: params,
		FormData:     form,
		Flights:      flights,
	}
	return mustJSON(payload)
}

// transcript renders the conversation as "role: content" lines.
func transcript(messages []ChatMessage) string {
	var sb strings.Builder
	for _, m := range messages {
		sb.WriteString(string(m.Role))
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func mustJSON(v any) string {
	// Only plain data structs reach here, so marshalling cannot fail.
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func searchSummary(params *FlightSearchParams, flights []Flight) string {
	switch len(flights) {
	case 0:
		return fmt.Sprintf("I couldn't find any flights from %s to %s. Try different dates or nearby airports.", params.FlyFrom, params.FlyTo)
	case 1:
		return fmt.Sprintf("Found 1 flight from %s to %s matching your criteria.", params.FlyFrom, params.FlyTo)
	}

	direct := 0
	for _, f := range flights {
		if f.Stops == 0 {
			direct++
		}
	}
	if direct == len(flights) {
		return fmt.Sprintf("Found %d direct flights from %s to %s matching your criteria.", len(flights), params.FlyFrom, params.FlyTo)
	}
	return fmt.Sprintf("Found %d flights from %s to %s matching your criteria, %d of them direct.", len(flights), params.FlyFrom, params.FlyTo, direct)
}
