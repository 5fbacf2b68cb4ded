package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
)

func main() {
	// Default port
	port := "8081"

	// Check if port is provided as command line argument
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	// Empty accepts any non-empty apikey header.
	apiKey := os.Getenv("MOCK_TEQUILA_API_KEY")

	mux := http.NewServeMux()
	mux.Handle("/locations/query", requireAPIKey(apiKey, http.HandlerFunc(LocationsHandler)))
	mux.Handle("/v2/search", requireAPIKey(apiKey, http.HandlerFunc(SearchHandler)))

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("Mock Tequila server running on port %s...\n", port)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}

func requireAPIKey(expected string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("apikey")
		if got == "" || (expected != "" && got != expected) {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "Invalid API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
