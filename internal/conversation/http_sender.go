package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"flightchat/internal/chat"
)

const maxErrorBody = 4096

// RequestError is a non-200 answer from the chat endpoint.
type RequestError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     []chat.FieldError
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chat request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// HTTPSender posts envelopes to a flightchat server.
type HTTPSender struct {
	httpClient *http.Client
	endpoint   string
}

func NewHTTPSender(httpClient *http.Client, baseURL string) *HTTPSender {
	return &HTTPSender{
		httpClient: httpClient,
		endpoint:   strings.TrimSuffix(baseURL, "/") + "/api/chat",
	}
}

func (s *HTTPSender) Send(ctx context.Context, env *chat.SearchRequestEnvelope) (*chat.SearchResponseEnvelope, error) {
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		reqErr := &RequestError{StatusCode: resp.StatusCode}
		var payload struct {
			Error  string            `json:"error"`
			Code   string            `json:"code"`
			Fields []chat.FieldError `json:"fields"`
		}
		if json.Unmarshal(body, &payload) == nil {
			reqErr.Code = payload.Code
			reqErr.Message = payload.Error
			reqErr.Fields = payload.Fields
		}
		return nil, reqErr
	}

	var out chat.SearchResponseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
