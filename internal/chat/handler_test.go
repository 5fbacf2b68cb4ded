package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"flightchat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResponder struct {
	mock.Mock
}

func (m *mockResponder) Respond(ctx context.Context, env *SearchRequestEnvelope) (*SearchResponseEnvelope, error) {
	args := m.Called(ctx, env)
	resp, _ := args.Get(0).(*SearchResponseEnvelope)
	return resp, args.Error(1)
}

func setupRouter(r Responder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", HealthHandler)
	NewChatHandler(r, logger.NewNop()).RegisterRoutes(router)
	return router
}

func postChat(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Error  string       `json:"error"`
	Code   string       `json:"code"`
	Fields []FieldError `json:"fields"`
}

const validSearchBody = `{"sessionId":"s-1","formData":{"departurePlace":"Jakarta","returnPlace":"Bali","departureDate":"2026-12-01"},"messages":[],"trigger":"search"}`

func TestHandleChat_Success(t *testing.T) {
	responder := new(mockResponder)
	responder.On("Respond", mock.Anything, mock.MatchedBy(func(env *SearchRequestEnvelope) bool {
		return env.SessionID == "s-1" && env.Trigger == TriggerSearch
	})).Return(&SearchResponseEnvelope{
		SessionID:        "s-1",
		Messages:         []ChatMessage{{Role: RoleAssistant, Content: "Found 1 flight from Jakarta to Bali matching your criteria."}},
		Flights:          makeFlights(1),
		SuggestedFilters: []SuggestedFilter{},
	}, nil)

	w := postChat(setupRouter(responder), validSearchBody)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "formUpdates")
	assert.Nil(t, body["formUpdates"])
	assert.Len(t, body["flights"], 1)
	assert.Equal(t, []any{}, body["suggestedFilters"])
}

func TestHandleChat_ValidationFailureIssuesNoCalls(t *testing.T) {
	responder := new(mockResponder)
	body := `{"sessionId":"s-1","formData":{"returnPlace":"Bali","departureDate":"2026-12-01"},"messages":[],"trigger":"search"}`

	w := postChat(setupRouter(responder), body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(ErrorCodeValidation), resp.Code)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "formData.departurePlace", resp.Fields[0].Path)
	responder.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything)
}

func TestHandleChat_OversizedBodyRejected(t *testing.T) {
	responder := new(mockResponder)
	body := `{"sessionId":"s-1","messages":[{"role":"user","content":"` +
		strings.Repeat("a", maxRequestBytes) + `"}],"trigger":"chat"}`

	w := postChat(setupRouter(responder), body)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(ErrorCodePayloadTooLarge), resp.Code)
	assert.Empty(t, resp.Fields)
	responder.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything)
}

func TestHandleChat_BodyUnderLimitAccepted(t *testing.T) {
	responder := new(mockResponder)
	responder.On("Respond", mock.Anything, mock.Anything).Return(&SearchResponseEnvelope{
		SessionID:        "s-1",
		Messages:         []ChatMessage{},
		Flights:          []Flight{},
		SuggestedFilters: []SuggestedFilter{},
	}, nil).Once()

	long := strings.Repeat("a", maxRequestBytes/2)
	body := `{"sessionId":"s-1","formData":{"departurePlace":"Jakarta","returnPlace":"Bali","departureDate":"2026-12-01"},` +
		`"messages":[{"role":"user","content":"` + long + `"}],"trigger":"chat"}`

	w := postChat(setupRouter(responder), body)

	assert.Equal(t, http.StatusOK, w.Code)
	responder.AssertExpectations(t)
}

func TestHandleChat_ValidationFailureEndToEnd(t *testing.T) {
	completer := new(mockCompleter)
	provider := new(mockProvider)
	svc := newTestService(completer, provider, Config{})

	body := `{"sessionId":"s-1","formData":{"returnPlace":"Bali","departureDate":"2026-12-01"},"messages":[],"trigger":"search"}`
	w := postChat(setupRouter(svc), body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, completer.Calls)
	assert.Empty(t, provider.Calls)
}

func TestHandleChat_ServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    ErrorCode
		message string
	}{
		{
			name:    "search failed",
			err:     errors.Join(ErrSearchFailed, errors.New("tequila: status 502")),
			code:    ErrorCodeSearchFailed,
			message: "Flight search failed",
		},
		{
			name:    "completion failed",
			err:     &CompletionError{Step: StepSearchParams, Err: errors.New("refused")},
			code:    ErrorCodeCompletionFailed,
			message: "Failed to process chat request",
		},
		{
			name:    "unexpected",
			err:     errors.New("nil map write in secret module"),
			code:    ErrorCodeInternalFailure,
			message: "Failed to process chat request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responder := new(mockResponder)
			responder.On("Respond", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := postChat(setupRouter(responder), validSearchBody)

			require.Equal(t, http.StatusInternalServerError, w.Code)
			var resp errorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.code), resp.Code)
			assert.Equal(t, tt.message, resp.Error)
			assert.NotContains(t, w.Body.String(), "secret")
			assert.NotContains(t, w.Body.String(), "tequila")
		})
	}
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	setupRouter(new(mockResponder)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
