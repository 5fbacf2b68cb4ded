package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldPaths(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	paths := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		paths = append(paths, f.Path)
	}
	return paths
}

func TestParseEnvelope_Valid(t *testing.T) {
	body := `{
		"sessionId": "abc",
		"formData": {"departurePlace": "Jakarta", "returnPlace": "Bali", "departureDate": "2026-12-01", "returnDate": null},
		"trigger": "search"
	}`

	env, err := ParseEnvelope([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "abc", env.SessionID)
	assert.Equal(t, TriggerSearch, env.Trigger)
	assert.Nil(t, env.FormData.ReturnDate)
	assert.NotNil(t, env.Messages)
	assert.Empty(t, env.Messages)
}

func TestParseEnvelope_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		paths []string
	}{
		{
			name:  "missing departurePlace",
			body:  `{"sessionId":"a","formData":{"returnPlace":"Bali","departureDate":"2026-12-01"},"messages":[],"trigger":"search"}`,
			paths: []string{"formData.departurePlace"},
		},
		{
			name:  "blank returnPlace",
			body:  `{"sessionId":"a","formData":{"departurePlace":"Jakarta","returnPlace":"  ","departureDate":"2026-12-01"},"messages":[],"trigger":"search"}`,
			paths: []string{"formData.returnPlace"},
		},
		{
			name:  "return before departure",
			body:  `{"sessionId":"a","formData":{"departurePlace":"Jakarta","returnPlace":"Bali","departureDate":"2026-12-10","returnDate":"2026-12-01"},"messages":[],"trigger":"search"}`,
			paths: []string{"formData.returnDate"},
		},
		{
			name:  "bad date",
			body:  `{"sessionId":"a","formData":{"departurePlace":"Jakarta","returnPlace":"Bali","departureDate":"01/12/2026"},"messages":[],"trigger":"search"}`,
			paths: []string{"formData.departureDate"},
		},
		{
			name:  "unknown trigger",
			body:  `{"sessionId":"a","formData":{"departurePlace":"Jakarta","returnPlace":"Bali","departureDate":"2026-12-01"},"messages":[],"trigger":"book"}`,
			paths: []string{"trigger"},
		},
		{
			name:  "bad message role",
			body:  `{"sessionId":"a","formData":{"departurePlace":"Jakarta","returnPlace":"Bali","departureDate":"2026-12-01"},"messages":[{"role":"system","content":"x"}],"trigger":"chat"}`,
			paths: []string{"messages[0].role"},
		},
		{
			name:  "missing session",
			body:  `{"formData":{"departurePlace":"Jakarta","returnPlace":"Bali","departureDate":"2026-12-01"},"trigger":"search"}`,
			paths: []string{"sessionId"},
		},
		{
			name:  "wrong type",
			body:  `{"sessionId":"a","formData":{"departurePlace":42,"returnPlace":"Bali","departureDate":"2026-12-01"},"trigger":"search"}`,
			paths: []string{"formData.departurePlace"},
		},
		{
			name:  "malformed json",
			body:  `{"sessionId":`,
			paths: []string{"$"},
		},
		{
			name:  "trailing data",
			body:  `{"sessionId":"a","formData":{"departurePlace":"Jakarta","returnPlace":"Bali","departureDate":"2026-12-01"},"trigger":"search"} {}`,
			paths: []string{"$"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope([]byte(tt.body))

			assert.Nil(t, env)
			assert.Equal(t, tt.paths, fieldPaths(t, err))
		})
	}
}

func TestValidateFormData(t *testing.T) {
	form := FormData{DeparturePlace: "Jakarta", ReturnPlace: "Bali", DepartureDate: "2026-12-01"}
	require.NoError(t, ValidateFormData(form))

	sameDay := "2026-12-01"
	form.ReturnDate = &sameDay
	require.NoError(t, ValidateFormData(form))

	earlier := "2026-11-30"
	form.ReturnDate = &earlier
	err := ValidateFormData(form)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "returnDate", verr.Fields[0].Path)
	assert.Equal(t, "must not precede departureDate", verr.Fields[0].Reason)
}

func TestParseISODate(t *testing.T) {
	for _, s := range []string{"2026-12-01", "2026-12-01T09:30", "2026-12-01T09:30:15", "2026-12-01T09:30:15Z", "2026-12-01T09:30:15.123+07:00"} {
		_, ok := ParseISODate(s)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"", "tomorrow", "2026-13-01", "12/01/2026"} {
		_, ok := ParseISODate(s)
		assert.False(t, ok, s)
	}
}

func TestValidateStruct_FilterDraft(t *testing.T) {
	long := "This label is far too long to be shown on a single suggestion chip in the UI"

	assert.NoError(t, ValidateStruct(suggestedFilterDraft{Label: "Direct", Prompt: "Direct only"}))
	assert.Error(t, ValidateStruct(suggestedFilterDraft{Label: long, Prompt: "x"}))
	assert.Error(t, ValidateStruct(suggestedFilterDraft{Label: "Direct"}))
}
