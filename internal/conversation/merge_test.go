package conversation

import (
	"testing"

	"flightchat/internal/chat"

	"github.com/stretchr/testify/assert"
)

func TestMergeFormUpdates(t *testing.T) {
	tests := []struct {
		name     string
		updates  *chat.FormUpdates
		want     func(f chat.FormData) chat.FormData
		applied  []string
		rejected []string
	}{
		{
			name:    "nil updates",
			updates: nil,
			want:    func(f chat.FormData) chat.FormData { return f },
		},
		{
			name:    "all null fields",
			updates: &chat.FormUpdates{},
			want:    func(f chat.FormData) chat.FormData { return f },
		},
		{
			name:    "single place",
			updates: &chat.FormUpdates{DeparturePlace: strPtr("Surabaya")},
			want: func(f chat.FormData) chat.FormData {
				f.DeparturePlace = "Surabaya"
				return f
			},
			applied: []string{"departurePlace"},
		},
		{
			name:     "blank place rejected",
			updates:  &chat.FormUpdates{ReturnPlace: strPtr("  ")},
			want:     func(f chat.FormData) chat.FormData { return f },
			rejected: []string{"returnPlace"},
		},
		{
			name:     "return before departure rejected",
			updates:  &chat.FormUpdates{ReturnDate: strPtr("2026-11-20")},
			want:     func(f chat.FormData) chat.FormData { return f },
			rejected: []string{"returnDate"},
		},
		{
			name: "both dates move later",
			updates: &chat.FormUpdates{
				DepartureDate: strPtr("2026-12-20"),
				ReturnDate:    strPtr("2026-12-27"),
			},
			want: func(f chat.FormData) chat.FormData {
				f.DepartureDate = "2026-12-20"
				f.ReturnDate = strPtr("2026-12-27")
				return f
			},
			applied: []string{"returnDate", "departureDate"},
		},
		{
			name:    "malformed date rejected, place kept",
			updates: &chat.FormUpdates{DepartureDate: strPtr("next friday"), ReturnPlace: strPtr("Tokyo")},
			want: func(f chat.FormData) chat.FormData {
				f.ReturnPlace = "Tokyo"
				return f
			},
			applied:  []string{"returnPlace"},
			rejected: []string{"departureDate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()

			got, applied, rejected := MergeFormUpdates(form, tt.updates)

			assert.Equal(t, tt.want(validForm()), got)
			assert.Equal(t, tt.applied, applied)
			assert.Equal(t, tt.rejected, rejected)
		})
	}
}
