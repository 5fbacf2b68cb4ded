package conversation

import "flightchat/internal/chat"

// MergeFormUpdates applies each non-nil field of updates to form in a fixed
// order. A field is kept only if the form still validates after it is
// applied; rejected fields leave the previous value in place.
func MergeFormUpdates(form chat.FormData, updates *chat.FormUpdates) (chat.FormData, []string, []string) {
	if updates.Empty() {
		return form, nil, nil
	}

	steps := []struct {
		name  string
		value *string
		apply func(f *chat.FormData, v string)
	}{
		{"departurePlace", updates.DeparturePlace, func(f *chat.FormData, v string) { f.DeparturePlace = v }},
		{"returnPlace", updates.ReturnPlace, func(f *chat.FormData, v string) { f.ReturnPlace = v }},
		{"departureDate", updates.DepartureDate, func(f *chat.FormData, v string) { f.DepartureDate = v }},
		{"returnDate", updates.ReturnDate, func(f *chat.FormData, v string) { f.ReturnDate = &v }},
	}

	var applied []string
	pending := steps[:0:0]
	for _, step := range steps {
		if step.value != nil {
			pending = append(pending, step)
		}
	}

	// A second pass lets dependent fields land, e.g. both dates moving
	// later where the new departure only validates after the new return.
	for pass := 0; pass < 2 && len(pending) > 0; pass++ {
		retry := pending[:0:0]
		for _, step := range pending {
			candidate := form
			step.apply(&candidate, *step.value)
			if err := chat.ValidateFormData(candidate); err != nil {
				retry = append(retry, step)
				continue
			}
			form = candidate
			applied = append(applied, step.name)
		}
		pending = retry
	}

	var rejected []string
	for _, step := range pending {
		rejected = append(rejected, step.name)
	}
	return form, applied, rejected
}
