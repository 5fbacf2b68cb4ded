package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// isoLayouts are the date and datetime shapes accepted on the wire.
var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func schemaValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		// Registration only fails on an empty tag or nil func.
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, ok := ParseISODate(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		v.RegisterStructValidation(validateFormDates, FormData{})
		validate = v
	})
	return validate
}

// ParseISODate parses a date or datetime in any accepted ISO-8601 shape.
func ParseISODate(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func validateFormDates(sl validator.StructLevel) {
	form := sl.Current().Interface().(FormData)
	if form.ReturnDate == nil {
		return
	}

	dep, okDep := ParseISODate(form.DepartureDate)
	ret, okRet := ParseISODate(*form.ReturnDate)
	if !okDep || !okRet {
		return
	}
	if ret.Before(dep) {
		sl.ReportError(form.ReturnDate, "returnDate", "ReturnDate", "notbefore", "departureDate")
	}
}

// ValidateFormData checks a form snapshot against the same rules applied
// to inbound envelopes.
func ValidateFormData(form FormData) error {
	return ValidateStruct(form)
}

// ValidateStruct validates v against its `validate` tags and converts
// failures into a ValidationError.
func ValidateStruct(v any) error {
	err := schemaValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []FieldError{{Reason: err.Error()}}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Path:   fieldPath(fe.Namespace()),
			Reason: reason(fe),
		})
	}
	return &ValidationError{Fields: fields}
}

// ParseEnvelope decodes and validates an inbound request body.
func ParseEnvelope(body []byte) (*SearchRequestEnvelope, error) {
	var env SearchRequestEnvelope

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&env); err != nil {
		return nil, decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &ValidationError{Fields: []FieldError{{Path: "$", Reason: "must contain a single JSON object"}}}
	}

	if err := ValidateStruct(env); err != nil {
		return nil, err
	}

	if env.Messages == nil {
		env.Messages = []ChatMessage{}
	}
	return &env, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := typeErr.Field
		if path == "" {
			path = "$"
		}
		return &ValidationError{Fields: []FieldError{{
			Path:   path,
			Reason: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
		}}}
	}
	return &ValidationError{Fields: []FieldError{{Path: "$", Reason: "malformed JSON"}}}
}

// fieldPath drops the root type name from a validator namespace:
// "SearchRequestEnvelope.formData.departurePlace" -> "formData.departurePlace".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "isodate":
		return "must be an ISO-8601 date"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "notbefore":
		return "must not precede " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
