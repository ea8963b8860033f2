package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"urbanflux/prediction"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a payload before it reaches a service.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Fields are pointers so a missing value is told apart from a zero one.

type freshnessPayload struct {
	ProducedDate *string `json:"produced_date" validate:"required"`
	ExpiryDate   *string `json:"expiry_date" validate:"required"`
	StorageType  *string `json:"storage_type" validate:"required"`
	QualityGrade *string `json:"quality_grade" validate:"required"`
}

func (p freshnessPayload) request() prediction.FreshnessRequest {
	return prediction.FreshnessRequest{
		ProducedDate: *p.ProducedDate,
		ExpiryDate:   *p.ExpiryDate,
		StorageType:  *p.StorageType,
		QualityGrade: *p.QualityGrade,
	}
}

type spoilagePayload struct {
	Freshness   *float64 `json:"freshness" validate:"required"`
	DelayHours  *float64 `json:"delay_hours" validate:"required"`
	Temperature *float64 `json:"temperature" validate:"required"`
	Congestion  *string  `json:"congestion" validate:"required"`
}

func (p spoilagePayload) request() prediction.SpoilageRequest {
	return prediction.SpoilageRequest{
		Freshness:   *p.Freshness,
		DelayHours:  *p.DelayHours,
		Temperature: *p.Temperature,
		Congestion:  *p.Congestion,
	}
}

type priorityPayload struct {
	SpoilageRisk   *string  `json:"spoilage_risk" validate:"required"`
	CustomerDemand *float64 `json:"customer_demand" validate:"required"`
	DistanceKm     *float64 `json:"distance_km" validate:"required"`
}

func (p priorityPayload) request() prediction.PriorityRequest {
	return prediction.PriorityRequest{
		SpoilageRisk:   *p.SpoilageRisk,
		CustomerDemand: *p.CustomerDemand,
		DistanceKm:     *p.DistanceKm,
	}
}

// decodePayload reads a JSON object into dst and checks its shape.
func decodePayload(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		out := &ValidationError{}
		for _, fe := range fieldErrs {
			out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return out
	}
	return nil
}

func decodeError(err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return &ValidationError{Fields: []FieldError{{Field: typeErr.Field, Message: "must be a " + jsonKind(typeErr.Type)}}}
	case errors.As(err, &typeErr):
		return &ValidationError{Fields: []FieldError{{Field: "body", Message: "must be a JSON object"}}}
	case errors.As(err, &maxErr):
		return &ValidationError{Fields: []FieldError{{Field: "body", Message: fmt.Sprintf("exceeds %d bytes", maxErr.Limit)}}}
	case errors.Is(err, io.EOF):
		return &ValidationError{Fields: []FieldError{{Field: "body", Message: "is required"}}}
	default:
		return &ValidationError{Fields: []FieldError{{Field: "body", Message: "invalid JSON: " + err.Error()}}}
	}
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "number"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
