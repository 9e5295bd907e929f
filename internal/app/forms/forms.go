package forms

import (
	"fmt"
	"strings"
)

// FieldError names one offending field in a submitted form.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field violation into a single error, so a
// bad submission is reported once with the full list of problems.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// CampgroundForm is the mutation input schema for campgrounds. Validation
// happens before any gateway call.
type CampgroundForm struct {
	Title       string
	Location    string
	Price       float64
	Description string
}

func (f CampgroundForm) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(f.Title) == "" {
		verr.add("title", "title is required")
	}
	if strings.TrimSpace(f.Location) == "" {
		verr.add("location", "location is required")
	}
	if f.Price < 0 {
		verr.add("price", "price must be greater than or equal to 0")
	}
	if strings.TrimSpace(f.Description) == "" {
		verr.add("description", "description is required")
	}
	return verr.orNil()
}

// ReviewForm is the mutation input schema for reviews.
type ReviewForm struct {
	Body   string
	Rating int
}

func (f ReviewForm) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(f.Body) == "" {
		verr.add("body", "body is required")
	}
	if f.Rating < 1 || f.Rating > 5 {
		verr.add("rating", fmt.Sprintf("rating must be between 1 and 5, got %d", f.Rating))
	}
	return verr.orNil()
}
