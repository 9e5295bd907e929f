package forms

import (
	"errors"
	"testing"
)

func fieldNames(err error) []string {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	names := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestCampgroundForm_ReportsEveryViolationAtOnce(t *testing.T) {
	err := CampgroundForm{Price: -1}.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	names := fieldNames(err)
	if len(names) != 4 {
		t.Fatalf("expected all four violations reported together, got %v", names)
	}
	want := map[string]bool{"title": true, "location": true, "price": true, "description": true}
	for _, name := range names {
		if !want[name] {
			t.Fatalf("unexpected field %q in %v", name, names)
		}
	}
}

func TestCampgroundForm_ValidInputPasses(t *testing.T) {
	form := CampgroundForm{Title: "Pine Flats", Location: "Truckee, CA", Price: 0, Description: "Walk-in sites."}
	if err := form.Validate(); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}
}

func TestCampgroundForm_WhitespaceOnlyFieldsAreEmpty(t *testing.T) {
	form := CampgroundForm{Title: "  ", Location: "\t", Price: 10, Description: "ok"}
	names := fieldNames(form.Validate())
	if len(names) != 2 {
		t.Fatalf("expected title and location violations, got %v", names)
	}
}

func TestReviewForm_RatingBounds(t *testing.T) {
	for _, rating := range []int{0, -3, 6, 42} {
		err := ReviewForm{Body: "fine", Rating: rating}.Validate()
		if err == nil {
			t.Fatalf("rating %d accepted", rating)
		}
	}
	for _, rating := range []int{1, 5} {
		if err := (ReviewForm{Body: "fine", Rating: rating}).Validate(); err != nil {
			t.Fatalf("boundary rating %d rejected: %v", rating, err)
		}
	}
}

func TestReviewForm_EmptyBodyRejected(t *testing.T) {
	names := fieldNames(ReviewForm{Body: "   ", Rating: 3}.Validate())
	if len(names) != 1 || names[0] != "body" {
		t.Fatalf("expected a body violation, got %v", names)
	}
}
