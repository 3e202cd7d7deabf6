package content

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Power of SIP", "power-of-sip"},
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Tax Regime: Old vs. New (2025)", "tax-regime-old-vs-new-2025"},
		{"---", ""},
		{"ELSS -- 80C", "elss-80c"},
		{"Über Fonds", "ber-fonds"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	valid := regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)
	for _, in := range []string{
		"Power of SIP", "  --Mixed__Case & Symbols!!  ", "a  b\tc\nd", "2025: year-end tips", "ñandú 💰 fund",
	} {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q then %q", in, once, twice)
		}
		if !valid.MatchString(once) {
			t.Errorf("Slugify(%q) = %q has invalid characters or hyphens", in, once)
		}
	}
}

func TestValidationErrorIs(t *testing.T) {
	err := fmt.Errorf("create: %w", &ValidationError{Field: "email", Reason: "is required"})
	if !errors.Is(err, ErrValidation) {
		t.Error("wrapped ValidationError should match ErrValidation")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "email" {
		t.Errorf("errors.As = %v", ve)
	}
}

func TestStoreErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("list: %w", &StoreError{Op: "list posts", Err: cause})
	if !IsStoreError(err) {
		t.Error("IsStoreError should see through wrapping")
	}
	if !errors.Is(err, cause) {
		t.Error("StoreError should unwrap to its cause")
	}
	if IsStoreError(ErrNotFound) {
		t.Error("ErrNotFound is not a store error")
	}
}

func TestBookingValidate(t *testing.T) {
	b := Booking{Name: "A", Email: "a@x.com", Phone: "123", Date: "2025-06-10", TimeSlot: "10:00 AM"}
	if err := b.Validate(); err != nil {
		t.Fatalf("valid booking rejected: %v", err)
	}
	b.Phone = " "
	var ve *ValidationError
	if err := b.Validate(); !errors.As(err, &ve) || ve.Field != "phone" {
		t.Errorf("expected phone validation error, got %v", err)
	}
	b.Phone = "123"
	b.Status = "lost"
	if err := b.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected status validation error, got %v", err)
	}
}

func TestPostLink(t *testing.T) {
	p := BlogPost{Slug: "power-of-sip"}
	if p.Link() != "/blog/power-of-sip/" {
		t.Errorf("Link = %q", p.Link())
	}
	if p.Published() {
		t.Error("post without published_at is a draft")
	}
}
