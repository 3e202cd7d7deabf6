package intake

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eringen/wealthwise/content"
)

// BookingForm is the public booking request as submitted.
type BookingForm struct {
	Name     string `json:"name" form:"name" validate:"notblank,max=120"`
	Email    string `json:"email" form:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" form:"phone" validate:"notblank,max=40"`
	Date     string `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot string `json:"time_slot" form:"time_slot" validate:"required,timeslot"`
	Message  string `json:"message" form:"message" validate:"max=4000"`
}

// ContactForm is the public contact request as submitted.
type ContactForm struct {
	Name    string `json:"name" form:"name" validate:"notblank,max=120"`
	Email   string `json:"email" form:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" form:"subject" validate:"notblank,max=200"`
	Message string `json:"message" form:"message" validate:"notblank,max=4000"`
	Phone   string `json:"phone" form:"phone" validate:"max=40"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic("intake: failed to register notblank validation: " + err.Error())
	}
	if err := v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return IsSlot(fl.Field().String())
	}); err != nil {
		panic("intake: failed to register timeslot validation: " + err.Error())
	}
	return v
}

// validationError converts the first validator failure into a
// *content.ValidationError naming the JSON field.
func validationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err
	}
	fe := ves[0]
	return &content.ValidationError{Field: fe.Field(), Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be a date in YYYY-MM-DD form"
	case "timeslot":
		return "is not an available time slot"
	case "max":
		return "is too long"
	}
	return "is invalid"
}
