package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// emailPattern is the accepted booking email shape: word characters with
// optional dot or hyphen separators and a 2-3 character final segment.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("booking_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("utf16min", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf16Len(fl.Field().String()) >= n
	})
	return v
}

// utf16Len is the length of s in UTF-16 code units, so a character outside
// the Basic Multilingual Plane counts twice.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
			continue
		}
		n++
	}
	return n
}

// fieldMessages maps "<json field>.<tag>" to the message reported to callers.
var fieldMessages = map[string]string{
	"title.required":       "event title is required",
	"title.utf16min":       "title must be at least 3 characters",
	"description.required": "event description is required",
	"overview.required":    "event overview is required",
	"image.required":       "event image URL is required",
	"venue.required":       "event venue is required",
	"location.required":    "event location is required",
	"date.required":        "event date is required",
	"time.required":        "event time is required",
	"mode.required":        "event mode is required",
	"mode.oneof":           "mode must be online, offline, or hybrid",
	"audience.required":    "target audience is required",
	"agenda.required":      "event agenda is required",
	"agenda.min":           "agenda must contain at least one item",
	"organizer.required":   "event organizer is required",
	"tags.required":        "event tags are required",
	"tags.min":             "tags must contain at least one item",
	"event_id.required":    "event ID is required",
	"email.required":       "email is required",
	"email.booking_email":  "please provide a valid email address",
}

// validateStruct runs the struct tag rules on v and folds every violation
// into a single ValidationError.
func validateStruct(v any) error {
	err := structValidator.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
			problems = append(problems, msg)
			continue
		}
		problems = append(problems, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return NewValidationError(problems...)
}
