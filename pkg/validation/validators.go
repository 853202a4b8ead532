package validation

import (
	"reflect"
	"strings"
	"time"

	"go-ats-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// New returns a validator that reports fields by their JSON names and knows
// the custom tags used by the domain DTOs.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("calendar_date", CalendarDate)
	_ = v.RegisterValidation("candidate_status", CandidateStatus)
}

// CalendarDate accepts YYYY-MM-DD or a full RFC3339 timestamp.
func CalendarDate(fl validator.FieldLevel) bool {
	_, ok := NormalizeDate(fl.Field().String())
	return ok
}

func CandidateStatus(fl validator.FieldLevel) bool {
	return domain.CandidateStatus(fl.Field().String()).Valid()
}

// NormalizeDate truncates an accepted date representation to YYYY-MM-DD.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t.Format(dateLayout), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(dateLayout), true
	}
	return "", false
}
