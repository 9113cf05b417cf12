package usecase

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tidepool-org/glucose-insights/schema"
)

const (
	// MetricsDefaultDays trailing window used by the metrics when no startDate is given
	MetricsDefaultDays = 14
	// CalendarDays trailing window of the calendar
	CalendarDays = 30
	// MaxWindowAgeDays a window starting this many days ago (or more) is rejected
	MaxWindowAgeDays = 90
)

const (
	FieldNull         ValidationError = "FIELD_NULL"
	InvalidFieldValue ValidationError = "INVALID_FIELD_VALUE"
)

const (
	msgEndDateMissing   = "Start date is provided, but no end date"
	msgStartDateMissing = "End date is provided, but no start date"
	msgTooOld           = "The provided time span is older than 90 days"
	msgStartInvalid     = "Start date has an invalid format"
	msgEndInvalid       = "End date has an invalid format"
	msgInverted         = "Start date is after end date"
)

type (
	// ValidationError kind of a rejected query parameter
	ValidationError string

	// ValidationErrors every violation found on a request, message -> kind
	ValidationErrors struct {
		Messages map[string]ValidationError
	}

	// DateWindowQuery raw startDate/endDate query parameters
	DateWindowQuery struct {
		StartDate string `validate:"required_with=EndDate,omitempty,datetime=2006-01-02T15:04:05"`
		EndDate   string `validate:"required_with=StartDate,omitempty,datetime=2006-01-02T15:04:05"`
	}

	// DateWindowResolver turns the optional query dates in a concrete UTC window
	DateWindowResolver struct {
		validate *validator.Validate
		now      func() time.Time
	}
)

// Code numeric code of the validation error kind
func (v ValidationError) Code() string {
	switch v {
	case FieldNull:
		return "000"
	case InvalidFieldValue:
		return "001"
	}
	return ""
}

func (e *ValidationErrors) Error() string {
	messages := make([]string, 0, len(e.Messages))
	for message := range e.Messages {
		messages = append(messages, message)
	}
	sort.Strings(messages)
	return "request validation failed: " + strings.Join(messages, ", ")
}

func (e *ValidationErrors) add(message string, kind ValidationError) {
	if e.Messages == nil {
		e.Messages = make(map[string]ValidationError)
	}
	e.Messages[message] = kind
}

func (e *ValidationErrors) orNil() error {
	if len(e.Messages) == 0 {
		return nil
	}
	return e
}

// IsValidationError true when err holds request validation failures
func IsValidationError(err error) bool {
	var validationErrors *ValidationErrors
	return errors.As(err, &validationErrors)
}

func NewDateWindowResolver(now func() time.Time) DateWindowResolver {
	if now == nil {
		now = time.Now
	}
	return DateWindowResolver{
		validate: validator.New(),
		now:      now,
	}
}

func (r DateWindowResolver) Now() time.Time {
	return r.now().UTC()
}

// Validate check the query against the window policy, all the violations are reported at once
func (r DateWindowResolver) Validate(query DateWindowQuery) error {
	violations := &ValidationErrors{}
	if err := r.validate.Struct(query); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return err
		}
		for _, fieldError := range fieldErrors {
			addFieldViolation(violations, fieldError)
		}
	}
	if query.StartDate == "" {
		return violations.orNil()
	}

	start, err := schema.ParseLocalDateTime(query.StartDate)
	if err != nil {
		// already reported by the datetime tag
		return violations.orNil()
	}
	if schema.WholeDaysBetween(start, r.Now()) >= MaxWindowAgeDays {
		violations.add(msgTooOld, InvalidFieldValue)
	}
	if query.EndDate != "" {
		end, err := schema.ParseLocalDateTime(query.EndDate)
		if err == nil && start.After(end) {
			violations.add(msgInverted, InvalidFieldValue)
		}
	}
	return violations.orNil()
}

func addFieldViolation(violations *ValidationErrors, fieldError validator.FieldError) {
	switch fieldError.StructField() {
	case "StartDate":
		if fieldError.Tag() == "required_with" {
			violations.add(msgStartDateMissing, FieldNull)
		} else {
			violations.add(msgStartInvalid, InvalidFieldValue)
		}
	case "EndDate":
		if fieldError.Tag() == "required_with" {
			violations.add(msgEndDateMissing, FieldNull)
		} else {
			violations.add(msgEndInvalid, InvalidFieldValue)
		}
	}
}

// Resolve the window without the age/pairing policy: no startDate gives the trailing defaultDays window,
// otherwise both dates are parsed as UTC date-times
func (r DateWindowResolver) Resolve(query DateWindowQuery, defaultDays int) (schema.DateWindow, error) {
	if query.StartDate == "" {
		return schema.NewTrailingWindow(r.Now(), defaultDays), nil
	}
	violations := &ValidationErrors{}
	start, err := schema.ParseLocalDateTime(query.StartDate)
	if err != nil {
		violations.add(msgStartInvalid, InvalidFieldValue)
	}
	var end time.Time
	if query.EndDate == "" {
		violations.add(msgEndDateMissing, FieldNull)
	} else if end, err = schema.ParseLocalDateTime(query.EndDate); err != nil {
		violations.add(msgEndInvalid, InvalidFieldValue)
	}
	if err := violations.orNil(); err != nil {
		return schema.DateWindow{}, err
	}
	return schema.NewDateWindow(start, end), nil
}

// ResolveValidated Validate then Resolve
func (r DateWindowResolver) ResolveValidated(query DateWindowQuery, defaultDays int) (schema.DateWindow, error) {
	if err := r.Validate(query); err != nil {
		return schema.DateWindow{}, err
	}
	return r.Resolve(query, defaultDays)
}

// CalendarWindow the trailing window of the calendar
func (r DateWindowResolver) CalendarWindow() schema.DateWindow {
	return schema.NewTrailingWindow(r.Now(), CalendarDays)
}
