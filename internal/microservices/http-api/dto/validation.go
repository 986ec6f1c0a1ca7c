package dto

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of every date in the API.
const DateLayout = "2006-01-02"

var registerOnce sync.Once

// RegisterValidators adds the custom rules to gin's validator engine.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("isodate", isISODate)
	})
}

func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

var messageTemplates = map[string]string{
	"required": "%s is required",
	"isodate":  "%s must be a date in YYYY-MM-DD format",
}

var messageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
}

// ValidationMessage turns a binding error into a short client-facing message.
// Errors that are not field validation failures (malformed JSON, wrong types)
// are returned as-is.
func ValidationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := lowerFirst(fe.Field())
		if tmpl, ok := messageTemplates[fe.Tag()]; ok {
			msgs = append(msgs, fmt.Sprintf(tmpl, field))
			continue
		}
		if tmpl, ok := messageWithParam[fe.Tag()]; ok {
			msgs = append(msgs, fmt.Sprintf(tmpl, field, fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
