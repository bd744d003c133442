package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of every calendar date
const DateLayout = "2006-01-02"

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			return IsISODate(fl.Field().String())
		})
	})
	return validate
}

// IsISODate reports whether s is a YYYY-MM-DD calendar date
func IsISODate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Validate runs struct-tag validation and converts failures into an
// INVALID_INPUT AppError naming the first offending field.
func Validate(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ErrInvalidInput(err.Error())
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return ErrInvalidInput(fmt.Sprintf("%s is required", fe.Field()))
	case "oneof":
		return ErrInvalidInput(fmt.Sprintf("invalid %s: %v (must be one of %s)", fe.Field(), fe.Value(), fe.Param()))
	case "isodate":
		return ErrInvalidInput(fmt.Sprintf("invalid %s: %v (expected YYYY-MM-DD)", fe.Field(), fe.Value()))
	case "gte":
		return ErrInvalidInput(fmt.Sprintf("%s must not be negative", fe.Field()))
	default:
		return ErrInvalidInput(fmt.Sprintf("invalid %s", fe.Field()))
	}
}
