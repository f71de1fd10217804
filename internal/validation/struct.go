package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"petchef/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var messages = map[string]string{
	"required":    "is required",
	"min":         "must be at least %v characters",
	"max":         "must not exceed %v characters",
	"gt":          "must be greater than %v",
	"gte":         "must be at least %v",
	"lte":         "must be at most %v",
	"url":         "must be a valid URL",
	"email":       "must be a valid email address",
	"pettype":     "must be one of dog, cat",
	"category":    "must be one of meat, poultry, fish, treats",
	"cookingtype": "must be one of raw, cooked, baked, mixed",
}

// Validator returns the shared validator with the domain enum rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("pettype", func(fl validator.FieldLevel) bool {
			return models.PetType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return models.RecipeCategory(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("cookingtype", func(fl validator.FieldLevel) bool {
			return models.CookingType(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// Struct validates s against its `validate` tags and converts the first
// failure into a field-level validation error.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return models.NewValidationError(err.Error())
	}
	return FormatValidationError(errs)
}

// FormatValidationError turns the first validator failure into an AppError.
func FormatValidationError(errs validator.ValidationErrors) *models.AppError {
	first := errs[0]
	field := first.Field()

	tmpl, ok := messages[first.Tag()]
	if !ok {
		tmpl = "is invalid"
	}
	msg := tmpl
	if first.Param() != "" && strings.Contains(tmpl, "%v") {
		msg = fmt.Sprintf(tmpl, first.Param())
	}
	return models.NewFieldValidationError(field, field+" "+msg)
}
