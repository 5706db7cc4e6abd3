package handlers

import (
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators installs domain-specific binding validators on
// Gin's validator engine. Must run before any request binding uses the
// "ratetype" tag.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("ratetype", func(fl validator.FieldLevel) bool {
		return domain.RateType(fl.Field().String()).IsValid()
	})
}
