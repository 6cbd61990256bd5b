package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures gin's validator with JSON field names and
// domain-specific tags. Call once at startup.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Report JSON tag names instead of Go field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// sku: letters, digits, underscores, and hyphens only
	_ = v.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
		sku := fl.Field().String()
		if sku == "" {
			return false
		}
		for _, r := range sku {
			if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
				(r >= '0' && r <= '9') || r == '_' || r == '-') {
				return false
			}
		}
		return true
	})
}
