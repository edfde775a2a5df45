// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/liquidity-forecast/pkg/validation"
)

// Register registers all custom validators with the Gin binding engine.
// Enumerations are accepted in any case; the service layer upper-cases them.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
		_ = v.RegisterValidation("flow_type", enum(validation.IsFlowType))
		_ = v.RegisterValidation("assumption_type", enum(validation.IsAssumptionType))
		_ = v.RegisterValidation("visibility_scope", enum(validation.IsVisibilityScope))
		_ = v.RegisterValidation("period_type", enum(validation.IsPeriodType))
	}
}

func enum(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return valid(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
	}
}

// jsonTagName reports fields by their JSON name so error responses use the
// names clients send.
func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}
