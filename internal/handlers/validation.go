package handlers

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
)

// RegisterValidators teaches gin's validator the application tags and makes
// it report fields by their json names.
func RegisterValidators(catalog permissions.Catalog) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		return fmt.Errorf("register date validator: %w", err)
	}
	if err := v.RegisterValidation("permission", func(fl validator.FieldLevel) bool {
		return catalog.Has(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		return fmt.Errorf("register permission validator: %w", err)
	}
	return nil
}

func fieldMessages(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		key := fieldKey(fe.Namespace())
		if _, seen := fields[key]; seen {
			continue
		}
		fields[key] = fieldMessage(fe)
	}
	return fields
}

// fieldKey drops the struct name and embedded struct names from a validator
// namespace, leaving the json path, e.g. "entries[1].status".
func fieldKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	kept := parts[:0]
	for _, part := range parts {
		if part != "" && unicode.IsUpper(rune(part[0])) {
			continue
		}
		kept = append(kept, part)
	}
	if len(kept) == 0 {
		return namespace
	}
	return strings.Join(kept, ".")
}

func fieldMessage(fe validator.FieldError) string {
	label := strings.ReplaceAll(fe.Field(), "_", " ")
	if i := strings.IndexByte(label, '['); i > 0 {
		label = label[:i]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("the %s field is required", label)
	case "email":
		return fmt.Sprintf("the %s must be a valid email address", label)
	case "date":
		return fmt.Sprintf("the %s is not a valid date", label)
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("the %s may not be greater than %s characters", label, fe.Param())
		}
		return fmt.Sprintf("the %s may not be greater than %s", label, fe.Param())
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("the %s must be at least %s characters", label, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("the %s must have at least %s items", label, fe.Param())
		}
		return fmt.Sprintf("the %s must be at least %s", label, fe.Param())
	case "oneof", "permission":
		return fmt.Sprintf("the selected %s is invalid", label)
	default:
		return fmt.Sprintf("the %s is invalid", label)
	}
}
