package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name (json, then form tag) instead of the Go name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				continue
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// RegisterValidation adds a custom tag. Call it from package init only.
func RegisterValidation(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: register %q: %v", tag, err))
	}
}

// Validate struct fields. Returns nil when the struct is valid, otherwise
// one human readable message per failing field.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fieldKey(fe)
		if _, seen := errors[field]; seen {
			continue
		}
		errors[field] = message(fe)
	}
	return errors
}

// fieldKey strips the struct name and any slice index: "SubmitLeadRequest.visaCategories[1]" -> "visaCategories".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.Index(ns, "["); i >= 0 {
		ns = ns[:i]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Select at least %s option(s)", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("Failed %q validation", fe.Tag())
	}
}
