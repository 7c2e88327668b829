package entity

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their document attribute names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "entityid", func(fl validator.FieldLevel) bool {
		return ValidID(fl.Field().String())
	})
	mustRegister(v, "bayfunction", oneOf(BayFunctions()))
	mustRegister(v, "winding", oneOf(WindingConfigs()))
	mustRegister(v, "construction", oneOf(LineConstructions()))
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("entity: registering %q validation: %v", tag, err))
	}
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}

// Check validates the attribute constraints declared on e's struct tags and
// returns one human-readable problem per violated constraint.
func Check(e Entity) []string {
	err := structValidator.Struct(e)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return problems
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	if field == "Identifier" {
		field = "id"
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must not be less than %s, got %v", field, fe.Param(), fe.Value())
	case "entityid":
		return fmt.Sprintf("%s %q is not a valid identifier", field, fe.Value())
	default:
		return fmt.Sprintf("%s value %v is not an accepted %s", field, fe.Value(), fe.Tag())
	}
}
