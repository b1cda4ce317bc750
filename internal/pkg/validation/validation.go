// Package validation wraps go-playground/validator and converts its failures
// into domain.ValidationError values.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/devconnector/connector-api/internal/core/domain"
)

// bcryptLen rejects strings bcrypt cannot hash. bcrypt only reads the first
// 72 bytes and x/crypto refuses anything longer.
const (
	bcryptLenTag = "bcryptlen"
	bcryptMaxLen = 72
)

// ownMessage lists rules whose message never comes from the field's msg tag.
var ownMessage = map[string]bool{bcryptLenTag: true}

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = instance.RegisterValidation(bcryptLenTag, func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= bcryptMaxLen
		})
	})
	return instance
}

// Struct validates v and returns a *domain.ValidationError listing every
// failing field, in declaration order. A field's `msg` tag overrides the
// generated message.
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(ve))}
	for _, fe := range ve {
		out.Fields = append(out.Fields, domain.FieldError{
			Param: fe.Field(),
			Msg:   message(t, fe),
		})
	}
	return out
}

func message(t reflect.Type, fe validator.FieldError) string {
	if ownMessage[fe.Tag()] {
		return fieldError(fe)
	}
	if sf, ok := t.FieldByName(fe.StructField()); ok {
		if msg := sf.Tag.Get("msg"); msg != "" {
			return msg
		}
	}
	return fieldError(fe)
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case bcryptLenTag:
		return fmt.Sprintf("%s must be at most %d bytes", field, bcryptMaxLen)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
