package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks input that failed structural validation.
var ErrValidation = errors.New("validation failed")

var (
	v    *validator.Validate
	once sync.Once

	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,127}$`)
)

// AllowedTypes are the column types CREATE_TABLE accepts.
var AllowedTypes = map[string]struct{}{
	"STRING": {}, "BYTES": {}, "INT64": {}, "FLOAT64": {}, "NUMERIC": {}, "BIGNUMERIC": {},
	"BOOL": {}, "TIMESTAMP": {}, "DATE": {}, "TIME": {}, "DATETIME": {}, "JSON": {},
}

// IsIdentifier reports whether name is a safe BigQuery identifier: a letter or
// underscore followed by up to 127 letters, digits or underscores.
func IsIdentifier(name string) bool {
	return identRe.MatchString(name)
}

// IsAllowedType reports whether t (already upper-cased) is a supported column type.
func IsAllowedType(t string) bool {
	_, ok := AllowedTypes[t]
	return ok
}

// Validator returns a singleton validator with custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		// Custom: BigQuery identifier (dataset, table, column, field name)
		_ = v.RegisterValidation("bqident", func(fl validator.FieldLevel) bool {
			return IsIdentifier(fl.Field().String())
		})
		// Custom: supported BigQuery column type
		_ = v.RegisterValidation("bqtype", func(fl validator.FieldLevel) bool {
			return IsAllowedType(fl.Field().String())
		})
	})
	return v
}

// Error carries a user-facing validation message for a single field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return ErrValidation }

// identLabels names identifier fields the way error messages refer to them.
var identLabels = map[string]string{
	"Dataset": "dataset",
	"Table":   "table",
	"Columns": "column",
	"Name":    "field name",
}

// ValidateStruct validates s and returns an *Error describing the first
// failing field, or nil when valid.
func ValidateStruct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return &Error{Message: "invalid inputs"}
	}

	fe := ve[0]
	name := fe.StructField()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	field := jsonName(name)
	switch fe.Tag() {
	case "required":
		return &Error{Field: field, Message: fmt.Sprintf("%s is required", field)}
	case "bqident":
		label := identLabels[name]
		if label == "" {
			label = field
		}
		return &Error{Field: field, Message: fmt.Sprintf("Invalid %s: %v", label, fe.Value())}
	case "bqtype":
		return &Error{Field: field, Message: fmt.Sprintf("Unsupported BigQuery type: %v", fe.Value())}
	case "oneof":
		opts := strings.Fields(fe.Param())
		return &Error{Field: field, Message: fmt.Sprintf("%s must be one of %s", field, strings.Join(opts, ", "))}
	case "min", "max", "gte", "lte":
		return &Error{Field: field, Message: fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param())}
	}
	return &Error{Field: field, Message: fmt.Sprintf("invalid %s", field)}
}

// jsonName converts a Go field name such as SetValues into set_values.
func jsonName(goName string) string {
	var b strings.Builder
	for i, r := range goName {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
