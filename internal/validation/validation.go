// Package validation turns declarative field rules into per-field error messages.
package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Errors maps a field name to the first problem found with it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has an error.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Err returns e as an error, or nil when it is empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Field builds a single-field error.
func Field(field, msg string) Errors {
	return Errors{field: msg}
}

const (
	MsgRequired     = "This field is required."
	MsgInvalidEmail = "Enter a valid email address."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// Struct checks the `validate` tags of s.
func Struct(s any) Errors {
	errs := Errors{}
	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("__all__", err.Error())
		return errs
	}

	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "email":
		return MsgInvalidEmail
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).",
			fe.Param(), utf8.RuneCountInString(fieldString(fe.Value())))
	case "min":
		if fieldString(fe.Value()) == "" {
			return MsgRequired
		}
		return fmt.Sprintf("Ensure this value has at least %s characters (it has %d).",
			fe.Param(), utf8.RuneCountInString(fieldString(fe.Value())))
	case "oneof":
		return fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", fieldString(fe.Value()))
	}
	return fmt.Sprintf("Failed the %q check.", fe.Tag())
}

func fieldString(value any) string {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ""
	}
	return fmt.Sprint(rv.Interface())
}

// MinValue returns a message when d is below limit.
func MinValue(d, limit decimal.Decimal) string {
	if d.LessThan(limit) {
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", limit.String())
	}
	return ""
}

// Decimal returns a message when d does not fit a column with maxDigits
// significant digits of which decimalPlaces follow the point.
func Decimal(d decimal.Decimal, maxDigits, decimalPlaces int) string {
	coefficient := d.Coefficient()
	length := len(coefficient.Abs(coefficient).String())
	isZero := coefficient.Sign() == 0
	exponent := int(d.Exponent())

	var digits, decimals int
	switch {
	case exponent >= 0:
		if !isZero {
			digits = length + exponent
		}
	case -exponent > length:
		digits, decimals = -exponent, -exponent
	default:
		digits, decimals = length, -exponent
	}
	whole := digits - decimals

	switch {
	case digits > maxDigits:
		return fmt.Sprintf("Ensure that there are no more than %d digits in total.", maxDigits)
	case decimals > decimalPlaces:
		return fmt.Sprintf("Ensure that there are no more than %d decimal places.", decimalPlaces)
	case whole > maxDigits-decimalPlaces:
		return fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", maxDigits-decimalPlaces)
	}
	return ""
}
