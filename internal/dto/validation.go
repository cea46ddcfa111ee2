package dto

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators installs the ledger-specific binding tags:
//
//	ledger_field  string without ';' or line breaks (the text store cannot hold them)
//	ledger_date   YYYY-MM-DD calendar date
//	decimal_gte0  non-negative decimal.Decimal
func RegisterValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("ledger_field", validateLedgerField); err != nil {
		return err
	}
	if err := v.RegisterValidation("ledger_date", validateLedgerDate); err != nil {
		return err
	}
	return v.RegisterValidation("decimal_gte0", validateDecimalGTE0)
}

// IsStorableText reports whether s can be written to a ';'-separated record.
func IsStorableText(s string) bool {
	return !strings.ContainsAny(s, ";\r\n")
}

func validateLedgerField(fl validator.FieldLevel) bool {
	return IsStorableText(fl.Field().String())
}

func validateLedgerDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

func validateDecimalGTE0(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative()
}
