package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a prefix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	uuidStr := id.String()
	idWithSuffix := fmt.Sprintf("%s_%s", module, uuidStr)
	return idWithSuffix
}

// Truncate2 cuts a monetary value to two decimal places toward zero.
// Every intermediate step of grant allocation goes through this so rounding
// stays reproducible across runs; nothing in the pipeline may round half-up.
func Truncate2(amount decimal.Decimal) decimal.Decimal {
	return amount.Truncate(2)
}

// MustDecimal parses a decimal literal and panics on failure.
// Intended for constants and test fixtures, never for user input.
func MustDecimal(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}
