package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DEFAULT_FLOATING_PRECISION is the number of decimal places money is rounded to
const DEFAULT_FLOATING_PRECISION = 2

// RoundAmount rounds a monetary value to two decimal places, half away from zero
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(DEFAULT_FLOATING_PRECISION)
}

// NormalizeCurrency returns the lowercase 3 letter ISO code
func NormalizeCurrency(currency string) string {
	return strings.ToLower(strings.TrimSpace(currency))
}

// CURRENCY_CODES_SYMBOLS is a map of 3 digit ISO currency codes to their symbols
var CURRENCY_CODES_SYMBOLS = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
	"inr": "₹",
	"aud": "AU$",
	"cad": "CA$",
	"sgd": "S$",
	"jpy": "¥",
}

// GetCurrencySymbol returns the symbol for a given currency code
// if the code is not found, it returns the code itself
func GetCurrencySymbol(code string) string {
	if symbol, ok := CURRENCY_CODES_SYMBOLS[NormalizeCurrency(code)]; ok {
		return symbol
	}
	return code
}
