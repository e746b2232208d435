// Package currency converts XRP amounts into fiat for display. It is pure
// arithmetic and formatting; rates come from the rate cache or, when the
// pricing feed is down, from the fixed fallback table.
package currency

import (
	"math"

	"github.com/shopspring/decimal"
)

// Info describes one supported display currency.
type Info struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Supported is the fixed list of display currencies. The order is
// significant for selector UIs and must be preserved.
var Supported = []Info{
	{Code: "usd", Symbol: "$", Name: "US Dollar"},
	{Code: "eur", Symbol: "€", Name: "Euro"},
	{Code: "gbp", Symbol: "£", Name: "British Pound"},
	{Code: "jpy", Symbol: "¥", Name: "Japanese Yen"},
	{Code: "aud", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "cad", Symbol: "C$", Name: "Canadian Dollar"},
	{Code: "chf", Symbol: "CHF", Name: "Swiss Franc"},
	{Code: "cny", Symbol: "CN¥", Name: "Chinese Yuan"},
	{Code: "inr", Symbol: "₹", Name: "Indian Rupee"},
	{Code: "krw", Symbol: "₩", Name: "South Korean Won"},
}

// Placeholder is rendered when a fiat value cannot be computed.
const Placeholder = "—"

// Codes returns the supported currency codes in display order.
func Codes() []string {
	codes := make([]string, len(Supported))
	for i, c := range Supported {
		codes[i] = c.Code
	}
	return codes
}

// SymbolFor returns the display symbol for a code, false when unsupported.
func SymbolFor(code string) (string, bool) {
	for _, c := range Supported {
		if c.Code == code {
			return c.Symbol, true
		}
	}
	return "", false
}

// Convert multiplies an XRP amount by a fiat rate. It returns nil, not
// zero, when the result cannot be computed: a zero or non-finite amount,
// or a non-finite rate. This keeps "cannot compute" distinguishable from
// "computed to zero" at display time.
func Convert(amount, rate float64) *float64 {
	if amount == 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil
	}
	v := amount * rate
	return &v
}

// Format renders a fiat value as a symbol-prefixed two-decimal string.
// A nil or non-finite value renders the placeholder glyph; an unsupported
// currency code falls back to a bare two-decimal number.
func Format(value *float64, code string) string {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return Placeholder
	}
	// decimal rounding is half-up on the exact value; fmt's %.2f rounds
	// the binary float and turns 12.345 into "12.34".
	text := decimal.NewFromFloat(*value).Round(2).StringFixed(2)
	symbol, ok := SymbolFor(code)
	if !ok {
		return text
	}
	return symbol + text
}

// FallbackRates is the fixed approximate rate table substituted in full
// when the pricing feed is unavailable. Never merged with live data.
func FallbackRates() map[string]float64 {
	return map[string]float64{
		"usd": 0.48,
		"eur": 0.45,
		"gbp": 0.38,
		"jpy": 75.5,
		"aud": 0.74,
		"cad": 0.66,
		"chf": 0.44,
		"cny": 3.48,
		"inr": 40.25,
		"krw": 648.32,
	}
}
