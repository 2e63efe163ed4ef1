package view

import (
	"fmt"
	"strconv"
)

// Formatter renders rupee amounts with an approximate secondary currency.
type Formatter struct {
	Symbol          string  `json:"symbol" yaml:"symbol"`
	SecondarySymbol string  `json:"secondary_symbol" yaml:"secondary_symbol"`
	Rate            float64 `json:"rate" yaml:"rate"` // secondary units per rupee
}

// DefaultFormatter shows rupees with a dollar estimate.
func DefaultFormatter() Formatter {
	return Formatter{Symbol: "Rs", SecondarySymbol: "$", Rate: 0.012}
}

// Format returns e.g. "Rs62600 (≈ $751.20)".
// The estimate is omitted when no secondary currency is configured.
func (f Formatter) Format(amount int64) string {
	primary := f.Symbol + strconv.FormatInt(amount, 10)
	if f.SecondarySymbol == "" || f.Rate <= 0 {
		return primary
	}
	return fmt.Sprintf("%s (≈ %s%.2f)", primary, f.SecondarySymbol, float64(amount)*f.Rate)
}
