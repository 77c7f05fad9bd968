package utils

import (
	"fmt"
	"math"
)

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// RoundCents rounds half away from zero to two decimals, matching DECIMAL(12,2).
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// LineTotal multiplies a unit price by a quantity and rounds to cents.
func LineTotal(unit float64, qty int) float64 {
	return RoundCents(unit * float64(qty))
}
