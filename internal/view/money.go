package view

import "fmt"

// FormatCurrency renders an amount in cents as dollars: 1099 -> "$10.99".
func FormatCurrency(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100.0)
}
