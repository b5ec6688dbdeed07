// Package models holds the persisted records of the restaurant API.
// Money fields are shopspring decimals and travel as JSON strings ("26.25").
package models

import "github.com/shopspring/decimal"

// Money rounds an amount to cents.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
