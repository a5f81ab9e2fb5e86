package models

import "github.com/shopspring/decimal"

// Pocket is a named fund that donations and expenses are attributed to.
// Its balance is never stored; see PocketBalance.
type Pocket struct {
	Base
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`
}

// PocketBalance is a pocket together with its balance aggregated from
// the transactions attributed to it at read time.
type PocketBalance struct {
	Pocket
	Balance decimal.Decimal `json:"balance"`
}
