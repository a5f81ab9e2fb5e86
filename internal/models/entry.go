package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry holds the header columns shared by donations and expenses.
// TotalAmount is a projection of the owned items and is never persisted.
type Entry struct {
	Base
	PocketID    string          `gorm:"type:uuid;not null;index" json:"pocket_id"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
	RecordedBy  string          `gorm:"type:uuid;not null" json:"recorded_by"`
	Notes       string          `gorm:"size:1000" json:"notes"`
	TotalAmount decimal.Decimal `gorm:"-" json:"total_amount"`
}

// LineItem holds the columns shared by donation and expense items.
type LineItem struct {
	Base
	CategoryID   string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description  string          `gorm:"size:255" json:"description"`
	Position     int             `gorm:"not null;default:0" json:"position"`
	CategoryName string          `gorm:"-" json:"category_name"`
}

// Total sums item amounts exactly.
func Total(items []*LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}
