package models

// CategoryKind separates the donation and expense category registries.
type CategoryKind string

const (
	CategoryKindDonation CategoryKind = "donation"
	CategoryKindExpense  CategoryKind = "expense"
)

// Category is a reference entry that line items point to.
type Category struct {
	Base
	Kind        CategoryKind `gorm:"size:20;not null;uniqueIndex:idx_categories_kind_name" json:"kind"`
	Name        string       `gorm:"size:100;not null;uniqueIndex:idx_categories_kind_name" json:"name"`
	Description string       `gorm:"size:500" json:"description"`
	IsActive    bool         `gorm:"not null;default:true" json:"is_active"`
}
