package models

import "time"

// ExpenseStatus is the approval state of an expense. Pending is the only
// non-terminal state.
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "pending"
	ExpenseStatusApproved ExpenseStatus = "approved"
	ExpenseStatusRejected ExpenseStatus = "rejected"
)

// Resolved reports whether the status is terminal.
func (s ExpenseStatus) Resolved() bool {
	return s == ExpenseStatusApproved || s == ExpenseStatusRejected
}

// Expense is an outgoing transaction split across expense categories.
type Expense struct {
	Entry
	Description string        `gorm:"size:500;not null" json:"description"`
	Status      ExpenseStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	ApprovedBy  *string       `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt  *time.Time    `json:"approved_at,omitempty"`
	Items       []ExpenseItem `gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE" json:"items"`
}

// ExpenseItem allocates part of an expense to one category.
type ExpenseItem struct {
	LineItem
	ExpenseID string `gorm:"type:uuid;not null;index" json:"expense_id"`
}

func (e *Expense) Header() *Entry { return &e.Entry }
func (e *Expense) ItemList() *[]ExpenseItem { return &e.Items }
func (i *ExpenseItem) Line() *LineItem { return &i.LineItem }
func (i *ExpenseItem) SetParentID(id string) { i.ExpenseID = id }
