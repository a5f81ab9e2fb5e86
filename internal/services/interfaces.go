package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"mosquefund/internal/models"
	"mosquefund/internal/pagination"
)

// ItemInput is one line item as supplied by a caller.
type ItemInput struct {
	CategoryID  string
	Amount      decimal.Decimal
	Description string
}

// EntryFilter holds the list filters shared by donations and expenses.
type EntryFilter struct {
	PocketID   *string
	CategoryID *string // matches when any item uses the category
	FromDate   *time.Time
	ToDate     *time.Time
}

// Period bounds a ledger aggregate by transaction date. Nil ends are open.
type Period struct {
	From *time.Time
	To   *time.Time
}

// PocketUpdate holds the optional fields of a pocket update.
type PocketUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// PocketServicer defines the contract for pocket management.
type PocketServicer interface {
	CreatePocket(ctx context.Context, name, description string) (*models.Pocket, error)
	GetPocket(ctx context.Context, id string) (*models.Pocket, error)
	UpdatePocket(ctx context.Context, id string, update PocketUpdate) (*models.Pocket, error)
	DeletePocket(ctx context.Context, id string) error
}

// PocketSummary is the read-time aggregate of one pocket's transactions.
type PocketSummary struct {
	Pocket          models.Pocket   `json:"pocket"`
	TotalDonations  decimal.Decimal `json:"total_donations"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	PendingExpenses decimal.Decimal `json:"pending_expenses"`
	Balance         decimal.Decimal `json:"balance"`
	DonationCount   int64           `json:"donation_count"`
	ExpenseCount    int64           `json:"expense_count"`
}

// LedgerServicer computes pocket balances from transaction history.
type LedgerServicer interface {
	GetPocketSummary(ctx context.Context, pocketID string, period Period) (*PocketSummary, error)
	ListPocketBalances(ctx context.Context, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.PocketBalance], error)
}

// CategoryUpdate holds the optional fields of a category update.
type CategoryUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// CategoryServicer defines the contract for the donation and expense category registries.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, kind models.CategoryKind, name, description string) (*models.Category, error)
	ListCategories(ctx context.Context, kind models.CategoryKind, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Category], error)
	GetCategory(ctx context.Context, kind models.CategoryKind, id string) (*models.Category, error)
	UpdateCategory(ctx context.Context, kind models.CategoryKind, id string, update CategoryUpdate) (*models.Category, error)
	DeleteCategory(ctx context.Context, kind models.CategoryKind, id string) error
}

// DonationInput is the payload of a new donation.
type DonationInput struct {
	PocketID      string
	DonorName     string
	IsAnonymous   bool
	PaymentMethod models.PaymentMethod
	Date          time.Time
	Notes         string
	Items         []ItemInput
}

// DonationUpdate holds the optional fields of a donation update. A nil
// Items leaves the existing items untouched; a non-nil Items replaces them.
type DonationUpdate struct {
	PocketID      *string
	DonorName     *string
	IsAnonymous   *bool
	PaymentMethod *models.PaymentMethod
	Date          *time.Time
	Notes         *string
	Items         *[]ItemInput
}

// DonationFilter narrows a donation listing.
type DonationFilter struct {
	EntryFilter
	PaymentMethod *models.PaymentMethod
}

// DonationServicer defines the contract for donations.
type DonationServicer interface {
	CreateDonation(ctx context.Context, actorID string, input DonationInput) (*models.Donation, error)
	GetDonation(ctx context.Context, id string) (*models.Donation, error)
	ListDonations(ctx context.Context, filter DonationFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Donation], error)
	UpdateDonation(ctx context.Context, id string, update DonationUpdate) (*models.Donation, error)
	DeleteDonation(ctx context.Context, id string) error
}

// ExpenseInput is the payload of a new expense. Status is always pending.
type ExpenseInput struct {
	PocketID    string
	Description string
	Date        time.Time
	Notes       string
	Items       []ItemInput
}

// ExpenseUpdate holds the optional fields of an expense update. Status is
// deliberately absent: it only changes through ApproveExpense.
type ExpenseUpdate struct {
	PocketID    *string
	Description *string
	Date        *time.Time
	Notes       *string
	Items       *[]ItemInput
}

// ExpenseFilter narrows an expense listing.
type ExpenseFilter struct {
	EntryFilter
	Status *models.ExpenseStatus
}

// ExpenseServicer defines the contract for expenses.
type ExpenseServicer interface {
	CreateExpense(ctx context.Context, actorID string, input ExpenseInput) (*models.Expense, error)
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	ListExpenses(ctx context.Context, filter ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	UpdateExpense(ctx context.Context, id string, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	ApproveExpense(ctx context.Context, id string, status models.ExpenseStatus, actorID string) (*models.Expense, error)
}

// UserFilter narrows a user listing.
type UserFilter struct {
	Role     *models.UserRole
	IsActive *bool
	Search   string
}

// UserUpdate holds the optional fields an admin may change on a profile.
type UserUpdate struct {
	FullName *string
	Phone    *string
	Role     *models.UserRole
	IsActive *bool
}

// UserServicer defines the contract for user profiles.
type UserServicer interface {
	GetProfile(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, filter UserFilter, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	UpdateUser(ctx context.Context, id string, update UserUpdate) (*models.User, error)
	DeactivateUser(ctx context.Context, actorID, id string) (*models.User, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(actorID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
