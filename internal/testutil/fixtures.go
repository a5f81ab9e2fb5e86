package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"mosquefund/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates an active profile with the given role and a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	n := nextID()
	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", n),
		FullName: fmt.Sprintf("Test User %d", n),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPocket creates an active pocket with a unique name.
func CreateTestPocket(t *testing.T, db *gorm.DB) *models.Pocket {
	t.Helper()

	pocket := &models.Pocket{
		Name:     fmt.Sprintf("Test Pocket %d", nextID()),
		IsActive: true,
	}
	if err := db.Create(pocket).Error; err != nil {
		t.Fatalf("failed to create test pocket: %v", err)
	}
	return pocket
}

// CreateTestCategory creates an active category of the given kind.
func CreateTestCategory(t *testing.T, db *gorm.DB, kind models.CategoryKind) *models.Category {
	t.Helper()

	category := &models.Category{
		Kind:     kind,
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// Deactivate flips is_active to false on a pocket, category or user.
// A create cannot do it because the column defaults to true.
func Deactivate(t *testing.T, db *gorm.DB, model interface{}) {
	t.Helper()

	if err := db.Model(model).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate %T: %v", model, err)
	}
}

// CreateTestDonation writes a donation directly, one item per amount, all
// in categoryID.
func CreateTestDonation(t *testing.T, db *gorm.DB, pocketID, categoryID, recordedBy string, date time.Time, amounts ...string) *models.Donation {
	t.Helper()

	donation := &models.Donation{
		Entry: models.Entry{
			PocketID:   pocketID,
			Date:       date,
			RecordedBy: recordedBy,
		},
		DonorName:     "Test Donor",
		PaymentMethod: models.PaymentMethodCash,
	}
	for i, a := range amounts {
		donation.Items = append(donation.Items, models.DonationItem{
			LineItem: models.LineItem{CategoryID: categoryID, Amount: decimal.RequireFromString(a), Position: i},
		})
	}
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("failed to create test donation: %v", err)
	}
	return donation
}

// CreateTestExpense writes an expense with the given status directly, one
// item per amount, all in categoryID.
func CreateTestExpense(t *testing.T, db *gorm.DB, pocketID, categoryID, recordedBy string, status models.ExpenseStatus, date time.Time, amounts ...string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Entry: models.Entry{
			PocketID:   pocketID,
			Date:       date,
			RecordedBy: recordedBy,
		},
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Status:      status,
	}
	for i, a := range amounts {
		expense.Items = append(expense.Items, models.ExpenseItem{
			LineItem: models.LineItem{CategoryID: categoryID, Amount: decimal.RequireFromString(a), Position: i},
		})
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
