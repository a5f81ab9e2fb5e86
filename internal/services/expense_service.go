package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/models"
	"mosquefund/internal/pagination"
)

// expenseService handles expense business logic, including the one-way
// approval workflow.
type expenseService struct {
	db    *gorm.DB
	store *lineItemStore[models.Expense, models.ExpenseItem, *models.Expense, *models.ExpenseItem]
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{
		db: db,
		store: &lineItemStore[models.Expense, models.ExpenseItem, *models.Expense, *models.ExpenseItem]{
			db: db,
			kind: entryKind{
				itemTable:    "expense_items",
				parentKey:    "expense_id",
				categoryKind: models.CategoryKindExpense,
				notFound:     apperrors.ErrExpenseNotFound,
			},
		},
	}
}

// CreateExpense records a pending expense and its items atomically.
func (s *expenseService) CreateExpense(ctx context.Context, actorID string, input ExpenseInput) (*models.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.Validation("description", "is required")
	}

	expense := &models.Expense{
		Entry: models.Entry{
			PocketID:   input.PocketID,
			Date:       input.Date,
			RecordedBy: actorID,
			Notes:      input.Notes,
		},
		Description: description,
		Status:      models.ExpenseStatusPending,
	}

	if err := s.store.create(ctx, expense, input.Items); err != nil {
		return nil, err
	}
	return expense, nil
}

// GetExpense retrieves an expense with its items.
func (s *expenseService) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	return s.store.get(ctx, id)
}

// ListExpenses returns a filtered page of expenses, newest first.
func (s *expenseService) ListExpenses(ctx context.Context, filter ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	extra := func(q *gorm.DB) *gorm.DB {
		if filter.Status != nil {
			q = q.Where("status = ?", *filter.Status)
		}
		return q
	}
	return s.store.list(ctx, filter.EntryFilter, extra, page)
}

// UpdateExpense applies a partial update. Once an expense is approved or
// rejected its amounts, pocket and date are frozen; only the description
// and notes may still change.
func (s *expenseService) UpdateExpense(ctx context.Context, id string, update ExpenseUpdate) (*models.Expense, error) {
	apply := func(e *models.Expense, replacingItems bool) (map[string]interface{}, error) {
		if e.Status.Resolved() && (replacingItems || update.PocketID != nil || update.Date != nil) {
			return nil, apperrors.ErrExpenseNotEditable
		}

		updates := make(map[string]interface{})
		if update.PocketID != nil {
			updates["pocket_id"] = *update.PocketID
		}
		if update.Date != nil {
			updates["date"] = *update.Date
		}
		if update.Notes != nil {
			updates["notes"] = *update.Notes
		}
		if update.Description != nil {
			description := strings.TrimSpace(*update.Description)
			if description == "" {
				return nil, apperrors.Validation("description", "is required")
			}
			updates["description"] = description
		}
		return updates, nil
	}

	return s.store.update(ctx, id, apply, update.Items)
}

// DeleteExpense removes an expense and all of its items.
func (s *expenseService) DeleteExpense(ctx context.Context, id string) error {
	return s.store.delete(ctx, id)
}

// ApproveExpense moves a pending expense to approved or rejected and records
// who resolved it. The transition happens at most once: the update is
// conditional on the row still being pending.
func (s *expenseService) ApproveExpense(ctx context.Context, id string, status models.ExpenseStatus, actorID string) (*models.Expense, error) {
	if !status.Resolved() {
		return nil, apperrors.Validation("status", "must be one of: approved, rejected")
	}

	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Expense{}).
			Where("id = ? AND status = ?", id, models.ExpenseStatusPending).
			Updates(map[string]interface{}{
				"status":      status,
				"approved_by": actorID,
				"approved_at": now,
			})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, result.Error)
		}
		if result.RowsAffected == 1 {
			return nil
		}

		var existing models.Expense
		if err := tx.Select("id", "status").First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrExpenseNotFound
			}
			return apperrors.Wrap(apperrors.ErrDatabase, err)
		}
		return apperrors.ErrExpenseAlreadyResolved
	})
	if err != nil {
		return nil, err
	}

	return s.store.get(ctx, id)
}
