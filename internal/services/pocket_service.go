package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/models"
)

// pocketService handles pocket (fund) management.
type pocketService struct {
	db *gorm.DB
}

// NewPocketService creates a new PocketServicer.
func NewPocketService(db *gorm.DB) PocketServicer {
	return &pocketService{db: db}
}

// CreatePocket creates an active pocket. Names are unique ignoring case.
func (s *pocketService) CreatePocket(ctx context.Context, name, description string) (*models.Pocket, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name", "is required")
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureUniqueName(db, name, ""); err != nil {
		return nil, err
	}

	pocket := &models.Pocket{
		Name:        name,
		Description: description,
		IsActive:    true,
	}
	if err := db.Create(pocket).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return pocket, nil
}

// GetPocket retrieves a pocket by ID.
func (s *pocketService) GetPocket(ctx context.Context, id string) (*models.Pocket, error) {
	var pocket models.Pocket
	if err := s.db.WithContext(ctx).First(&pocket, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPocketNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return &pocket, nil
}

// UpdatePocket applies a partial update to a pocket.
func (s *pocketService) UpdatePocket(ctx context.Context, id string, update PocketUpdate) (*models.Pocket, error) {
	pocket, err := s.GetPocket(ctx, id)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	updates := make(map[string]interface{})
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.Validation("name", "is required")
		}
		if !strings.EqualFold(name, pocket.Name) {
			if err := s.ensureUniqueName(db, name, id); err != nil {
				return nil, err
			}
		}
		updates["name"] = name
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}

	if len(updates) > 0 {
		if err := db.Model(pocket).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
		}
	}
	return s.GetPocket(ctx, id)
}

// DeletePocket removes a pocket that no transaction references. Pockets
// with history are retired by deactivating them instead.
func (s *pocketService) DeletePocket(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pocket models.Pocket
		if err := tx.First(&pocket, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrPocketNotFound
			}
			return apperrors.Wrap(apperrors.ErrDatabase, err)
		}

		for _, model := range []interface{}{&models.Donation{}, &models.Expense{}} {
			var count int64
			if err := tx.Model(model).Where("pocket_id = ?", id).Count(&count).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrDatabase, err)
			}
			if count > 0 {
				return apperrors.ErrPocketInUse
			}
		}

		if err := tx.Delete(&pocket).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, err)
		}
		return nil
	})
}

func (s *pocketService) ensureUniqueName(db *gorm.DB, name, excludeID string) error {
	q := db.Model(&models.Pocket{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	if count > 0 {
		return apperrors.WithDetails(apperrors.ErrDuplicatePocketName, map[string]string{"name": "a pocket with this name already exists"})
	}
	return nil
}
