package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/models"
	"mosquefund/internal/pagination"
)

// categoryService handles the donation and expense category registries.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates an active category of the given kind.
func (s *categoryService) CreateCategory(ctx context.Context, kind models.CategoryKind, name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name", "is required")
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureUniqueName(db, kind, name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		Kind:        kind,
		Name:        name,
		Description: description,
		IsActive:    true,
	}
	if err := db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return category, nil
}

// ListCategories retrieves a paginated list of categories of one kind,
// ordered by name.
func (s *categoryService) ListCategories(ctx context.Context, kind models.CategoryKind, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Category{}).Where("kind = ?", kind)
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	var categories []models.Category
	if err := base.Scopes(pagination.Paginate(page)).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategory retrieves a category of the given kind by ID.
func (s *categoryService) GetCategory(ctx context.Context, kind models.CategoryKind, id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("id = ? AND kind = ?", id, kind).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return &category, nil
}

// UpdateCategory applies a partial update to a category.
func (s *categoryService) UpdateCategory(ctx context.Context, kind models.CategoryKind, id string, update CategoryUpdate) (*models.Category, error) {
	category, err := s.GetCategory(ctx, kind, id)
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
		if name != category.Name {
			if err := s.ensureUniqueName(db, kind, name, id); err != nil {
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
		if err := db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
		}
	}
	return s.GetCategory(ctx, kind, id)
}

// DeleteCategory deletes a category no item references. Categories in use
// are retired by deactivating them.
func (s *categoryService) DeleteCategory(ctx context.Context, kind models.CategoryKind, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ? AND kind = ?", id, kind).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrDatabase, err)
		}

		var itemModel interface{} = &models.DonationItem{}
		if kind == models.CategoryKindExpense {
			itemModel = &models.ExpenseItem{}
		}
		var count int64
		if err := tx.Model(itemModel).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, err)
		}
		if count > 0 {
			return apperrors.ErrCategoryInUse
		}

		if err := tx.Delete(&category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, err)
		}
		return nil
	})
}

func (s *categoryService) ensureUniqueName(db *gorm.DB, kind models.CategoryKind, name, excludeID string) error {
	q := db.Model(&models.Category{}).Where("kind = ? AND name = ?", kind, name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	if count > 0 {
		return apperrors.WithDetails(apperrors.ErrDuplicateCategoryName, map[string]string{"name": "a category with this name already exists"})
	}
	return nil
}
