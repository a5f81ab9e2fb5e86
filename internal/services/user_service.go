package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/models"
	"mosquefund/internal/pagination"
	"mosquefund/internal/policy"
)

// userService manages the profiles attached to identity provider subjects.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// GetProfile retrieves a profile by its identity subject.
func (s *userService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return &user, nil
}

// ListUsers retrieves a paginated list of profiles ordered by name.
func (s *userService) ListUsers(ctx context.Context, filter UserFilter, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.User{})
	if filter.Role != nil {
		base = base.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		base = base.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	var users []models.User
	if err := base.Scopes(pagination.Paginate(page)).Order("full_name ASC").Order("id ASC").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateUser applies an admin's partial update to a profile.
func (s *userService) UpdateUser(ctx context.Context, id string, update UserUpdate) (*models.User, error) {
	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.FullName != nil {
		name := strings.TrimSpace(*update.FullName)
		if name == "" {
			return nil, apperrors.Validation("full_name", "is required")
		}
		updates["full_name"] = name
	}
	if update.Phone != nil {
		updates["phone"] = strings.TrimSpace(*update.Phone)
	}
	if update.Role != nil {
		if !policy.ValidRole(*update.Role) {
			return nil, apperrors.Validation("role", "must be one of: admin, treasurer, viewer")
		}
		updates["role"] = *update.Role
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
		}
	}
	return s.GetProfile(ctx, id)
}

// DeactivateUser marks a profile inactive. The identity itself stays with
// the provider; an inactive profile is denied every operation.
func (s *userService) DeactivateUser(ctx context.Context, actorID, id string) (*models.User, error) {
	if actorID == id {
		return nil, apperrors.ErrCannotDeactivateSelf
	}

	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Update("is_active", false).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	user.IsActive = false
	return user, nil
}
