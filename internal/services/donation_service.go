package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/models"
	"mosquefund/internal/pagination"
)

// donationService handles donation business logic on top of the shared
// line-item store.
type donationService struct {
	store *lineItemStore[models.Donation, models.DonationItem, *models.Donation, *models.DonationItem]
}

// NewDonationService creates a new DonationServicer.
func NewDonationService(db *gorm.DB) DonationServicer {
	return &donationService{
		store: &lineItemStore[models.Donation, models.DonationItem, *models.Donation, *models.DonationItem]{
			db: db,
			kind: entryKind{
				itemTable:    "donation_items",
				parentKey:    "donation_id",
				categoryKind: models.CategoryKindDonation,
				notFound:     apperrors.ErrDonationNotFound,
			},
		},
	}
}

// CreateDonation records a donation and its items atomically.
func (s *donationService) CreateDonation(ctx context.Context, actorID string, input DonationInput) (*models.Donation, error) {
	donorName := strings.TrimSpace(input.DonorName)
	if donorName == "" && !input.IsAnonymous {
		return nil, apperrors.Validation("donor_name", "is required unless the donation is anonymous")
	}

	donation := &models.Donation{
		Entry: models.Entry{
			PocketID:   input.PocketID,
			Date:       input.Date,
			RecordedBy: actorID,
			Notes:      input.Notes,
		},
		DonorName:     donorName,
		IsAnonymous:   input.IsAnonymous,
		PaymentMethod: input.PaymentMethod,
	}

	if err := s.store.create(ctx, donation, input.Items); err != nil {
		return nil, err
	}
	return donation, nil
}

// GetDonation retrieves a donation with its items.
func (s *donationService) GetDonation(ctx context.Context, id string) (*models.Donation, error) {
	return s.store.get(ctx, id)
}

// ListDonations returns a filtered page of donations, newest first.
func (s *donationService) ListDonations(ctx context.Context, filter DonationFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Donation], error) {
	extra := func(q *gorm.DB) *gorm.DB {
		if filter.PaymentMethod != nil {
			q = q.Where("payment_method = ?", *filter.PaymentMethod)
		}
		return q
	}
	return s.store.list(ctx, filter.EntryFilter, extra, page)
}

// UpdateDonation applies a partial update. Items, when present, replace the
// existing set entirely.
func (s *donationService) UpdateDonation(ctx context.Context, id string, update DonationUpdate) (*models.Donation, error) {
	apply := func(d *models.Donation, _ bool) (map[string]interface{}, error) {
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
		if update.PaymentMethod != nil {
			updates["payment_method"] = *update.PaymentMethod
		}

		anonymous := d.IsAnonymous
		if update.IsAnonymous != nil {
			anonymous = *update.IsAnonymous
			updates["is_anonymous"] = anonymous
		}
		donorName := d.DonorName
		if update.DonorName != nil {
			donorName = strings.TrimSpace(*update.DonorName)
			updates["donor_name"] = donorName
		}
		if donorName == "" && !anonymous {
			return nil, apperrors.Validation("donor_name", "is required unless the donation is anonymous")
		}
		return updates, nil
	}

	return s.store.update(ctx, id, apply, update.Items)
}

// DeleteDonation removes a donation and all of its items.
func (s *donationService) DeleteDonation(ctx context.Context, id string) error {
	return s.store.delete(ctx, id)
}
