package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/models"
	"mosquefund/internal/pagination"
)

// ledgerService derives pocket balances from transaction history. It runs
// on the elevated connection because the aggregates span rows that the
// restricted tier's row policies may hide.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerServicer. db should be the elevated
// connection.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db}
}

type aggregateRow struct {
	PocketID string
	Total    decimal.Decimal
	Pending  decimal.Decimal
	Count    int64
}

// GetPocketSummary aggregates one pocket's donations and expenses. Rejected
// expenses never count; pending ones count toward total_expenses and are
// also reported on their own.
func (s *ledgerService) GetPocketSummary(ctx context.Context, pocketID string, period Period) (*PocketSummary, error) {
	db := s.db.WithContext(ctx)

	var pocket models.Pocket
	if err := db.First(&pocket, "id = ?", pocketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPocketNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	var donations aggregateRow
	q := db.Table("donations AS d").
		Select("COALESCE(SUM(i.amount), 0) AS total, COUNT(DISTINCT d.id) AS count").
		Joins("JOIN donation_items i ON i.donation_id = d.id").
		Where("d.pocket_id = ?", pocketID)
	if err := withPeriod(q, "d", period).Scan(&donations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	var expenses aggregateRow
	q = db.Table("expenses AS e").
		Select("COALESCE(SUM(i.amount), 0) AS total, "+
			"COALESCE(SUM(CASE WHEN e.status = ? THEN i.amount ELSE 0 END), 0) AS pending, "+
			"COUNT(DISTINCT e.id) AS count", models.ExpenseStatusPending).
		Joins("JOIN expense_items i ON i.expense_id = e.id").
		Where("e.pocket_id = ? AND e.status <> ?", pocketID, models.ExpenseStatusRejected)
	if err := withPeriod(q, "e", period).Scan(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	return &PocketSummary{
		Pocket:          pocket,
		TotalDonations:  donations.Total,
		TotalExpenses:   expenses.Total,
		PendingExpenses: expenses.Pending,
		Balance:         donations.Total.Sub(expenses.Total),
		DonationCount:   donations.Count,
		ExpenseCount:    expenses.Count,
	}, nil
}

// ListPocketBalances returns a page of pockets ordered by name, each with its
// current balance.
func (s *ledgerService) ListPocketBalances(ctx context.Context, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.PocketBalance], error) {
	page.Defaults()
	db := s.db.WithContext(ctx)

	base := db.Model(&models.Pocket{})
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	var pockets []models.Pocket
	if err := base.Scopes(pagination.Paginate(page)).Order("name ASC").Find(&pockets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	balances := make([]models.PocketBalance, len(pockets))
	if len(pockets) == 0 {
		result := pagination.NewPageResponse(balances, page.Page, page.PageSize, total)
		return &result, nil
	}

	ids := make([]string, len(pockets))
	for i, p := range pockets {
		ids[i] = p.ID
	}

	var donationRows []aggregateRow
	if err := db.Table("donations AS d").
		Select("d.pocket_id AS pocket_id, COALESCE(SUM(i.amount), 0) AS total").
		Joins("JOIN donation_items i ON i.donation_id = d.id").
		Where("d.pocket_id IN ?", ids).
		Group("d.pocket_id").
		Scan(&donationRows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	var expenseRows []aggregateRow
	if err := db.Table("expenses AS e").
		Select("e.pocket_id AS pocket_id, COALESCE(SUM(i.amount), 0) AS total").
		Joins("JOIN expense_items i ON i.expense_id = e.id").
		Where("e.pocket_id IN ? AND e.status <> ?", ids, models.ExpenseStatusRejected).
		Group("e.pocket_id").
		Scan(&expenseRows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	net := make(map[string]decimal.Decimal, len(ids))
	for _, r := range donationRows {
		net[r.PocketID] = net[r.PocketID].Add(r.Total)
	}
	for _, r := range expenseRows {
		net[r.PocketID] = net[r.PocketID].Sub(r.Total)
	}

	for i, p := range pockets {
		balances[i] = models.PocketBalance{Pocket: p, Balance: net[p.ID]}
	}

	result := pagination.NewPageResponse(balances, page.Page, page.PageSize, total)
	return &result, nil
}

func withPeriod(q *gorm.DB, alias string, period Period) *gorm.DB {
	if period.From != nil {
		q = q.Where(alias+".date >= ?", *period.From)
	}
	if period.To != nil {
		q = q.Where(alias+".date <= ?", *period.To)
	}
	return q
}
