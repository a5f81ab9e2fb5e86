package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/models"
	"mosquefund/internal/pagination"
)

// entryKind describes one line-item transaction variant (donation or
// expense) to the shared engine.
type entryKind struct {
	itemTable    string
	parentKey    string
	categoryKind models.CategoryKind
	notFound     *apperrors.AppError
}

// entryPtr is satisfied by *models.Donation and *models.Expense.
type entryPtr[R any, I any] interface {
	*R
	Header() *models.Entry
	ItemList() *[]I
}

// itemPtr is satisfied by *models.DonationItem and *models.ExpenseItem.
type itemPtr[I any] interface {
	*I
	Line() *models.LineItem
	SetParentID(id string)
}

// headerUpdater validates a partial update against the loaded record and
// returns the column updates to apply.
type headerUpdater[PR any] func(rec PR, replacingItems bool) (map[string]interface{}, error)

// lineItemStore implements create/get/list/update/delete for a parent record
// that owns a non-empty, ordered set of categorized items. The parent's total
// is never stored: every read recomputes it from the items.
type lineItemStore[R any, I any, PR entryPtr[R, I], PI itemPtr[I]] struct {
	db   *gorm.DB
	kind entryKind
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// create persists rec and its items as one unit.
func (s *lineItemStore[R, I, PR, PI]) create(ctx context.Context, rec PR, inputs []ItemInput) error {
	if err := validateItems(inputs); err != nil {
		return err
	}

	var names map[string]string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActivePocket(tx, rec.Header().PocketID); err != nil {
			return err
		}

		var err error
		names, err = requireCategories(tx, s.kind.categoryKind, inputs)
		if err != nil {
			return err
		}

		*rec.ItemList() = buildItems[I, PI](inputs, "")
		if err := tx.Create(rec).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.project(rec, names)
	return nil
}

// get loads one record with its items and recomputes its total.
func (s *lineItemStore[R, I, PR, PI]) get(ctx context.Context, id string) (PR, error) {
	rec := PR(new(R))
	if err := s.db.WithContext(ctx).Preload("Items", orderItems).First(rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.kind.notFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	if err := s.enrich(ctx, []PR{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

// list returns a page of records ordered newest first. extra applies the
// variant-specific filters.
func (s *lineItemStore[R, I, PR, PI]) list(
	ctx context.Context,
	filter EntryFilter,
	extra func(*gorm.DB) *gorm.DB,
	page pagination.PageRequest,
) (*pagination.PageResponse[R], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(PR(new(R)))
	base = s.applyFilter(base, filter)
	if extra != nil {
		base = extra(base)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	var records []R
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Order("id DESC").
		Preload("Items", orderItems).
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	ptrs := make([]PR, len(records))
	for i := range records {
		ptrs[i] = PR(&records[i])
	}
	if err := s.enrich(ctx, ptrs); err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, total)
	return &result, nil
}

func (s *lineItemStore[R, I, PR, PI]) applyFilter(q *gorm.DB, f EntryFilter) *gorm.DB {
	if f.PocketID != nil {
		q = q.Where("pocket_id = ?", *f.PocketID)
	}
	if f.CategoryID != nil {
		q = q.Where(fmt.Sprintf("id IN (SELECT %s FROM %s WHERE category_id = ?)", s.kind.parentKey, s.kind.itemTable), *f.CategoryID)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	return q
}

// update applies a partial header update and, when items is non-nil,
// replaces the whole item set. Both happen in one database transaction.
func (s *lineItemStore[R, I, PR, PI]) update(
	ctx context.Context,
	id string,
	apply headerUpdater[PR],
	items *[]ItemInput,
) (PR, error) {
	if items != nil {
		if err := validateItems(*items); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := PR(new(R))
		if err := tx.First(rec, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return s.kind.notFound
			}
			return apperrors.Wrap(apperrors.ErrDatabase, err)
		}

		updates, err := apply(rec, items != nil)
		if err != nil {
			return err
		}

		if pocketID, ok := updates["pocket_id"].(string); ok && pocketID != rec.Header().PocketID {
			if err := requireActivePocket(tx, pocketID); err != nil {
				return err
			}
		}

		if items != nil {
			if _, err := requireCategories(tx, s.kind.categoryKind, *items); err != nil {
				return err
			}
			if err := tx.Where(s.kind.parentKey+" = ?", id).Delete(PI(new(I))).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrDatabase, err)
			}
			replacement := buildItems[I, PI](*items, id)
			if err := tx.Create(&replacement).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrDatabase, err)
			}
		}

		if len(updates) == 0 && items == nil {
			return nil
		}
		if len(updates) == 0 {
			// Touch updated_at so item replacement is visible on the parent.
			updates = map[string]interface{}{"updated_at": gorm.Expr("CURRENT_TIMESTAMP")}
		}
		if err := tx.Model(rec).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.get(ctx, id)
}

// delete removes the record and, through the Items association, all of its
// items in the same transaction.
func (s *lineItemStore[R, I, PR, PI]) delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := PR(new(R))
		if err := tx.First(rec, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return s.kind.notFound
			}
			return apperrors.Wrap(apperrors.ErrDatabase, err)
		}
		if err := tx.Select("Items").Delete(rec).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, err)
		}
		return nil
	})
}

// enrich fills item category names and recomputes totals for recs.
func (s *lineItemStore[R, I, PR, PI]) enrich(ctx context.Context, recs []PR) error {
	ids := make(map[string]struct{})
	for _, rec := range recs {
		items := *rec.ItemList()
		for i := range items {
			ids[PI(&items[i]).Line().CategoryID] = struct{}{}
		}
	}
	if len(ids) == 0 {
		for _, rec := range recs {
			s.project(rec, nil)
		}
		return nil
	}

	keys := make([]string, 0, len(ids))
	for id := range ids {
		keys = append(keys, id)
	}

	var categories []models.Category
	if err := s.db.WithContext(ctx).Select("id", "name").Where("id IN ?", keys).Find(&categories).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	for _, rec := range recs {
		s.project(rec, names)
	}
	return nil
}

// project sets the derived fields: item category names and the total.
func (s *lineItemStore[R, I, PR, PI]) project(rec PR, names map[string]string) {
	items := *rec.ItemList()
	lines := make([]*models.LineItem, len(items))
	for i := range items {
		line := PI(&items[i]).Line()
		if name, ok := names[line.CategoryID]; ok {
			line.CategoryName = name
		}
		lines[i] = line
	}
	rec.Header().TotalAmount = models.Total(lines)
}

func buildItems[I any, PI itemPtr[I]](inputs []ItemInput, parentID string) []I {
	items := make([]I, len(inputs))
	for i, in := range inputs {
		p := PI(&items[i])
		line := p.Line()
		line.CategoryID = in.CategoryID
		line.Amount = in.Amount
		line.Description = in.Description
		line.Position = i
		if parentID != "" {
			p.SetParentID(parentID)
		}
	}
	return items
}

// validateItems enforces the item invariants independent of the store.
func validateItems(inputs []ItemInput) error {
	if len(inputs) == 0 {
		return apperrors.Validation("items", "must contain at least 1 item(s)")
	}
	details := make(map[string]string)
	for i, in := range inputs {
		if in.CategoryID == "" {
			details[fmt.Sprintf("items[%d].category_id", i)] = "is required"
		}
		if !in.Amount.IsPositive() {
			details[fmt.Sprintf("items[%d].amount", i)] = "must be a positive amount"
		}
	}
	if len(details) > 0 {
		return apperrors.WithDetails(apperrors.ErrValidation, details)
	}
	return nil
}

func requireActivePocket(tx *gorm.DB, pocketID string) error {
	var pocket models.Pocket
	if err := tx.Select("id", "is_active").First(&pocket, "id = ?", pocketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WithDetails(apperrors.ErrPocketNotFound, map[string]string{"pocket_id": "pocket not found"})
		}
		return apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	if !pocket.IsActive {
		return apperrors.WithDetails(apperrors.ErrPocketInactive, map[string]string{"pocket_id": "pocket is not active"})
	}
	return nil
}

// requireCategories checks every item references an active category of the
// given kind and returns category names by id.
func requireCategories(tx *gorm.DB, kind models.CategoryKind, inputs []ItemInput) (map[string]string, error) {
	ids := make([]string, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if !seen[in.CategoryID] {
			seen[in.CategoryID] = true
			ids = append(ids, in.CategoryID)
		}
	}

	var categories []models.Category
	if err := tx.Where("id IN ? AND kind = ?", ids, kind).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	for i, in := range inputs {
		path := fmt.Sprintf("items[%d].category_id", i)
		c, ok := byID[in.CategoryID]
		if !ok {
			return nil, apperrors.WithDetails(apperrors.ErrCategoryNotFound, map[string]string{path: "category not found"})
		}
		if !c.IsActive {
			return nil, apperrors.WithDetails(apperrors.ErrCategoryInactive, map[string]string{path: "category is not active"})
		}
	}

	names := make(map[string]string, len(byID))
	for id, c := range byID {
		names[id] = c.Name
	}
	return names, nil
}
