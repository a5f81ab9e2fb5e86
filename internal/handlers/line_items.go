package handlers

import (
	"github.com/shopspring/decimal"

	"mosquefund/internal/services"
)

// ItemRequest is one line item of a donation or expense payload.
type ItemRequest struct {
	CategoryID  string          `json:"category_id" binding:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"required,money" swaggertype:"string" example:"150000.00"`
	Description string          `json:"description" binding:"max=255"`
}

func toItemInputs(items []ItemRequest) []services.ItemInput {
	inputs := make([]services.ItemInput, len(items))
	for i, it := range items {
		inputs[i] = services.ItemInput{
			CategoryID:  it.CategoryID,
			Amount:      it.Amount,
			Description: it.Description,
		}
	}
	return inputs
}

func toItemInputsPtr(items *[]ItemRequest) *[]services.ItemInput {
	if items == nil {
		return nil
	}
	inputs := toItemInputs(*items)
	return &inputs
}

// entryQuery holds the list filters shared by donations and expenses.
type entryQuery struct {
	FromDate   string `form:"from_date" binding:"omitempty,date_ymd"`
	ToDate     string `form:"to_date" binding:"omitempty,date_ymd"`
	PocketID   string `form:"pocket_id" binding:"omitempty,uuid"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
}

func (q entryQuery) filter() (services.EntryFilter, error) {
	from, to, err := dateRangeQuery{FromDate: q.FromDate, ToDate: q.ToDate}.bounds()
	if err != nil {
		return services.EntryFilter{}, err
	}
	return services.EntryFilter{
		PocketID:   optionalString(q.PocketID),
		CategoryID: optionalString(q.CategoryID),
		FromDate:   from,
		ToDate:     to,
	}, nil
}
