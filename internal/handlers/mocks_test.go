package handlers

import (
	"context"

	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/models"
	"mosquefund/internal/pagination"
	"mosquefund/internal/services"
)

func emptyPage[T any]() *pagination.PageResponse[T] {
	resp := pagination.NewPageResponse([]T{}, 1, pagination.DefaultPageSize, 0)
	return &resp
}

// --- pockets and ledger ---

type mockPocketService struct {
	createPocketFn func(ctx context.Context, name, description string) (*models.Pocket, error)
	getPocketFn    func(ctx context.Context, id string) (*models.Pocket, error)
	updatePocketFn func(ctx context.Context, id string, update services.PocketUpdate) (*models.Pocket, error)
	deletePocketFn func(ctx context.Context, id string) error
}

func (m *mockPocketService) CreatePocket(ctx context.Context, name, description string) (*models.Pocket, error) {
	if m.createPocketFn != nil {
		return m.createPocketFn(ctx, name, description)
	}
	return &models.Pocket{Base: models.Base{ID: pocketID}, Name: name, Description: description, IsActive: true}, nil
}

func (m *mockPocketService) GetPocket(ctx context.Context, id string) (*models.Pocket, error) {
	if m.getPocketFn != nil {
		return m.getPocketFn(ctx, id)
	}
	return &models.Pocket{Base: models.Base{ID: id}, IsActive: true}, nil
}

func (m *mockPocketService) UpdatePocket(ctx context.Context, id string, update services.PocketUpdate) (*models.Pocket, error) {
	if m.updatePocketFn != nil {
		return m.updatePocketFn(ctx, id, update)
	}
	return &models.Pocket{Base: models.Base{ID: id}}, nil
}

func (m *mockPocketService) DeletePocket(ctx context.Context, id string) error {
	if m.deletePocketFn != nil {
		return m.deletePocketFn(ctx, id)
	}
	return nil
}

var _ services.PocketServicer = (*mockPocketService)(nil)

type mockLedgerService struct {
	getPocketSummaryFn   func(ctx context.Context, pocketID string, period services.Period) (*services.PocketSummary, error)
	listPocketBalancesFn func(ctx context.Context, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.PocketBalance], error)
}

func (m *mockLedgerService) GetPocketSummary(ctx context.Context, pocketID string, period services.Period) (*services.PocketSummary, error) {
	if m.getPocketSummaryFn != nil {
		return m.getPocketSummaryFn(ctx, pocketID, period)
	}
	return &services.PocketSummary{Pocket: models.Pocket{Base: models.Base{ID: pocketID}}}, nil
}

func (m *mockLedgerService) ListPocketBalances(ctx context.Context, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.PocketBalance], error) {
	if m.listPocketBalancesFn != nil {
		return m.listPocketBalancesFn(ctx, page, isActive)
	}
	return emptyPage[models.PocketBalance](), nil
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

// --- categories ---

type mockCategoryService struct {
	createCategoryFn func(ctx context.Context, kind models.CategoryKind, name, description string) (*models.Category, error)
	listCategoriesFn func(ctx context.Context, kind models.CategoryKind, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Category], error)
	getCategoryFn    func(ctx context.Context, kind models.CategoryKind, id string) (*models.Category, error)
	updateCategoryFn func(ctx context.Context, kind models.CategoryKind, id string, update services.CategoryUpdate) (*models.Category, error)
	deleteCategoryFn func(ctx context.Context, kind models.CategoryKind, id string) error
}

func (m *mockCategoryService) CreateCategory(ctx context.Context, kind models.CategoryKind, name, description string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(ctx, kind, name, description)
	}
	return &models.Category{Base: models.Base{ID: categoryID}, Kind: kind, Name: name, IsActive: true}, nil
}

func (m *mockCategoryService) ListCategories(ctx context.Context, kind models.CategoryKind, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Category], error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(ctx, kind, page, isActive)
	}
	return emptyPage[models.Category](), nil
}

func (m *mockCategoryService) GetCategory(ctx context.Context, kind models.CategoryKind, id string) (*models.Category, error) {
	if m.getCategoryFn != nil {
		return m.getCategoryFn(ctx, kind, id)
	}
	return &models.Category{Base: models.Base{ID: id}, Kind: kind}, nil
}

func (m *mockCategoryService) UpdateCategory(ctx context.Context, kind models.CategoryKind, id string, update services.CategoryUpdate) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(ctx, kind, id, update)
	}
	return &models.Category{Base: models.Base{ID: id}, Kind: kind}, nil
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, kind models.CategoryKind, id string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(ctx, kind, id)
	}
	return nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

// --- donations ---

type mockDonationService struct {
	createDonationFn func(ctx context.Context, actorID string, input services.DonationInput) (*models.Donation, error)
	getDonationFn    func(ctx context.Context, id string) (*models.Donation, error)
	listDonationsFn  func(ctx context.Context, filter services.DonationFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Donation], error)
	updateDonationFn func(ctx context.Context, id string, update services.DonationUpdate) (*models.Donation, error)
	deleteDonationFn func(ctx context.Context, id string) error
}

func (m *mockDonationService) CreateDonation(ctx context.Context, actorID string, input services.DonationInput) (*models.Donation, error) {
	if m.createDonationFn != nil {
		return m.createDonationFn(ctx, actorID, input)
	}
	return &models.Donation{Entry: models.Entry{Base: models.Base{ID: recordID}}}, nil
}

func (m *mockDonationService) GetDonation(ctx context.Context, id string) (*models.Donation, error) {
	if m.getDonationFn != nil {
		return m.getDonationFn(ctx, id)
	}
	return nil, apperrors.ErrDonationNotFound
}

func (m *mockDonationService) ListDonations(ctx context.Context, filter services.DonationFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Donation], error) {
	if m.listDonationsFn != nil {
		return m.listDonationsFn(ctx, filter, page)
	}
	return emptyPage[models.Donation](), nil
}

func (m *mockDonationService) UpdateDonation(ctx context.Context, id string, update services.DonationUpdate) (*models.Donation, error) {
	if m.updateDonationFn != nil {
		return m.updateDonationFn(ctx, id, update)
	}
	return &models.Donation{Entry: models.Entry{Base: models.Base{ID: id}}}, nil
}

func (m *mockDonationService) DeleteDonation(ctx context.Context, id string) error {
	if m.deleteDonationFn != nil {
		return m.deleteDonationFn(ctx, id)
	}
	return nil
}

var _ services.DonationServicer = (*mockDonationService)(nil)

// --- expenses ---

type mockExpenseService struct {
	createExpenseFn  func(ctx context.Context, actorID string, input services.ExpenseInput) (*models.Expense, error)
	getExpenseFn     func(ctx context.Context, id string) (*models.Expense, error)
	listExpensesFn   func(ctx context.Context, filter services.ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	updateExpenseFn  func(ctx context.Context, id string, update services.ExpenseUpdate) (*models.Expense, error)
	deleteExpenseFn  func(ctx context.Context, id string) error
	approveExpenseFn func(ctx context.Context, id string, status models.ExpenseStatus, actorID string) (*models.Expense, error)
}

func (m *mockExpenseService) CreateExpense(ctx context.Context, actorID string, input services.ExpenseInput) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(ctx, actorID, input)
	}
	return &models.Expense{Entry: models.Entry{Base: models.Base{ID: recordID}}, Status: models.ExpenseStatusPending}, nil
}

func (m *mockExpenseService) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	if m.getExpenseFn != nil {
		return m.getExpenseFn(ctx, id)
	}
	return nil, apperrors.ErrExpenseNotFound
}

func (m *mockExpenseService) ListExpenses(ctx context.Context, filter services.ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if m.listExpensesFn != nil {
		return m.listExpensesFn(ctx, filter, page)
	}
	return emptyPage[models.Expense](), nil
}

func (m *mockExpenseService) UpdateExpense(ctx context.Context, id string, update services.ExpenseUpdate) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(ctx, id, update)
	}
	return &models.Expense{Entry: models.Entry{Base: models.Base{ID: id}}}, nil
}

func (m *mockExpenseService) DeleteExpense(ctx context.Context, id string) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(ctx, id)
	}
	return nil
}

func (m *mockExpenseService) ApproveExpense(ctx context.Context, id string, status models.ExpenseStatus, actorID string) (*models.Expense, error) {
	if m.approveExpenseFn != nil {
		return m.approveExpenseFn(ctx, id, status, actorID)
	}
	return &models.Expense{Entry: models.Entry{Base: models.Base{ID: id}}, Status: status, ApprovedBy: &actorID}, nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

// --- users ---

type mockUserService struct {
	users            map[string]*models.User
	listUsersFn      func(ctx context.Context, filter services.UserFilter, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	updateUserFn     func(ctx context.Context, id string, update services.UserUpdate) (*models.User, error)
	deactivateUserFn func(ctx context.Context, actorID, id string) (*models.User, error)
}

func (m *mockUserService) GetProfile(_ context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserService) ListUsers(ctx context.Context, filter services.UserFilter, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx, filter, page)
	}
	return emptyPage[models.User](), nil
}

func (m *mockUserService) UpdateUser(ctx context.Context, id string, update services.UserUpdate) (*models.User, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(ctx, id, update)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) DeactivateUser(ctx context.Context, actorID, id string) (*models.User, error) {
	if m.deactivateUserFn != nil {
		return m.deactivateUserFn(ctx, actorID, id)
	}
	return &models.User{Base: models.Base{ID: id}, IsActive: false}, nil
}

var _ services.UserServicer = (*mockUserService)(nil)

func testUsers() map[string]*models.User {
	return map[string]*models.User{
		adminID:     {Base: models.Base{ID: adminID}, FullName: "Admin", Role: models.RoleAdmin, IsActive: true},
		treasurerID: {Base: models.Base{ID: treasurerID}, FullName: "Treasurer", Role: models.RoleTreasurer, IsActive: true},
		viewerID:    {Base: models.Base{ID: viewerID}, FullName: "Viewer", Role: models.RoleViewer, IsActive: true},
	}
}
