package handlers

import (
	"github.com/gin-gonic/gin"

	"mosquefund/internal/middleware"
	"mosquefund/internal/models"
	"mosquefund/internal/policy"
	"mosquefund/internal/services"
)

// Services bundles the dependencies of the /v1 routes.
type Services struct {
	Users      services.UserServicer
	Pockets    services.PocketServicer
	Ledger     services.LedgerServicer
	Categories services.CategoryServicer
	Donations  services.DonationServicer
	Expenses   services.ExpenseServicer
	Audit      services.AuditServicer
}

// RegisterRoutes mounts the authenticated /v1 API on r. Every route
// resolves the caller through verifier and checks the access policy
// before reaching its handler.
func RegisterRoutes(r gin.IRouter, verifier middleware.TokenVerifier, svc Services) {
	userHandler := NewUserHandler(svc.Users, svc.Audit)
	pocketHandler := NewPocketHandler(svc.Pockets, svc.Ledger, svc.Audit)
	donationCategoryHandler := NewCategoryHandler(models.CategoryKindDonation, svc.Categories, svc.Audit)
	expenseCategoryHandler := NewCategoryHandler(models.CategoryKindExpense, svc.Categories, svc.Audit)
	donationHandler := NewDonationHandler(svc.Donations, svc.Audit)
	expenseHandler := NewExpenseHandler(svc.Expenses, svc.Audit)

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(verifier, svc.Users))

	allow := middleware.RequirePermission

	// Self reads are decided in the handler.
	users := v1.Group("/users")
	users.GET("/me", userHandler.GetMe)
	users.GET("", allow(policy.ResourceUser, policy.OpRead), userHandler.ListUsers)
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id", allow(policy.ResourceUser, policy.OpUpdate), userHandler.UpdateUser)
	users.DELETE("/:id", allow(policy.ResourceUser, policy.OpDelete), userHandler.DeactivateUser)

	pockets := v1.Group("/pockets")
	pockets.GET("", allow(policy.ResourcePocket, policy.OpRead), pocketHandler.ListPockets)
	pockets.POST("", allow(policy.ResourcePocket, policy.OpCreate), pocketHandler.CreatePocket)
	pockets.GET("/:id", allow(policy.ResourcePocket, policy.OpRead), pocketHandler.GetPocket)
	pockets.GET("/:id/summary", allow(policy.ResourcePocket, policy.OpRead), pocketHandler.GetPocketSummary)
	pockets.PUT("/:id", allow(policy.ResourcePocket, policy.OpUpdate), pocketHandler.UpdatePocket)
	pockets.DELETE("/:id", allow(policy.ResourcePocket, policy.OpDelete), pocketHandler.DeletePocket)

	for path, h := range map[string]*CategoryHandler{
		"/donation-categories": donationCategoryHandler,
		"/expense-categories":  expenseCategoryHandler,
	} {
		g := v1.Group(path)
		g.GET("", allow(policy.ResourceCategory, policy.OpRead), h.ListCategories)
		g.POST("", allow(policy.ResourceCategory, policy.OpCreate), h.CreateCategory)
		g.GET("/:id", allow(policy.ResourceCategory, policy.OpRead), h.GetCategory)
		g.PUT("/:id", allow(policy.ResourceCategory, policy.OpUpdate), h.UpdateCategory)
		g.DELETE("/:id", allow(policy.ResourceCategory, policy.OpDelete), h.DeleteCategory)
	}

	donations := v1.Group("/donations")
	donations.GET("", allow(policy.ResourceDonation, policy.OpRead), donationHandler.ListDonations)
	donations.POST("", allow(policy.ResourceDonation, policy.OpCreate), donationHandler.CreateDonation)
	donations.GET("/:id", allow(policy.ResourceDonation, policy.OpRead), donationHandler.GetDonation)
	donations.PUT("/:id", allow(policy.ResourceDonation, policy.OpUpdate), donationHandler.UpdateDonation)
	donations.DELETE("/:id", allow(policy.ResourceDonation, policy.OpDelete), donationHandler.DeleteDonation)

	expenses := v1.Group("/expenses")
	expenses.GET("", allow(policy.ResourceExpense, policy.OpRead), expenseHandler.ListExpenses)
	expenses.POST("", allow(policy.ResourceExpense, policy.OpCreate), expenseHandler.CreateExpense)
	expenses.GET("/:id", allow(policy.ResourceExpense, policy.OpRead), expenseHandler.GetExpense)
	expenses.PUT("/:id", allow(policy.ResourceExpense, policy.OpUpdate), expenseHandler.UpdateExpense)
	expenses.PUT("/:id/approve", allow(policy.ResourceExpense, policy.OpApprove), expenseHandler.ApproveExpense)
	expenses.DELETE("/:id", allow(policy.ResourceExpense, policy.OpDelete), expenseHandler.DeleteExpense)
}
