package services

import (
	"context"
	"testing"

	"mosquefund/internal/models"
	"mosquefund/internal/pagination"
	"mosquefund/internal/testutil"
)

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user := testutil.CreateTestUser(t, db, models.RoleViewer)

	got, err := svc.GetProfile(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if got.Email != user.Email || got.Role != models.RoleViewer {
		t.Errorf("unexpected profile %+v", got)
	}

	_, err = svc.GetProfile(ctx, "01950000-0000-7000-8000-000000000000")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	testutil.CreateTestUser(t, db, models.RoleAdmin)
	testutil.CreateTestUser(t, db, models.RoleTreasurer)
	viewer := testutil.CreateTestUser(t, db, models.RoleViewer)
	testutil.Deactivate(t, db, viewer)

	page, err := svc.ListUsers(ctx, UserFilter{}, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.Pagination.Total != 3 {
		t.Errorf("expected 3 users, got %d", page.Pagination.Total)
	}

	role := models.RoleTreasurer
	page, err = svc.ListUsers(ctx, UserFilter{Role: &role}, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.Pagination.Total != 1 {
		t.Errorf("expected 1 treasurer, got %d", page.Pagination.Total)
	}

	inactive := false
	page, err = svc.ListUsers(ctx, UserFilter{IsActive: &inactive}, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.Pagination.Total != 1 || page.Data[0].ID != viewer.ID {
		t.Errorf("expected only the deactivated viewer, got %+v", page.Data)
	}

	page, err = svc.ListUsers(ctx, UserFilter{Search: viewer.Email}, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.Pagination.Total != 1 {
		t.Errorf("expected search to match 1 user, got %d", page.Pagination.Total)
	}
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db, models.RoleViewer)

	role := models.RoleTreasurer
	phone := "+62 812 0000 0000"
	updated, err := svc.UpdateUser(ctx, user.ID, UserUpdate{Role: &role, Phone: &phone})
	testutil.AssertNoError(t, err)
	if updated.Role != models.RoleTreasurer || updated.Phone != phone {
		t.Errorf("unexpected profile after update %+v", updated)
	}

	bogus := models.UserRole("owner")
	_, err = svc.UpdateUser(ctx, user.ID, UserUpdate{Role: &bogus})
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")
}

func TestDeactivateUser(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	admin := testutil.CreateTestUser(t, db, models.RoleAdmin)
	clerk := testutil.CreateTestUser(t, db, models.RoleTreasurer)

	_, err := svc.DeactivateUser(ctx, admin.ID, admin.ID)
	testutil.AssertAppError(t, err, "CANNOT_DEACTIVATE_SELF")

	got, err := svc.DeactivateUser(ctx, admin.ID, clerk.ID)
	testutil.AssertNoError(t, err)
	if got.IsActive {
		t.Error("expected user to be inactive")
	}

	reloaded, err := svc.GetProfile(ctx, clerk.ID)
	testutil.AssertNoError(t, err)
	if reloaded.IsActive {
		t.Error("deactivation should be persisted")
	}
}
