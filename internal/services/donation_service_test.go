package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"mosquefund/internal/models"
	"mosquefund/internal/pagination"
	"mosquefund/internal/testutil"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type donationFixture struct {
	svc      DonationServicer
	pocket   *models.Pocket
	catA     *models.Category
	catB     *models.Category
	treasure *models.User
}

func newDonationFixture(t *testing.T) donationFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	return donationFixture{
		svc:      NewDonationService(db),
		pocket:   testutil.CreateTestPocket(t, db),
		catA:     testutil.CreateTestCategory(t, db, models.CategoryKindDonation),
		catB:     testutil.CreateTestCategory(t, db, models.CategoryKindDonation),
		treasure: testutil.CreateTestUser(t, db, models.RoleTreasurer),
	}
}

func (f donationFixture) input(items ...ItemInput) DonationInput {
	return DonationInput{
		PocketID:      f.pocket.ID,
		DonorName:     "Hamba Allah",
		PaymentMethod: models.PaymentMethodTransfer,
		Date:          testutil.Date(2025, 3, 1),
		Items:         items,
	}
}

func TestCreateDonation(t *testing.T) {
	ctx := context.Background()

	t.Run("total_is_sum_of_items", func(t *testing.T) {
		f := newDonationFixture(t)

		d, err := f.svc.CreateDonation(ctx, f.treasure.ID, f.input(
			ItemInput{CategoryID: f.catA.ID, Amount: amt("700000")},
			ItemInput{CategoryID: f.catB.ID, Amount: amt("300000")},
		))
		testutil.AssertNoError(t, err)

		testutil.AssertAmount(t, d.TotalAmount, "1000000")
		if len(d.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(d.Items))
		}
		if d.RecordedBy != f.treasure.ID {
			t.Errorf("expected recorded_by %s, got %s", f.treasure.ID, d.RecordedBy)
		}
		if d.Items[0].CategoryName != f.catA.Name || d.Items[1].CategoryName != f.catB.Name {
			t.Errorf("expected category names to be filled, got %q and %q", d.Items[0].CategoryName, d.Items[1].CategoryName)
		}

		fetched, err := f.svc.GetDonation(ctx, d.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, fetched.TotalAmount, "1000000")
		if fetched.Items[0].Position != 0 || fetched.Items[1].Position != 1 {
			t.Errorf("expected items in submission order")
		}
	})

	t.Run("fractional_amounts_sum_exactly", func(t *testing.T) {
		f := newDonationFixture(t)

		d, err := f.svc.CreateDonation(ctx, f.treasure.ID, f.input(
			ItemInput{CategoryID: f.catA.ID, Amount: amt("0.10")},
			ItemInput{CategoryID: f.catA.ID, Amount: amt("0.20")},
		))
		testutil.AssertNoError(t, err)

		fetched, err := f.svc.GetDonation(ctx, d.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, fetched.TotalAmount, "0.30")
	})

	t.Run("empty_items", func(t *testing.T) {
		f := newDonationFixture(t)

		_, err := f.svc.CreateDonation(ctx, f.treasure.ID, f.input())
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
		testutil.AssertErrorDetail(t, err, "items")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		f := newDonationFixture(t)

		_, err := f.svc.CreateDonation(ctx, f.treasure.ID, f.input(
			ItemInput{CategoryID: f.catA.ID, Amount: amt("10")},
			ItemInput{CategoryID: f.catA.ID, Amount: amt("-5")},
		))
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
		testutil.AssertErrorDetail(t, err, "items[1].amount")
	})

	t.Run("donor_required_unless_anonymous", func(t *testing.T) {
		f := newDonationFixture(t)

		in := f.input(ItemInput{CategoryID: f.catA.ID, Amount: amt("10")})
		in.DonorName = "  "
		_, err := f.svc.CreateDonation(ctx, f.treasure.ID, in)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		in.IsAnonymous = true
		d, err := f.svc.CreateDonation(ctx, f.treasure.ID, in)
		testutil.AssertNoError(t, err)
		if !d.IsAnonymous {
			t.Error("expected anonymous donation")
		}
	})

	t.Run("unknown_pocket", func(t *testing.T) {
		f := newDonationFixture(t)

		in := f.input(ItemInput{CategoryID: f.catA.ID, Amount: amt("10")})
		in.PocketID = "01950000-0000-7000-8000-000000000000"
		_, err := f.svc.CreateDonation(ctx, f.treasure.ID, in)
		testutil.AssertAppError(t, err, "POCKET_NOT_FOUND")
	})

	t.Run("inactive_pocket", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonationService(db)
		user := testutil.CreateTestUser(t, db, models.RoleAdmin)
		pocket := testutil.CreateTestPocket(t, db)
		cat := testutil.CreateTestCategory(t, db, models.CategoryKindDonation)
		testutil.Deactivate(t, db, pocket)

		_, err := svc.CreateDonation(ctx, user.ID, DonationInput{
			PocketID:      pocket.ID,
			DonorName:     "Donor",
			PaymentMethod: models.PaymentMethodCash,
			Date:          testutil.Date(2025, 3, 1),
			Items:         []ItemInput{{CategoryID: cat.ID, Amount: amt("10")}},
		})
		testutil.AssertAppError(t, err, "POCKET_INACTIVE")
	})

	t.Run("expense_category_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonationService(db)
		user := testutil.CreateTestUser(t, db, models.RoleAdmin)
		pocket := testutil.CreateTestPocket(t, db)
		wrongKind := testutil.CreateTestCategory(t, db, models.CategoryKindExpense)

		_, err := svc.CreateDonation(ctx, user.ID, DonationInput{
			PocketID:      pocket.ID,
			DonorName:     "Donor",
			PaymentMethod: models.PaymentMethodCash,
			Date:          testutil.Date(2025, 3, 1),
			Items:         []ItemInput{{CategoryID: wrongKind.ID, Amount: amt("10")}},
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
		testutil.AssertErrorDetail(t, err, "items[0].category_id")

		var count int64
		db.Model(&models.Donation{}).Count(&count)
		if count != 0 {
			t.Errorf("expected nothing persisted, found %d donations", count)
		}
	})

	t.Run("inactive_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonationService(db)
		user := testutil.CreateTestUser(t, db, models.RoleAdmin)
		pocket := testutil.CreateTestPocket(t, db)
		active := testutil.CreateTestCategory(t, db, models.CategoryKindDonation)
		retired := testutil.CreateTestCategory(t, db, models.CategoryKindDonation)
		testutil.Deactivate(t, db, retired)

		_, err := svc.CreateDonation(ctx, user.ID, DonationInput{
			PocketID:      pocket.ID,
			DonorName:     "Donor",
			PaymentMethod: models.PaymentMethodCash,
			Date:          testutil.Date(2025, 3, 1),
			Items: []ItemInput{
				{CategoryID: active.ID, Amount: amt("10")},
				{CategoryID: retired.ID, Amount: amt("10")},
			},
		})
		testutil.AssertAppError(t, err, "CATEGORY_INACTIVE")
		testutil.AssertErrorDetail(t, err, "items[1].category_id")
	})
}

func TestGetDonation_NotFound(t *testing.T) {
	f := newDonationFixture(t)

	_, err := f.svc.GetDonation(context.Background(), "01950000-0000-7000-8000-000000000000")
	testutil.AssertAppError(t, err, "DONATION_NOT_FOUND")
}

func TestUpdateDonation(t *testing.T) {
	ctx := context.Background()

	t.Run("without_items_keeps_items", func(t *testing.T) {
		f := newDonationFixture(t)
		d, err := f.svc.CreateDonation(ctx, f.treasure.ID, f.input(
			ItemInput{CategoryID: f.catA.ID, Amount: amt("700000")},
			ItemInput{CategoryID: f.catB.ID, Amount: amt("300000")},
		))
		testutil.AssertNoError(t, err)

		notes := "Friday collection"
		updated, err := f.svc.UpdateDonation(ctx, d.ID, DonationUpdate{Notes: &notes})
		testutil.AssertNoError(t, err)

		if updated.Notes != notes {
			t.Errorf("expected notes %q, got %q", notes, updated.Notes)
		}
		if len(updated.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(updated.Items))
		}
		if updated.Items[0].ID != d.Items[0].ID || updated.Items[1].ID != d.Items[1].ID {
			t.Error("expected item ids to be unchanged")
		}
		testutil.AssertAmount(t, updated.TotalAmount, "1000000")
	})

	t.Run("with_items_replaces_set", func(t *testing.T) {
		f := newDonationFixture(t)
		d, err := f.svc.CreateDonation(ctx, f.treasure.ID, f.input(
			ItemInput{CategoryID: f.catA.ID, Amount: amt("700000")},
			ItemInput{CategoryID: f.catB.ID, Amount: amt("300000")},
		))
		testutil.AssertNoError(t, err)

		items := []ItemInput{{CategoryID: f.catB.ID, Amount: amt("125000.50"), Description: "corrected"}}
		updated, err := f.svc.UpdateDonation(ctx, d.ID, DonationUpdate{Items: &items})
		testutil.AssertNoError(t, err)

		if len(updated.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(updated.Items))
		}
		testutil.AssertAmount(t, updated.TotalAmount, "125000.50")
		for _, old := range d.Items {
			if updated.Items[0].ID == old.ID {
				t.Errorf("old item %s should have been replaced", old.ID)
			}
		}
	})

	t.Run("empty_items_rejected", func(t *testing.T) {
		f := newDonationFixture(t)
		d, err := f.svc.CreateDonation(ctx, f.treasure.ID, f.input(ItemInput{CategoryID: f.catA.ID, Amount: amt("5")}))
		testutil.AssertNoError(t, err)

		items := []ItemInput{}
		_, err = f.svc.UpdateDonation(ctx, d.ID, DonationUpdate{Items: &items})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		fetched, err := f.svc.GetDonation(ctx, d.ID)
		testutil.AssertNoError(t, err)
		if len(fetched.Items) != 1 {
			t.Errorf("expected the original item to survive, got %d items", len(fetched.Items))
		}
	})

	t.Run("failed_replacement_rolls_back", func(t *testing.T) {
		f := newDonationFixture(t)
		d, err := f.svc.CreateDonation(ctx, f.treasure.ID, f.input(ItemInput{CategoryID: f.catA.ID, Amount: amt("5")}))
		testutil.AssertNoError(t, err)

		notes := "should not stick"
		items := []ItemInput{{CategoryID: "01950000-0000-7000-8000-000000000000", Amount: amt("9")}}
		_, err = f.svc.UpdateDonation(ctx, d.ID, DonationUpdate{Notes: &notes, Items: &items})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		fetched, err := f.svc.GetDonation(ctx, d.ID)
		testutil.AssertNoError(t, err)
		if fetched.Notes == notes || len(fetched.Items) != 1 || fetched.Items[0].ID != d.Items[0].ID {
			t.Error("expected the donation to be unchanged")
		}
	})

	t.Run("clearing_donor_requires_anonymous", func(t *testing.T) {
		f := newDonationFixture(t)
		d, err := f.svc.CreateDonation(ctx, f.treasure.ID, f.input(ItemInput{CategoryID: f.catA.ID, Amount: amt("5")}))
		testutil.AssertNoError(t, err)

		empty := ""
		_, err = f.svc.UpdateDonation(ctx, d.ID, DonationUpdate{DonorName: &empty})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		yes := true
		updated, err := f.svc.UpdateDonation(ctx, d.ID, DonationUpdate{DonorName: &empty, IsAnonymous: &yes})
		testutil.AssertNoError(t, err)
		if !updated.IsAnonymous || updated.DonorName != "" {
			t.Errorf("expected anonymous donation without donor, got %+v", updated)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		f := newDonationFixture(t)
		notes := "x"
		_, err := f.svc.UpdateDonation(ctx, "01950000-0000-7000-8000-000000000000", DonationUpdate{Notes: &notes})
		testutil.AssertAppError(t, err, "DONATION_NOT_FOUND")
	})
}

func TestDeleteDonation(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDonationService(db)
	user := testutil.CreateTestUser(t, db, models.RoleAdmin)
	pocket := testutil.CreateTestPocket(t, db)
	cat := testutil.CreateTestCategory(t, db, models.CategoryKindDonation)

	d, err := svc.CreateDonation(ctx, user.ID, DonationInput{
		PocketID:      pocket.ID,
		DonorName:     "Donor",
		PaymentMethod: models.PaymentMethodQRIS,
		Date:          testutil.Date(2025, 3, 1),
		Items: []ItemInput{
			{CategoryID: cat.ID, Amount: amt("10")},
			{CategoryID: cat.ID, Amount: amt("20")},
		},
	})
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.DeleteDonation(ctx, d.ID))

	var orphans int64
	db.Model(&models.DonationItem{}).Where("donation_id = ?", d.ID).Count(&orphans)
	if orphans != 0 {
		t.Errorf("expected no orphaned items, found %d", orphans)
	}

	_, err = svc.GetDonation(ctx, d.ID)
	testutil.AssertAppError(t, err, "DONATION_NOT_FOUND")

	err = svc.DeleteDonation(ctx, d.ID)
	testutil.AssertAppError(t, err, "DONATION_NOT_FOUND")

	var pockets int64
	db.Model(&models.Pocket{}).Where("id = ?", pocket.ID).Count(&pockets)
	if pockets != 1 {
		t.Error("deleting a donation must not affect its pocket")
	}
}

func TestListDonations(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDonationService(db)
	user := testutil.CreateTestUser(t, db, models.RoleTreasurer)
	p1 := testutil.CreateTestPocket(t, db)
	p2 := testutil.CreateTestPocket(t, db)
	zakat := testutil.CreateTestCategory(t, db, models.CategoryKindDonation)
	infaq := testutil.CreateTestCategory(t, db, models.CategoryKindDonation)

	create := func(pocketID string, method models.PaymentMethod, day int, cats ...string) {
		t.Helper()
		items := make([]ItemInput, len(cats))
		for i, c := range cats {
			items[i] = ItemInput{CategoryID: c, Amount: amt("100")}
		}
		_, err := svc.CreateDonation(ctx, user.ID, DonationInput{
			PocketID:      pocketID,
			DonorName:     "Donor",
			PaymentMethod: method,
			Date:          testutil.Date(2025, 4, day),
			Items:         items,
		})
		testutil.AssertNoError(t, err)
	}
	create(p1.ID, models.PaymentMethodCash, 1, zakat.ID)
	create(p1.ID, models.PaymentMethodTransfer, 5, infaq.ID, zakat.ID)
	create(p2.ID, models.PaymentMethodCash, 10, infaq.ID)

	strp := func(s string) *string { return &s }

	t.Run("all", func(t *testing.T) {
		page, err := svc.ListDonations(ctx, DonationFilter{}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.Pagination.Total != 3 || len(page.Data) != 3 {
			t.Fatalf("expected 3 donations, got total=%d len=%d", page.Pagination.Total, len(page.Data))
		}
		for _, d := range page.Data {
			if d.TotalAmount.IsZero() {
				t.Error("expected totals on listed donations")
			}
		}
	})

	t.Run("by_pocket", func(t *testing.T) {
		page, err := svc.ListDonations(ctx, DonationFilter{EntryFilter: EntryFilter{PocketID: &p1.ID}}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.Pagination.Total != 2 {
			t.Errorf("expected 2 donations in pocket, got %d", page.Pagination.Total)
		}
	})

	t.Run("by_category_matches_any_item", func(t *testing.T) {
		page, err := svc.ListDonations(ctx, DonationFilter{EntryFilter: EntryFilter{CategoryID: strp(zakat.ID)}}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.Pagination.Total != 2 {
			t.Fatalf("expected 2 donations with a zakat item, got %d", page.Pagination.Total)
		}
		for _, d := range page.Data {
			if len(d.Items) == 2 {
				testutil.AssertAmount(t, d.TotalAmount, "200")
			}
		}
	})

	t.Run("by_date_range", func(t *testing.T) {
		from := testutil.Date(2025, 4, 2)
		to := testutil.Date(2025, 4, 10)
		page, err := svc.ListDonations(ctx, DonationFilter{EntryFilter: EntryFilter{FromDate: &from, ToDate: &to}}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.Pagination.Total != 2 {
			t.Errorf("expected 2 donations in range, got %d", page.Pagination.Total)
		}
	})

	t.Run("by_payment_method", func(t *testing.T) {
		cash := models.PaymentMethodCash
		page, err := svc.ListDonations(ctx, DonationFilter{PaymentMethod: &cash}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.Pagination.Total != 2 {
			t.Errorf("expected 2 cash donations, got %d", page.Pagination.Total)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		first, err := svc.ListDonations(ctx, DonationFilter{}, pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)
		second, err := svc.ListDonations(ctx, DonationFilter{}, pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)

		if len(first.Data) != 2 || len(second.Data) != 1 {
			t.Fatalf("expected pages of 2 and 1, got %d and %d", len(first.Data), len(second.Data))
		}
		if first.Pagination.TotalPages != 2 {
			t.Errorf("expected 2 total pages, got %d", first.Pagination.TotalPages)
		}
		seen := map[string]bool{}
		for _, d := range append(first.Data, second.Data...) {
			if seen[d.ID] {
				t.Errorf("donation %s appeared on two pages", d.ID)
			}
			seen[d.ID] = true
		}
	})
}
