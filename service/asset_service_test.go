package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shahriakhansejan/core-bits-server/errs"
	"github.com/shahriakhansejan/core-bits-server/models"
)

func setupAssetService() (*AssetService, *mockAssetStore, *mockRequestStore) {
	assets := newMockAssetStore()
	requests := newMockRequestStore()
	return NewAssetService(assets, requests, zap.NewNop().Sugar()), assets, requests
}

func TestCreateAsset(t *testing.T) {
	svc, _, _ := setupAssetService()

	asset, err := svc.Create(context.Background(), hrIdent(), AssetInput{Name: "Laptop", Type: models.TypeReturnable, Quantity: 5})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if asset.ID.IsZero() {
		t.Error("created asset must get an id")
	}
	if asset.HREmail != testHR {
		t.Errorf("asset scope = %q, want creator's email", asset.HREmail)
	}
}

func TestCreateAsset_Validation(t *testing.T) {
	svc, _, _ := setupAssetService()

	cases := []struct {
		name string
		in   AssetInput
	}{
		{"empty name", AssetInput{Type: models.TypeReturnable, Quantity: 1}},
		{"bad type", AssetInput{Name: "Laptop", Type: "leasable", Quantity: 1}},
		{"negative quantity", AssetInput{Name: "Laptop", Type: models.TypeReturnable, Quantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), hrIdent(), tc.in)
			expectKind(t, err, errs.KindInvalidArgument)
		})
	}
}

func TestCreateAsset_RequiresHRRole(t *testing.T) {
	svc, _, _ := setupAssetService()
	_, err := svc.Create(context.Background(), employeeIdent(), AssetInput{Name: "Laptop", Type: models.TypeReturnable, Quantity: 1})
	expectKind(t, err, errs.KindForbidden)
}

func seedAssets(t *testing.T, svc *AssetService) {
	t.Helper()
	inputs := []AssetInput{
		{Name: "MacBook Pro", Type: models.TypeReturnable, Quantity: 4},
		{Name: "Office Chair", Type: models.TypeReturnable, Quantity: 0},
		{Name: "Notebook", Type: models.TypeNonReturnable, Quantity: 20},
		{Name: "Mac Mini", Type: models.TypeReturnable, Quantity: 8},
	}
	for _, in := range inputs {
		if _, err := svc.Create(context.Background(), hrIdent(), in); err != nil {
			t.Fatalf("seed %q: %v", in.Name, err)
		}
	}
}

func TestListForHR_Filters(t *testing.T) {
	svc, _, _ := setupAssetService()
	seedAssets(t, svc)

	all, err := svc.ListForHR(context.Background(), hrIdent(), AssetQuery{})
	if err != nil {
		t.Fatalf("ListForHR failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}
	if all[0].Name != "Mac Mini" {
		t.Errorf("default order must be newest first, got %q", all[0].Name)
	}

	search, err := svc.ListForHR(context.Background(), hrIdent(), AssetQuery{Search: "mac"})
	if err != nil {
		t.Fatal(err)
	}
	if len(search) != 2 {
		t.Errorf("case-insensitive search returned %d assets, want 2", len(search))
	}

	out, err := svc.ListForHR(context.Background(), hrIdent(), AssetQuery{Status: "out-of-stock"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Name != "Office Chair" {
		t.Errorf("out-of-stock filter returned %v", out)
	}

	avail, err := svc.ListForHR(context.Background(), hrIdent(), AssetQuery{Status: "available", Type: models.TypeReturnable})
	if err != nil {
		t.Fatal(err)
	}
	if len(avail) != 2 {
		t.Errorf("combined status+type filter returned %d assets, want 2", len(avail))
	}
}

func TestListForHR_QuantitySortStable(t *testing.T) {
	svc, _, _ := setupAssetService()
	seedAssets(t, svc)

	low, err := svc.ListForHR(context.Background(), hrIdent(), AssetQuery{Sort: SortQuantityLow})
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(low); i++ {
		if low[i-1].Quantity > low[i].Quantity {
			t.Fatalf("ascending sort violated at %d: %d > %d", i, low[i-1].Quantity, low[i].Quantity)
		}
	}

	high, err := svc.ListForHR(context.Background(), hrIdent(), AssetQuery{Sort: SortQuantityHigh})
	if err != nil {
		t.Fatal(err)
	}
	if high[0].Name != "Notebook" {
		t.Errorf("descending sort leads with %q, want Notebook", high[0].Name)
	}
}

func TestListForHR_EqualQuantitiesKeepRecencyOrder(t *testing.T) {
	svc, _, _ := setupAssetService()
	for _, name := range []string{"First", "Second", "Third"} {
		if _, err := svc.Create(context.Background(), hrIdent(), AssetInput{Name: name, Type: models.TypeReturnable, Quantity: 7}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.ListForHR(context.Background(), hrIdent(), AssetQuery{Sort: SortQuantityHigh})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Third", "Second", "First"}
	for i := range want {
		if got[i].Name != want[i] {
			t.Fatalf("tie order = %v, want newest first preserved", []string{got[0].Name, got[1].Name, got[2].Name})
		}
	}
}

func TestListForEmployee_UsesAffiliationScope(t *testing.T) {
	svc, assets, _ := setupAssetService()
	seedAssets(t, svc)

	foreign := &models.Asset{Name: "Desk", Type: models.TypeReturnable, Quantity: 2, HREmail: "other-hr@corebits.test"}
	if err := assets.Insert(context.Background(), foreign); err != nil {
		t.Fatal(err)
	}

	got, err := svc.ListForEmployee(context.Background(), employeeIdent(), AssetQuery{})
	if err != nil {
		t.Fatalf("ListForEmployee failed: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("len = %d, want only the affiliated HR's 4 assets", len(got))
	}

	orphan := Identity{Email: "lost@corebits.test", Role: models.RoleEmployee}
	_, err = svc.ListForEmployee(context.Background(), orphan, AssetQuery{})
	expectKind(t, err, errs.KindForbidden)
}

func TestGetAsset_ScopeVisibility(t *testing.T) {
	svc, _, _ := setupAssetService()
	created, err := svc.Create(context.Background(), hrIdent(), AssetInput{Name: "Laptop", Type: models.TypeReturnable, Quantity: 3})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(context.Background(), hrIdent(), created.ID); err != nil {
		t.Errorf("owning HR must see the asset: %v", err)
	}
	if _, err := svc.Get(context.Background(), employeeIdent(), created.ID); err != nil {
		t.Errorf("affiliated employee must see the asset: %v", err)
	}

	otherHR := Identity{Email: "other-hr@corebits.test", Role: models.RoleHR}
	_, err = svc.Get(context.Background(), otherHR, created.ID)
	expectKind(t, err, errs.KindForbidden)
}

func TestUpdateAsset_TypeImmutableOnceRequested(t *testing.T) {
	svc, _, requests := setupAssetService()
	created, err := svc.Create(context.Background(), hrIdent(), AssetInput{Name: "Laptop", Type: models.TypeReturnable, Quantity: 3})
	if err != nil {
		t.Fatal(err)
	}

	// Type edits are fine while nothing references the asset.
	updated, err := svc.Update(context.Background(), hrIdent(), created.ID, AssetInput{Name: "Laptop", Type: models.TypeNonReturnable, Quantity: 3})
	if err != nil {
		t.Fatalf("type change on unreferenced asset failed: %v", err)
	}
	if updated.Type != models.TypeNonReturnable {
		t.Errorf("type = %q after update", updated.Type)
	}

	ref := &models.Request{AssetID: created.ID, HREmail: testHR, Status: models.StatusPending, AssetName: "Laptop", AssetType: models.TypeNonReturnable}
	if err := requests.Insert(context.Background(), ref); err != nil {
		t.Fatal(err)
	}

	_, err = svc.Update(context.Background(), hrIdent(), created.ID, AssetInput{Name: "Laptop", Type: models.TypeReturnable, Quantity: 3})
	expectKind(t, err, errs.KindInvalidArgument)

	// Non-type edits stay allowed.
	if _, err := svc.Update(context.Background(), hrIdent(), created.ID, AssetInput{Name: "Laptop 16", Type: models.TypeNonReturnable, Quantity: 9}); err != nil {
		t.Errorf("name/quantity edit on referenced asset failed: %v", err)
	}
}

func TestUpdateAsset_ForeignScope(t *testing.T) {
	svc, _, _ := setupAssetService()
	created, err := svc.Create(context.Background(), hrIdent(), AssetInput{Name: "Laptop", Type: models.TypeReturnable, Quantity: 3})
	if err != nil {
		t.Fatal(err)
	}

	otherHR := Identity{Email: "other-hr@corebits.test", Role: models.RoleHR}
	_, err = svc.Update(context.Background(), otherHR, created.ID, AssetInput{Name: "Hijacked", Type: models.TypeReturnable, Quantity: 3})
	expectKind(t, err, errs.KindForbidden)
}

func TestDeleteAsset(t *testing.T) {
	svc, _, _ := setupAssetService()
	created, err := svc.Create(context.Background(), hrIdent(), AssetInput{Name: "Laptop", Type: models.TypeReturnable, Quantity: 3})
	if err != nil {
		t.Fatal(err)
	}

	otherHR := Identity{Email: "other-hr@corebits.test", Role: models.RoleHR}
	err = svc.Delete(context.Background(), otherHR, created.ID)
	expectKind(t, err, errs.KindForbidden)

	if err := svc.Delete(context.Background(), hrIdent(), created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, err = svc.Get(context.Background(), hrIdent(), created.ID)
	expectKind(t, err, errs.KindNotFound)

	err = svc.Delete(context.Background(), hrIdent(), primitive.NewObjectID())
	expectKind(t, err, errs.KindNotFound)
}

// An approved request still owes a return increment against the asset
// record, and a pending one would approve against nothing. Settled
// (returned) requests hold only snapshots and must not pin the asset.
func TestDeleteAsset_BlockedByOpenRequests(t *testing.T) {
	svc, _, requests := setupAssetService()
	created, err := svc.Create(context.Background(), hrIdent(), AssetInput{Name: "Laptop", Type: models.TypeReturnable, Quantity: 3})
	if err != nil {
		t.Fatal(err)
	}

	ref := &models.Request{AssetID: created.ID, HREmail: testHR, Status: models.StatusPending, AssetName: "Laptop", AssetType: models.TypeReturnable}
	if err := requests.Insert(context.Background(), ref); err != nil {
		t.Fatal(err)
	}

	err = svc.Delete(context.Background(), hrIdent(), created.ID)
	expectKind(t, err, errs.KindInvalidArgument)
	if _, err := svc.Get(context.Background(), hrIdent(), created.ID); err != nil {
		t.Fatalf("blocked delete must leave the asset in place: %v", err)
	}

	now := time.Now().UTC()
	if _, err := requests.MarkApproved(context.Background(), ref.ID, now); err != nil {
		t.Fatal(err)
	}
	if _, err := requests.MarkReturned(context.Background(), ref.ID, now); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), hrIdent(), created.ID); err != nil {
		t.Errorf("delete with only settled requests failed: %v", err)
	}
}
