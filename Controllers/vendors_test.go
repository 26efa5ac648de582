package Controllers

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"Mehfil/Ledger"
	"Mehfil/Models"
)

func TestCreateVendorDuplicateName(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/vendors", map[string]interface{}{"name": "Caterer"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, app, "POST", "/api/vendors", map[string]interface{}{"name": "Caterer"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate name, got %d", resp.StatusCode)
	}
	if body["error"] == nil {
		t.Fatal("expected an error message in the response")
	}
}

func TestDeleteVendorWithoutTransactions(t *testing.T) {
	app, db := newTestApp(t)
	vendor := createVendor(t, db, "Florist")

	resp, _ := doJSON(t, app, "DELETE", "/api/vendors/"+strconv.Itoa(int(vendor.ID)), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var count int64
	db.Model(&Models.Vendor{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected vendor to be deleted, found %d rows", count)
	}
}

func TestDeleteVendorWithTransactionsRefused(t *testing.T) {
	app, db := newTestApp(t)
	vendor := createVendor(t, db, "Decorator")

	engine := Ledger.NewEngine(db)
	if _, err := engine.RecordTransaction(Ledger.TransactionInput{
		VendorID: vendor.ID,
		Type:     Models.TransactionCredit,
		Amount:   500,
	}); err != nil {
		t.Fatalf("failed to record transaction: %v", err)
	}

	resp, body := doJSON(t, app, "DELETE", "/api/vendors/"+strconv.Itoa(int(vendor.ID)), nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	msg, _ := body["error"].(string)
	if !strings.Contains(msg, "transaction history") {
		t.Fatalf("expected a descriptive refusal, got %q", msg)
	}

	var count int64
	db.Model(&Models.Vendor{}).Count(&count)
	if count != 1 {
		t.Fatal("vendor must survive a refused delete")
	}
}

func TestUpdateVendorPreservesTotalsWhenAbsent(t *testing.T) {
	app, db := newTestApp(t)
	vendor := Models.Vendor{Name: "Sound System", TotalCredit: 1200, TotalPaid: 400}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("failed to create vendor: %v", err)
	}

	resp, _ := doJSON(t, app, "PUT", "/api/vendors/"+strconv.Itoa(int(vendor.ID)), map[string]interface{}{
		"phone": "0300-1234567",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var reloaded Models.Vendor
	db.First(&reloaded, vendor.ID)
	if reloaded.Phone != "0300-1234567" {
		t.Fatalf("phone not updated: %q", reloaded.Phone)
	}
	if reloaded.TotalCredit != 1200 || reloaded.TotalPaid != 400 {
		t.Fatalf("totals must be preserved, got credit=%v paid=%v", reloaded.TotalCredit, reloaded.TotalPaid)
	}
}

func TestGetVendorBalance(t *testing.T) {
	app, db := newTestApp(t)
	vendor := Models.Vendor{Name: "Lighting", TotalCredit: 900, TotalPaid: 250}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("failed to create vendor: %v", err)
	}

	resp, body := doJSON(t, app, "GET", "/api/vendors/"+strconv.Itoa(int(vendor.ID))+"/balance", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["balance"].(float64) != 650 {
		t.Fatalf("expected balance 650, got %v", body["balance"])
	}
}

func TestCreateTransactionRecomputesTotals(t *testing.T) {
	app, db := newTestApp(t)
	vendor := createVendor(t, db, "Tent Service")

	resp, _ := doJSON(t, app, "POST", "/api/vendor-transactions", map[string]interface{}{
		"vendorId": vendor.ID,
		"type":     "payment",
		"amount":   300,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var reloaded Models.Vendor
	db.First(&reloaded, vendor.ID)
	if reloaded.TotalPaid != 300 {
		t.Fatalf("expected totalPaid 300 after recompute, got %v", reloaded.TotalPaid)
	}
}

func TestCreateTransactionUnknownVendor(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/vendor-transactions", map[string]interface{}{
		"vendorId": 42,
		"type":     "credit",
		"amount":   100,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown vendor, got %d", resp.StatusCode)
	}
}
