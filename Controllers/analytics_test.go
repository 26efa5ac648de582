package Controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"Mehfil/Ledger"
	"Mehfil/Models"
)

func doJSONList(t *testing.T, app *fiber.App, path string) []map[string]interface{} {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	if err != nil {
		t.Fatalf("request %s failed: %v", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for %s, got %d", path, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	resp.Body.Close()

	var decoded []map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("response %s is not a JSON array: %v\n%s", path, err, raw)
	}
	return decoded
}

func TestAnalyticsSummary(t *testing.T) {
	app, db := newTestApp(t)
	caterer := createVendor(t, db, "Caterer")
	createVendor(t, db, "Florist")

	vendorID := caterer.ID
	expenses := []Models.Expense{
		{VendorID: &vendorID, Title: "Chicken", Category: "Food", Amount: 500, PaymentStatus: Models.PaymentStatusCredit},
		{VendorID: &vendorID, Title: "Rice", Category: "Food", Amount: 250, PaymentStatus: Models.PaymentStatusCredit},
		{VendorID: &vendorID, Title: "Cash buy", Category: "Food", Amount: 999, PaymentStatus: Models.PaymentStatusPaid},
		{Title: "Unlinked", Category: "Misc", Amount: 111, PaymentStatus: Models.PaymentStatusCredit},
	}
	if err := db.Create(&expenses).Error; err != nil {
		t.Fatalf("seed expenses: %v", err)
	}

	engine := Ledger.NewEngine(db)
	if _, err := engine.RecordTransaction(Ledger.TransactionInput{
		VendorID: caterer.ID,
		Type:     Models.TransactionPayment,
		Amount:   300,
	}); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	resp, body := doJSON(t, app, "GET", "/api/analytics/summary", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if body["vendor_count"].(float64) != 2 {
		t.Errorf("expected vendor_count 2, got %v", body["vendor_count"])
	}
	if body["total_credits"].(float64) != 750 {
		t.Errorf("expected total_credits 750 from vendor-linked credit expenses, got %v", body["total_credits"])
	}
	if body["total_paid"].(float64) != 300 {
		t.Errorf("expected total_paid 300, got %v", body["total_paid"])
	}
	if body["net_balance"].(float64) != 450 {
		t.Errorf("expected net_balance 450, got %v", body["net_balance"])
	}
}

func TestAnalyticsTopVendors(t *testing.T) {
	app, db := newTestApp(t)
	big := createVendor(t, db, "Decor House")
	small := createVendor(t, db, "Valet")
	createVendor(t, db, "No Activity")

	engine := Ledger.NewEngine(db)
	mustRecordTx(t, engine, big.ID, Models.TransactionCredit, 2000)
	mustRecordTx(t, engine, big.ID, Models.TransactionPayment, 500)
	mustRecordTx(t, engine, small.ID, Models.TransactionCredit, 100)

	results := doJSONList(t, app, "/api/analytics/top-vendors")
	if len(results) != 2 {
		t.Fatalf("expected 2 vendors with activity, got %d", len(results))
	}

	first := results[0]
	if first["name"].(string) != "Decor House" {
		t.Fatalf("expected Decor House first by net volume, got %v", first["name"])
	}
	if first["credits"].(float64) != 2000 || first["payments"].(float64) != 500 {
		t.Errorf("unexpected sums: credits=%v payments=%v", first["credits"], first["payments"])
	}
	if first["net"].(float64) != 1500 {
		t.Errorf("expected net 1500, got %v", first["net"])
	}
	if first["transaction_count"].(float64) != 2 {
		t.Errorf("expected 2 transactions, got %v", first["transaction_count"])
	}
}

func TestAnalyticsRecentActivity(t *testing.T) {
	app, db := newTestApp(t)
	vendor := createVendor(t, db, "Sound System")

	engine := Ledger.NewEngine(db)
	if _, err := engine.RecordTransaction(Ledger.TransactionInput{
		VendorID: vendor.ID, Type: Models.TransactionCredit, Amount: 400, Date: "2026-05-01",
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := engine.RecordTransaction(Ledger.TransactionInput{
		VendorID: vendor.ID, Type: Models.TransactionPayment, Amount: 150, Date: "2026-05-02",
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	results := doJSONList(t, app, "/api/analytics/recent-activity")
	if len(results) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(results))
	}
	newest := results[0]
	if newest["date"].(string) != "2026-05-02" {
		t.Errorf("expected newest entry first, got date %v", newest["date"])
	}
	if newest["vendor_name"].(string) != "Sound System" {
		t.Errorf("expected joined vendor name, got %v", newest["vendor_name"])
	}
	if newest["type"].(string) != Models.TransactionPayment {
		t.Errorf("expected payment entry first, got %v", newest["type"])
	}
}

func TestAnalyticsMonthly(t *testing.T) {
	app, db := newTestApp(t)
	vendor := createVendor(t, db, "Lighting")

	engine := Ledger.NewEngine(db)
	today := time.Now().Format("2006-01-02")
	if _, err := engine.RecordTransaction(Ledger.TransactionInput{
		VendorID: vendor.ID, Type: Models.TransactionCredit, Amount: 600, Date: today,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	results := doJSONList(t, app, "/api/analytics/monthly")
	if len(results) != 12 {
		t.Fatalf("expected 12 months, got %d", len(results))
	}

	current := results[len(results)-1]
	if current["month"].(string) != time.Now().Format("Jan 2006") {
		t.Fatalf("expected current month last, got %v", current["month"])
	}
	if current["credits"].(float64) != 600 {
		t.Errorf("expected 600 credited this month, got %v", current["credits"])
	}
	if current["net"].(float64) != 600 {
		t.Errorf("expected net 600, got %v", current["net"])
	}
}

func mustRecordTx(t *testing.T, engine *Ledger.Engine, vendorID uint, txType string, amount float64) {
	t.Helper()
	if _, err := engine.RecordTransaction(Ledger.TransactionInput{
		VendorID: vendorID,
		Type:     txType,
		Amount:   amount,
	}); err != nil {
		t.Fatalf("record transaction: %v", err)
	}
}
