package Controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Mehfil/Models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := Models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// newTestApp wires the API routes without the auth middleware so handlers
// can be exercised directly.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	app := fiber.New()

	vendors := NewVendorController(db)
	transactions := NewTransactionController(db)
	expenses := NewExpenseController(db)
	bookings := NewBookingController(db)
	analytics := NewAnalyticsController(db)

	api := app.Group("/api")
	api.Get("/analytics/summary", analytics.Summary)
	api.Get("/analytics/monthly", analytics.MonthlyTransactions)
	api.Get("/analytics/top-vendors", analytics.TopVendors)
	api.Get("/analytics/recent-activity", analytics.RecentActivity)
	api.Get("/vendors", vendors.GetVendors)
	api.Post("/vendors", vendors.CreateVendor)
	api.Get("/vendors/:id", vendors.GetVendor)
	api.Put("/vendors/:id", vendors.UpdateVendor)
	api.Delete("/vendors/:id", vendors.DeleteVendor)
	api.Get("/vendors/:id/balance", vendors.GetVendorBalance)

	api.Post("/vendor-transactions", transactions.CreateTransaction)
	api.Get("/vendor-transactions/:vendor_id", transactions.GetVendorTransactions)

	api.Get("/expenses", expenses.GetExpenses)
	api.Post("/expenses", expenses.CreateExpense)
	api.Put("/expenses", expenses.UpdateExpense)
	api.Delete("/expenses/:id", expenses.DeleteExpense)
	api.Get("/expenses/booking/:booking_id", expenses.GetExpensesByBooking)

	api.Get("/bookings", bookings.GetBookings)
	api.Post("/bookings", bookings.CreateBooking)
	api.Get("/bookings/:id", bookings.GetBooking)
	api.Put("/bookings/:id", bookings.UpdateBooking)
	api.Delete("/bookings/:id", bookings.DeleteBooking)
	api.Post("/bookings/:id/payments", bookings.AddPayment)
	api.Get("/bookings/:id/payments", bookings.GetPayments)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	resp.Body.Close()

	var decoded map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("response %s %s is not a JSON object: %v\n%s", method, path, err, raw)
		}
	}
	return resp, decoded
}

func createVendor(t *testing.T, db *gorm.DB, name string) Models.Vendor {
	t.Helper()
	vendor := Models.Vendor{Name: name}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("failed to create vendor: %v", err)
	}
	return vendor
}
