package Controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Mehfil/Models"
)

// AnalyticsController handles analytics-related API endpoints
type AnalyticsController struct {
	DB *gorm.DB
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{DB: db}
}

// Summary returns the overall financial summary across all vendors. Credits
// come from credit-status expenses and paid from payment transactions, the
// same sources RecomputeTotals uses.
func (c *AnalyticsController) Summary(ctx *fiber.Ctx) error {
	var summary Models.TransactionSummary

	c.DB.Model(&Models.Vendor{}).Count(&summary.VendorCount)

	c.DB.Model(&Models.Expense{}).
		Where("vendor_id IS NOT NULL AND payment_status = ?", Models.PaymentStatusCredit).
		Select("COALESCE(SUM(amount), 0)").Scan(&summary.TotalCredits)

	c.DB.Model(&Models.VendorTransaction{}).
		Where("type = ?", Models.TransactionPayment).
		Select("COALESCE(SUM(amount), 0)").Scan(&summary.TotalPaid)

	summary.NetBalance = summary.TotalCredits - summary.TotalPaid

	return ctx.JSON(summary)
}

// MonthlyTransactions returns ledger activity summed by month for the last
// 12 months
func (c *AnalyticsController) MonthlyTransactions(ctx *fiber.Ctx) error {
	type MonthlyData struct {
		Month    string  `json:"month"`
		Credits  float64 `json:"credits"`
		Payments float64 `json:"payments"`
		Net      float64 `json:"net"`
	}

	endDate := time.Now()
	startDate := endDate.AddDate(-1, 0, 0)

	// Dates are stored as YYYY-MM-DD strings, so the range and the month
	// grouping both work on the raw column.
	var transactions []Models.VendorTransaction
	result := c.DB.Where("transaction_date BETWEEN ? AND ?",
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02")).
		Find(&transactions)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to retrieve transactions"})
	}

	// Create entries for all 12 months, even with no data
	monthlySummary := make(map[string]*MonthlyData)
	for i := 0; i < 12; i++ {
		date := endDate.AddDate(0, -i, 0)
		monthlySummary[date.Format("2006-01")] = &MonthlyData{
			Month: date.Format("Jan 2006"),
		}
	}

	for _, txn := range transactions {
		if len(txn.TransactionDate) < 7 {
			continue
		}
		data, exists := monthlySummary[txn.TransactionDate[:7]]
		if !exists {
			continue
		}
		if txn.Type == Models.TransactionCredit {
			data.Credits += txn.Amount
		} else {
			data.Payments += txn.Amount
		}
		data.Net = data.Credits - data.Payments
	}

	// Chronological order, oldest month first
	response := make([]MonthlyData, 0, 12)
	for i := 11; i >= 0; i-- {
		date := endDate.AddDate(0, -i, 0)
		if data, exists := monthlySummary[date.Format("2006-01")]; exists {
			response = append(response, *data)
		}
	}

	return ctx.JSON(response)
}

// TopVendors returns the vendors with the most ledger activity
func (c *AnalyticsController) TopVendors(ctx *fiber.Ctx) error {
	type VendorSummary struct {
		ID       uint    `json:"id"`
		Name     string  `json:"name"`
		Credits  float64 `json:"credits"`
		Payments float64 `json:"payments"`
		Net      float64 `json:"net"`
		TxnCount int     `json:"transaction_count"`
	}

	var results []VendorSummary

	c.DB.Raw(`
		SELECT
			v.id,
			v.name,
			SUM(CASE WHEN t.type = 'credit' THEN t.amount ELSE 0 END) as credits,
			SUM(CASE WHEN t.type = 'payment' THEN t.amount ELSE 0 END) as payments,
			SUM(CASE WHEN t.type = 'credit' THEN t.amount ELSE -t.amount END) as net,
			COUNT(t.id) as txn_count
		FROM vendors v
		JOIN vendor_transactions t ON v.id = t.vendor_id
		WHERE v.deleted_at IS NULL
		AND t.deleted_at IS NULL
		GROUP BY v.id, v.name
		ORDER BY ABS(net) DESC
		LIMIT 5
	`).Scan(&results)

	return ctx.JSON(results)
}

// RecentActivity returns the most recent ledger entries across all vendors
func (c *AnalyticsController) RecentActivity(ctx *fiber.Ctx) error {
	type RecentTransaction struct {
		ID          uint    `json:"id"`
		Date        string  `json:"date"`
		VendorName  string  `json:"vendor_name"`
		Type        string  `json:"type"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
	}

	var results []RecentTransaction

	c.DB.Raw(`
		SELECT
			t.id,
			t.transaction_date as date,
			v.name as vendor_name,
			t.type,
			t.description,
			t.amount
		FROM vendor_transactions t
		JOIN vendors v ON t.vendor_id = v.id
		WHERE t.deleted_at IS NULL
		AND v.deleted_at IS NULL
		ORDER BY t.transaction_date DESC, t.id DESC
		LIMIT 10
	`).Scan(&results)

	return ctx.JSON(results)
}
