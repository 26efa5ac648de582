package Controllers

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Mehfil/Ledger"
	"Mehfil/Models"
)

// ExpenseController handles expense-related API endpoints. Credit-status
// expenses linked to a vendor drive the vendor ledger.
type ExpenseController struct {
	DB     *gorm.DB
	Ledger *Ledger.Engine
}

// NewExpenseController creates a new ExpenseController
func NewExpenseController(db *gorm.DB) *ExpenseController {
	return &ExpenseController{DB: db, Ledger: Ledger.NewEngine(db)}
}

// ExpenseResponse decorates an expense with its vendor's name for display.
type ExpenseResponse struct {
	Models.Expense
	Vendor string `json:"vendor,omitempty"`
}

type ExpensePaymentInput struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentDate   string  `json:"paymentDate"`
	PaymentMethod string  `json:"paymentMethod"`
}

type CreateExpenseInput struct {
	BookingID      *uint                 `json:"bookingId"`
	VendorID       *uint                 `json:"vendorId"`
	Title          string                `json:"title" validate:"required"`
	Category       string                `json:"category" validate:"required"`
	Amount         float64               `json:"amount" validate:"required,gt=0"`
	ReceiptImage   string                `json:"receiptImage"`
	PaymentStatus  string                `json:"paymentStatus" validate:"omitempty,oneof=paid credit"`
	DueDate        string                `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	PaymentHistory []ExpensePaymentInput `json:"paymentHistory"`
}

type UpdateExpenseInput struct {
	ID uint `json:"id" validate:"required"`
	CreateExpenseInput
}

// GetExpenses retrieves all expenses, newest first
func (c *ExpenseController) GetExpenses(ctx *fiber.Ctx) error {
	var expenses []Models.Expense
	result := c.DB.Preload("Payments").Order("id DESC").Find(&expenses)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve expenses"})
	}

	return ctx.JSON(fiber.Map{"data": c.withVendorNames(expenses)})
}

// GetExpensesByBooking retrieves expenses attached to a booking
func (c *ExpenseController) GetExpensesByBooking(ctx *fiber.Ctx) error {
	bookingID, err := strconv.Atoi(ctx.Params("booking_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var expenses []Models.Expense
	result := c.DB.Preload("Payments").Where("booking_id = ?", bookingID).Order("id DESC").Find(&expenses)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve expenses"})
	}

	return ctx.JSON(fiber.Map{"data": c.withVendorNames(expenses)})
}

// CreateExpense creates an expense. When the expense is credit-financed and
// linked to a vendor, a credit ledger entry is recorded and the vendor's
// totals recomputed in one database transaction. The expense itself is
// written first and survives a failed ledger event; the failure is logged
// and reported in the response.
func (c *ExpenseController) CreateExpense(ctx *fiber.Ctx) error {
	var input CreateExpenseInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if fields := validateStruct(input); fields != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title, category, and amount are required", "fields": fields})
	}

	if input.PaymentStatus == "" {
		input.PaymentStatus = Models.PaymentStatusPaid
	}

	expense := Models.Expense{
		BookingID:     input.BookingID,
		VendorID:      input.VendorID,
		Title:         input.Title,
		Category:      input.Category,
		Amount:        input.Amount,
		ReceiptImage:  saveReceiptImage(input.ReceiptImage),
		PaymentStatus: input.PaymentStatus,
		DueDate:       input.DueDate,
		Payments:      paymentRows(input.PaymentHistory),
	}

	if result := c.DB.Create(&expense); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unable to create expense"})
	}

	response := fiber.Map{}
	if expense.PaymentStatus == Models.PaymentStatusCredit && expense.VendorID != nil {
		expenseID := expense.ID
		_, err := c.Ledger.RecordAndRecompute(Ledger.TransactionInput{
			VendorID:    *expense.VendorID,
			ExpenseID:   &expenseID,
			Type:        Models.TransactionCredit,
			Amount:      expense.Amount,
			Description: "Expense: " + expense.Title,
			Date:        time.Now().Format("2006-01-02"),
		})
		if err != nil {
			// The expense stays; the books catch up on the next recompute.
			log.Printf("Failed to record ledger entry for expense %d: %v", expense.ID, err)
			response["warning"] = "Expense saved but vendor ledger update failed"
		}
	}

	response["expense"] = c.decorate(expense)
	return ctx.Status(fiber.StatusCreated).JSON(response)
}

// UpdateExpense updates an expense. A credit ledger entry is recorded only
// when the expense transitions into credit status and has no entry yet, so
// one credit expense never produces more than one credit transaction.
func (c *ExpenseController) UpdateExpense(ctx *fiber.Ctx) error {
	var input UpdateExpenseInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if fields := validateStruct(input); fields != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Expense ID, title, category, and amount are required", "fields": fields})
	}

	var expense Models.Expense
	if result := c.DB.First(&expense, input.ID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Expense not found"})
	}

	previousVendor := expense.VendorID

	if input.PaymentStatus == "" {
		input.PaymentStatus = Models.PaymentStatusPaid
	}

	expense.BookingID = input.BookingID
	expense.VendorID = input.VendorID
	expense.Title = input.Title
	expense.Category = input.Category
	expense.Amount = input.Amount
	expense.PaymentStatus = input.PaymentStatus
	expense.DueDate = input.DueDate
	if input.ReceiptImage != "" {
		expense.ReceiptImage = saveReceiptImage(input.ReceiptImage)
	}

	if result := c.DB.Save(&expense); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unable to update expense"})
	}

	if input.PaymentHistory != nil {
		if err := c.replacePaymentHistory(expense.ID, input.PaymentHistory); err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unable to update payment history"})
		}
	}

	response := fiber.Map{}
	if err := c.reconcileLedger(&expense, previousVendor); err != nil {
		log.Printf("Failed to reconcile ledger for expense %d: %v", expense.ID, err)
		response["warning"] = "Expense saved but vendor ledger update failed"
	}

	c.DB.Preload("Payments").First(&expense, expense.ID)
	response["expense"] = c.decorate(expense)
	return ctx.JSON(response)
}

// DeleteExpense deletes an expense. The linked vendor's totals are
// recomputed; ledger entries are never deleted.
func (c *ExpenseController) DeleteExpense(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expense ID"})
	}

	var expense Models.Expense
	if result := c.DB.First(&expense, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Expense not found"})
	}

	if result := c.DB.Select("Payments").Delete(&expense); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unable to delete expense"})
	}

	if expense.VendorID != nil {
		if err := c.Ledger.RecomputeTotals(*expense.VendorID); err != nil {
			log.Printf("Failed to recompute totals for vendor %d: %v", *expense.VendorID, err)
		}
	}

	return ctx.JSON(fiber.Map{"message": "Expense deleted successfully"})
}

// reconcileLedger records the credit entry for an expense that moved into
// credit status, then recomputes totals for every vendor the change touched.
func (c *ExpenseController) reconcileLedger(expense *Models.Expense, previousVendor *uint) error {
	if expense.PaymentStatus == Models.PaymentStatusCredit && expense.VendorID != nil {
		var existing int64
		if err := c.DB.Model(&Models.VendorTransaction{}).
			Where("expense_id = ?", expense.ID).
			Count(&existing).Error; err != nil {
			return err
		}

		if existing == 0 {
			expenseID := expense.ID
			_, err := c.Ledger.RecordAndRecompute(Ledger.TransactionInput{
				VendorID:    *expense.VendorID,
				ExpenseID:   &expenseID,
				Type:        Models.TransactionCredit,
				Amount:      expense.Amount,
				Description: "Expense: " + expense.Title,
				Date:        time.Now().Format("2006-01-02"),
			})
			if err != nil {
				return err
			}
		} else if err := c.Ledger.RecomputeTotals(*expense.VendorID); err != nil {
			return err
		}
	} else if expense.VendorID != nil {
		if err := c.Ledger.RecomputeTotals(*expense.VendorID); err != nil {
			return err
		}
	}

	// The previous vendor's totals go stale when the link moves
	if previousVendor != nil && (expense.VendorID == nil || *previousVendor != *expense.VendorID) {
		return c.Ledger.RecomputeTotals(*previousVendor)
	}
	return nil
}

func (c *ExpenseController) replacePaymentHistory(expenseID uint, payments []ExpensePaymentInput) error {
	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", expenseID).Delete(&Models.ExpensePayment{}).Error; err != nil {
			return err
		}
		rows := paymentRows(payments)
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ExpenseID = expenseID
		}
		return tx.Create(&rows).Error
	})
}

func paymentRows(inputs []ExpensePaymentInput) []Models.ExpensePayment {
	var rows []Models.ExpensePayment
	for _, p := range inputs {
		if p.Amount <= 0 {
			continue
		}
		date := p.PaymentDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		} else if len(date) > 10 {
			// ISO timestamps from the frontend keep only the date part
			date = date[:10]
		}
		method := p.PaymentMethod
		if method == "" {
			method = "Cash"
		}
		rows = append(rows, Models.ExpensePayment{
			Amount:        p.Amount,
			PaymentDate:   date,
			PaymentMethod: method,
		})
	}
	return rows
}

func (c *ExpenseController) decorate(expense Models.Expense) ExpenseResponse {
	response := ExpenseResponse{Expense: expense}
	if expense.VendorID != nil {
		var vendor Models.Vendor
		if err := c.DB.First(&vendor, *expense.VendorID).Error; err == nil {
			response.Vendor = vendor.Name
		}
	}
	return response
}

func (c *ExpenseController) withVendorNames(expenses []Models.Expense) []ExpenseResponse {
	// Resolve names in one pass instead of a query per row
	names := make(map[uint]string)
	var vendors []Models.Vendor
	if err := c.DB.Find(&vendors).Error; err == nil {
		for _, v := range vendors {
			names[v.ID] = v.Name
		}
	}

	responses := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		item := ExpenseResponse{Expense: e}
		if e.VendorID != nil {
			item.Vendor = names[*e.VendorID]
		}
		responses = append(responses, item)
	}
	return responses
}
