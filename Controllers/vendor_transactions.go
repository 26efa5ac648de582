package Controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Mehfil/Ledger"
	"Mehfil/Models"
)

// TransactionController handles vendor ledger API endpoints. Ledger entries
// are append-only: there is no update or delete route.
type TransactionController struct {
	DB     *gorm.DB
	Ledger *Ledger.Engine
}

// NewTransactionController creates a new TransactionController
func NewTransactionController(db *gorm.DB) *TransactionController {
	return &TransactionController{DB: db, Ledger: Ledger.NewEngine(db)}
}

// GetVendorTransactions retrieves all transactions for a specific vendor,
// newest first (date DESC, id DESC)
func (c *TransactionController) GetVendorTransactions(ctx *fiber.Ctx) error {
	vendorID, err := strconv.Atoi(ctx.Params("vendor_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vendor ID"})
	}

	// Verify vendor exists
	var vendor Models.Vendor
	if result := c.DB.First(&vendor, vendorID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
	}

	transactions, err := c.Ledger.Transactions(vendor.ID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve transactions"})
	}

	return ctx.JSON(fiber.Map{"data": transactions})
}

// CreateTransactionInput is a manual ledger entry: a payment made to a
// vendor, or a direct credit adjustment.
type CreateTransactionInput struct {
	VendorID    uint    `json:"vendorId" validate:"required"`
	ExpenseID   *uint   `json:"expenseId"`
	Type        string  `json:"type" validate:"required,oneof=credit payment"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description"`
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// CreateTransaction records a ledger entry and recomputes the vendor's
// totals in the same database transaction
func (c *TransactionController) CreateTransaction(ctx *fiber.Ctx) error {
	var input CreateTransactionInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if fields := validateStruct(input); fields != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Vendor ID, type, and amount are required", "fields": fields})
	}

	var vendor Models.Vendor
	if result := c.DB.First(&vendor, input.VendorID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
	}

	transaction, err := c.Ledger.RecordAndRecompute(Ledger.TransactionInput{
		VendorID:    input.VendorID,
		ExpenseID:   input.ExpenseID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
		Date:        input.Date,
	})
	if err != nil {
		if errors.Is(err, Ledger.ErrVendorRequired) ||
			errors.Is(err, Ledger.ErrInvalidType) ||
			errors.Is(err, Ledger.ErrInvalidAmount) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unable to create transaction"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(transaction)
}
