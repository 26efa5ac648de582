package Controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Mehfil/Ledger"
	"Mehfil/Models"
)

// VendorController handles vendor-related API endpoints
type VendorController struct {
	DB     *gorm.DB
	Ledger *Ledger.Engine
}

// NewVendorController creates a new VendorController
func NewVendorController(db *gorm.DB) *VendorController {
	return &VendorController{DB: db, Ledger: Ledger.NewEngine(db)}
}

// CreateVendorInput allows totals to be seeded when migrating an existing
// vendor's books into the system.
type CreateVendorInput struct {
	Name          string  `json:"name" validate:"required"`
	ContactPerson string  `json:"contactPerson"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email" validate:"omitempty,email"`
	Address       string  `json:"address"`
	TotalCredit   float64 `json:"totalCredit" validate:"gte=0"`
	TotalPaid     float64 `json:"totalPaid" validate:"gte=0"`
}

// GetVendors retrieves all vendors, ordered by name
func (c *VendorController) GetVendors(ctx *fiber.Ctx) error {
	var vendors []Models.Vendor
	result := c.DB.Order("name ASC").Find(&vendors)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve vendors"})
	}

	return ctx.JSON(fiber.Map{"data": vendors})
}

// GetVendor retrieves a single vendor by ID
func (c *VendorController) GetVendor(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vendor ID"})
	}

	var vendor Models.Vendor
	result := c.DB.First(&vendor, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
	}

	return ctx.JSON(vendor)
}

// CreateVendor creates a new vendor
func (c *VendorController) CreateVendor(ctx *fiber.Ctx) error {
	var input CreateVendorInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if fields := validateStruct(input); fields != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "fields": fields})
	}

	vendor := Models.Vendor{
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
		TotalCredit:   input.TotalCredit,
		TotalPaid:     input.TotalPaid,
	}

	result := c.DB.Create(&vendor)
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "unique constraint") ||
			strings.Contains(result.Error.Error(), "UNIQUE constraint") ||
			strings.Contains(result.Error.Error(), "Duplicate entry") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A vendor with this name already exists",
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create vendor",
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(vendor)
}

// UpdateVendorInput uses pointers so absent fields keep their current values,
// including the cached totals.
type UpdateVendorInput struct {
	Name          *string  `json:"name"`
	ContactPerson *string  `json:"contactPerson"`
	Phone         *string  `json:"phone"`
	Email         *string  `json:"email" validate:"omitempty,email"`
	Address       *string  `json:"address"`
	TotalCredit   *float64 `json:"totalCredit" validate:"omitempty,gte=0"`
	TotalPaid     *float64 `json:"totalPaid" validate:"omitempty,gte=0"`
}

// UpdateVendor updates an existing vendor
func (c *VendorController) UpdateVendor(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vendor ID"})
	}

	var vendor Models.Vendor
	result := c.DB.First(&vendor, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
	}

	var input UpdateVendorInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if fields := validateStruct(input); fields != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "fields": fields})
	}

	if input.Name != nil {
		vendor.Name = *input.Name
	}
	if input.ContactPerson != nil {
		vendor.ContactPerson = *input.ContactPerson
	}
	if input.Phone != nil {
		vendor.Phone = *input.Phone
	}
	if input.Email != nil {
		vendor.Email = *input.Email
	}
	if input.Address != nil {
		vendor.Address = *input.Address
	}
	if input.TotalCredit != nil {
		vendor.TotalCredit = *input.TotalCredit
	}
	if input.TotalPaid != nil {
		vendor.TotalPaid = *input.TotalPaid
	}

	if result := c.DB.Save(&vendor); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update vendor"})
	}

	return ctx.JSON(vendor)
}

// DeleteVendor deletes a vendor, refused while any ledger entry references it
func (c *VendorController) DeleteVendor(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vendor ID"})
	}

	var vendor Models.Vendor
	result := c.DB.First(&vendor, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
	}

	has, err := c.Ledger.HasTransactions(vendor.ID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check vendor transactions"})
	}
	if has {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete vendor with transaction history. Please delete all transactions first.",
		})
	}

	if result := c.DB.Delete(&vendor); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete vendor"})
	}

	return ctx.JSON(fiber.Map{"message": "Vendor deleted successfully"})
}

// GetVendorBalance returns the vendor's cached totals and derived balance
func (c *VendorController) GetVendorBalance(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vendor ID"})
	}

	var vendor Models.Vendor
	result := c.DB.First(&vendor, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
	}

	return ctx.JSON(fiber.Map{
		"vendorId":    vendor.ID,
		"name":        vendor.Name,
		"totalCredit": vendor.TotalCredit,
		"totalPaid":   vendor.TotalPaid,
		"balance":     vendor.OutstandingBalance(),
	})
}
