package Controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Mehfil/Models"
)

// BookingController handles booking-related API endpoints
type BookingController struct {
	DB *gorm.DB
}

// NewBookingController creates a new BookingController
func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{DB: db}
}

type BookingPaymentInput struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Date   string  `json:"date"`
	Method string  `json:"method"`
}

type BookingInput struct {
	FunctionDate  string                `json:"functionDate" validate:"required,datetime=2006-01-02"`
	Guests        int                   `json:"guests" validate:"gte=0"`
	FunctionType  string                `json:"functionType" validate:"required"`
	BookingBy     string                `json:"bookingBy" validate:"required"`
	Address       string                `json:"address"`
	CNIC          string                `json:"cnic"`
	ContactNumber string                `json:"contactNumber"`
	StartTime     string                `json:"startTime"`
	EndTime       string                `json:"endTime"`
	BookingDays   int                   `json:"bookingDays"`
	BookingType   string                `json:"bookingType" validate:"omitempty,oneof=perHead fixed"`
	CostPerHead   float64               `json:"costPerHead" validate:"gte=0"`
	FixedRate     float64               `json:"fixedRate" validate:"gte=0"`
	BookingDate   string                `json:"bookingDate" validate:"omitempty,datetime=2006-01-02"`
	TotalCost     float64               `json:"totalCost" validate:"gte=0"`
	Advance       float64               `json:"advance" validate:"gte=0"`
	DJCharges     float64               `json:"djCharges"`
	DecorCharges  float64               `json:"decorCharges"`
	TMACharges    float64               `json:"tmaCharges"`
	OtherCharges  float64               `json:"otherCharges"`
	SpecialNotes  string                `json:"specialNotes"`
	MenuItems     []string              `json:"menuItems"`
	Payments      []BookingPaymentInput `json:"payments"`
}

// BookingResponse flattens menu items to plain strings the way the frontend
// expects them.
type BookingResponse struct {
	Models.Booking
	MenuItems []string                `json:"menuItems"`
	Payments  []Models.BookingPayment `json:"payments"`
}

// GetBookings retrieves all bookings with their menu items and payments,
// most recent function first
func (c *BookingController) GetBookings(ctx *fiber.Ctx) error {
	var bookings []Models.Booking
	result := c.DB.Preload("MenuItems").Preload("Payments").
		Order("function_date DESC").Find(&bookings)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve bookings"})
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, toBookingResponse(b))
	}
	return ctx.JSON(fiber.Map{"data": responses})
}

// GetBooking retrieves a single booking by ID
func (c *BookingController) GetBooking(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var booking Models.Booking
	result := c.DB.Preload("MenuItems").Preload("Payments").First(&booking, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	return ctx.JSON(toBookingResponse(booking))
}

// CreateBooking creates a booking with its menu items and payments in a
// single database transaction. Balance is derived, never taken from input.
func (c *BookingController) CreateBooking(ctx *fiber.Ctx) error {
	var input BookingInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if fields := validateStruct(input); fields != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Function date, function type, and booking by are required", "fields": fields})
	}

	booking := bookingFromInput(input)

	tx := c.DB.Begin()
	if tx.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start transaction"})
	}

	if err := tx.Create(&booking).Error; err != nil {
		tx.Rollback()
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unable to create booking"})
	}

	if err := replaceBookingChildren(tx, booking.ID, input.MenuItems, input.Payments); err != nil {
		tx.Rollback()
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unable to save booking details"})
	}

	if err := tx.Commit().Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	c.DB.Preload("MenuItems").Preload("Payments").First(&booking, booking.ID)
	return ctx.Status(fiber.StatusCreated).JSON(toBookingResponse(booking))
}

// UpdateBooking updates a booking; menu items and payments are replaced
// wholesale when provided
func (c *BookingController) UpdateBooking(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var booking Models.Booking
	if result := c.DB.First(&booking, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	var input BookingInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if fields := validateStruct(input); fields != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Function date, function type, and booking by are required", "fields": fields})
	}

	updated := bookingFromInput(input)
	updated.ID = booking.ID
	updated.CreatedAt = booking.CreatedAt

	tx := c.DB.Begin()
	if tx.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start transaction"})
	}

	if err := tx.Save(&updated).Error; err != nil {
		tx.Rollback()
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unable to update booking"})
	}

	if err := replaceBookingChildren(tx, updated.ID, input.MenuItems, input.Payments); err != nil {
		tx.Rollback()
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unable to save booking details"})
	}

	if err := tx.Commit().Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	c.DB.Preload("MenuItems").Preload("Payments").First(&updated, updated.ID)
	return ctx.JSON(toBookingResponse(updated))
}

// DeleteBooking deletes a booking and its child records
func (c *BookingController) DeleteBooking(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var booking Models.Booking
	if result := c.DB.First(&booking, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	if result := c.DB.Select("MenuItems", "Payments").Delete(&booking); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unable to delete booking"})
	}

	return ctx.JSON(fiber.Map{"message": "Booking deleted successfully"})
}

// AddPayment appends a payment to a booking and bumps the advance so the
// balance stays consistent
func (c *BookingController) AddPayment(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var booking Models.Booking
	if result := c.DB.First(&booking, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	var input BookingPaymentInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if fields := validateStruct(input); fields != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Amount is required and must be greater than 0", "fields": fields})
	}

	err = c.DB.Transaction(func(tx *gorm.DB) error {
		payment := paymentRow(booking.ID, input)
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		booking.Advance += payment.Amount
		booking.Balance = booking.TotalCost - booking.Advance
		return tx.Save(&booking).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unable to add payment"})
	}

	c.DB.Preload("MenuItems").Preload("Payments").First(&booking, booking.ID)
	return ctx.JSON(toBookingResponse(booking))
}

// GetPayments lists a booking's payments
func (c *BookingController) GetPayments(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var booking Models.Booking
	if result := c.DB.First(&booking, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	var payments []Models.BookingPayment
	if result := c.DB.Where("booking_id = ?", booking.ID).Find(&payments); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve payments"})
	}

	return ctx.JSON(fiber.Map{"payments": payments})
}

func bookingFromInput(input BookingInput) Models.Booking {
	if input.BookingDays == 0 {
		input.BookingDays = 1
	}
	if input.BookingType == "" {
		input.BookingType = "perHead"
	}
	if input.BookingDate == "" {
		input.BookingDate = time.Now().Format("2006-01-02")
	}

	return Models.Booking{
		FunctionDate:  input.FunctionDate,
		Guests:        input.Guests,
		FunctionType:  input.FunctionType,
		BookingBy:     input.BookingBy,
		Address:       input.Address,
		CNIC:          input.CNIC,
		ContactNumber: input.ContactNumber,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		BookingDays:   input.BookingDays,
		BookingType:   input.BookingType,
		CostPerHead:   input.CostPerHead,
		FixedRate:     input.FixedRate,
		BookingDate:   input.BookingDate,
		TotalCost:     input.TotalCost,
		Advance:       input.Advance,
		Balance:       input.TotalCost - input.Advance,
		DJCharges:     input.DJCharges,
		DecorCharges:  input.DecorCharges,
		TMACharges:    input.TMACharges,
		OtherCharges:  input.OtherCharges,
		SpecialNotes:  input.SpecialNotes,
	}
}

// replaceBookingChildren swaps out a booking's menu items and payments.
// Zero or negative payment rows are skipped, not rejected.
func replaceBookingChildren(tx *gorm.DB, bookingID uint, menuItems []string, payments []BookingPaymentInput) error {
	if menuItems != nil {
		if err := tx.Where("booking_id = ?", bookingID).Delete(&Models.BookingMenuItem{}).Error; err != nil {
			return err
		}
		for _, item := range menuItems {
			row := Models.BookingMenuItem{BookingID: bookingID, MenuItem: item}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
	}

	if payments != nil {
		if err := tx.Where("booking_id = ?", bookingID).Delete(&Models.BookingPayment{}).Error; err != nil {
			return err
		}
		for _, p := range payments {
			if p.Amount <= 0 {
				continue
			}
			row := paymentRow(bookingID, p)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func paymentRow(bookingID uint, input BookingPaymentInput) Models.BookingPayment {
	date := input.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if len(date) > 10 {
		date = date[:10]
	}
	method := input.Method
	if method == "" {
		method = "Cash"
	}
	return Models.BookingPayment{
		BookingID:     bookingID,
		Amount:        input.Amount,
		PaymentDate:   date,
		PaymentMethod: method,
	}
}

func toBookingResponse(booking Models.Booking) BookingResponse {
	items := make([]string, 0, len(booking.MenuItems))
	for _, m := range booking.MenuItems {
		items = append(items, m.MenuItem)
	}
	payments := booking.Payments
	if payments == nil {
		payments = []Models.BookingPayment{}
	}
	return BookingResponse{Booking: booking, MenuItems: items, Payments: payments}
}
