package FiberConfig

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"Mehfil/Controllers"
	"Mehfil/Models"
	"Mehfil/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	authController := Controllers.NewAuthController(db)
	vendorController := Controllers.NewVendorController(db)
	transactionController := Controllers.NewTransactionController(db)
	expenseController := Controllers.NewExpenseController(db)
	bookingController := Controllers.NewBookingController(db)
	analyticsController := Controllers.NewAnalyticsController(db)

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth routes
	api.Post("/login", authController.Login)
	api.Post("/logout", authController.Logout)
	api.Get("/user", middleware.Verify(0), authController.User)
	api.Post("/register", middleware.Verify(4), authController.Register)

	// Vendor routes
	vendors := api.Group("/vendors", middleware.Verify(1))
	vendors.Get("/", vendorController.GetVendors)
	vendors.Post("/", vendorController.CreateVendor)
	vendors.Get("/:id", vendorController.GetVendor)
	vendors.Put("/:id", vendorController.UpdateVendor)
	vendors.Delete("/:id", vendorController.DeleteVendor)
	vendors.Get("/:id/balance", vendorController.GetVendorBalance)

	// Vendor transaction routes
	transactions := api.Group("/vendor-transactions", middleware.Verify(1))
	transactions.Post("/", transactionController.CreateTransaction)
	transactions.Get("/:vendor_id", transactionController.GetVendorTransactions)

	// Analytics routes
	analytics := api.Group("/analytics", middleware.Verify(1))
	analytics.Get("/summary", analyticsController.Summary)
	analytics.Get("/monthly", analyticsController.MonthlyTransactions)
	analytics.Get("/top-vendors", analyticsController.TopVendors)
	analytics.Get("/recent-activity", analyticsController.RecentActivity)

	// Expense routes
	expenses := api.Group("/expenses", middleware.Verify(1))
	expenses.Get("/", expenseController.GetExpenses)
	expenses.Post("/", expenseController.CreateExpense)
	expenses.Put("/", expenseController.UpdateExpense)
	expenses.Delete("/:id", expenseController.DeleteExpense)
	expenses.Get("/booking/:booking_id", expenseController.GetExpensesByBooking)

	// Booking routes
	bookings := api.Group("/bookings", middleware.Verify(1))
	bookings.Get("/", bookingController.GetBookings)
	bookings.Post("/", bookingController.CreateBooking)
	bookings.Get("/:id", bookingController.GetBooking)
	bookings.Put("/:id", bookingController.UpdateBooking)
	bookings.Delete("/:id", bookingController.DeleteBooking)
	bookings.Post("/:id/payments", bookingController.AddPayment)
	bookings.Get("/:id/payments", bookingController.GetPayments)

	// Logs API routes
	api.Get("/logs", middleware.Verify(4), Controllers.GetLogs)
	api.Get("/logs/stats", middleware.Verify(4), Controllers.GetLogStats)
}

func FiberConfig() {
	fmt.Println("Server Up...")
	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true, // Important for cookies
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB)

	// Serve receipt images
	app.Static("/uploads/receipts", "./uploads/receipts", fiber.Static{Compress: true, CacheDuration: time.Second * 10})

	app.Listen(":3001")
}
