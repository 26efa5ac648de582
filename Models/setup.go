package Models

import (
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the database and runs migrations. MySQL is used when DB_DSN
// is set (the production deployment), sqlite otherwise.
func Connect() {
	var (
		connection *gorm.DB
		err        error
	)

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		connection, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	} else {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "database.db"
		}
		connection, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = connection
	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
}

// Migrate runs all schema migrations on the given connection. Split out so
// tests can run it against their own database.
func Migrate(db *gorm.DB) error {
	// 1. Base tables with no dependencies
	if err := db.AutoMigrate(
		&User{},
		&Vendor{},
		&Booking{},
	); err != nil {
		return err
	}

	// 2. Tables with simple foreign keys
	if err := db.AutoMigrate(
		&Expense{},
		&BookingMenuItem{},
		&BookingPayment{},
	); err != nil {
		return err
	}

	// 3. Tables referencing multiple others
	return db.AutoMigrate(
		&ExpensePayment{},
		&VendorTransaction{},
	)
}
