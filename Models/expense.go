package Models

import (
	"gorm.io/gorm"
)

// Expense payment statuses.
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusCredit = "credit"
)

// Expense represents a business expense, optionally tied to a booking and/or
// a vendor. A credit-status expense with a vendor feeds the vendor ledger.
type Expense struct {
	gorm.Model
	BookingID     *uint   `json:"bookingId,omitempty" gorm:"index"`
	VendorID      *uint   `json:"vendorId,omitempty" gorm:"index"`
	Title         string  `json:"title" gorm:"not null"`
	Category      string  `json:"category" gorm:"not null"`
	Amount        float64 `json:"amount" gorm:"not null"`
	ReceiptImage  string  `json:"receiptImage"`
	PaymentStatus string  `json:"paymentStatus" gorm:"not null;default:paid"`
	// Only meaningful when PaymentStatus is credit.
	DueDate string `json:"dueDate"`

	Payments []ExpensePayment `json:"paymentHistory" gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE"`
}

// ExpensePayment is a partial-payment history row for an expense.
type ExpensePayment struct {
	gorm.Model
	ExpenseID     uint    `json:"-" gorm:"not null;index"`
	Amount        float64 `json:"amount" gorm:"not null"`
	PaymentDate   string  `json:"paymentDate"`
	PaymentMethod string  `json:"paymentMethod"`
}
