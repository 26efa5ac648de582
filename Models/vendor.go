package Models

import (
	"gorm.io/gorm"
)

// Transaction types recorded in the vendor ledger.
const (
	TransactionCredit  = "credit"
	TransactionPayment = "payment"
)

type Vendor struct {
	gorm.Model
	Name          string  `json:"name" gorm:"not null;uniqueIndex"`
	ContactPerson string  `json:"contactPerson"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	TotalCredit   float64 `json:"totalCredit"`
	TotalPaid     float64 `json:"totalPaid"`

	Transactions []VendorTransaction `json:"transactions,omitempty" gorm:"foreignKey:VendorID"`
}

// OutstandingBalance is the display value derived from the cached totals,
// distinct from the per-transaction BalanceAfter snapshot.
func (v *Vendor) OutstandingBalance() float64 {
	return v.TotalCredit - v.TotalPaid
}

// VendorTransaction is an append-only ledger entry. Rows are never updated
// once written; BalanceAfter is a historical snapshot, not ground truth.
type VendorTransaction struct {
	gorm.Model
	VendorID    uint    `json:"vendorId" gorm:"not null;index"`
	ExpenseID   *uint   `json:"expenseId,omitempty" gorm:"index"`
	Type        string  `json:"type" gorm:"not null"`
	Amount      float64 `json:"amount" gorm:"not null"`
	Description string  `json:"description"`
	// Stored as YYYY-MM-DD so the latest-transaction ordering works
	// directly on the column.
	TransactionDate string  `json:"date" gorm:"index"`
	BalanceAfter    float64 `json:"balanceAfter"`
}

// TransactionSummary aggregates ledger activity across all vendors.
type TransactionSummary struct {
	VendorCount  int64   `json:"vendor_count"`
	TotalCredits float64 `json:"total_credits"`
	TotalPaid    float64 `json:"total_paid"`
	NetBalance   float64 `json:"net_balance"`
}
