package Ledger

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"Mehfil/Models"
)

// Validation errors reported before anything is written.
var (
	ErrVendorRequired = errors.New("vendor id is required")
	ErrInvalidType    = errors.New("transaction type must be credit or payment")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
)

// Engine maintains each vendor's running balance and cached totals.
// It operates on whatever connection it is given, so callers can hand it
// a gorm transaction to make a ledger event atomic.
type Engine struct {
	DB *gorm.DB
}

// NewEngine creates a new ledger Engine
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{DB: db}
}

// TransactionInput carries everything needed to record a ledger entry.
// Date defaults to today; a zero BalanceAfter means the balance is derived
// from the latest entry in the log.
type TransactionInput struct {
	VendorID     uint
	ExpenseID    *uint
	Type         string
	Amount       float64
	Description  string
	Date         string
	BalanceAfter float64
}

// RecordTransaction validates the input, derives the running balance when no
// explicit one is supplied, and appends the entry to the vendor's log.
// The stored balance is never negative: an overpayment is stored as its
// absolute value. The snapshot is advisory only; RecomputeTotals is the
// authoritative path.
func (e *Engine) RecordTransaction(in TransactionInput) (*Models.VendorTransaction, error) {
	if in.VendorID == 0 {
		return nil, ErrVendorRequired
	}
	if in.Type != Models.TransactionCredit && in.Type != Models.TransactionPayment {
		return nil, ErrInvalidType
	}
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if in.Date == "" {
		in.Date = time.Now().Format("2006-01-02")
	}

	balance := in.BalanceAfter
	if balance == 0 {
		latest, err := e.LatestTransaction(in.VendorID)
		if err != nil {
			return nil, err
		}
		var previous float64
		if latest != nil {
			previous = math.Abs(latest.BalanceAfter)
		}
		if in.Type == Models.TransactionCredit {
			balance = previous + in.Amount
		} else {
			balance = previous - in.Amount
		}
	}
	if balance < 0 {
		balance = math.Abs(balance)
	}

	transaction := Models.VendorTransaction{
		VendorID:        in.VendorID,
		ExpenseID:       in.ExpenseID,
		Type:            in.Type,
		Amount:          in.Amount,
		Description:     in.Description,
		TransactionDate: in.Date,
		BalanceAfter:    balance,
	}

	if err := e.DB.Create(&transaction).Error; err != nil {
		return nil, err
	}

	return &transaction, nil
}

// LatestTransaction returns the vendor's most recent ledger entry, where most
// recent means highest date and, among same-day entries, highest id. Returns
// nil when the vendor has no transactions.
func (e *Engine) LatestTransaction(vendorID uint) (*Models.VendorTransaction, error) {
	var transaction Models.VendorTransaction
	err := e.DB.Where("vendor_id = ?", vendorID).
		Order("transaction_date DESC, id DESC").
		First(&transaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// Transactions returns the vendor's full log, newest first, using the same
// ordering as LatestTransaction.
func (e *Engine) Transactions(vendorID uint) ([]Models.VendorTransaction, error) {
	var transactions []Models.VendorTransaction
	err := e.DB.Where("vendor_id = ?", vendorID).
		Order("transaction_date DESC, id DESC").
		Find(&transactions).Error
	return transactions, err
}

// RecomputeTotals rebuilds the vendor's cached totals from source data and
// persists them. Total credit is summed from credit-status expenses (the
// originating business event) rather than the transaction log, so it stays
// correct even if a transaction insert partially failed. Total paid has no
// other source of truth, so it comes from the log. Safe to call redundantly.
func (e *Engine) RecomputeTotals(vendorID uint) error {
	var totalCredit float64
	err := e.DB.Model(&Models.Expense{}).
		Where("vendor_id = ? AND payment_status = ?", vendorID, Models.PaymentStatusCredit).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalCredit).Error
	if err != nil {
		return err
	}

	var totalPaid float64
	err = e.DB.Model(&Models.VendorTransaction{}).
		Where("vendor_id = ? AND type = ?", vendorID, Models.TransactionPayment).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalPaid).Error
	if err != nil {
		return err
	}

	return e.DB.Model(&Models.Vendor{}).
		Where("id = ?", vendorID).
		Updates(map[string]interface{}{
			"total_credit": totalCredit,
			"total_paid":   totalPaid,
		}).Error
}

// HasTransactions reports whether any ledger entry references the vendor.
// Used as the precondition gate for vendor deletion.
func (e *Engine) HasTransactions(vendorID uint) (bool, error) {
	var count int64
	err := e.DB.Model(&Models.VendorTransaction{}).
		Where("vendor_id = ?", vendorID).
		Count(&count).Error
	return count > 0, err
}

// RecordAndRecompute runs a full ledger event, record plus totals recompute,
// in a single database transaction.
func (e *Engine) RecordAndRecompute(in TransactionInput) (*Models.VendorTransaction, error) {
	var transaction *Models.VendorTransaction
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		engine := NewEngine(tx)
		created, err := engine.RecordTransaction(in)
		if err != nil {
			return err
		}
		transaction = created
		return engine.RecomputeTotals(in.VendorID)
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}
