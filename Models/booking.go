package Models

import (
	"gorm.io/gorm"
)

// Booking holds a function reservation with its costs. Balance is always
// derived as TotalCost - Advance when the booking is written.
type Booking struct {
	gorm.Model
	FunctionDate  string  `json:"functionDate" gorm:"not null;index"`
	Guests        int     `json:"guests"`
	FunctionType  string  `json:"functionType" gorm:"not null"`
	BookingBy     string  `json:"bookingBy" gorm:"not null"`
	Address       string  `json:"address"`
	CNIC          string  `json:"cnic"`
	ContactNumber string  `json:"contactNumber"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	BookingDays   int     `json:"bookingDays"`
	BookingType   string  `json:"bookingType"`
	CostPerHead   float64 `json:"costPerHead"`
	FixedRate     float64 `json:"fixedRate"`
	BookingDate   string  `json:"bookingDate"`
	TotalCost     float64 `json:"totalCost"`
	Advance       float64 `json:"advance"`
	Balance       float64 `json:"balance"`
	DJCharges     float64 `json:"djCharges"`
	DecorCharges  float64 `json:"decorCharges"`
	TMACharges    float64 `json:"tmaCharges"`
	OtherCharges  float64 `json:"otherCharges"`
	SpecialNotes  string  `json:"specialNotes"`

	MenuItems []BookingMenuItem `json:"-" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	Payments  []BookingPayment  `json:"-" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
}

type BookingMenuItem struct {
	gorm.Model
	BookingID uint   `json:"-" gorm:"not null;index"`
	MenuItem  string `json:"menuItem" gorm:"not null"`
}

type BookingPayment struct {
	gorm.Model
	BookingID     uint    `json:"-" gorm:"not null;index"`
	Amount        float64 `json:"amount" gorm:"not null"`
	PaymentDate   string  `json:"date"`
	PaymentMethod string  `json:"method"`
}
