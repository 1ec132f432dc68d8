package entity

import "time"

type DonationStatus string

const (
	StatusCreated   DonationStatus = "created"
	StatusPaid      DonationStatus = "paid"
	StatusFailed    DonationStatus = "failed"
	StatusCancelled DonationStatus = "cancelled"
)

// PresetAmounts are the one-tap donation choices, in rupees.
var PresetAmounts = []int{100, 500, 1000, 5000}

// MaxCustomAmount caps a custom donation at one lakh rupees.
const MaxCustomAmount = 100000

const Currency = "INR"

type Donation struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	OrderID   string         `json:"order_id"`
	PaymentID string         `json:"payment_id,omitempty"`
	Amount    int            `json:"amount"`
	Currency  string         `json:"currency"`
	Status    DonationStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ValidAmount accepts any whole-rupee amount from 1 up to the custom cap.
// The presets all fall inside that range.
func ValidAmount(amount int) bool {
	return amount >= 1 && amount <= MaxCustomAmount
}
