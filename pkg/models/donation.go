package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonationStatus string

const (
	DonationCreated   DonationStatus = "created"
	DonationPaid      DonationStatus = "paid"
	DonationFailed    DonationStatus = "failed"
	DonationCancelled DonationStatus = "cancelled"
)

// Donation is one hosted-checkout order and its outcome. Amounts are in
// whole currency units (INR).
type Donation struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string         `gorm:"type:uuid;index" json:"user_id,omitempty"`
	OrderID   string         `gorm:"uniqueIndex;not null" json:"order_id"`
	PaymentID string         `gorm:"index" json:"payment_id,omitempty"`
	Amount    int            `gorm:"not null" json:"amount"`
	Currency  string         `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	Status    DonationStatus `gorm:"type:varchar(20);default:'created'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
