package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonationModel struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderID   string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_id"`
	PaymentID string         `gorm:"type:varchar(100)" json:"payment_id"`
	Amount    int            `gorm:"not null" json:"amount"`
	Currency  string         `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	Status    string         `gorm:"type:varchar(20);default:'created'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DonationModel) TableName() string {
	return "donations"
}

func (d *DonationModel) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
