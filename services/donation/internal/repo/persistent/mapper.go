package persistent

import (
	"sahara/services/donation/internal/entity"
	"sahara/services/donation/internal/model"
)

func ToDonationEntity(m *model.DonationModel) *entity.Donation {
	if m == nil {
		return nil
	}

	return &entity.Donation{
		ID:        m.ID,
		UserID:    m.UserID,
		OrderID:   m.OrderID,
		PaymentID: m.PaymentID,
		Amount:    m.Amount,
		Currency:  m.Currency,
		Status:    entity.DonationStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToDonationModel(e *entity.Donation) *model.DonationModel {
	if e == nil {
		return nil
	}

	return &model.DonationModel{
		ID:        e.ID,
		UserID:    e.UserID,
		OrderID:   e.OrderID,
		PaymentID: e.PaymentID,
		Amount:    e.Amount,
		Currency:  e.Currency,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
