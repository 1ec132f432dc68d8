package usecase

import (
	"fmt"

	"sahara/pkg/logger"
	"sahara/services/donation/internal/entity"
	"sahara/services/donation/internal/payment"
	"sahara/services/donation/internal/repo/persistent"
)

// ErrInvalidAmount covers zero, negative and over-cap amounts. The caller
// keeps whatever amount it held before the rejected attempt.
var ErrInvalidAmount = fmt.Errorf("donation amount must be between 1 and %d", entity.MaxCustomAmount)

var ErrSignatureMismatch = fmt.Errorf("payment signature verification failed")

type DonationUseCase interface {
	CreateDonation(userID string, amount int) (*entity.Donation, error)
	ConfirmPayment(orderID, paymentID, signature string) (*entity.Donation, error)
	CancelDonation(userID, orderID string) (*entity.Donation, error)
	GetDonations(userID string, limit, offset int) ([]*entity.Donation, error)
	PresetAmounts() []int
}

type donationUseCase struct {
	donationRepo persistent.DonationRepository
	gateway      payment.Gateway
	keySecret    string
	logger       *logger.Logger
}

func NewDonationUseCase(
	donationRepo persistent.DonationRepository,
	gateway payment.Gateway,
	keySecret string,
	logger *logger.Logger,
) DonationUseCase {
	return &donationUseCase{
		donationRepo: donationRepo,
		gateway:      gateway,
		keySecret:    keySecret,
		logger:       logger,
	}
}

// CreateDonation validates the amount, creates the provider order and
// records the donation as created. Nothing is charged until the payment
// callback confirms.
func (uc *donationUseCase) CreateDonation(userID string, amount int) (*entity.Donation, error) {
	if !entity.ValidAmount(amount) {
		return nil, ErrInvalidAmount
	}

	receipt := fmt.Sprintf("donation_%s", userID)
	orderID, err := uc.gateway.CreateOrder(amount, entity.Currency, receipt)
	if err != nil {
		uc.logger.Error("Failed to create payment order for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to create donation order: %w", err)
	}

	donation := &entity.Donation{
		UserID:   userID,
		OrderID:  orderID,
		Amount:   amount,
		Currency: entity.Currency,
		Status:   entity.StatusCreated,
	}

	if err := uc.donationRepo.Create(donation); err != nil {
		uc.logger.Error("Failed to record donation for order %s: %v", orderID, err)
		return nil, fmt.Errorf("failed to record donation: %w", err)
	}

	return donation, nil
}

// ConfirmPayment verifies the provider callback. A valid signature marks the
// donation paid; an invalid one marks it failed and returns an error.
func (uc *donationUseCase) ConfirmPayment(orderID, paymentID, signature string) (*entity.Donation, error) {
	donation, err := uc.donationRepo.GetByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("donation not found")
	}

	if donation.Status == entity.StatusPaid {
		return donation, nil
	}

	if !payment.VerifySignature(orderID, paymentID, signature, uc.keySecret) {
		donation.Status = entity.StatusFailed
		if err := uc.donationRepo.Update(donation); err != nil {
			uc.logger.Error("Failed to mark donation %s failed: %v", donation.ID, err)
		}
		uc.logger.Warn("Signature mismatch for order %s", orderID)
		return nil, ErrSignatureMismatch
	}

	donation.PaymentID = paymentID
	donation.Status = entity.StatusPaid
	if err := uc.donationRepo.Update(donation); err != nil {
		uc.logger.Error("Failed to mark donation %s paid: %v", donation.ID, err)
		return nil, fmt.Errorf("failed to update donation: %w", err)
	}

	return donation, nil
}

func (uc *donationUseCase) CancelDonation(userID, orderID string) (*entity.Donation, error) {
	donation, err := uc.donationRepo.GetByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("donation not found")
	}

	if donation.UserID != userID {
		return nil, fmt.Errorf("you can only cancel your own donations")
	}

	if donation.Status != entity.StatusCreated {
		return nil, fmt.Errorf("only pending donations can be cancelled")
	}

	donation.Status = entity.StatusCancelled
	if err := uc.donationRepo.Update(donation); err != nil {
		uc.logger.Error("Failed to cancel donation %s: %v", donation.ID, err)
		return nil, fmt.Errorf("failed to cancel donation: %w", err)
	}

	return donation, nil
}

func (uc *donationUseCase) GetDonations(userID string, limit, offset int) ([]*entity.Donation, error) {
	donations, err := uc.donationRepo.GetByUserID(userID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to get donations: %v", err)
		return nil, fmt.Errorf("failed to get donations: %w", err)
	}
	return donations, nil
}

func (uc *donationUseCase) PresetAmounts() []int {
	return entity.PresetAmounts
}
