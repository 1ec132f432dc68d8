package usecase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"sahara/pkg/logger"
	"sahara/services/donation/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockDonationRepository is a mock implementation of persistent.DonationRepository
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(donation *entity.Donation) error {
	args := m.Called(donation)
	return args.Error(0)
}

func (m *MockDonationRepository) GetByOrderID(orderID string) (*entity.Donation, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Donation), args.Error(1)
}

func (m *MockDonationRepository) Update(donation *entity.Donation) error {
	args := m.Called(donation)
	return args.Error(0)
}

func (m *MockDonationRepository) GetByUserID(userID string, limit, offset int) ([]*entity.Donation, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Donation), args.Error(1)
}

type stubGateway struct {
	orderID string
	err     error
	orders  int
}

func (s *stubGateway) CreateOrder(amount int, currency, receipt string) (string, error) {
	s.orders++
	if s.err != nil {
		return "", s.err
	}
	return s.orderID, nil
}

const testKeySecret = "test-key-secret"

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testKeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func newDonationUseCase(repo *MockDonationRepository, gateway *stubGateway) DonationUseCase {
	return NewDonationUseCase(repo, gateway, testKeySecret, logger.New())
}

func TestCreateDonation_AmountValidation(t *testing.T) {
	cases := []struct {
		name   string
		amount int
		valid  bool
	}{
		{"preset 100", 100, true},
		{"preset 5000", 5000, true},
		{"custom minimum", 1, true},
		{"custom at cap", 100000, true},
		{"over cap", 100001, false},
		{"zero", 0, false},
		{"negative", -500, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockDonationRepository)
			gateway := &stubGateway{orderID: "order_A1"}
			if tc.valid {
				repo.On("Create", mock.AnythingOfType("*entity.Donation")).Return(nil)
			}

			uc := newDonationUseCase(repo, gateway)

			donation, err := uc.CreateDonation("user-1", tc.amount)
			if tc.valid {
				assert.NoError(t, err)
				assert.Equal(t, tc.amount, donation.Amount)
				assert.Equal(t, entity.StatusCreated, donation.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				// A rejected amount never reaches the provider.
				assert.Equal(t, 0, gateway.orders)
				repo.AssertNotCalled(t, "Create", mock.Anything)
			}
		})
	}
}

func TestCreateDonation_OrderAlwaysServerCreated(t *testing.T) {
	repo := new(MockDonationRepository)
	repo.On("Create", mock.AnythingOfType("*entity.Donation")).Return(nil)
	gateway := &stubGateway{orderID: "order_A1"}

	uc := newDonationUseCase(repo, gateway)

	donation, err := uc.CreateDonation("user-1", 500)

	assert.NoError(t, err)
	assert.Equal(t, 1, gateway.orders)
	assert.Equal(t, "order_A1", donation.OrderID)
	assert.Equal(t, "INR", donation.Currency)
}

func TestCreateDonation_GatewayFailure(t *testing.T) {
	repo := new(MockDonationRepository)
	gateway := &stubGateway{err: errors.New("provider unavailable")}

	uc := newDonationUseCase(repo, gateway)

	_, err := uc.CreateDonation("user-1", 500)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestConfirmPayment_ValidSignature(t *testing.T) {
	repo := new(MockDonationRepository)
	repo.On("GetByOrderID", "order_A1").Return(&entity.Donation{
		ID:      "don-1",
		UserID:  "user-1",
		OrderID: "order_A1",
		Amount:  500,
		Status:  entity.StatusCreated,
	}, nil)
	repo.On("Update", mock.AnythingOfType("*entity.Donation")).Return(nil)

	uc := newDonationUseCase(repo, &stubGateway{})

	donation, err := uc.ConfirmPayment("order_A1", "pay_B2", sign("order_A1", "pay_B2"))

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, donation.Status)
	assert.Equal(t, "pay_B2", donation.PaymentID)
	repo.AssertExpectations(t)
}

func TestConfirmPayment_SignatureMismatchMarksFailed(t *testing.T) {
	donation := &entity.Donation{
		ID:      "don-1",
		OrderID: "order_A1",
		Status:  entity.StatusCreated,
	}
	repo := new(MockDonationRepository)
	repo.On("GetByOrderID", "order_A1").Return(donation, nil)
	repo.On("Update", mock.AnythingOfType("*entity.Donation")).Return(nil)

	uc := newDonationUseCase(repo, &stubGateway{})

	_, err := uc.ConfirmPayment("order_A1", "pay_B2", "forged-signature")

	assert.ErrorIs(t, err, ErrSignatureMismatch)
	assert.Equal(t, entity.StatusFailed, donation.Status)
}

func TestConfirmPayment_Idempotent(t *testing.T) {
	repo := new(MockDonationRepository)
	repo.On("GetByOrderID", "order_A1").Return(&entity.Donation{
		ID:        "don-1",
		OrderID:   "order_A1",
		PaymentID: "pay_B2",
		Status:    entity.StatusPaid,
	}, nil)

	uc := newDonationUseCase(repo, &stubGateway{})

	donation, err := uc.ConfirmPayment("order_A1", "pay_B2", sign("order_A1", "pay_B2"))

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, donation.Status)
	repo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestCancelDonation_OwnerOnly(t *testing.T) {
	repo := new(MockDonationRepository)
	repo.On("GetByOrderID", "order_A1").Return(&entity.Donation{
		ID:      "don-1",
		UserID:  "user-1",
		OrderID: "order_A1",
		Status:  entity.StatusCreated,
	}, nil)

	uc := newDonationUseCase(repo, &stubGateway{})

	_, err := uc.CancelDonation("user-2", "order_A1")

	assert.EqualError(t, err, "you can only cancel your own donations")
	repo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestCancelDonation_OnlyPending(t *testing.T) {
	repo := new(MockDonationRepository)
	repo.On("GetByOrderID", "order_A1").Return(&entity.Donation{
		ID:      "don-1",
		UserID:  "user-1",
		OrderID: "order_A1",
		Status:  entity.StatusPaid,
	}, nil)

	uc := newDonationUseCase(repo, &stubGateway{})

	_, err := uc.CancelDonation("user-1", "order_A1")

	assert.EqualError(t, err, "only pending donations can be cancelled")
}

func TestPresetAmounts(t *testing.T) {
	uc := newDonationUseCase(new(MockDonationRepository), &stubGateway{})

	assert.Equal(t, []int{100, 500, 1000, 5000}, uc.PresetAmounts())
}
