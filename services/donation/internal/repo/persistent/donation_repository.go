package persistent

import (
	"sahara/services/donation/internal/entity"
	"sahara/services/donation/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonationRepository interface {
	Create(donation *entity.Donation) error
	GetByOrderID(orderID string) (*entity.Donation, error)
	Update(donation *entity.Donation) error
	GetByUserID(userID string, limit, offset int) ([]*entity.Donation, error)
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(donation *entity.Donation) error {
	donationModel := ToDonationModel(donation)
	if donationModel.ID == "" {
		donationModel.ID = uuid.New().String()
	}
	if err := r.db.Create(donationModel).Error; err != nil {
		return err
	}
	*donation = *ToDonationEntity(donationModel)
	return nil
}

func (r *donationRepository) GetByOrderID(orderID string) (*entity.Donation, error) {
	var donationModel model.DonationModel
	if err := r.db.Where("order_id = ?", orderID).First(&donationModel).Error; err != nil {
		return nil, err
	}
	return ToDonationEntity(&donationModel), nil
}

func (r *donationRepository) Update(donation *entity.Donation) error {
	donationModel := ToDonationModel(donation)
	return r.db.Save(donationModel).Error
}

func (r *donationRepository) GetByUserID(userID string, limit, offset int) ([]*entity.Donation, error) {
	var donationModels []model.DonationModel
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&donationModels).Error; err != nil {
		return nil, err
	}

	donations := make([]*entity.Donation, len(donationModels))
	for i := range donationModels {
		donations[i] = ToDonationEntity(&donationModels[i])
	}
	return donations, nil
}
