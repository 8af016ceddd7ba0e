package repository

import (
	"payfesa/internal/domain"
	"payfesa/internal/models"

	"gorm.io/gorm"
)

type PayoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) Create(p *models.Payout) error {
	return r.db.Create(p).Error
}

func (r *PayoutRepository) Update(p *models.Payout) error {
	return r.db.Save(p).Error
}

func (r *PayoutRepository) GetByOrderID(orderID string) (*models.Payout, error) {
	var p models.Payout
	err := r.db.Where("order_id = ?", orderID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListCompletedByUser returns COMPLETED payouts, for reconciliation.
func (r *PayoutRepository) ListCompletedByUser(userID uint) ([]models.Payout, error) {
	var list []models.Payout
	err := r.db.Where("user_id = ? AND status = ?", userID, domain.PayoutStatusCompleted).
		Find(&list).Error
	return list, err
}

func (r *PayoutRepository) ListByUser(userID uint, limit, offset int) ([]models.Payout, error) {
	var list []models.Payout
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// ExistsForRound reports whether a payout was already created for the round.
func (r *PayoutRepository) ExistsForRound(groupID uint, round int) (bool, error) {
	var n int64
	err := r.db.Model(&models.Payout{}).
		Where("group_id = ? AND round = ? AND status <> ?", groupID, round, domain.PayoutStatusFailed).
		Count(&n).Error
	return n > 0, err
}
