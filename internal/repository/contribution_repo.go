package repository

import (
	"time"

	"payfesa/internal/domain"
	"payfesa/internal/models"

	"gorm.io/gorm"
)

type ContributionRepository struct {
	db *gorm.DB
}

func NewContributionRepository(db *gorm.DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

func (r *ContributionRepository) Create(c *models.Contribution) error {
	return r.db.Create(c).Error
}

func (r *ContributionRepository) Update(c *models.Contribution) error {
	return r.db.Save(c).Error
}

func (r *ContributionRepository) GetByID(id uint) (*models.Contribution, error) {
	var c models.Contribution
	err := r.db.First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContributionRepository) GetByOrderID(orderID string) (*models.Contribution, error) {
	var c models.Contribution
	err := r.db.Where("order_id = ?", orderID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListHistoryByUser returns COMPLETED and MISSED contributions most-recent-first.
// The trust-score streak scan depends on this ordering; missed rows have no
// completed_at, so they sort by created_at instead.
func (r *ContributionRepository) ListHistoryByUser(userID uint) ([]models.Contribution, error) {
	var list []models.Contribution
	err := r.db.Where("user_id = ? AND status IN ?", userID,
		[]string{domain.ContributionStatusCompleted, domain.ContributionStatusMissed}).
		Order("COALESCE(completed_at, created_at) DESC").
		Find(&list).Error
	return list, err
}

// ListCompletedByUser returns COMPLETED contributions, for reconciliation.
func (r *ContributionRepository) ListCompletedByUser(userID uint) ([]models.Contribution, error) {
	var list []models.Contribution
	err := r.db.Where("user_id = ? AND status = ?", userID, domain.ContributionStatusCompleted).
		Find(&list).Error
	return list, err
}

func (r *ContributionRepository) ListByGroupAndRound(groupID uint, round int) ([]models.Contribution, error) {
	var list []models.Contribution
	err := r.db.Where("group_id = ? AND round = ?", groupID, round).Find(&list).Error
	return list, err
}

func (r *ContributionRepository) ListByUser(userID uint, limit, offset int) ([]models.Contribution, error) {
	var list []models.Contribution
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// ListPendingOlderThan returns PENDING contributions created before the cutoff,
// candidates for being marked MISSED.
func (r *ContributionRepository) ListPendingOlderThan(cutoff time.Time) ([]models.Contribution, error) {
	var list []models.Contribution
	err := r.db.Where("status = ? AND created_at < ?", domain.ContributionStatusPending, cutoff).
		Find(&list).Error
	return list, err
}

// MarkMissed flips a PENDING contribution to MISSED. Completed and missed rows
// are immutable, so the status guard is part of the update.
func (r *ContributionRepository) MarkMissed(id uint) error {
	return r.db.Model(&models.Contribution{}).
		Where("id = ? AND status = ?", id, domain.ContributionStatusPending).
		Update("status", domain.ContributionStatusMissed).Error
}
