package repository

import (
	"errors"
	"time"

	"payfesa/internal/models"

	"gorm.io/gorm"
)

var ErrNotGroupMember = errors.New("user is not a member of this group")

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(g *models.Group) error {
	return r.db.Create(g).Error
}

func (r *GroupRepository) GetByID(id uint) (*models.Group, error) {
	var g models.Group
	err := r.db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Members.User").First(&g, id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) Update(g *models.Group) error {
	return r.db.Save(g).Error
}

// ListByUserID returns the groups the user belongs to.
func (r *GroupRepository) ListByUserID(userID uint) ([]models.Group, error) {
	var list []models.Group
	err := r.db.
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ? AND group_members.deleted_at IS NULL", userID).
		Order("groups.created_at DESC").
		Find(&list).Error
	return list, err
}

// AddMember appends the user at the next rotation position.
func (r *GroupRepository) AddMember(groupID, userID uint, isAdmin bool) (*models.GroupMember, error) {
	var max int64
	r.db.Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&max)
	m := &models.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		Position: int(max) + 1,
		IsAdmin:  isAdmin,
		JoinedAt: time.Now(),
	}
	if err := r.db.Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *GroupRepository) GetMember(groupID, userID uint) (*models.GroupMember, error) {
	var m models.GroupMember
	err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GroupRepository) CountMembers(groupID uint) (int, error) {
	var n int64
	err := r.db.Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&n).Error
	return int(n), err
}

// RecipientForRound returns the member whose turn the given round's payout is.
// Rotation wraps: round 1 pays position 1, round N pays ((N-1) mod members)+1.
func (r *GroupRepository) RecipientForRound(groupID uint, round int) (*models.GroupMember, error) {
	n, err := r.CountMembers(groupID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	position := ((round - 1) % n) + 1
	var m models.GroupMember
	err = r.db.Where("group_id = ? AND position = ?", groupID, position).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AdvanceRound bumps current_round after a successful payout.
func (r *GroupRepository) AdvanceRound(groupID uint) error {
	return r.db.Model(&models.Group{}).Where("id = ?", groupID).
		UpdateColumn("current_round", gorm.Expr("current_round + 1")).Error
}
