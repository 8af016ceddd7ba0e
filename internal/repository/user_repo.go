package repository

import (
	"payfesa/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var u models.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	var u models.User
	err := r.db.Where("google_id = ?", googleID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

// ListAll returns every user, for batch jobs.
func (r *UserRepository) ListAll() ([]models.User, error) {
	var list []models.User
	err := r.db.Order("id ASC").Find(&list).Error
	return list, err
}

// UpdateTrustFields overwrites the three fields owned by the trust-score job.
func (r *UserRepository) UpdateTrustFields(userID uint, score int, elite bool, streak int) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"trust_score":         score,
		"elite_status":        elite,
		"contribution_streak": streak,
	}).Error
}

// IncrementMessagesSent bumps the chat activity counter atomically.
func (r *UserRepository) IncrementMessagesSent(userID uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("total_messages_sent", gorm.Expr("total_messages_sent + 1")).Error
}

func (r *UserRepository) SetKYCVerified(userID uint, verified bool) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("kyc_verified", verified).Error
}
