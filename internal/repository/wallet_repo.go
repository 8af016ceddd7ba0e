package repository

import (
	"errors"

	"payfesa/internal/domain"
	"payfesa/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrInsufficientEscrow  = errors.New("insufficient escrow balance")
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.Where("user_id = ?", userID).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	w, err := r.GetByUserID(userID)
	if err == nil {
		return w, nil
	}
	w = &models.Wallet{UserID: userID, Balance: 0, Escrow: 0, Currency: domain.Currency}
	if err := r.db.Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WalletRepository) Credit(userID uint, amount float64) error {
	w, err := r.GetOrCreate(userID)
	if err != nil {
		return err
	}
	w.Balance += amount
	return r.db.Model(w).Update("balance", w.Balance).Error
}

func (r *WalletRepository) Debit(userID uint, amount float64) error {
	w, err := r.GetByUserID(userID)
	if err != nil {
		return err
	}
	if w.Balance < amount {
		return ErrInsufficientBalance
	}
	w.Balance -= amount
	return r.db.Model(w).Update("balance", w.Balance).Error
}

// CreditEscrow adds the net-of-fee contribution amount to held funds.
func (r *WalletRepository) CreditEscrow(userID uint, amount float64) error {
	w, err := r.GetOrCreate(userID)
	if err != nil {
		return err
	}
	w.Escrow += amount
	return r.db.Model(w).Update("escrow", w.Escrow).Error
}

// DebitEscrow releases held funds when a payout is disbursed.
func (r *WalletRepository) DebitEscrow(userID uint, amount float64) error {
	w, err := r.GetByUserID(userID)
	if err != nil {
		return err
	}
	if w.Escrow < amount {
		return ErrInsufficientEscrow
	}
	w.Escrow -= amount
	return r.db.Model(w).Update("escrow", w.Escrow).Error
}

// AdjustEscrow applies a signed reconciliation delta. Unlike DebitEscrow it has
// no floor check: the reconciliation policy decides whether the delta is safe.
func (r *WalletRepository) AdjustEscrow(userID uint, delta float64) error {
	w, err := r.GetOrCreate(userID)
	if err != nil {
		return err
	}
	w.Escrow += delta
	return r.db.Model(w).Update("escrow", w.Escrow).Error
}

func (r *WalletRepository) RecordTransaction(userID uint, amount float64, txType, reference string) error {
	return r.db.Create(&models.WalletTransaction{
		UserID:    userID,
		Amount:    amount,
		Type:      txType,
		Reference: reference,
	}).Error
}

func (r *WalletRepository) ListTransactions(userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	var list []models.WalletTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
