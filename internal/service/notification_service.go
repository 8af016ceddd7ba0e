package service

import (
	"context"
	"encoding/json"
	"fmt"

	"payfesa/internal/domain"
	"payfesa/internal/models"
	"payfesa/internal/repository"
)

type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	fcm      *FCMService
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, fcm *FCMService) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, fcm: fcm}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	// Push via FCM
	s.sendPush(userID, notifType, title, body, data)
	return nil
}

func (s *NotificationService) sendPush(userID uint, notifType, title, body string, data map[string]interface{}) {
	if s.fcm == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil || u == nil || u.FCMToken == "" {
		return
	}
	_ = s.fcm.SendToUser(context.Background(), u.FCMToken, notifType, title, body, data)
}

func (s *NotificationService) NotifyPaymentConfirmed(userID uint, amount float64, reference string) error {
	return s.Notify(userID, domain.NotifTypePaymentConfirmed, "Contribution received",
		fmt.Sprintf("Your contribution of MWK %.2f was received.", amount),
		map[string]interface{}{"amount": amount, "reference": reference})
}

func (s *NotificationService) NotifyPayoutSent(userID uint, netAmount float64, reference string) error {
	return s.Notify(userID, domain.NotifTypePayoutSent, "Payout on the way",
		fmt.Sprintf("Your group payout of MWK %.2f has been sent to your mobile money account.", netAmount),
		map[string]interface{}{"net_amount": netAmount, "reference": reference})
}

func (s *NotificationService) NotifyContributionMissed(userID uint, groupName string) error {
	return s.Notify(userID, domain.NotifTypeContributionMissed, "Contribution missed",
		"You missed a contribution for "+groupName+". Missed contributions lower your trust score.",
		map[string]interface{}{"group_name": groupName})
}

// NotifyEliteStatus is the one-time celebration on an elite transition.
func (s *NotificationService) NotifyEliteStatus(userID uint, score int) error {
	return s.Notify(userID, domain.NotifTypeEliteStatus, "You're elite! 🎉",
		"Your payment record earned you elite status. Enjoy priority payouts and group perks.",
		map[string]interface{}{"trust_score": score})
}

func (s *NotificationService) NotifyKYCVerified(userID uint) error {
	return s.Notify(userID, domain.NotifTypeKYCVerified, "Identity verified",
		"Your KYC documents were approved. Your trust score will reflect this on the next update.", nil)
}
