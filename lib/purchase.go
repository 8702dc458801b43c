package lib

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jquah/newsreel/config"
	"github.com/jquah/newsreel/lib/models"
	"github.com/jquah/newsreel/senders"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type purchaser struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	senders senders.Registry
}

// PurchaseSubscription extends the currently active subscription in
// place when one exists, otherwise opens a new one starting today. A
// Payment ledger row is always appended; the receipt email is
// best-effort.
func (svc *purchaser) PurchaseSubscription(ctx context.Context, subscriberID uint, tier models.Tier, days int, method, email string) (*models.Subscription, error) {
	if days <= 0 {
		return nil, fmt.Errorf("subscription days must be positive, got %d", days)
	}
	if tier != models.TierStandard && tier != models.TierPremium {
		return nil, fmt.Errorf("tier %q is not purchasable", tier)
	}

	now := time.Now()
	today := localDate(now, svc.cfg.Location)

	sub := models.Subscription{}
	tx := svc.db.WithContext(ctx).
		Where("subscriber_id = ?", subscriberID).
		Where("start_date <= ? AND end_date >= ?", today, today).
		Order("start_date DESC").
		First(&sub)

	switch err := tx.Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = models.Subscription{
			SubscriberID: subscriberID,
			Tier:         tier,
			StartDate:    today,
			EndDate:      today.AddDate(0, 0, days),
		}
		if err := svc.db.WithContext(ctx).Create(&sub).Error; err != nil {
			return nil, err
		}

	case err != nil:
		return nil, err

	default:
		sub.EndDate = sub.EndDate.AddDate(0, 0, days)
		sub.Tier = tier
		tx := svc.db.WithContext(ctx).Model(&sub).
			Updates(map[string]any{"end_date": sub.EndDate, "tier": sub.Tier})
		if err := tx.Error; err != nil {
			return nil, err
		}
	}

	payment := models.Payment{
		SubscriberID:   subscriberID,
		Amount:         float64(days) * svc.cfg.PricePerDay,
		Method:         method,
		PaidAt:         now.UTC(),
		TransactionRef: uuid.NewString(),
		Status:         "completed",
	}
	if err := svc.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}

	svc.sendReceipt(ctx, &sub, &payment, email)

	svc.log.Sugar().Infof("Subscriber %v now on %s until %s (txn %s)",
		subscriberID, sub.Tier, sub.EndDate.Format("2006-01-02"), payment.TransactionRef)
	return &sub, nil
}

func (svc *purchaser) sendReceipt(ctx context.Context, sub *models.Subscription, payment *models.Payment, email string) {
	if email == "" {
		return
	}

	sender, ok := svc.senders["email"]
	if !ok {
		return
	}

	subject := "Newsreel: subscription receipt"
	body := fmt.Sprintf(
		"Your %s subscription now runs until %s.<br>Amount charged: $%.2f (transaction %s)",
		sub.Tier, sub.EndDate.Format("2006-01-02"), payment.Amount, payment.TransactionRef,
	)

	id, err := sender.Send(ctx, subject, body, email)
	if err != nil {
		svc.log.Sugar().Infow("Failed to send receipt email", "err", err)
	} else {
		svc.log.Sugar().Infow("Sent receipt to "+email, "message_id", id)
	}
}
