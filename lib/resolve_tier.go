package lib

import (
	"context"
	"errors"
	"time"

	"github.com/jquah/newsreel/config"
	"github.com/jquah/newsreel/lib/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrUpgradeRequired marks a detail view refused by the caller's tier.
// Distinct from a not-found so the API can answer "upgrade" instead of 404.
var ErrUpgradeRequired = errors.New("forbidden: subscription upgrade required")

type tierResolver struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

// ResolveTier returns the subscriber's tier as of the given moment.
// Among overlapping active subscriptions the one with the latest start
// date wins; this is an upgrade-takes-effect-immediately rule, not a
// highest-tier rule. No active subscription resolves to free.
// Anonymous callers never reach here; the API layer assigns that tier.
func (svc *tierResolver) ResolveTier(ctx context.Context, subscriberID uint, asOf time.Time) (models.Tier, error) {
	day := localDate(asOf, svc.cfg.Location)

	var sub models.Subscription
	tx := svc.db.WithContext(ctx).
		Where("subscriber_id = ?", subscriberID).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Order("start_date DESC").
		First(&sub)
	if err := tx.Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TierFree, nil
	} else if err != nil {
		return "", err
	}

	return sub.Tier, nil
}

func (svc *tierResolver) PolicyFor(tier models.Tier) models.Policy {
	return svc.cfg.PolicyFor(tier)
}

// AuthorizeDetail enforces the gate for detail views.
func (svc *tierResolver) AuthorizeDetail(tier models.Tier) error {
	if !svc.cfg.PolicyFor(tier).DetailAllowed {
		return ErrUpgradeRequired
	}
	return nil
}
