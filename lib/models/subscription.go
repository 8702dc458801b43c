package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription is a time-bounded tier grant. Several may overlap for one
// subscriber (e.g. a mid-cycle upgrade); one is active on a date when
// StartDate <= date <= EndDate, inclusive on both ends.
type Subscription struct {
	gorm.Model
	SubscriberID uint `gorm:"index:idx_subscription_active"`
	Tier         Tier
	StartDate    time.Time `gorm:"index:idx_subscription_active"`
	EndDate      time.Time
}

type Subscriptions []Subscription

// Payment is an append-only ledger row recorded alongside a purchase or
// extension. Never mutated after creation.
type Payment struct {
	gorm.Model
	SubscriberID   uint `gorm:"index"`
	Amount         float64
	Method         string
	PaidAt         time.Time
	TransactionRef string
	Status         string
}
