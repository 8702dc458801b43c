package models

import "gorm.io/gorm"

type Tier string

const (
	TierAnonymous Tier = "anonymous"
	TierFree      Tier = "free"
	TierStandard  Tier = "standard"
	TierPremium   Tier = "premium"
)

type ContentLevel string

const (
	ContentLevelHeadline ContentLevel = "headline"
	ContentLevelFull     ContentLevel = "full"
)

// Policy maps a tier to its content visibility.
type Policy struct {
	ContentLevel  ContentLevel
	DetailAllowed bool
}

func DefaultPolicies() map[Tier]Policy {
	return map[Tier]Policy{
		TierAnonymous: {ContentLevel: ContentLevelHeadline, DetailAllowed: false},
		TierFree:      {ContentLevel: ContentLevelHeadline, DetailAllowed: true},
		TierStandard:  {ContentLevel: ContentLevelFull, DetailAllowed: true},
		TierPremium:   {ContentLevel: ContentLevelFull, DetailAllowed: true},
	}
}

// Migrate keeps the schema current. The uniqueness constraints on
// Article.Hash and ReadEvent's composite key are load-bearing and live
// here, at the storage boundary.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Source{},
		&Article{},
		&Subscription{},
		&Payment{},
		&ReadEvent{},
	)
}
