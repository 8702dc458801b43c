package lib

import (
	"context"
	"testing"
	"time"

	"github.com/jquah/newsreel/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveTier_NoSubscriptionIsFree(t *testing.T) {
	svc, _, _ := newTestService(t)

	tier, err := svc.ResolveTier(context.Background(), 1, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, tier)
}

func TestResolveTier_LatestStartDateWinsAmongActive(t *testing.T) {
	svc, db, _ := newTestService(t)

	// Standard plan for January, premium upgrade bought mid-cycle.
	require.NoError(t, db.Create(&models.Subscription{
		SubscriberID: 1, Tier: models.TierStandard,
		StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 31),
	}).Error)
	require.NoError(t, db.Create(&models.Subscription{
		SubscriberID: 1, Tier: models.TierPremium,
		StartDate: day(2024, 1, 15), EndDate: day(2024, 2, 15),
	}).Error)

	tier, err := svc.ResolveTier(context.Background(), 1, day(2024, 1, 20))
	require.NoError(t, err)
	assert.Equal(t, models.TierPremium, tier, "the later-starting subscription wins, not the higher tier")

	tier, err = svc.ResolveTier(context.Background(), 1, day(2024, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, models.TierStandard, tier)
}

func TestResolveTier_IntervalIsInclusiveOnBothEnds(t *testing.T) {
	svc, db, _ := newTestService(t)

	require.NoError(t, db.Create(&models.Subscription{
		SubscriberID: 2, Tier: models.TierStandard,
		StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 31),
	}).Error)

	for _, asOf := range []time.Time{day(2024, 1, 1), day(2024, 1, 31)} {
		tier, err := svc.ResolveTier(context.Background(), 2, asOf)
		require.NoError(t, err)
		assert.Equal(t, models.TierStandard, tier, "boundary date %v should be active", asOf)
	}

	tier, err := svc.ResolveTier(context.Background(), 2, day(2024, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, tier, "expired the day after end_date")
}

func TestPolicyFor_UnknownTierFallsBackToAnonymous(t *testing.T) {
	svc, _, _ := newTestService(t)

	policy := svc.PolicyFor(models.Tier("made-up"))
	assert.Equal(t, svc.PolicyFor(models.TierAnonymous), policy)
}

func TestAuthorizeDetail(t *testing.T) {
	svc, _, _ := newTestService(t)

	assert.ErrorIs(t, svc.AuthorizeDetail(models.TierAnonymous), ErrUpgradeRequired)
	assert.NoError(t, svc.AuthorizeDetail(models.TierPremium))
}
