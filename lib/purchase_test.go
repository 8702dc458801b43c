package lib

import (
	"context"
	"testing"

	"github.com/jquah/newsreel/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseSubscription_CreatesWhenNoneActive(t *testing.T) {
	svc, db, stub := newTestService(t)

	sub, err := svc.PurchaseSubscription(context.Background(), 1, models.TierPremium, 30, "card", "reader@example.com")
	require.NoError(t, err)

	assert.Equal(t, models.TierPremium, sub.Tier)
	assert.Equal(t, sub.StartDate.AddDate(0, 0, 30), sub.EndDate)

	var payment models.Payment
	require.NoError(t, db.First(&payment).Error)
	assert.EqualValues(t, 1, payment.SubscriberID)
	assert.InDelta(t, 30.0, payment.Amount, 0.001)
	assert.Equal(t, "completed", payment.Status)
	assert.NotEmpty(t, payment.TransactionRef)

	assert.Equal(t, []string{"reader@example.com"}, stub.sent)
}

func TestPurchaseSubscription_ExtendsActiveInPlace(t *testing.T) {
	svc, db, _ := newTestService(t)

	_, err := svc.PurchaseSubscription(context.Background(), 1, models.TierStandard, 10, "card", "")
	require.NoError(t, err)

	sub, err := svc.PurchaseSubscription(context.Background(), 1, models.TierStandard, 5, "card", "")
	require.NoError(t, err)

	var count int64
	db.Model(&models.Subscription{}).Count(&count)
	assert.EqualValues(t, 1, count, "renewal while active extends the existing record")
	assert.Equal(t, sub.StartDate.AddDate(0, 0, 15), sub.EndDate)

	db.Model(&models.Payment{}).Count(&count)
	assert.EqualValues(t, 2, count, "every purchase appends a ledger row")
}

func TestPurchaseSubscription_RejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.PurchaseSubscription(context.Background(), 1, models.TierPremium, 0, "card", "")
	assert.Error(t, err)

	_, err = svc.PurchaseSubscription(context.Background(), 1, models.TierFree, 30, "card", "")
	assert.Error(t, err, "free is not purchasable")
}

func TestPurchaseSubscription_ReceiptFailureIsNotFatal(t *testing.T) {
	svc, _, stub := newTestService(t)
	stub.err = assert.AnError

	_, err := svc.PurchaseSubscription(context.Background(), 1, models.TierPremium, 7, "card", "reader@example.com")
	assert.NoError(t, err)
}
