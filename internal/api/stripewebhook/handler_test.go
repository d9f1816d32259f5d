package stripewebhooks

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coaching-app/config"
	"coaching-app/database"
	"coaching-app/internal/domain/billing"
	"coaching-app/internal/domain/plans"
	"coaching-app/internal/domain/users"
	"coaching-app/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
)

const testSecret = "whsec_test_secret"

func setWebhookSecret(t *testing.T, secret string) {
	t.Helper()
	prev := config.STRIPE_WEBHOOK_SECRET
	config.STRIPE_WEBHOOK_SECRET = secret
	t.Cleanup(func() { config.STRIPE_WEBHOOK_SECRET = prev })
}

func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func postWebhook(t *testing.T, payload []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", StripeWebhook)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func invoiceEvent(eventID, eventType, customerID, subscriptionID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": %q,
		"data": {
			"object": {
				"id": "in_%s",
				"customer": %q,
				"subscription": %q,
				"amount_paid": 2900,
				"status": "paid"
			}
		}
	}`, eventID, eventType, eventID, customerID, subscriptionID))
}

func seedCustomer(t *testing.T) (users.User, plans.Plan) {
	t.Helper()

	plan := plans.Plan{Name: "Premium", StripeProductID: "prod_premium"}
	require.NoError(t, database.DB.Create(&plan).Error)

	password := "$2a$10$fakehashfakehashfakehash"
	customerID := "cus_123"
	user := users.User{
		Username:         "member@example.com",
		Email:            "member@example.com",
		Password:         &password,
		StripeCustomerID: &customerID,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	return user, plan
}

func providerSubscription(start, end time.Time, productID string) *stripe.Subscription {
	return &stripe.Subscription{
		ID:               "sub_123",
		StartDate:        start.Unix(),
		CurrentPeriodEnd: end.Unix(),
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{Price: &stripe.Price{ID: "price_1", Product: &stripe.Product{ID: productID}}},
			},
		},
	}
}

func reload(t *testing.T, id uint) users.User {
	t.Helper()
	var u users.User
	require.NoError(t, database.DB.First(&u, id).Error)
	return u
}

func TestWebhookMissingSecret(t *testing.T) {
	testutil.SetupDB(t)
	setWebhookSecret(t, "")

	w := postWebhook(t, []byte(`{}`), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "signature required")
}

func TestWebhookInvalidSignature(t *testing.T) {
	testutil.SetupDB(t)
	setWebhookSecret(t, testSecret)
	fake := testutil.InstallFakeStripe(t)

	user, _ := seedCustomer(t)

	payload := invoiceEvent("evt_bad", "invoice.paid", "cus_123", "sub_123")
	w := postWebhook(t, payload, signPayload(payload, "whsec_wrong"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, fake.GetSubscriptionCalls)

	after := reload(t, user.ID)
	assert.Nil(t, after.SubscriptionActive)
	assert.Nil(t, after.SubscriptionID)
}

func TestWebhookUnhandledType(t *testing.T) {
	testutil.SetupDB(t)
	setWebhookSecret(t, testSecret)

	payload := []byte(`{"id": "evt_x", "type": "customer.created", "data": {"object": {}}}`)
	w := postWebhook(t, payload, signPayload(payload, testSecret))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unhandled type")
}

func TestInvoicePaidGrantsAccess(t *testing.T) {
	testutil.SetupDB(t)
	setWebhookSecret(t, testSecret)
	fake := testutil.InstallFakeStripe(t)

	user, plan := seedCustomer(t)

	start := time.Now().Truncate(time.Second)
	end := start.AddDate(0, 1, 0)
	fake.Subscriptions["sub_123"] = providerSubscription(start, end, "prod_premium")

	payload := invoiceEvent("evt_paid_1", "invoice.paid", "cus_123", "sub_123")
	w := postWebhook(t, payload, signPayload(payload, testSecret))
	require.Equal(t, http.StatusOK, w.Code)

	after := reload(t, user.ID)
	require.NotNil(t, after.SubscriptionActive)
	assert.True(t, *after.SubscriptionActive)
	require.NotNil(t, after.SubscriptionID)
	assert.Equal(t, plan.ID, *after.SubscriptionID)
	require.NotNil(t, after.SubscriptionStart)
	assert.Equal(t, start.Unix(), after.SubscriptionStart.Unix())
	require.NotNil(t, after.SubscriptionEnd)
	assert.Equal(t, end.Unix(), after.SubscriptionEnd.Unix())

	// The credential column is never part of the reconciler's write.
	require.NotNil(t, after.Password)
	assert.Equal(t, *user.Password, *after.Password)

	var payments int64
	database.DB.Model(&billing.Payment{}).Count(&payments)
	assert.EqualValues(t, 1, payments)
}

func TestInvoicePaidUnknownPlanIsNoOp(t *testing.T) {
	testutil.SetupDB(t)
	setWebhookSecret(t, testSecret)
	fake := testutil.InstallFakeStripe(t)

	user, _ := seedCustomer(t)

	start := time.Now()
	fake.Subscriptions["sub_123"] = providerSubscription(start, start.AddDate(0, 1, 0), "prod_unknown")

	payload := invoiceEvent("evt_paid_2", "invoice.paid", "cus_123", "sub_123")
	w := postWebhook(t, payload, signPayload(payload, testSecret))

	// Lookup misses are logged no-ops: the provider still gets a success.
	assert.Equal(t, http.StatusOK, w.Code)

	after := reload(t, user.ID)
	assert.Nil(t, after.SubscriptionActive)
	assert.Nil(t, after.SubscriptionID)
	assert.Nil(t, after.SubscriptionEnd)
}

func TestInvoicePaidUnknownCustomerIsNoOp(t *testing.T) {
	testutil.SetupDB(t)
	setWebhookSecret(t, testSecret)
	fake := testutil.InstallFakeStripe(t)

	user, _ := seedCustomer(t)

	start := time.Now()
	fake.Subscriptions["sub_123"] = providerSubscription(start, start.AddDate(0, 1, 0), "prod_premium")

	payload := invoiceEvent("evt_paid_3", "invoice.paid", "cus_other", "sub_123")
	w := postWebhook(t, payload, signPayload(payload, testSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	after := reload(t, user.ID)
	assert.Nil(t, after.SubscriptionActive)
}

func TestInvoicePaymentFailedSuspends(t *testing.T) {
	testutil.SetupDB(t)
	setWebhookSecret(t, testSecret)
	testutil.InstallFakeStripe(t)

	user, plan := seedCustomer(t)

	// Active subscriber mid-period.
	start := time.Now()
	end := start.AddDate(0, 1, 0)
	require.NoError(t, database.DB.Model(&users.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"subscription_id":     plan.ID,
		"subscription_start":  start,
		"subscription_end":    end,
		"subscription_active": true,
	}).Error)

	payload := invoiceEvent("evt_failed_1", "invoice.payment_failed", "cus_123", "sub_123")
	w := postWebhook(t, payload, signPayload(payload, testSecret))
	require.Equal(t, http.StatusOK, w.Code)

	after := reload(t, user.ID)
	require.NotNil(t, after.SubscriptionActive)
	assert.False(t, *after.SubscriptionActive)

	// Plan and period bounds stay as they were.
	require.NotNil(t, after.SubscriptionID)
	assert.Equal(t, plan.ID, *after.SubscriptionID)
	require.NotNil(t, after.SubscriptionEnd)
	assert.Equal(t, end.Unix(), after.SubscriptionEnd.Unix())
}

func TestWebhookRedeliveryIsIdempotent(t *testing.T) {
	testutil.SetupDB(t)
	setWebhookSecret(t, testSecret)
	fake := testutil.InstallFakeStripe(t)

	seedCustomer(t)

	start := time.Now()
	fake.Subscriptions["sub_123"] = providerSubscription(start, start.AddDate(0, 1, 0), "prod_premium")

	payload := invoiceEvent("evt_dup", "invoice.paid", "cus_123", "sub_123")

	first := postWebhook(t, payload, signPayload(payload, testSecret))
	require.Equal(t, http.StatusOK, first.Code)

	second := postWebhook(t, payload, signPayload(payload, testSecret))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), "already processed")

	assert.Equal(t, 1, fake.GetSubscriptionCalls)

	var payments int64
	database.DB.Model(&billing.Payment{}).Count(&payments)
	assert.EqualValues(t, 1, payments)
}
