package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coaching-app/config"
	"coaching-app/database"
	"coaching-app/internal/domain/plans"
	"coaching-app/internal/domain/users"
	"coaching-app/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateRouter(rules GateRules, email string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/watch",
		func(c *gin.Context) {
			if email != "" {
				c.Set("email", email)
			}
		},
		Gate(rules),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)
	return r
}

func getWatch(t *testing.T, rules GateRules, email string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/watch", nil)
	gateRouter(rules, email).ServeHTTP(w, req)
	return w
}

func seedGateUser(t *testing.T, mutate func(*users.User)) *users.User {
	t.Helper()

	plan := plans.Plan{Name: "Premium", StripeProductID: "prod_premium"}
	require.NoError(t, database.DB.Create(&plan).Error)

	start := time.Now().Add(-10 * 24 * time.Hour)
	end := time.Now().Add(20 * 24 * time.Hour)
	active := true
	user := users.User{
		Username:           "member@example.com",
		Email:              "member@example.com",
		Confirmed:          true,
		SubscriptionID:     &plan.ID,
		SubscriptionStart:  &start,
		SubscriptionEnd:    &end,
		SubscriptionActive: &active,
	}
	if mutate != nil {
		mutate(&user)
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return &user
}

func TestGateRedirectsAnonymousToLogin(t *testing.T) {
	testutil.SetupDB(t)

	w := getWatch(t, GateRules{}, "")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, config.SITE_HOST+"/login", w.Header().Get("Location"))
}

func TestGateLetsSubscriberThrough(t *testing.T) {
	testutil.SetupDB(t)
	seedGateUser(t, nil)

	w := getWatch(t, GateRules{OnSubscribed: None}, "member@example.com")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestGateRedirectsBlockedUser(t *testing.T) {
	testutil.SetupDB(t)
	blocked := true
	seedGateUser(t, func(u *users.User) { u.Blocked = &blocked })

	w := getWatch(t, GateRules{OnSubscribed: None}, "member@example.com")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, config.SITE_HOST+"/?blocked=true", w.Header().Get("Location"))
}

func TestGateRedirectsSuspendedUser(t *testing.T) {
	testutil.SetupDB(t)
	inactive := false
	seedGateUser(t, func(u *users.User) { u.SubscriptionActive = &inactive })

	w := getWatch(t, GateRules{OnSubscribed: None}, "member@example.com")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, config.SITE_HOST+"/?suspended=true", w.Header().Get("Location"))
}

func TestGateRedirectsLapsedUserToPricing(t *testing.T) {
	testutil.SetupDB(t)
	seedGateUser(t, func(u *users.User) {
		end := time.Now().Add(-24 * time.Hour)
		u.SubscriptionEnd = &end
	})

	w := getWatch(t, GateRules{OnSubscribed: None}, "member@example.com")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, config.SITE_HOST+"/pricing", w.Header().Get("Location"))
}

func TestGateOverrideReplacesDefaultOutcome(t *testing.T) {
	testutil.SetupDB(t)

	w := getWatch(t, GateRules{OnUnauthenticated: RedirectTo("/welcome")}, "")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, config.SITE_HOST+"/welcome", w.Header().Get("Location"))
}

func TestGateNoneOverrideSkipsDefaultRedirect(t *testing.T) {
	testutil.SetupDB(t)

	w := getWatch(t, GateRules{OnUnauthenticated: None}, "")

	require.Equal(t, http.StatusOK, w.Code)
}
