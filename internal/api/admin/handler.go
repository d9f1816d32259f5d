package admin

import (
	"net/http"
	"time"

	"coaching-app/database"
	"coaching-app/internal/domain/access"
	"coaching-app/internal/domain/billing"
	"coaching-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID                 uint       `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	Realname           string     `json:"realname"`
	Role               string     `json:"role"`
	Confirmed          bool       `json:"confirmed"`
	Blocked            bool       `json:"blocked"`
	PlanName           *string    `json:"plan_name,omitempty"`
	StripeCustomerID   *string    `json:"stripe_customer_id,omitempty"`
	SubscriptionStart  *time.Time `json:"subscription_start,omitempty"`
	SubscriptionEnd    *time.Time `json:"subscription_end,omitempty"`
	SubscriptionActive bool       `json:"subscription_active"`
	AccessState        string     `json:"access_state"`
}

func buildAdminUser(now time.Time, u users.User) AdminUser {
	var planName *string
	if u.Subscription != nil {
		planName = &u.Subscription.Name
	}

	return AdminUser{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		Realname:           u.Realname,
		Role:               u.Role,
		Confirmed:          u.Confirmed,
		Blocked:            u.IsBlocked(),
		PlanName:           planName,
		StripeCustomerID:   u.StripeCustomerID,
		SubscriptionStart:  u.SubscriptionStart,
		SubscriptionEnd:    u.SubscriptionEnd,
		SubscriptionActive: u.HasSubscriptionActive(),
		AccessState:        string(access.Classify(now, &u)),
	}
}

func ListAllUsers(c *gin.Context) {
	var list []users.User
	if err := database.DB.Preload("Subscription").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	now := time.Now()
	adminUsers := make([]AdminUser, 0, len(list))
	for _, u := range list {
		adminUsers = append(adminUsers, buildAdminUser(now, u))
	}

	c.JSON(http.StatusOK, adminUsers)
}

func GetUserDetails(c *gin.Context) {
	var user users.User
	if err := database.DB.Preload("Subscription").First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, buildAdminUser(time.Now(), user))
}

// SetUserBlocked flips the administrative suspension flag. Blocking is
// independent of payment status and wins over it on every gated page.
func SetUserBlocked(c *gin.Context) {
	var body struct {
		Blocked *bool `json:"blocked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing blocked flag"})
		return
	}

	var user users.User
	if err := database.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := database.DB.Model(&users.User{}).
		Where("id = ?", user.ID).
		Update("blocked", *body.Blocked).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.ID, "blocked": *body.Blocked})
}

func ListAllPayments(c *gin.Context) {
	var payments []billing.Payment
	if err := database.DB.Preload("User").Preload("Plan").Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
