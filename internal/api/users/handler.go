package users

import (
	"net/http"
	"time"

	"coaching-app/config"
	"coaching-app/database"
	"coaching-app/internal/domain/access"
	"coaching-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func GetCurrentUser(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.
		Preload("Subscription").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	state := access.Classify(time.Now(), &user)

	resp := MeResponse{
		User: UserDTO{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Realname:  user.Realname,
			Role:      user.Role,
			Confirmed: user.Confirmed,
			Blocked:   user.IsBlocked(),
		},
		Billing: BillingDTO{
			Plan:         BuildPlanDTO(user.Subscription),
			Subscription: BuildSubscriptionDTO(user),
		},
		Access: AccessDTO{
			State: string(state),
		},
	}

	c.JSON(http.StatusOK, resp)
}

func ConfirmEmail(c *gin.Context) {
	token := c.Query("confirmation")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	var t users.VerificationToken
	if err := database.DB.
		Where("token = ? AND type = ?", token, users.TokenTypeEmailConfirm).
		First(&t).Error; err != nil || t.ExpiresAt.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	if err := database.DB.Model(&users.User{}).Where("id = ?", t.UserID).Update("confirmed", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm user"})
		return
	}

	database.DB.Delete(&t)

	c.Redirect(http.StatusTemporaryRedirect, config.SITE_HOST+"/email-confirmed")
}
