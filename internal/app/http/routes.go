package routes

import (
	adminapi "coaching-app/internal/api/admin"
	authapi "coaching-app/internal/api/auth"
	"coaching-app/internal/api/billing"
	plansapi "coaching-app/internal/api/plans"
	stripewebhooks "coaching-app/internal/api/stripewebhook"
	"coaching-app/internal/api/users"
	videosapi "coaching-app/internal/api/videos"
	"coaching-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Raw body route: no sanitizing, signature verification needs the exact bytes.
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/plans", plansapi.ListPlans)
	public.GET("/confirm", users.ConfirmEmail)
	public.POST("/resend-confirmation", authapi.ResendConfirmation)
	public.POST("/forgot-password", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.GET("/payments", billing.GetPaymentHistory)
	auth.POST("/create-checkout-session", billing.CreateCheckoutSession)
	auth.POST("/billing-portal", billing.CreateBillingPortal)
	auth.POST("/change-password", authapi.ChangePassword)

	// Members area: every state except Subscribed is redirected away.
	watch := r.Group("/")
	watch.Use(middleware.OptionalAuth(), middleware.Gate(middleware.GateRules{
		OnSubscribed: middleware.None,
	}))
	watch.GET("/videos", videosapi.ListVideos)
	watch.GET("/videos/:code", videosapi.GetVideoByCode)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/user/:id", adminapi.GetUserDetails)
	admin.PUT("/user/:id/blocked", adminapi.SetUserBlocked)
	admin.GET("/payments", adminapi.ListAllPayments)
	admin.POST("/sync-plans", plansapi.SyncPlansFromStripe)
	admin.POST("/videos", videosapi.CreateVideo)
}
