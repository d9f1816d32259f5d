package middleware

import (
	"net/http"
	"time"

	"coaching-app/config"
	"coaching-app/database"
	"coaching-app/internal/domain/access"
	"coaching-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// Outcome is what a gated route does for one access state. Redirecting
// outcomes abort the request; None lets it through.
type Outcome func(c *gin.Context)

// None is the explicit do-nothing outcome; the request proceeds.
func None(c *gin.Context) {}

// RedirectTo sends the visitor to a frontend route and stops the request.
func RedirectTo(target string) Outcome {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, config.SITE_HOST+target)
		c.Abort()
	}
}

// GateRules overrides the default outcome per state. A nil slot falls back to
// the policy table below; set a slot to None for an explicit no-op.
type GateRules struct {
	OnUnauthenticated Outcome
	OnBlocked         Outcome
	OnSuspended       Outcome
	OnNoActivePlan    Outcome
	OnSubscribed      Outcome
}

func defaultOutcome(state access.State) Outcome {
	switch state {
	case access.StateUnauthenticated:
		return RedirectTo("/login")
	case access.StateBlocked:
		return RedirectTo("/?blocked=true")
	case access.StateSuspended:
		return RedirectTo("/?suspended=true")
	case access.StateNoActivePlan:
		return RedirectTo("/pricing")
	default:
		return RedirectTo("/watch")
	}
}

func (r GateRules) outcomeFor(state access.State) Outcome {
	var o Outcome
	switch state {
	case access.StateUnauthenticated:
		o = r.OnUnauthenticated
	case access.StateBlocked:
		o = r.OnBlocked
	case access.StateSuspended:
		o = r.OnSuspended
	case access.StateNoActivePlan:
		o = r.OnNoActivePlan
	default:
		o = r.OnSubscribed
	}
	if o == nil {
		return defaultOutcome(state)
	}
	return o
}

// Gate classifies the current visitor and applies the outcome for their
// state. Use after OptionalAuth so unauthenticated visitors reach the
// classifier instead of a 401.
func Gate(rules GateRules) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user *users.User

		if email := c.GetString("email"); email != "" {
			var u users.User
			if err := database.DB.
				Preload("Subscription").
				Where("email = ?", email).
				First(&u).Error; err == nil {
				user = &u
			}
		}

		state := access.Classify(time.Now(), user)
		rules.outcomeFor(state)(c)

		if !c.IsAborted() {
			c.Next()
		}
	}
}
