package access

import (
	"time"

	"coaching-app/internal/domain/users"
)

// Classify maps a user record (nil = not authenticated) and the current time
// to exactly one access state. Precedence: unauthenticated, blocked, suspended,
// no-active-plan, subscribed. Pure function, no I/O; the HTTP gate decides
// what each state means for a request.
func Classify(now time.Time, u *users.User) State {
	if u == nil {
		return StateUnauthenticated
	}

	if u.IsBlocked() {
		return StateBlocked
	}

	// No plan ever purchased.
	if u.Subscription == nil || u.SubscriptionEnd == nil {
		return StateNoActivePlan
	}

	periodLapsed := u.SubscriptionEnd.Before(now)

	if !periodLapsed && !u.HasSubscriptionActive() {
		// Payment failed mid-period; access revoked while the paid-through
		// date has not lapsed.
		return StateSuspended
	}

	if periodLapsed {
		// Includes the expired-and-inactive combination, which falls into the
		// needs-to-resubscribe bucket like any other lapsed plan.
		return StateNoActivePlan
	}

	return StateSubscribed
}
