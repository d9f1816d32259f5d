package billing

import "time"

// ProcessedEvent records Stripe event ids that have already been handled, so a
// redelivered or concurrently delivered webhook becomes a no-op instead of a
// second read-modify-write on the same user.
type ProcessedEvent struct {
	ID            uint   `gorm:"primaryKey"`
	StripeEventID string `gorm:"column:stripe_event_id;not null;uniqueIndex:idx_processed_events_stripe_event_id"`
	Type          string
	CreatedAt     time.Time
}
