package billing

import (
	"coaching-app/internal/domain/plans"
	"coaching-app/internal/domain/users"
	"time"
)

type Payment struct {
	ID              uint `gorm:"primaryKey"`
	UserID          uint
	User            users.User
	PlanID          *uint
	Plan            *plans.Plan
	StripeInvoiceID string `gorm:"uniqueIndex"`
	AmountEUR       float64
	Status          string
	CreatedAt       time.Time
}
