package users

import (
	"coaching-app/internal/domain/plans"
	"coaching-app/internal/domain/users"
)

func BuildPlanDTO(p *plans.Plan) *PlanDTO {
	if p == nil {
		return nil
	}
	return &PlanDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		FullAccess:  p.FullAccess,
	}
}

func BuildSubscriptionDTO(u users.User) *SubscriptionDTO {
	if u.Subscription == nil {
		return nil
	}
	return &SubscriptionDTO{
		Active:   u.HasSubscriptionActive(),
		StartsAt: u.SubscriptionStart,
		EndsAt:   u.SubscriptionEnd,
	}
}
