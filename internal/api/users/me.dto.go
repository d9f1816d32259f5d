package users

import "time"

type MeResponse struct {
	User    UserDTO    `json:"user"`
	Billing BillingDTO `json:"billing"`
	Access  AccessDTO  `json:"access"`
}

type UserDTO struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Realname  string `json:"realname"`
	Role      string `json:"role"`
	Confirmed bool   `json:"confirmed"`
	Blocked   bool   `json:"blocked"`
}

type BillingDTO struct {
	Plan         *PlanDTO         `json:"plan"`
	Subscription *SubscriptionDTO `json:"subscription"`
}

type PlanDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	FullAccess  bool   `json:"full_access"`
}

type SubscriptionDTO struct {
	Active   bool       `json:"active"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

type AccessDTO struct {
	State string `json:"state"`
}
