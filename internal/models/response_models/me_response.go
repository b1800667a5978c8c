package response_models

import "time"

type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type PlanChange struct {
	Plan         string    `json:"plan"`
	BillingCycle string    `json:"billingCycle"`
	Seats        int       `json:"seats"`
	At           time.Time `json:"at"`
}

type SubscriptionSummary struct {
	Status           string       `json:"status"`
	Plan             *string      `json:"plan"`
	BillingCycle     *string      `json:"billingCycle"`
	Seats            int          `json:"seats"`
	CurrentPeriodEnd *time.Time   `json:"currentPeriodEnd"`
	Expired          bool         `json:"expired"`
	Valid            bool         `json:"valid"`
	PlanHistory      []PlanChange `json:"planHistory"`
}

type OnboardingFlags struct {
	PlanSelected    bool `json:"planSelected"`
	ModulesSelected bool `json:"modulesSelected"`
	Complete        bool `json:"complete"`
}

type MeResponse struct {
	User          UserSummary          `json:"user"`
	Subscription  *SubscriptionSummary `json:"subscription"`
	ModuleKeys    []string             `json:"moduleKeys"`
	SubModuleKeys []string             `json:"subModuleKeys"`
	Onboarding    OnboardingFlags      `json:"onboarding"`
}
