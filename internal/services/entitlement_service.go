package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"smartwebify/internal/models/db_models"
	"smartwebify/internal/models/response_models"
	"smartwebify/internal/repositories"
	"smartwebify/pkg/utils"
)

// Entitlement is the per-request resolved access bundle. It is computed
// fresh for every gated request and attached to the request context; nothing
// is cached across requests.
type Entitlement struct {
	UserID         uuid.UUID
	SubscriptionID uuid.UUID
	ModuleKeys     []string
	SubModuleKeys  []string
	Summary        response_models.SubscriptionSummary
}

func (e *Entitlement) HasModule(key string) bool {
	for _, k := range e.ModuleKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *Entitlement) HasSubModule(key string) bool {
	for _, k := range e.SubModuleKeys {
		if k == key {
			return true
		}
	}
	return false
}

type EntitlementServiceInterface interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*Entitlement, error)
}

type EntitlementService struct {
	userRepo repositories.UserRepository
	subRepo  repositories.SubscriptionRepository
}

func NewEntitlementService(userRepo repositories.UserRepository, subRepo repositories.SubscriptionRepository) EntitlementServiceInterface {
	return &EntitlementService{userRepo: userRepo, subRepo: subRepo}
}

// Resolve walks the gate order: subscription present, plan complete, then
// validity against wall-clock time, and finally computes the enabled key
// sets.
func (e *EntitlementService) Resolve(ctx context.Context, userID uuid.UUID) (*Entitlement, error) {
	user, err := e.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil || user.SubscriptionID == nil {
		return nil, utils.ErrSubscriptionRequired
	}

	sub, err := e.subRepo.FindWithSelections(ctx, *user.SubscriptionID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if sub == nil {
		return nil, utils.ErrSubscriptionRequired
	}

	if !sub.PlanSelected() {
		return nil, utils.ErrPlanRequired
	}

	now := time.Now()
	if !sub.Valid(now) {
		return nil, utils.ErrSubscriptionInvalid
	}

	moduleKeys, subModuleKeys := ResolveSelectionKeys(sub)

	return &Entitlement{
		UserID:         userID,
		SubscriptionID: sub.ID,
		ModuleKeys:     moduleKeys,
		SubModuleKeys:  subModuleKeys,
		Summary:        SummarizeSubscription(sub, now),
	}, nil
}

// ResolveSelectionKeys computes the distinct enabled module keys, then the
// sub-module keys. A sub-module only counts when it is active, its parent
// module is active, and the parent's key made it into the module set —
// stale join rows never widen access.
func ResolveSelectionKeys(sub *db_models.Subscription) ([]string, []string) {
	moduleKeys := make([]string, 0, len(sub.Modules))
	seenModule := make(map[string]bool, len(sub.Modules))
	for _, join := range sub.Modules {
		if seenModule[join.Module.Key] {
			continue
		}
		seenModule[join.Module.Key] = true
		if join.Module.IsActive {
			moduleKeys = append(moduleKeys, join.Module.Key)
		}
	}

	enabledModule := make(map[string]bool, len(moduleKeys))
	for _, k := range moduleKeys {
		enabledModule[k] = true
	}

	subModuleKeys := make([]string, 0, len(sub.SubModules))
	seenSub := make(map[string]bool, len(sub.SubModules))
	for _, join := range sub.SubModules {
		sm := join.SubModule
		if seenSub[sm.Key] {
			continue
		}
		seenSub[sm.Key] = true
		if sm.IsActive && sm.Module.IsActive && enabledModule[sm.Module.Key] {
			subModuleKeys = append(subModuleKeys, sm.Key)
		}
	}

	return moduleKeys, subModuleKeys
}

func SummarizeSubscription(sub *db_models.Subscription, now time.Time) response_models.SubscriptionSummary {
	summary := response_models.SubscriptionSummary{
		Status:           string(sub.Status),
		Seats:            sub.Seats,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		Expired:          sub.Expired(now),
		Valid:            sub.Valid(now),
	}
	if sub.Plan != nil {
		p := string(*sub.Plan)
		summary.Plan = &p
	}
	if sub.BillingCycle != nil {
		c := string(*sub.BillingCycle)
		summary.BillingCycle = &c
	}
	history := sub.PlanHistory()
	summary.PlanHistory = make([]response_models.PlanChange, 0, len(history))
	for _, h := range history {
		summary.PlanHistory = append(summary.PlanHistory, response_models.PlanChange{
			Plan:         string(h.Plan),
			BillingCycle: string(h.BillingCycle),
			Seats:        h.Seats,
			At:           h.At,
		})
	}
	return summary
}
