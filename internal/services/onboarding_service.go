package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"smartwebify/internal/models/db_models"
	"smartwebify/internal/repositories"
	"smartwebify/pkg/utils"
)

type OnboardingServiceInterface interface {
	SelectPlan(ctx context.Context, userID uuid.UUID, plan db_models.PlanType, cycle db_models.BillingCycle) error
	SelectModules(ctx context.Context, userID uuid.UUID, moduleKeys, subModuleKeys []string) error
	SelectModulesLegacy(ctx context.Context, userID uuid.UUID, moduleKeys, subModuleKeys []string) error
}

type OnboardingService struct {
	userRepo   repositories.UserRepository
	subRepo    repositories.SubscriptionRepository
	moduleRepo repositories.ModuleRepository
}

func NewOnboardingService(userRepo repositories.UserRepository, subRepo repositories.SubscriptionRepository, moduleRepo repositories.ModuleRepository) OnboardingServiceInterface {
	return &OnboardingService{userRepo: userRepo, subRepo: subRepo, moduleRepo: moduleRepo}
}

// SelectPlan activates (or re-activates) the subscription. Re-selecting a
// plan restarts the billing period; the module selection is left as-is.
func (o *OnboardingService) SelectPlan(ctx context.Context, userID uuid.UUID, plan db_models.PlanType, cycle db_models.BillingCycle) error {
	user, err := o.userRepo.FindByID(ctx, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if user == nil {
		return utils.ErrRecordNotFound
	}

	now := time.Now()
	var periodEnd time.Time
	if cycle == db_models.CycleMonthly {
		periodEnd = utils.AddCalendarMonths(now, 1)
	} else {
		periodEnd = utils.AddCalendarYears(now, 1)
	}
	seats := db_models.SeatsForPlan(plan)
	change := db_models.PlanChange{Plan: plan, BillingCycle: cycle, Seats: seats, At: now}

	var sub *db_models.Subscription
	if user.SubscriptionID != nil {
		sub, err = o.subRepo.FindByID(ctx, *user.SubscriptionID)
		if err != nil {
			return utils.ErrDatabaseError
		}
	}

	if sub == nil {
		sub = &db_models.Subscription{
			Status:           db_models.SubStatusActive,
			Plan:             &plan,
			BillingCycle:     &cycle,
			Seats:            seats,
			CurrentPeriodEnd: &periodEnd,
		}
		sub.RecordPlanChange(change)
		if err := o.subRepo.Insert(ctx, sub); err != nil {
			return utils.ErrDatabaseError
		}
		if err := o.userRepo.LinkSubscription(ctx, userID, sub.ID); err != nil {
			return utils.ErrDatabaseError
		}
		return nil
	}

	sub.Status = db_models.SubStatusActive
	sub.Plan = &plan
	sub.BillingCycle = &cycle
	sub.Seats = seats
	sub.CurrentPeriodEnd = &periodEnd
	sub.RecordPlanChange(change)
	if err := o.subRepo.Save(ctx, sub); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

// SelectModules validates the requested selection against the catalog and
// replaces the stored selection wholesale. Validation order matters: missing
// modules first, then sub-module availability, then the pairing rules.
func (o *OnboardingService) SelectModules(ctx context.Context, userID uuid.UUID, moduleKeys, subModuleKeys []string) error {
	moduleKeys = dedupeKeys(moduleKeys)
	subModuleKeys = dedupeKeys(subModuleKeys)

	user, err := o.userRepo.FindByID(ctx, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if user == nil || user.SubscriptionID == nil {
		return utils.ErrPlanRequired
	}

	sub, err := o.subRepo.FindByID(ctx, *user.SubscriptionID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if sub == nil || !sub.PlanSelected() {
		return utils.ErrPlanRequired
	}

	// (a) every module key must be an active catalog row
	modules, err := o.moduleRepo.FindByKeys(ctx, moduleKeys)
	if err != nil {
		return utils.ErrDatabaseError
	}
	moduleByKey := make(map[string]db_models.Module, len(modules))
	for _, m := range modules {
		if m.IsActive {
			moduleByKey[m.Key] = m
		}
	}
	var missing []string
	for _, key := range moduleKeys {
		if _, ok := moduleByKey[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return utils.NewModuleNotFoundError(missing)
	}

	// (b) every sub-module key must be active with an active parent
	subModules, err := o.moduleRepo.FindSubModulesByKeys(ctx, subModuleKeys)
	if err != nil {
		return utils.ErrDatabaseError
	}
	subModuleByKey := make(map[string]db_models.SubModule, len(subModules))
	for _, sm := range subModules {
		if sm.IsActive && sm.Module.IsActive {
			subModuleByKey[sm.Key] = sm
		}
	}
	for _, key := range subModuleKeys {
		if _, ok := subModuleByKey[key]; !ok {
			return utils.ErrSubModuleNotAllowed
		}
	}

	// (c) a module with active sub-modules cannot be selected bare
	moduleIDs := make([]uuid.UUID, 0, len(moduleKeys))
	for _, key := range moduleKeys {
		moduleIDs = append(moduleIDs, moduleByKey[key].ID)
	}
	activeSubs, err := o.moduleRepo.ActiveSubModulesForModules(ctx, moduleIDs)
	if err != nil {
		return utils.ErrDatabaseError
	}
	modulesWithSubs := make(map[uuid.UUID]bool, len(activeSubs))
	for _, sm := range activeSubs {
		modulesWithSubs[sm.ModuleID] = true
	}
	coveredModules := make(map[uuid.UUID]bool, len(subModuleKeys))
	for _, key := range subModuleKeys {
		coveredModules[subModuleByKey[key].ModuleID] = true
	}
	for _, key := range moduleKeys {
		m := moduleByKey[key]
		if modulesWithSubs[m.ID] && !coveredModules[m.ID] {
			return utils.ErrSubModuleRequired
		}
	}

	// (d) a sub-module cannot come without its parent module
	requestedModules := make(map[string]bool, len(moduleKeys))
	for _, key := range moduleKeys {
		requestedModules[key] = true
	}
	for _, key := range subModuleKeys {
		if !requestedModules[subModuleByKey[key].Module.Key] {
			return utils.ErrModuleRequiredForSub
		}
	}

	subModuleIDs := make([]uuid.UUID, 0, len(subModuleKeys))
	for _, key := range subModuleKeys {
		subModuleIDs = append(subModuleIDs, subModuleByKey[key].ID)
	}

	if err := o.subRepo.ReplaceSelections(ctx, sub.ID, moduleIDs, subModuleIDs); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

// SelectModulesLegacy keeps the historical /modules/select contract: both
// key sets must be non-empty before any per-key validation runs.
func (o *OnboardingService) SelectModulesLegacy(ctx context.Context, userID uuid.UUID, moduleKeys, subModuleKeys []string) error {
	if len(moduleKeys) == 0 {
		return utils.ErrModulesRequired
	}
	if len(subModuleKeys) == 0 {
		return utils.ErrSubModulesRequired
	}
	return o.SelectModules(ctx, userID, moduleKeys, subModuleKeys)
}

func dedupeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
