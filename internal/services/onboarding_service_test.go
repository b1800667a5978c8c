package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartwebify/internal/models/db_models"
	"smartwebify/internal/repositories"
)

func newOnboardingService(db *gorm.DB) OnboardingServiceInterface {
	return NewOnboardingService(
		repositories.NewUserRepository(db),
		repositories.NewSubscriptionRepository(db),
		repositories.NewModuleRepository(db))
}

func loadSubscription(t *testing.T, db *gorm.DB, userID uuid.UUID) db_models.Subscription {
	t.Helper()
	var user db_models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("loading user: %v", err)
	}
	if user.SubscriptionID == nil {
		t.Fatal("user has no subscription")
	}
	var sub db_models.Subscription
	if err := db.Preload("Modules.Module").Preload("SubModules.SubModule").First(&sub, "id = ?", *user.SubscriptionID).Error; err != nil {
		t.Fatalf("loading subscription: %v", err)
	}
	return sub
}

func TestSelectPlan_CreatesSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)
	user := createUser(t, db, "a@test.com")

	err := svc.SelectPlan(context.Background(), user.ID, db_models.PlanEnterprise, db_models.CycleYearly)
	if err != nil {
		t.Fatalf("SelectPlan: %v", err)
	}

	sub := loadSubscription(t, db, user.ID)
	if sub.Status != db_models.SubStatusActive {
		t.Errorf("status = %s, want ACTIVE", sub.Status)
	}
	if sub.Seats != 5 {
		t.Errorf("seats = %d, want 5 for ENTERPRISE", sub.Seats)
	}
	if sub.Plan == nil || *sub.Plan != db_models.PlanEnterprise {
		t.Error("plan not persisted")
	}
	if sub.CurrentPeriodEnd == nil {
		t.Fatal("period end not set")
	}
	wantEnd := time.Now().AddDate(1, 0, 0)
	diff := sub.CurrentPeriodEnd.Sub(wantEnd)
	if diff < -48*time.Hour || diff > 48*time.Hour {
		t.Errorf("period end %v not around one year out", sub.CurrentPeriodEnd)
	}
}

func TestSelectPlan_MonthlySeats(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)
	user := createUser(t, db, "a@test.com")

	if err := svc.SelectPlan(context.Background(), user.ID, db_models.PlanIndividual, db_models.CycleMonthly); err != nil {
		t.Fatalf("SelectPlan: %v", err)
	}

	sub := loadSubscription(t, db, user.ID)
	if sub.Seats != 1 {
		t.Errorf("seats = %d, want 1 for INDIVIDUAL", sub.Seats)
	}
	if sub.CurrentPeriodEnd.After(time.Now().AddDate(0, 1, 2)) {
		t.Errorf("monthly period end too far out: %v", sub.CurrentPeriodEnd)
	}
}

// Re-selecting a plan mutates the existing subscription in place and
// restarts the billing period; it must not create a second row.
func TestSelectPlan_ReselectMutatesInPlace(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)
	user := createUser(t, db, "a@test.com")

	ctx := context.Background()
	if err := svc.SelectPlan(ctx, user.ID, db_models.PlanIndividual, db_models.CycleMonthly); err != nil {
		t.Fatalf("first SelectPlan: %v", err)
	}
	first := loadSubscription(t, db, user.ID)

	if err := svc.SelectPlan(ctx, user.ID, db_models.PlanEnterprise, db_models.CycleYearly); err != nil {
		t.Fatalf("second SelectPlan: %v", err)
	}
	second := loadSubscription(t, db, user.ID)

	if first.ID != second.ID {
		t.Error("re-selection should keep the same subscription row")
	}
	if second.Seats != 5 {
		t.Errorf("seats = %d, want 5 after upgrade", second.Seats)
	}

	var count int64
	db.Model(&db_models.Subscription{}).Count(&count)
	if count != 1 {
		t.Errorf("subscription rows = %d, want 1", count)
	}
}

func TestSelectModules_RequiresPlan(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)
	seedCatalog(t, db)
	user := createUser(t, db, "a@test.com")

	err := svc.SelectModules(context.Background(), user.ID,
		[]string{db_models.ModuleKeyChantier}, nil)
	if code := entitlementCode(t, err); code != "PLAN_REQUIRED" {
		t.Errorf("got code %s, want PLAN_REQUIRED", code)
	}
}

func TestSelectModules_UnknownKey(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)
	seedCatalog(t, db)
	user := createUser(t, db, "a@test.com")
	createActiveSubscription(t, db, user.ID)

	err := svc.SelectModules(context.Background(), user.ID, []string{"MODULE_9"}, nil)
	if code := entitlementCode(t, err); code != "MODULE_NOT_FOUND" {
		t.Errorf("got code %s, want MODULE_NOT_FOUND", code)
	}
}

func TestSelectModules_BareModuleWithSubModulesRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)
	seedCatalog(t, db)
	user := createUser(t, db, "a@test.com")
	createActiveSubscription(t, db, user.ID)

	// MODULE_1 has the active FERRAILLAGE sub-module, so it cannot be
	// selected without one.
	err := svc.SelectModules(context.Background(), user.ID,
		[]string{db_models.ModuleKeyCalculateur}, nil)
	if code := entitlementCode(t, err); code != "SUBMODULE_REQUIRED" {
		t.Errorf("got code %s, want SUBMODULE_REQUIRED", code)
	}
}

func TestSelectModules_SubModuleWithoutParentRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)
	seedCatalog(t, db)
	user := createUser(t, db, "a@test.com")
	createActiveSubscription(t, db, user.ID)

	err := svc.SelectModules(context.Background(), user.ID,
		[]string{db_models.ModuleKeyChantier}, []string{db_models.SubModuleKeyFerraillage})
	if code := entitlementCode(t, err); code != "MODULE_REQUIRED_FOR_SUBMODULE" {
		t.Errorf("got code %s, want MODULE_REQUIRED_FOR_SUBMODULE", code)
	}
}

func TestSelectModules_InactiveSubModuleRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)
	_, _, ferraillage := seedCatalog(t, db)
	user := createUser(t, db, "a@test.com")
	createActiveSubscription(t, db, user.ID)

	db.Model(&db_models.SubModule{}).Where("id = ?", ferraillage.ID).Update("is_active", false)

	err := svc.SelectModules(context.Background(), user.ID,
		[]string{db_models.ModuleKeyCalculateur}, []string{db_models.SubModuleKeyFerraillage})
	if code := entitlementCode(t, err); code != "SUBMODULE_NOT_ALLOWED" {
		t.Errorf("got code %s, want SUBMODULE_NOT_ALLOWED", code)
	}
}

func TestSelectModules_ValidSelectionPersists(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)
	seedCatalog(t, db)
	user := createUser(t, db, "a@test.com")
	createActiveSubscription(t, db, user.ID)

	err := svc.SelectModules(context.Background(), user.ID,
		[]string{db_models.ModuleKeyCalculateur, db_models.ModuleKeyChantier},
		[]string{db_models.SubModuleKeyFerraillage})
	if err != nil {
		t.Fatalf("SelectModules: %v", err)
	}

	sub := loadSubscription(t, db, user.ID)
	if len(sub.Modules) != 2 {
		t.Errorf("module rows = %d, want 2", len(sub.Modules))
	}
	if len(sub.SubModules) != 1 {
		t.Errorf("sub-module rows = %d, want 1", len(sub.SubModules))
	}
}

// Selection replacement is wholesale: re-selecting drops what is no longer
// requested, and repeating the same selection is idempotent.
func TestSelectModules_ReplacementAndIdempotency(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)
	seedCatalog(t, db)
	user := createUser(t, db, "a@test.com")
	createActiveSubscription(t, db, user.ID)

	ctx := context.Background()
	full := func() error {
		return svc.SelectModules(ctx, user.ID,
			[]string{db_models.ModuleKeyCalculateur, db_models.ModuleKeyChantier},
			[]string{db_models.SubModuleKeyFerraillage})
	}
	if err := full(); err != nil {
		t.Fatalf("first selection: %v", err)
	}
	if err := full(); err != nil {
		t.Fatalf("repeat selection: %v", err)
	}

	err := svc.SelectModules(ctx, user.ID, []string{db_models.ModuleKeyChantier}, nil)
	if err != nil {
		t.Fatalf("narrowing selection: %v", err)
	}

	sub := loadSubscription(t, db, user.ID)
	if len(sub.Modules) != 1 || sub.Modules[0].Module.Key != db_models.ModuleKeyChantier {
		t.Errorf("selection not replaced: %+v", sub.Modules)
	}
	if len(sub.SubModules) != 0 {
		t.Errorf("sub-module rows = %d, want 0", len(sub.SubModules))
	}
}

func TestSelectModulesLegacy_EmptySets(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)
	seedCatalog(t, db)
	user := createUser(t, db, "a@test.com")
	createActiveSubscription(t, db, user.ID)

	ctx := context.Background()
	err := svc.SelectModulesLegacy(ctx, user.ID, nil, nil)
	if code := entitlementCode(t, err); code != "MODULES_REQUIRED" {
		t.Errorf("got code %s, want MODULES_REQUIRED", code)
	}

	err = svc.SelectModulesLegacy(ctx, user.ID, []string{db_models.ModuleKeyCalculateur}, nil)
	if code := entitlementCode(t, err); code != "SUBMODULES_REQUIRED" {
		t.Errorf("got code %s, want SUBMODULES_REQUIRED", code)
	}
}

func TestSelectPlan_RecordsPlanHistory(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingService(db)
	user := createUser(t, db, "a@test.com")

	if err := svc.SelectPlan(context.Background(), user.ID, db_models.PlanIndividual, db_models.CycleMonthly); err != nil {
		t.Fatalf("first SelectPlan: %v", err)
	}
	if err := svc.SelectPlan(context.Background(), user.ID, db_models.PlanEnterprise, db_models.CycleYearly); err != nil {
		t.Fatalf("second SelectPlan: %v", err)
	}

	sub := loadSubscription(t, db, user.ID)
	history := sub.PlanHistory()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2: %+v", len(history), history)
	}
	if history[0].Plan != db_models.PlanIndividual || history[0].BillingCycle != db_models.CycleMonthly || history[0].Seats != 1 {
		t.Errorf("first entry = %+v", history[0])
	}
	if history[1].Plan != db_models.PlanEnterprise || history[1].BillingCycle != db_models.CycleYearly || history[1].Seats != 5 {
		t.Errorf("second entry = %+v", history[1])
	}
	if history[0].At.IsZero() || history[1].At.Before(history[0].At) {
		t.Errorf("timestamps not ascending: %v then %v", history[0].At, history[1].At)
	}
}
