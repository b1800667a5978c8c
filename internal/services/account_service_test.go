package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartwebify/internal/models/db_models"
	"smartwebify/internal/models/request_models"
	"smartwebify/internal/repositories"
	"smartwebify/pkg/utils"
)

func newAccountService(db *gorm.DB) AccountServiceInterface {
	return NewAccountService(
		repositories.NewUserRepository(db),
		repositories.NewSubscriptionRepository(db))
}

func TestSignUp_NormalizesEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)

	user, err := svc.SignUp(context.Background(), request_models.SignUpRequest{
		Email: "  John.Doe@Test.COM ", Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if user.Email != "john.doe@test.com" {
		t.Errorf("email = %q, want normalized lowercase", user.Email)
	}
	if user.SubscriptionID != nil {
		t.Error("signup must not create a subscription")
	}
	if user.PasswordHash == "Secret123!" {
		t.Error("password stored in clear")
	}
}

func TestSignUp_ConflictAfterNormalization(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)

	ctx := context.Background()
	if _, err := svc.SignUp(ctx, request_models.SignUpRequest{Email: "a@test.com", Password: "Secret123!"}); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}

	_, err := svc.SignUp(ctx, request_models.SignUpRequest{Email: "A@TEST.com", Password: "Other123!"})
	if !errors.Is(err, utils.ErrEmailAlreadyExists) {
		t.Errorf("got %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)

	ctx := context.Background()
	created, err := svc.SignUp(ctx, request_models.SignUpRequest{Email: "a@test.com", Password: "Secret123!"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	user, err := svc.Login(ctx, request_models.LoginRequest{Email: "A@test.com", Password: "Secret123!"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != created.ID {
		t.Error("logged in as a different user")
	}
}

// Unknown email and wrong password must be indistinguishable.
func TestLogin_GenericFailure(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)

	ctx := context.Background()
	if _, err := svc.SignUp(ctx, request_models.SignUpRequest{Email: "a@test.com", Password: "Secret123!"}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	_, errUnknown := svc.Login(ctx, request_models.LoginRequest{Email: "nobody@test.com", Password: "Secret123!"})
	_, errWrongPass := svc.Login(ctx, request_models.LoginRequest{Email: "a@test.com", Password: "wrong"})

	if !errors.Is(errUnknown, utils.ErrInvalidCredentials) || !errors.Is(errWrongPass, utils.ErrInvalidCredentials) {
		t.Errorf("both failures must be ErrInvalidCredentials, got %v / %v", errUnknown, errWrongPass)
	}
}

func TestGetMe_NoSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)
	user := createUser(t, db, "a@test.com")

	me, err := svc.GetMe(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.Subscription != nil {
		t.Error("subscription should be nil")
	}
	if len(me.ModuleKeys) != 0 || len(me.SubModuleKeys) != 0 {
		t.Error("key sets should be empty")
	}
	if me.Onboarding.PlanSelected || me.Onboarding.ModulesSelected || me.Onboarding.Complete {
		t.Error("onboarding flags should all be false")
	}
}

func TestGetMe_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)

	_, err := svc.GetMe(context.Background(), uuid.New())
	if !errors.Is(err, utils.ErrRecordNotFound) {
		t.Errorf("got %v, want ErrRecordNotFound", err)
	}
}

func TestGetMe_CompleteOnboarding(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)
	calculateur, _, ferraillage := seedCatalog(t, db)
	user := createUser(t, db, "a@test.com")
	sub := createActiveSubscription(t, db, user.ID)
	enableModules(t, db, sub.ID, []uuid.UUID{calculateur.ID}, []uuid.UUID{ferraillage.ID})

	me, err := svc.GetMe(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.Subscription == nil || !me.Subscription.Valid {
		t.Fatal("subscription summary missing or invalid")
	}
	if !me.Onboarding.Complete {
		t.Error("onboarding should be complete")
	}
	if len(me.ModuleKeys) != 1 || me.ModuleKeys[0] != db_models.ModuleKeyCalculateur {
		t.Errorf("moduleKeys = %v", me.ModuleKeys)
	}
	if len(me.SubModuleKeys) != 1 || me.SubModuleKeys[0] != db_models.SubModuleKeyFerraillage {
		t.Errorf("subModuleKeys = %v", me.SubModuleKeys)
	}
}

func TestGetMe_SurfacesPlanHistory(t *testing.T) {
	db := newTestDB(t)
	accounts := newAccountService(db)
	onboarding := newOnboardingService(db)
	user := createUser(t, db, "a@test.com")

	if err := onboarding.SelectPlan(context.Background(), user.ID, db_models.PlanIndividual, db_models.CycleMonthly); err != nil {
		t.Fatalf("SelectPlan: %v", err)
	}
	if err := onboarding.SelectPlan(context.Background(), user.ID, db_models.PlanEnterprise, db_models.CycleYearly); err != nil {
		t.Fatalf("re-SelectPlan: %v", err)
	}

	resp, err := accounts.GetMe(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if resp.Subscription == nil {
		t.Fatal("subscription summary missing")
	}
	history := resp.Subscription.PlanHistory
	if len(history) != 2 {
		t.Fatalf("planHistory length = %d, want 2: %+v", len(history), history)
	}
	if history[0].Plan != "INDIVIDUAL" || history[1].Plan != "ENTERPRISE" {
		t.Errorf("planHistory order wrong: %+v", history)
	}
	if history[1].BillingCycle != "YEARLY" || history[1].Seats != 5 {
		t.Errorf("latest entry = %+v", history[1])
	}
}
