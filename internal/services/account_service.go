package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"smartwebify/internal/models/db_models"
	"smartwebify/internal/models/request_models"
	"smartwebify/internal/models/response_models"
	"smartwebify/internal/repositories"
	"smartwebify/pkg/utils"
)

type AccountServiceInterface interface {
	SignUp(ctx context.Context, request request_models.SignUpRequest) (*db_models.User, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*db_models.User, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*response_models.MeResponse, error)
}

type AccountService struct {
	userRepo repositories.UserRepository
	subRepo  repositories.SubscriptionRepository
}

func NewAccountService(userRepo repositories.UserRepository, subRepo repositories.SubscriptionRepository) AccountServiceInterface {
	return &AccountService{userRepo: userRepo, subRepo: subRepo}
}

func (a *AccountService) SignUp(ctx context.Context, request request_models.SignUpRequest) (*db_models.User, error) {
	email := utils.NormalizeEmail(request.Email)

	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	// The subscription itself is created lazily on first plan selection.
	user := &db_models.User{
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := a.userRepo.Insert(ctx, user); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return user, nil
}

// Login reports the same failure for an unknown email and a wrong password
// so responses cannot be used to enumerate accounts.
func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*db_models.User, error) {
	email := utils.NormalizeEmail(request.Email)

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(user.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}
	return user, nil
}

func (a *AccountService) GetMe(ctx context.Context, userID uuid.UUID) (*response_models.MeResponse, error) {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrRecordNotFound
	}

	resp := &response_models.MeResponse{
		User:          response_models.UserSummary{ID: user.ID.String(), Email: user.Email},
		ModuleKeys:    []string{},
		SubModuleKeys: []string{},
	}

	if user.SubscriptionID == nil {
		return resp, nil
	}

	sub, err := a.subRepo.FindWithSelections(ctx, *user.SubscriptionID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if sub == nil {
		return resp, nil
	}

	now := time.Now()
	summary := SummarizeSubscription(sub, now)
	resp.Subscription = &summary

	moduleKeys, subModuleKeys := ResolveSelectionKeys(sub)
	resp.ModuleKeys = moduleKeys
	resp.SubModuleKeys = subModuleKeys

	resp.Onboarding.PlanSelected = sub.PlanSelected()
	resp.Onboarding.ModulesSelected = len(moduleKeys) > 0
	resp.Onboarding.Complete = resp.Onboarding.PlanSelected && resp.Onboarding.ModulesSelected

	return resp, nil
}
