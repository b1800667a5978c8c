package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"smartwebify/internal/repositories"
	"smartwebify/internal/services"
)

var Module = fx.Provide(
	provideUserRepo, provideSubscriptionRepo, provideAccountService, provideEntitlementService)

func provideUserRepo(db *gorm.DB) repositories.UserRepository {
	return repositories.NewUserRepository(db)
}

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideAccountService(userRepo repositories.UserRepository, subRepo repositories.SubscriptionRepository) services.AccountServiceInterface {
	return services.NewAccountService(userRepo, subRepo)
}

func provideEntitlementService(userRepo repositories.UserRepository, subRepo repositories.SubscriptionRepository) services.EntitlementServiceInterface {
	return services.NewEntitlementService(userRepo, subRepo)
}
