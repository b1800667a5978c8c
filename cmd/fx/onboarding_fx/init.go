package onboarding_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"smartwebify/internal/repositories"
	"smartwebify/internal/services"
)

var Module = fx.Provide(
	provideModuleRepo, provideOnboardingService, provideModuleService)

func provideModuleRepo(db *gorm.DB) repositories.ModuleRepository {
	return repositories.NewModuleRepository(db)
}

func provideOnboardingService(userRepo repositories.UserRepository, subRepo repositories.SubscriptionRepository, moduleRepo repositories.ModuleRepository) services.OnboardingServiceInterface {
	return services.NewOnboardingService(userRepo, subRepo, moduleRepo)
}

func provideModuleService(moduleRepo repositories.ModuleRepository) services.ModuleServiceInterface {
	return services.NewModuleService(moduleRepo)
}
