package ferraillage_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"smartwebify/internal/repositories"
	"smartwebify/internal/services"
)

var Module = fx.Provide(
	provideFerraillageRepo, provideFerraillageService)

func provideFerraillageRepo(db *gorm.DB) repositories.FerraillageRepository {
	return repositories.NewFerraillageRepository(db)
}

func provideFerraillageService(ferRepo repositories.FerraillageRepository) services.FerraillageServiceInterface {
	return services.NewFerraillageService(ferRepo)
}
