package controllers_fx

import (
	"go.uber.org/fx"

	"smartwebify/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAuthController),
	fx.Provide(controllers.NewOnboardingController),
	fx.Provide(controllers.NewModulesController),
	fx.Provide(controllers.NewFerraillageController))
