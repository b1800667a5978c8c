package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"smartwebify/cmd/fx/account_fx"
	"smartwebify/cmd/fx/controllers_fx"
	"smartwebify/cmd/fx/db_fx"
	"smartwebify/cmd/fx/ferraillage_fx"
	"smartwebify/cmd/fx/onboarding_fx"
	"smartwebify/internal/api/controllers"
	"smartwebify/internal/infra"
	"smartwebify/internal/models/db_models"
	"smartwebify/internal/services"
	"smartwebify/pkg/middleware"
)

func main() {
	app := fx.New(
		db_fx.Module,
		account_fx.Module,
		onboarding_fx.Module,
		ferraillage_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *infra.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("Starting HTTP server on :%s", cfg.Port)
				if err := engine.Run(":" + cfg.Port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	cfg *infra.Config,
	entitlementService services.EntitlementServiceInterface,
	authController *controllers.AuthController,
	onboardingController *controllers.OnboardingController,
	modulesController *controllers.ModulesController,
	ferraillageController *controllers.FerraillageController) *gin.Engine {

	r := gin.Default()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigin))

	RegisterRoutes(r, entitlementService,
		authController, onboardingController, modulesController, ferraillageController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	entitlementService services.EntitlementServiceInterface,
	authController *controllers.AuthController,
	onboardingController *controllers.OnboardingController,
	modulesController *controllers.ModulesController,
	ferraillageController *controllers.FerraillageController) {

	authGroup := r.Group("/auth")
	authGroup.POST("/signup", authController.SignUp)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", authController.Logout)

	authed := r.Group("/")
	authed.Use(middleware.JWTAuthMiddleware())

	authed.GET("/me", authController.GetMe)

	onboardingGroup := authed.Group("/onboarding")
	onboardingGroup.POST("/plan", onboardingController.SelectPlan)
	onboardingGroup.POST("/modules", onboardingController.SelectModules)

	// Catalog, selection and the entitled subset are all reachable as soon
	// as the subscription is valid; before any modules are selected,
	// /enabled answers with an empty set.
	modulesGroup := authed.Group("/modules")
	modulesGroup.Use(middleware.RequireSubscriptionValid(entitlementService))
	modulesGroup.GET("", modulesController.GetCatalog)
	modulesGroup.POST("/select", modulesController.Select)
	modulesGroup.GET("/enabled", modulesController.GetEnabled)

	ferGroup := authed.Group("/ferraillage")
	ferGroup.Use(
		middleware.RequireSubscriptionValid(entitlementService),
		middleware.RequireModule(db_models.ModuleKeyCalculateur),
		middleware.RequireSubModule(db_models.SubModuleKeyFerraillage))

	ferGroup.GET("/rapports", ferraillageController.ListRapports)
	ferGroup.POST("/rapports", ferraillageController.CreateRapport)
	ferGroup.GET("/rapports/:id", ferraillageController.GetRapport)
	ferGroup.DELETE("/rapports/:id", ferraillageController.DeleteRapport)

	ferGroup.GET("/diametres", ferraillageController.ListDiametres)
	ferGroup.POST("/diametres", ferraillageController.UpsertDiametre)

	ferGroup.POST("/etat", ferraillageController.CreateEtat)
	ferGroup.GET("/etat/:id", ferraillageController.GetEtat)
	ferGroup.GET("/etat/by-rapport/:id", ferraillageController.GetEtatByRapport)
	ferGroup.POST("/etat/:id/mouvements", ferraillageController.CreateMouvement)
	ferGroup.PUT("/mouvements/:id", ferraillageController.UpdateMouvement)
	ferGroup.DELETE("/mouvements/:id", ferraillageController.DeleteMouvement)

	ferGroup.POST("/restant", ferraillageController.CreateRestant)
	ferGroup.GET("/restant/:id", ferraillageController.GetRestant)
	ferGroup.GET("/restant/by-rapport/:id", ferraillageController.GetRestantByRapport)
	ferGroup.PUT("/restant/:id/snapshot", ferraillageController.PutSnapshot)
	ferGroup.DELETE("/restant/:id", ferraillageController.DeleteRestant)
}
