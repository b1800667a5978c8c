package db_fx

import (
	"log"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"smartwebify/internal/infra"
	"smartwebify/pkg/utils"
)

var Module = fx.Provide(
	infra.LoadConfig, provideDB)

func provideDB(cfg *infra.Config) *gorm.DB {
	utils.ConfigureJWT(cfg.JWTSecret, cfg.JWTTTL)

	db := infra.InitPostgresql(cfg)
	if err := infra.AutoMigrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	return db
}
