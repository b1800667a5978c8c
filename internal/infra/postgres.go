package infra

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"smartwebify/internal/models/db_models"
)

func InitPostgresql(cfg *Config) *gorm.DB {
	connectionPool, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{})
	if err != nil {
		log.Printf("Error connecting to database: %v", err)
		log.Fatal("Error connecting to database")
	}
	return connectionPool
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	}
}

// AutoMigrate keeps the schema in step with the models. Shared between the
// server startup, the seeder and the test harness.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&db_models.User{},
		&db_models.Subscription{},
		&db_models.Module{},
		&db_models.SubModule{},
		&db_models.SubscriptionModule{},
		&db_models.SubscriptionSubModule{},
		&db_models.FerRapport{},
		&db_models.FerDiametre{},
		&db_models.FerEtatChantier{},
		&db_models.FerMouvement{},
		&db_models.FerMouvementLigne{},
		&db_models.FerRestantNonConfectionne{},
		&db_models.FerRestantSnapshot{},
		&db_models.FerRestantLigne{},
	)
}
