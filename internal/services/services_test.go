package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smartwebify/internal/infra"
	"smartwebify/internal/models/db_models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := infra.AutoMigrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

// seedCatalog inserts the two modules and the FERRAILLAGE sub-module the
// onboarding flow validates against.
func seedCatalog(t *testing.T, db *gorm.DB) (calculateur, chantier db_models.Module, ferraillage db_models.SubModule) {
	t.Helper()
	calculateur = db_models.Module{
		Key: db_models.ModuleKeyCalculateur, Name: "Calculateur",
		Slug: "calculateur", Route: "/app/calculateur", SortOrder: 10, IsActive: true,
	}
	if err := db.Create(&calculateur).Error; err != nil {
		t.Fatalf("seeding module: %v", err)
	}
	chantier = db_models.Module{
		Key: db_models.ModuleKeyChantier, Name: "Gestion de Chantier",
		Slug: "chantier", Route: "/app/chantier", SortOrder: 20, IsActive: true,
	}
	if err := db.Create(&chantier).Error; err != nil {
		t.Fatalf("seeding module: %v", err)
	}
	ferraillage = db_models.SubModule{
		Key: db_models.SubModuleKeyFerraillage, Name: "Ferraillage",
		Slug: "ferraillage", Route: "/app/calculateur/ferraillage",
		SortOrder: 10, IsActive: true, ModuleID: calculateur.ID,
	}
	if err := db.Create(&ferraillage).Error; err != nil {
		t.Fatalf("seeding sub-module: %v", err)
	}
	return calculateur, chantier, ferraillage
}

func createUser(t *testing.T, db *gorm.DB, email string) db_models.User {
	t.Helper()
	user := db_models.User{Email: email, PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

func createActiveSubscription(t *testing.T, db *gorm.DB, userID uuid.UUID) db_models.Subscription {
	t.Helper()
	plan := db_models.PlanIndividual
	cycle := db_models.CycleMonthly
	periodEnd := time.Now().Add(30 * 24 * time.Hour)
	sub := db_models.Subscription{
		Status:           db_models.SubStatusActive,
		Plan:             &plan,
		BillingCycle:     &cycle,
		Seats:            1,
		CurrentPeriodEnd: &periodEnd,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("creating subscription: %v", err)
	}
	if err := db.Model(&db_models.User{}).Where("id = ?", userID).Update("subscription_id", sub.ID).Error; err != nil {
		t.Fatalf("linking subscription: %v", err)
	}
	return sub
}

func enableModules(t *testing.T, db *gorm.DB, subID uuid.UUID, moduleIDs []uuid.UUID, subModuleIDs []uuid.UUID) {
	t.Helper()
	for _, id := range moduleIDs {
		row := db_models.SubscriptionModule{SubscriptionID: subID, ModuleID: id}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("enabling module: %v", err)
		}
	}
	for _, id := range subModuleIDs {
		row := db_models.SubscriptionSubModule{SubscriptionID: subID, SubModuleID: id}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("enabling sub-module: %v", err)
		}
	}
}
