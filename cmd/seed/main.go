package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"smartwebify/internal/infra"
	"smartwebify/internal/models/db_models"
	"smartwebify/pkg/utils"
)

// Seeds the module catalog, two demo accounts with active subscriptions and
// the Pharmaghreb demo ledger. Safe to run repeatedly.
func main() {
	cfg := infra.LoadConfig()
	db := infra.InitPostgresql(cfg)
	defer infra.ClosePostgresql(db)

	if err := infra.AutoMigrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	calculateur, ferraillage := seedCatalog(db)

	for _, account := range []struct{ email, password string }{
		{"admin@smartwebify.com", "Admin123!"},
		{"ahmed@smartwebify.com", "Ahmed123!"},
	} {
		user := seedUser(db, account.email, account.password)
		enableSelection(db, *user.SubscriptionID, calculateur.ID, ferraillage.ID)
		log.Printf("Seeded user %s", user.Email)
	}

	seedDiametres(db, []int{5, 6, 8, 10, 12, 14, 16, 20, 21})
	seedDemoLedger(db)

	log.Println("Seed OK")
}

func seedCatalog(db *gorm.DB) (db_models.Module, db_models.SubModule) {
	calculateur := upsertModule(db, db_models.Module{
		Key:       db_models.ModuleKeyCalculateur,
		Name:      "Calculateur",
		Slug:      "calculateur",
		Route:     "/app/calculateur",
		SortOrder: 10,
		IsActive:  true,
	})
	upsertModule(db, db_models.Module{
		Key:       db_models.ModuleKeyChantier,
		Name:      "Gestion de Chantier",
		Slug:      "chantier",
		Route:     "/app/chantier",
		SortOrder: 20,
		IsActive:  true,
	})

	var ferraillage db_models.SubModule
	err := db.Where("key = ?", db_models.SubModuleKeyFerraillage).First(&ferraillage).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		ferraillage = db_models.SubModule{
			Key:       db_models.SubModuleKeyFerraillage,
			Name:      "Ferraillage",
			Slug:      "ferraillage",
			Route:     "/app/calculateur/ferraillage",
			SortOrder: 10,
			IsActive:  true,
			ModuleID:  calculateur.ID,
		}
		if err := db.Create(&ferraillage).Error; err != nil {
			log.Fatalf("Seeding sub-module failed: %v", err)
		}
	case err != nil:
		log.Fatalf("Seeding sub-module failed: %v", err)
	default:
		updates := map[string]interface{}{"is_active": true, "module_id": calculateur.ID}
		if err := db.Model(&ferraillage).Updates(updates).Error; err != nil {
			log.Fatalf("Seeding sub-module failed: %v", err)
		}
	}
	return calculateur, ferraillage
}

func upsertModule(db *gorm.DB, want db_models.Module) db_models.Module {
	var module db_models.Module
	err := db.Where("key = ?", want.Key).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		module = want
		if err := db.Create(&module).Error; err != nil {
			log.Fatalf("Seeding module %s failed: %v", want.Key, err)
		}
		return module
	}
	if err != nil {
		log.Fatalf("Seeding module %s failed: %v", want.Key, err)
	}
	updates := map[string]interface{}{
		"name": want.Name, "slug": want.Slug, "route": want.Route,
		"sort_order": want.SortOrder, "is_active": want.IsActive,
	}
	if err := db.Model(&module).Updates(updates).Error; err != nil {
		log.Fatalf("Seeding module %s failed: %v", want.Key, err)
	}
	return module
}

func seedUser(db *gorm.DB, email, password string) db_models.User {
	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("Hashing failed: %v", err)
	}

	email = utils.NormalizeEmail(email)
	var user db_models.User
	err = db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if err := db.Model(&user).Update("password_hash", hash).Error; err != nil {
			log.Fatalf("Seeding user %s failed: %v", email, err)
		}
		if user.SubscriptionID == nil {
			sub := activeSubscription()
			if err := db.Create(&sub).Error; err != nil {
				log.Fatalf("Seeding subscription failed: %v", err)
			}
			if err := db.Model(&user).Update("subscription_id", sub.ID).Error; err != nil {
				log.Fatalf("Seeding user %s failed: %v", email, err)
			}
			user.SubscriptionID = &sub.ID
		}
		return user
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Seeding user %s failed: %v", email, err)
	}

	sub := activeSubscription()
	if err := db.Create(&sub).Error; err != nil {
		log.Fatalf("Seeding subscription failed: %v", err)
	}
	user = db_models.User{Email: email, PasswordHash: hash, SubscriptionID: &sub.ID}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Seeding user %s failed: %v", email, err)
	}
	return user
}

func activeSubscription() db_models.Subscription {
	plan := db_models.PlanIndividual
	cycle := db_models.CycleMonthly
	now := time.Now().UTC()
	periodEnd := utils.AddCalendarMonths(now, 1)
	sub := db_models.Subscription{
		Status:           db_models.SubStatusActive,
		Plan:             &plan,
		BillingCycle:     &cycle,
		Seats:            db_models.SeatsForPlan(plan),
		CurrentPeriodEnd: &periodEnd,
	}
	sub.RecordPlanChange(db_models.PlanChange{
		Plan: plan, BillingCycle: cycle, Seats: sub.Seats, At: now,
	})
	return sub
}

func enableSelection(db *gorm.DB, subID, moduleID, subModuleID uuid.UUID) {
	var count int64
	db.Model(&db_models.SubscriptionModule{}).
		Where("subscription_id = ? AND module_id = ?", subID, moduleID).Count(&count)
	if count == 0 {
		row := db_models.SubscriptionModule{SubscriptionID: subID, ModuleID: moduleID}
		if err := db.Create(&row).Error; err != nil {
			log.Fatalf("Seeding module selection failed: %v", err)
		}
	}

	db.Model(&db_models.SubscriptionSubModule{}).
		Where("subscription_id = ? AND sub_module_id = ?", subID, subModuleID).Count(&count)
	if count == 0 {
		row := db_models.SubscriptionSubModule{SubscriptionID: subID, SubModuleID: subModuleID}
		if err := db.Create(&row).Error; err != nil {
			log.Fatalf("Seeding sub-module selection failed: %v", err)
		}
	}
}

func seedDiametres(db *gorm.DB, mms []int) {
	for _, mm := range mms {
		var diametre db_models.FerDiametre
		err := db.Where("mm = ?", mm).First(&diametre).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			diametre = db_models.FerDiametre{Mm: mm, Label: fmt.Sprintf("Fer de %d", mm), IsActive: true}
			if err := db.Create(&diametre).Error; err != nil {
				log.Fatalf("Seeding diametre %d failed: %v", mm, err)
			}
			continue
		}
		if err != nil {
			log.Fatalf("Seeding diametre %d failed: %v", mm, err)
		}
		if !diametre.IsActive {
			if err := db.Model(&diametre).Update("is_active", true).Error; err != nil {
				log.Fatalf("Seeding diametre %d failed: %v", mm, err)
			}
		}
	}
}

type seedLigne struct {
	mm  int
	qty string
}

type seedMouvement struct {
	date         string
	mType        db_models.FerMouvementType
	bonLivraison string
	note         string
	lignes       []seedLigne
}

func seedDemoLedger(db *gorm.DB) {
	rapport := getOrCreateRapport(db, "Pharmaghreb - El Agba", "Ste. AM SIOUD CONSTRUCTION")
	docDate := mustDate("2025-11-25")

	// Re-seeding replaces the documents for the same rapport + date.
	var old []db_models.FerEtatChantier
	db.Where("rapport_id = ? AND etat_date = ?", rapport.ID, docDate).Find(&old)
	for _, e := range old {
		db.Where("mouvement_id IN (?)",
			db.Model(&db_models.FerMouvement{}).Select("id").Where("etat_id = ?", e.ID)).
			Delete(&db_models.FerMouvementLigne{})
		db.Where("etat_id = ?", e.ID).Delete(&db_models.FerMouvement{})
		db.Delete(&db_models.FerEtatChantier{}, "id = ?", e.ID)
	}

	etat := db_models.FerEtatChantier{RapportID: rapport.ID, EtatDate: &docDate}
	if err := db.Create(&etat).Error; err != nil {
		log.Fatalf("Seeding etat failed: %v", err)
	}

	mouvements := []seedMouvement{
		{date: "2024-08-14", mType: db_models.MouvementLivraison, bonLivraison: "2416285", lignes: []seedLigne{
			{6, "2.063"}, {8, "2.056"}, {10, "8.633"}, {12, "8.668"}, {14, "4.503"},
		}},
		{date: "2024-08-15", mType: db_models.MouvementLivraison, bonLivraison: "2416892", lignes: []seedLigne{
			{6, "2.084"}, {12, "2.160"}, {14, "4.376"}, {16, "10.822"}, {20, "6.395"},
		}},
		{date: "2024-11-04", mType: db_models.MouvementTransfert,
			note: "Qté. Fer Transférée à Monja ZEDINI Chantier KROSCHU",
			lignes: []seedLigne{{20, "-3.500"}}},
	}
	for _, m := range mouvements {
		row := db_models.FerMouvement{EtatID: etat.ID, Date: mustDate(m.date), Type: m.mType}
		if m.bonLivraison != "" {
			row.BonLivraison = &m.bonLivraison
		}
		if m.note != "" {
			row.Note = &m.note
		}
		if err := db.Create(&row).Error; err != nil {
			log.Fatalf("Seeding mouvement failed: %v", err)
		}
		insertLignes(db, m.lignes, func(diametreID uuid.UUID, qty decimal.Decimal) error {
			return db.Create(&db_models.FerMouvementLigne{MouvementID: row.ID, DiametreID: diametreID, Qty: qty}).Error
		})
	}

	var oldRestants []db_models.FerRestantNonConfectionne
	db.Where("rapport_id = ? AND rapport_date = ?", rapport.ID, docDate).Find(&oldRestants)
	for _, r := range oldRestants {
		db.Where("snapshot_id IN (?)",
			db.Model(&db_models.FerRestantSnapshot{}).Select("id").Where("restant_id = ?", r.ID)).
			Delete(&db_models.FerRestantLigne{})
		db.Where("restant_id = ?", r.ID).Delete(&db_models.FerRestantSnapshot{})
		db.Delete(&db_models.FerRestantNonConfectionne{}, "id = ?", r.ID)
	}

	restant := db_models.FerRestantNonConfectionne{RapportID: rapport.ID, RapportDate: &docDate}
	if err := db.Create(&restant).Error; err != nil {
		log.Fatalf("Seeding restant failed: %v", err)
	}

	snapshots := map[string][]seedLigne{
		"2025-09-12": {{6, "0.500"}, {8, "2.000"}, {10, "2.125"}, {12, "1.300"}, {14, "4.400"}, {16, "1.500"}, {20, "4.000"}},
		"2025-09-25": {{6, "3.000"}, {8, "1.500"}, {10, "7.500"}, {12, "4.000"}, {14, "1.000"}, {16, "2.277"}, {20, "4.000"}},
	}
	for date, lignes := range snapshots {
		snap := db_models.FerRestantSnapshot{RestantID: restant.ID, Date: mustDate(date)}
		if err := db.Create(&snap).Error; err != nil {
			log.Fatalf("Seeding snapshot failed: %v", err)
		}
		insertLignes(db, lignes, func(diametreID uuid.UUID, qty decimal.Decimal) error {
			return db.Create(&db_models.FerRestantLigne{SnapshotID: snap.ID, DiametreID: diametreID, Qty: qty}).Error
		})
	}
}

func getOrCreateRapport(db *gorm.DB, chantierName, sousTraitant string) db_models.FerRapport {
	var rapport db_models.FerRapport
	err := db.Where("chantier_name = ? AND sous_traitant = ?", chantierName, sousTraitant).First(&rapport).Error
	if err == nil {
		return rapport
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Seeding rapport failed: %v", err)
	}
	rapport = db_models.FerRapport{ChantierName: chantierName, SousTraitant: &sousTraitant}
	if err := db.Create(&rapport).Error; err != nil {
		log.Fatalf("Seeding rapport failed: %v", err)
	}
	return rapport
}

func insertLignes(db *gorm.DB, lignes []seedLigne, insert func(diametreID uuid.UUID, qty decimal.Decimal) error) {
	for _, l := range lignes {
		var diametre db_models.FerDiametre
		if err := db.Where("mm = ?", l.mm).First(&diametre).Error; err != nil {
			log.Fatalf("Diametre %d missing: %v", l.mm, err)
		}
		if err := insert(diametre.ID, decimal.RequireFromString(l.qty)); err != nil {
			log.Fatalf("Seeding ligne failed: %v", err)
		}
	}
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		log.Fatalf("Bad seed date %q: %v", s, err)
	}
	return t.UTC()
}
