package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"smartwebify/internal/models/db_models"
)

// RapportRef points at a site report either by explicit id or by the
// (chantier, sous-traitant) pair used for get-or-create resolution.
type RapportRef struct {
	ID           *uuid.UUID
	ChantierName *string
	SousTraitant *string
}

type LigneValue struct {
	Mm  int
	Qty decimal.Decimal
}

// MouvementPatch carries PATCH-style updates: nil pointer with Set=false
// means untouched, Set=true with nil value clears the column.
type MouvementPatch struct {
	Date            *time.Time
	Type            *db_models.FerMouvementType
	BonLivraison    *string
	BonLivraisonSet bool
	Note            *string
	NoteSet         bool
	Lignes          []LigneValue
	LignesSet       bool
}

type RapportCounts struct {
	Etats    int64
	Restants int64
}

type FerraillageRepository interface {
	ListRapports(ctx context.Context, q string) ([]db_models.FerRapport, map[uuid.UUID]RapportCounts, error)
	CreateRapport(ctx context.Context, chantierName string, sousTraitant *string) (*db_models.FerRapport, error)
	FindRapportByID(ctx context.Context, id uuid.UUID) (*db_models.FerRapport, error)
	DeleteRapport(ctx context.Context, id uuid.UUID) error

	ListDiametres(ctx context.Context) ([]db_models.FerDiametre, error)
	UpsertDiametre(ctx context.Context, mm int, label *string, isActive *bool) (*db_models.FerDiametre, error)

	CreateEtat(ctx context.Context, ref RapportRef, etatDate *time.Time) (*db_models.FerEtatChantier, error)
	FindEtatByID(ctx context.Context, id uuid.UUID) (*db_models.FerEtatChantier, error)
	LatestEtatForRapport(ctx context.Context, rapportID uuid.UUID) (*db_models.FerEtatChantier, error)

	CreateMouvement(ctx context.Context, etatID uuid.UUID, date time.Time, mType db_models.FerMouvementType, bonLivraison, note *string, lignes []LigneValue) (*db_models.FerMouvement, error)
	UpdateMouvement(ctx context.Context, id uuid.UUID, patch MouvementPatch) (*db_models.FerMouvement, error)
	DeleteMouvement(ctx context.Context, id uuid.UUID) error

	CreateRestant(ctx context.Context, ref RapportRef, rapportDate *time.Time) (*db_models.FerRestantNonConfectionne, error)
	FindRestantByID(ctx context.Context, id uuid.UUID) (*db_models.FerRestantNonConfectionne, error)
	LatestRestantForRapport(ctx context.Context, rapportID uuid.UUID) (*db_models.FerRestantNonConfectionne, error)
	UpsertSnapshot(ctx context.Context, restantID uuid.UUID, date time.Time, note *string, lignes []LigneValue) (*db_models.FerRestantSnapshot, error)
	DeleteRestant(ctx context.Context, id uuid.UUID) error
}

type ferraillageRepository struct {
	db *gorm.DB
}

func NewFerraillageRepository(db *gorm.DB) FerraillageRepository {
	return &ferraillageRepository{db: db}
}

// NormalizeSousTraitant trims the subcontractor name and treats the empty
// string as absent.
func NormalizeSousTraitant(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

func (f *ferraillageRepository) ListRapports(ctx context.Context, q string) ([]db_models.FerRapport, map[uuid.UUID]RapportCounts, error) {
	var rapports []db_models.FerRapport
	query := f.db.WithContext(ctx).Order("updated_at desc")
	if q != "" {
		query = query.Where("chantier_name LIKE ?", "%"+q+"%")
	}
	if err := query.Find(&rapports).Error; err != nil {
		return nil, nil, err
	}

	counts := make(map[uuid.UUID]RapportCounts, len(rapports))
	if len(rapports) == 0 {
		return rapports, counts, nil
	}

	ids := make([]uuid.UUID, 0, len(rapports))
	for _, r := range rapports {
		ids = append(ids, r.ID)
	}

	type countRow struct {
		RapportID uuid.UUID
		N         int64
	}

	var etatRows []countRow
	err := f.db.WithContext(ctx).Model(&db_models.FerEtatChantier{}).
		Select("rapport_id, count(*) as n").
		Where("rapport_id IN ?", ids).
		Group("rapport_id").
		Scan(&etatRows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, row := range etatRows {
		c := counts[row.RapportID]
		c.Etats = row.N
		counts[row.RapportID] = c
	}

	var restantRows []countRow
	err = f.db.WithContext(ctx).Model(&db_models.FerRestantNonConfectionne{}).
		Select("rapport_id, count(*) as n").
		Where("rapport_id IN ?", ids).
		Group("rapport_id").
		Scan(&restantRows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, row := range restantRows {
		c := counts[row.RapportID]
		c.Restants = row.N
		counts[row.RapportID] = c
	}

	return rapports, counts, nil
}

func (f *ferraillageRepository) CreateRapport(ctx context.Context, chantierName string, sousTraitant *string) (*db_models.FerRapport, error) {
	rapport := db_models.FerRapport{
		ChantierName: strings.TrimSpace(chantierName),
		SousTraitant: NormalizeSousTraitant(sousTraitant),
	}
	if err := f.db.WithContext(ctx).Create(&rapport).Error; err != nil {
		return nil, err
	}
	return &rapport, nil
}

func (f *ferraillageRepository) FindRapportByID(ctx context.Context, id uuid.UUID) (*db_models.FerRapport, error) {
	var rapport db_models.FerRapport
	err := f.db.WithContext(ctx).
		Preload("Etats", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Restants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		First(&rapport, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rapport, nil
}

// DeleteRapport removes the report and everything under it. The cascade is
// explicit so it behaves the same on every driver.
func (f *ferraillageRepository) DeleteRapport(ctx context.Context, id uuid.UUID) error {
	return f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&db_models.FerRapport{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var etatIDs []uuid.UUID
		if err := tx.Model(&db_models.FerEtatChantier{}).Where("rapport_id = ?", id).Pluck("id", &etatIDs).Error; err != nil {
			return err
		}
		if len(etatIDs) > 0 {
			var mouvementIDs []uuid.UUID
			if err := tx.Model(&db_models.FerMouvement{}).Where("etat_id IN ?", etatIDs).Pluck("id", &mouvementIDs).Error; err != nil {
				return err
			}
			if len(mouvementIDs) > 0 {
				if err := tx.Where("mouvement_id IN ?", mouvementIDs).Delete(&db_models.FerMouvementLigne{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", mouvementIDs).Delete(&db_models.FerMouvement{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("id IN ?", etatIDs).Delete(&db_models.FerEtatChantier{}).Error; err != nil {
				return err
			}
		}

		var restantIDs []uuid.UUID
		if err := tx.Model(&db_models.FerRestantNonConfectionne{}).Where("rapport_id = ?", id).Pluck("id", &restantIDs).Error; err != nil {
			return err
		}
		if len(restantIDs) > 0 {
			var snapshotIDs []uuid.UUID
			if err := tx.Model(&db_models.FerRestantSnapshot{}).Where("restant_id IN ?", restantIDs).Pluck("id", &snapshotIDs).Error; err != nil {
				return err
			}
			if len(snapshotIDs) > 0 {
				if err := tx.Where("snapshot_id IN ?", snapshotIDs).Delete(&db_models.FerRestantLigne{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", snapshotIDs).Delete(&db_models.FerRestantSnapshot{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("id IN ?", restantIDs).Delete(&db_models.FerRestantNonConfectionne{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (f *ferraillageRepository) ListDiametres(ctx context.Context) ([]db_models.FerDiametre, error) {
	var diametres []db_models.FerDiametre
	err := f.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("mm asc").
		Find(&diametres).Error
	if err != nil {
		return nil, err
	}
	return diametres, nil
}

func (f *ferraillageRepository) UpsertDiametre(ctx context.Context, mm int, label *string, isActive *bool) (*db_models.FerDiametre, error) {
	var diametre db_models.FerDiametre
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&diametre, "mm = ?", mm).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			diametre = db_models.FerDiametre{Mm: mm, Label: defaultLabel(mm, label), IsActive: isActive == nil || *isActive}
			return tx.Create(&diametre).Error
		}
		if err != nil {
			return err
		}
		updates := map[string]interface{}{"is_active": isActive == nil || *isActive}
		if label != nil {
			updates["label"] = *label
		}
		if err := tx.Model(&diametre).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&diametre, "id = ?", diametre.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &diametre, nil
}

func defaultLabel(mm int, label *string) string {
	if label != nil && *label != "" {
		return *label
	}
	return fmt.Sprintf("Fer de %d", mm)
}

// ensureDiametres creates missing diameters for the referenced mm values and
// returns the id per mm. Runs inside the caller's transaction so a batch
// referencing a brand-new diameter stays atomic.
func ensureDiametres(tx *gorm.DB, lignes []LigneValue) (map[int]uuid.UUID, error) {
	uniq := make([]int, 0, len(lignes))
	seen := make(map[int]bool, len(lignes))
	for _, l := range lignes {
		if !seen[l.Mm] {
			seen[l.Mm] = true
			uniq = append(uniq, l.Mm)
		}
	}

	var existing []db_models.FerDiametre
	if err := tx.Where("mm IN ?", uniq).Find(&existing).Error; err != nil {
		return nil, err
	}

	idByMm := make(map[int]uuid.UUID, len(uniq))
	for _, d := range existing {
		idByMm[d.Mm] = d.ID
	}
	for _, mm := range uniq {
		if _, ok := idByMm[mm]; ok {
			continue
		}
		diametre := db_models.FerDiametre{Mm: mm, Label: fmt.Sprintf("Fer de %d", mm), IsActive: true}
		if err := tx.Create(&diametre).Error; err != nil {
			return nil, err
		}
		idByMm[mm] = diametre.ID
	}
	return idByMm, nil
}

func (f *ferraillageRepository) resolveRapportTx(tx *gorm.DB, ref RapportRef) (*db_models.FerRapport, error) {
	if ref.ID != nil {
		var rapport db_models.FerRapport
		err := tx.First(&rapport, "id = ?", *ref.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		if err != nil {
			return nil, err
		}
		return &rapport, nil
	}

	name := strings.TrimSpace(*ref.ChantierName)
	st := NormalizeSousTraitant(ref.SousTraitant)

	// No uniqueness constraint backs this lookup: two concurrent calls can
	// both miss and both insert. Accepted behavior.
	query := tx.Where("chantier_name = ?", name)
	if st == nil {
		query = query.Where("sous_traitant IS NULL")
	} else {
		query = query.Where("sous_traitant = ?", *st)
	}

	var existing db_models.FerRapport
	err := query.First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rapport := db_models.FerRapport{ChantierName: name, SousTraitant: st}
	if err := tx.Create(&rapport).Error; err != nil {
		return nil, err
	}
	return &rapport, nil
}

func (f *ferraillageRepository) CreateEtat(ctx context.Context, ref RapportRef, etatDate *time.Time) (*db_models.FerEtatChantier, error) {
	var etat db_models.FerEtatChantier
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rapport, err := f.resolveRapportTx(tx, ref)
		if err != nil {
			return err
		}
		etat = db_models.FerEtatChantier{RapportID: rapport.ID, EtatDate: etatDate}
		if err := tx.Create(&etat).Error; err != nil {
			return err
		}
		etat.Rapport = *rapport
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &etat, nil
}

func (f *ferraillageRepository) FindEtatByID(ctx context.Context, id uuid.UUID) (*db_models.FerEtatChantier, error) {
	var etat db_models.FerEtatChantier
	err := f.db.WithContext(ctx).
		Preload("Rapport").
		Preload("Mouvements", func(db *gorm.DB) *gorm.DB { return db.Order("date asc") }).
		Preload("Mouvements.Lignes.Diametre").
		First(&etat, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &etat, nil
}

func (f *ferraillageRepository) LatestEtatForRapport(ctx context.Context, rapportID uuid.UUID) (*db_models.FerEtatChantier, error) {
	var etat db_models.FerEtatChantier
	err := f.db.WithContext(ctx).
		Preload("Rapport").
		Preload("Mouvements", func(db *gorm.DB) *gorm.DB { return db.Order("date asc") }).
		Preload("Mouvements.Lignes.Diametre").
		Where("rapport_id = ?", rapportID).
		Order("etat_date desc, created_at desc").
		First(&etat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &etat, nil
}

func (f *ferraillageRepository) CreateMouvement(ctx context.Context, etatID uuid.UUID, date time.Time, mType db_models.FerMouvementType, bonLivraison, note *string, lignes []LigneValue) (*db_models.FerMouvement, error) {
	var mouvementID uuid.UUID
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var etat db_models.FerEtatChantier
		if err := tx.First(&etat, "id = ?", etatID).Error; err != nil {
			return err
		}

		idByMm, err := ensureDiametres(tx, lignes)
		if err != nil {
			return err
		}

		mouvement := db_models.FerMouvement{
			EtatID:       etatID,
			Date:         date,
			Type:         mType,
			BonLivraison: bonLivraison,
			Note:         note,
		}
		if err := tx.Create(&mouvement).Error; err != nil {
			return err
		}
		for _, l := range lignes {
			row := db_models.FerMouvementLigne{MouvementID: mouvement.ID, DiametreID: idByMm[l.Mm], Qty: l.Qty}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		mouvementID = mouvement.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f.findMouvementByID(ctx, mouvementID)
}

func (f *ferraillageRepository) findMouvementByID(ctx context.Context, id uuid.UUID) (*db_models.FerMouvement, error) {
	var mouvement db_models.FerMouvement
	err := f.db.WithContext(ctx).
		Preload("Lignes.Diametre").
		First(&mouvement, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &mouvement, nil
}

func (f *ferraillageRepository) UpdateMouvement(ctx context.Context, id uuid.UUID, patch MouvementPatch) (*db_models.FerMouvement, error) {
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mouvement db_models.FerMouvement
		if err := tx.First(&mouvement, "id = ?", id).Error; err != nil {
			return err
		}

		if patch.LignesSet {
			idByMm, err := ensureDiametres(tx, patch.Lignes)
			if err != nil {
				return err
			}
			if err := tx.Unscoped().Where("mouvement_id = ?", id).Delete(&db_models.FerMouvementLigne{}).Error; err != nil {
				return err
			}
			for _, l := range patch.Lignes {
				row := db_models.FerMouvementLigne{MouvementID: id, DiametreID: idByMm[l.Mm], Qty: l.Qty}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}

		updates := map[string]interface{}{}
		if patch.Date != nil {
			updates["date"] = *patch.Date
		}
		if patch.Type != nil {
			updates["type"] = *patch.Type
		}
		if patch.BonLivraisonSet {
			updates["bon_livraison"] = patch.BonLivraison
		}
		if patch.NoteSet {
			updates["note"] = patch.Note
		}
		if len(updates) > 0 {
			if err := tx.Model(&mouvement).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f.findMouvementByID(ctx, id)
}

func (f *ferraillageRepository) DeleteMouvement(ctx context.Context, id uuid.UUID) error {
	return f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&db_models.FerMouvement{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("mouvement_id = ?", id).Delete(&db_models.FerMouvementLigne{}).Error
	})
}

func (f *ferraillageRepository) CreateRestant(ctx context.Context, ref RapportRef, rapportDate *time.Time) (*db_models.FerRestantNonConfectionne, error) {
	var restant db_models.FerRestantNonConfectionne
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rapport, err := f.resolveRapportTx(tx, ref)
		if err != nil {
			return err
		}
		restant = db_models.FerRestantNonConfectionne{RapportID: rapport.ID, RapportDate: rapportDate}
		if err := tx.Create(&restant).Error; err != nil {
			return err
		}
		restant.Rapport = *rapport
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &restant, nil
}

func (f *ferraillageRepository) FindRestantByID(ctx context.Context, id uuid.UUID) (*db_models.FerRestantNonConfectionne, error) {
	var restant db_models.FerRestantNonConfectionne
	err := f.db.WithContext(ctx).
		Preload("Rapport").
		Preload("Snapshots", func(db *gorm.DB) *gorm.DB { return db.Order("date asc") }).
		Preload("Snapshots.Lignes.Diametre").
		First(&restant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &restant, nil
}

func (f *ferraillageRepository) LatestRestantForRapport(ctx context.Context, rapportID uuid.UUID) (*db_models.FerRestantNonConfectionne, error) {
	var restant db_models.FerRestantNonConfectionne
	err := f.db.WithContext(ctx).
		Preload("Rapport").
		Preload("Snapshots", func(db *gorm.DB) *gorm.DB { return db.Order("date asc") }).
		Preload("Snapshots.Lignes.Diametre").
		Where("rapport_id = ?", rapportID).
		Order("rapport_date desc, created_at desc").
		First(&restant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &restant, nil
}

// UpsertSnapshot keeps at most one snapshot per (restant, date): an existing
// snapshot gets its note updated and its line set replaced, otherwise a new
// one is created. Safe to repeat with the same date.
func (f *ferraillageRepository) UpsertSnapshot(ctx context.Context, restantID uuid.UUID, date time.Time, note *string, lignes []LigneValue) (*db_models.FerRestantSnapshot, error) {
	var snapshotID uuid.UUID
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restant db_models.FerRestantNonConfectionne
		if err := tx.First(&restant, "id = ?", restantID).Error; err != nil {
			return err
		}

		idByMm, err := ensureDiametres(tx, lignes)
		if err != nil {
			return err
		}

		var snapshot db_models.FerRestantSnapshot
		err = tx.Where("restant_id = ? AND date = ?", restantID, date).First(&snapshot).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			snapshot = db_models.FerRestantSnapshot{RestantID: restantID, Date: date, Note: note}
			if err := tx.Create(&snapshot).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&snapshot).Update("note", note).Error; err != nil {
				return err
			}
		}

		if err := tx.Unscoped().Where("snapshot_id = ?", snapshot.ID).Delete(&db_models.FerRestantLigne{}).Error; err != nil {
			return err
		}
		for _, l := range lignes {
			row := db_models.FerRestantLigne{SnapshotID: snapshot.ID, DiametreID: idByMm[l.Mm], Qty: l.Qty}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		snapshotID = snapshot.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	var snapshot db_models.FerRestantSnapshot
	err = f.db.WithContext(ctx).
		Preload("Lignes.Diametre").
		First(&snapshot, "id = ?", snapshotID).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (f *ferraillageRepository) DeleteRestant(ctx context.Context, id uuid.UUID) error {
	return f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&db_models.FerRestantNonConfectionne{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var snapshotIDs []uuid.UUID
		if err := tx.Model(&db_models.FerRestantSnapshot{}).Where("restant_id = ?", id).Pluck("id", &snapshotIDs).Error; err != nil {
			return err
		}
		if len(snapshotIDs) == 0 {
			return nil
		}
		if err := tx.Where("snapshot_id IN ?", snapshotIDs).Delete(&db_models.FerRestantLigne{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", snapshotIDs).Delete(&db_models.FerRestantSnapshot{}).Error
	})
}
