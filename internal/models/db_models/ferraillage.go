package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FerMouvementType string

const (
	MouvementLivraison FerMouvementType = "LIVRAISON"
	MouvementTransfert FerMouvementType = "TRANSFERT"
)

// FerRapport is the per-construction-site container owning delivery ledgers
// and remaining-stock reports. There is deliberately no uniqueness
// constraint on (chantier, sous-traitant): concurrent get-or-create calls
// may race and both insert.
type FerRapport struct {
	BaseModel
	ChantierName string  `gorm:"index"`
	SousTraitant *string `gorm:"index"`

	Etats    []FerEtatChantier           `gorm:"foreignKey:RapportID;constraint:OnDelete:CASCADE"`
	Restants []FerRestantNonConfectionne `gorm:"foreignKey:RapportID;constraint:OnDelete:CASCADE"`
}

// FerDiametre is the rebar diameter catalog, keyed by millimeter size.
// Unknown sizes referenced by a movement or snapshot line are created on
// demand inside the same transaction as the write.
type FerDiametre struct {
	BaseModel
	Mm       int    `gorm:"uniqueIndex"`
	Label    string
	IsActive bool `gorm:"default:true"`
}

type FerEtatChantier struct {
	BaseModel
	RapportID uuid.UUID `gorm:"index"`
	EtatDate  *time.Time

	Rapport    FerRapport     `gorm:"foreignKey:RapportID"`
	Mouvements []FerMouvement `gorm:"foreignKey:EtatID;constraint:OnDelete:CASCADE"`
}

// FerMouvement is a dated signed-quantity event: deliveries carry positive
// line quantities, transfers negative ones.
type FerMouvement struct {
	BaseModel
	EtatID       uuid.UUID        `gorm:"index"`
	Date         time.Time        `gorm:"index"`
	Type         FerMouvementType `gorm:"size:20;default:LIVRAISON"`
	BonLivraison *string
	Note         *string

	Lignes []FerMouvementLigne `gorm:"foreignKey:MouvementID;constraint:OnDelete:CASCADE"`
}

type FerMouvementLigne struct {
	BaseModel
	MouvementID uuid.UUID       `gorm:"index"`
	DiametreID  uuid.UUID       `gorm:"index"`
	Qty         decimal.Decimal `gorm:"type:decimal(12,3)"`

	Diametre FerDiametre `gorm:"foreignKey:DiametreID"`
}

type FerRestantNonConfectionne struct {
	BaseModel
	RapportID   uuid.UUID `gorm:"index"`
	RapportDate *time.Time

	Rapport   FerRapport           `gorm:"foreignKey:RapportID"`
	Snapshots []FerRestantSnapshot `gorm:"foreignKey:RestantID;constraint:OnDelete:CASCADE"`
}

// FerRestantSnapshot holds a point-in-time absolute stock count. At most one
// snapshot exists per (restant, date); re-submission replaces the line set.
type FerRestantSnapshot struct {
	BaseModel
	RestantID uuid.UUID `gorm:"index"`
	Date      time.Time `gorm:"index"`
	Note      *string

	Lignes []FerRestantLigne `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
}

type FerRestantLigne struct {
	BaseModel
	SnapshotID uuid.UUID       `gorm:"index"`
	DiametreID uuid.UUID       `gorm:"index"`
	Qty        decimal.Decimal `gorm:"type:decimal(12,3)"`

	Diametre FerDiametre `gorm:"foreignKey:DiametreID"`
}
