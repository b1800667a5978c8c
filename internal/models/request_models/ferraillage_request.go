package request_models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"smartwebify/pkg/utils"
)

// Date accepts "2006-01-02" or RFC3339 input and normalizes to midnight
// UTC, the granularity all date-keyed ledger records use.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q", s)
		}
	}
	d.Time = utils.DateOnly(t)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

// Qty is a pointer so binding can tell a missing quantity from an explicit
// zero; only the former is rejected.
type LigneInput struct {
	Mm  int              `json:"mm" binding:"required,min=1,max=100"`
	Qty *decimal.Decimal `json:"qty" binding:"required"`
}

type RapportCreateRequest struct {
	ChantierName string  `json:"chantierName" binding:"required,min=1"`
	SousTraitant *string `json:"sousTraitant"`
}

type DiametreUpsertRequest struct {
	Mm       int     `json:"mm" binding:"required,min=1,max=100"`
	Label    *string `json:"label"`
	IsActive *bool   `json:"isActive"`
}

// EtatCreateRequest needs either an explicit rapport id or a chantier name
// to get-or-create one; the service enforces that.
type EtatCreateRequest struct {
	RapportID    *string `json:"rapportId"`
	ChantierName *string `json:"chantierName"`
	SousTraitant *string `json:"sousTraitant"`
	EtatDate     *Date   `json:"etatDate"`
}

type MouvementCreateRequest struct {
	Date         Date         `json:"date" binding:"required"`
	Type         string       `json:"type" binding:"omitempty,oneof=LIVRAISON TRANSFERT"`
	BonLivraison *string      `json:"bonLivraison"`
	Note         *string      `json:"note"`
	Lignes       []LigneInput `json:"lignes" binding:"required,min=1,dive"`
}

// MouvementUpdateRequest patches scalars only where supplied; explicit null
// clears bonLivraison/note. Supplying lignes replaces the whole line set.
type MouvementUpdateRequest struct {
	Date         *Date          `json:"date"`
	Type         *string        `json:"type" binding:"omitempty,oneof=LIVRAISON TRANSFERT"`
	BonLivraison NullableString `json:"bonLivraison"`
	Note         NullableString `json:"note"`
	Lignes       []LigneInput   `json:"lignes" binding:"omitempty,min=1,dive"`
}

type RestantCreateRequest struct {
	RapportID    *string `json:"rapportId"`
	ChantierName *string `json:"chantierName"`
	SousTraitant *string `json:"sousTraitant"`
	RapportDate  *Date   `json:"rapportDate"`
}

type SnapshotPutRequest struct {
	Date   Date         `json:"date" binding:"required"`
	Note   *string      `json:"note"`
	Lignes []LigneInput `json:"lignes" binding:"required,min=1,dive"`
}
