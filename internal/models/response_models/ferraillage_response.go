package response_models

import (
	"time"

	"github.com/shopspring/decimal"

	"smartwebify/internal/models/db_models"
)

func dateOnly(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func dateOnlyPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := dateOnly(*t)
	return &s
}

type RapportResponse struct {
	ID           string  `json:"id"`
	ChantierName string  `json:"chantierName"`
	SousTraitant *string `json:"sousTraitant"`
	CreatedAt    int64   `json:"createdAt"`
	UpdatedAt    int64   `json:"updatedAt"`
}

type RapportListItem struct {
	RapportResponse
	EtatCount    int64 `json:"etatCount"`
	RestantCount int64 `json:"restantCount"`
}

type RapportDetail struct {
	RapportResponse
	Etats    []EtatResponse    `json:"etats"`
	Restants []RestantResponse `json:"restants"`
}

type DiametreResponse struct {
	ID       string `json:"id"`
	Mm       int    `json:"mm"`
	Label    string `json:"label"`
	IsActive bool   `json:"isActive"`
}

type LigneResponse struct {
	Mm    int             `json:"mm"`
	Label string          `json:"label"`
	Qty   decimal.Decimal `json:"qty"`
}

type MouvementResponse struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Type         string          `json:"type"`
	BonLivraison *string         `json:"bonLivraison"`
	Note         *string         `json:"note"`
	Lignes       []LigneResponse `json:"lignes"`
}

type EtatResponse struct {
	ID         string              `json:"id"`
	RapportID  string              `json:"rapportId"`
	EtatDate   *string             `json:"etatDate"`
	Rapport    *RapportResponse    `json:"rapport,omitempty"`
	Mouvements []MouvementResponse `json:"mouvements"`
}

type SnapshotResponse struct {
	ID     string          `json:"id"`
	Date   string          `json:"date"`
	Note   *string         `json:"note"`
	Lignes []LigneResponse `json:"lignes"`
}

type RestantResponse struct {
	ID          string             `json:"id"`
	RapportID   string             `json:"rapportId"`
	RapportDate *string            `json:"rapportDate"`
	Rapport     *RapportResponse   `json:"rapport,omitempty"`
	Snapshots   []SnapshotResponse `json:"snapshots"`
}

func FromFerRapport(r db_models.FerRapport) RapportResponse {
	return RapportResponse{
		ID:           r.ID.String(),
		ChantierName: r.ChantierName,
		SousTraitant: r.SousTraitant,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func FromFerDiametre(d db_models.FerDiametre) DiametreResponse {
	return DiametreResponse{
		ID:       d.ID.String(),
		Mm:       d.Mm,
		Label:    d.Label,
		IsActive: d.IsActive,
	}
}

func fromMouvementLignes(lignes []db_models.FerMouvementLigne) []LigneResponse {
	out := make([]LigneResponse, 0, len(lignes))
	for _, l := range lignes {
		out = append(out, LigneResponse{Mm: l.Diametre.Mm, Label: l.Diametre.Label, Qty: l.Qty})
	}
	return out
}

func FromFerMouvement(m db_models.FerMouvement) MouvementResponse {
	return MouvementResponse{
		ID:           m.ID.String(),
		Date:         dateOnly(m.Date),
		Type:         string(m.Type),
		BonLivraison: m.BonLivraison,
		Note:         m.Note,
		Lignes:       fromMouvementLignes(m.Lignes),
	}
}

func FromFerEtat(e db_models.FerEtatChantier, withRapport bool) EtatResponse {
	resp := EtatResponse{
		ID:         e.ID.String(),
		RapportID:  e.RapportID.String(),
		EtatDate:   dateOnlyPtr(e.EtatDate),
		Mouvements: make([]MouvementResponse, 0, len(e.Mouvements)),
	}
	if withRapport {
		r := FromFerRapport(e.Rapport)
		resp.Rapport = &r
	}
	for _, m := range e.Mouvements {
		resp.Mouvements = append(resp.Mouvements, FromFerMouvement(m))
	}
	return resp
}

func FromFerSnapshot(s db_models.FerRestantSnapshot) SnapshotResponse {
	resp := SnapshotResponse{
		ID:     s.ID.String(),
		Date:   dateOnly(s.Date),
		Note:   s.Note,
		Lignes: make([]LigneResponse, 0, len(s.Lignes)),
	}
	for _, l := range s.Lignes {
		resp.Lignes = append(resp.Lignes, LigneResponse{Mm: l.Diametre.Mm, Label: l.Diametre.Label, Qty: l.Qty})
	}
	return resp
}

func FromFerRestant(r db_models.FerRestantNonConfectionne, withRapport bool) RestantResponse {
	resp := RestantResponse{
		ID:          r.ID.String(),
		RapportID:   r.RapportID.String(),
		RapportDate: dateOnlyPtr(r.RapportDate),
		Snapshots:   make([]SnapshotResponse, 0, len(r.Snapshots)),
	}
	if withRapport {
		rap := FromFerRapport(r.Rapport)
		resp.Rapport = &rap
	}
	for _, s := range r.Snapshots {
		resp.Snapshots = append(resp.Snapshots, FromFerSnapshot(s))
	}
	return resp
}
