package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartwebify/internal/models/db_models"
	"smartwebify/internal/models/request_models"
	"smartwebify/internal/models/response_models"
	"smartwebify/internal/repositories"
	"smartwebify/pkg/utils"
)

type FerraillageServiceInterface interface {
	ListRapports(ctx context.Context, q string) ([]response_models.RapportListItem, error)
	CreateRapport(ctx context.Context, request request_models.RapportCreateRequest) (*response_models.RapportResponse, error)
	GetRapport(ctx context.Context, id string) (*response_models.RapportDetail, error)
	DeleteRapport(ctx context.Context, id string) error

	ListDiametres(ctx context.Context) ([]response_models.DiametreResponse, error)
	UpsertDiametre(ctx context.Context, request request_models.DiametreUpsertRequest) (*response_models.DiametreResponse, error)

	CreateEtat(ctx context.Context, request request_models.EtatCreateRequest) (*response_models.EtatResponse, error)
	GetEtat(ctx context.Context, id string) (*response_models.EtatResponse, error)
	GetEtatByRapport(ctx context.Context, rapportID string) (*response_models.EtatResponse, error)

	CreateMouvement(ctx context.Context, etatID string, request request_models.MouvementCreateRequest) (*response_models.MouvementResponse, error)
	UpdateMouvement(ctx context.Context, id string, request request_models.MouvementUpdateRequest) (*response_models.MouvementResponse, error)
	DeleteMouvement(ctx context.Context, id string) error

	CreateRestant(ctx context.Context, request request_models.RestantCreateRequest) (*response_models.RestantResponse, error)
	GetRestant(ctx context.Context, id string) (*response_models.RestantResponse, error)
	GetRestantByRapport(ctx context.Context, rapportID string) (*response_models.RestantResponse, error)
	PutSnapshot(ctx context.Context, restantID string, request request_models.SnapshotPutRequest) (*response_models.SnapshotResponse, error)
	DeleteRestant(ctx context.Context, id string) error
}

type FerraillageService struct {
	ferRepo repositories.FerraillageRepository
}

func NewFerraillageService(ferRepo repositories.FerraillageRepository) FerraillageServiceInterface {
	return &FerraillageService{ferRepo: ferRepo}
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, utils.ErrInvalidInput
	}
	return id, nil
}

func mapRepoError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrRecordNotFound
	}
	return utils.ErrDatabaseError
}

func (f *FerraillageService) ListRapports(ctx context.Context, q string) ([]response_models.RapportListItem, error) {
	rapports, counts, err := f.ferRepo.ListRapports(ctx, q)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	out := make([]response_models.RapportListItem, 0, len(rapports))
	for _, r := range rapports {
		c := counts[r.ID]
		out = append(out, response_models.RapportListItem{
			RapportResponse: response_models.FromFerRapport(r),
			EtatCount:       c.Etats,
			RestantCount:    c.Restants,
		})
	}
	return out, nil
}

func (f *FerraillageService) CreateRapport(ctx context.Context, request request_models.RapportCreateRequest) (*response_models.RapportResponse, error) {
	rapport, err := f.ferRepo.CreateRapport(ctx, request.ChantierName, request.SousTraitant)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	resp := response_models.FromFerRapport(*rapport)
	return &resp, nil
}

func (f *FerraillageService) GetRapport(ctx context.Context, id string) (*response_models.RapportDetail, error) {
	rapportID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	rapport, err := f.ferRepo.FindRapportByID(ctx, rapportID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if rapport == nil {
		return nil, utils.ErrRecordNotFound
	}

	detail := &response_models.RapportDetail{
		RapportResponse: response_models.FromFerRapport(*rapport),
		Etats:           make([]response_models.EtatResponse, 0, len(rapport.Etats)),
		Restants:        make([]response_models.RestantResponse, 0, len(rapport.Restants)),
	}
	for _, etat := range rapport.Etats {
		detail.Etats = append(detail.Etats, response_models.FromFerEtat(etat, false))
	}
	for _, restant := range rapport.Restants {
		detail.Restants = append(detail.Restants, response_models.FromFerRestant(restant, false))
	}
	return detail, nil
}

func (f *FerraillageService) DeleteRapport(ctx context.Context, id string) error {
	rapportID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := f.ferRepo.DeleteRapport(ctx, rapportID); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func (f *FerraillageService) ListDiametres(ctx context.Context) ([]response_models.DiametreResponse, error) {
	diametres, err := f.ferRepo.ListDiametres(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	out := make([]response_models.DiametreResponse, 0, len(diametres))
	for _, d := range diametres {
		out = append(out, response_models.FromFerDiametre(d))
	}
	return out, nil
}

func (f *FerraillageService) UpsertDiametre(ctx context.Context, request request_models.DiametreUpsertRequest) (*response_models.DiametreResponse, error) {
	diametre, err := f.ferRepo.UpsertDiametre(ctx, request.Mm, request.Label, request.IsActive)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	resp := response_models.FromFerDiametre(*diametre)
	return &resp, nil
}

func rapportRefFrom(rapportID, chantierName, sousTraitant *string) (repositories.RapportRef, error) {
	var ref repositories.RapportRef
	if rapportID != nil && *rapportID != "" {
		id, err := parseID(*rapportID)
		if err != nil {
			return ref, err
		}
		ref.ID = &id
		return ref, nil
	}
	if chantierName == nil || *chantierName == "" {
		return ref, utils.ErrInvalidInput
	}
	ref.ChantierName = chantierName
	ref.SousTraitant = sousTraitant
	return ref, nil
}

func (f *FerraillageService) CreateEtat(ctx context.Context, request request_models.EtatCreateRequest) (*response_models.EtatResponse, error) {
	ref, err := rapportRefFrom(request.RapportID, request.ChantierName, request.SousTraitant)
	if err != nil {
		return nil, err
	}
	var etatDate *time.Time
	if request.EtatDate != nil {
		etatDate = &request.EtatDate.Time
	}
	etat, err := f.ferRepo.CreateEtat(ctx, ref, etatDate)
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := response_models.FromFerEtat(*etat, true)
	return &resp, nil
}

func (f *FerraillageService) GetEtat(ctx context.Context, id string) (*response_models.EtatResponse, error) {
	etatID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	etat, err := f.ferRepo.FindEtatByID(ctx, etatID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if etat == nil {
		return nil, utils.ErrRecordNotFound
	}
	resp := response_models.FromFerEtat(*etat, true)
	return &resp, nil
}

// GetEtatByRapport returns nil without error when the rapport has no etat
// yet; the endpoint reports that as an empty item, not a 404.
func (f *FerraillageService) GetEtatByRapport(ctx context.Context, rapportID string) (*response_models.EtatResponse, error) {
	id, err := parseID(rapportID)
	if err != nil {
		return nil, err
	}
	etat, err := f.ferRepo.LatestEtatForRapport(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if etat == nil {
		return nil, nil
	}
	resp := response_models.FromFerEtat(*etat, true)
	return &resp, nil
}

func lignesFrom(lignes []request_models.LigneInput) []repositories.LigneValue {
	out := make([]repositories.LigneValue, 0, len(lignes))
	for _, l := range lignes {
		out = append(out, repositories.LigneValue{Mm: l.Mm, Qty: *l.Qty})
	}
	return out
}

func (f *FerraillageService) CreateMouvement(ctx context.Context, etatID string, request request_models.MouvementCreateRequest) (*response_models.MouvementResponse, error) {
	id, err := parseID(etatID)
	if err != nil {
		return nil, err
	}

	mType := db_models.MouvementLivraison
	if request.Type != "" {
		mType = db_models.FerMouvementType(request.Type)
	}

	mouvement, err := f.ferRepo.CreateMouvement(ctx, id, request.Date.Time, mType, request.BonLivraison, request.Note, lignesFrom(request.Lignes))
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := response_models.FromFerMouvement(*mouvement)
	return &resp, nil
}

func (f *FerraillageService) UpdateMouvement(ctx context.Context, id string, request request_models.MouvementUpdateRequest) (*response_models.MouvementResponse, error) {
	mouvementID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	patch := repositories.MouvementPatch{
		BonLivraison:    request.BonLivraison.Value,
		BonLivraisonSet: request.BonLivraison.Set,
		Note:            request.Note.Value,
		NoteSet:         request.Note.Set,
	}
	if request.Date != nil {
		patch.Date = &request.Date.Time
	}
	if request.Type != nil {
		t := db_models.FerMouvementType(*request.Type)
		patch.Type = &t
	}
	if request.Lignes != nil {
		patch.Lignes = lignesFrom(request.Lignes)
		patch.LignesSet = true
	}

	mouvement, err := f.ferRepo.UpdateMouvement(ctx, mouvementID, patch)
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := response_models.FromFerMouvement(*mouvement)
	return &resp, nil
}

func (f *FerraillageService) DeleteMouvement(ctx context.Context, id string) error {
	mouvementID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := f.ferRepo.DeleteMouvement(ctx, mouvementID); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func (f *FerraillageService) CreateRestant(ctx context.Context, request request_models.RestantCreateRequest) (*response_models.RestantResponse, error) {
	ref, err := rapportRefFrom(request.RapportID, request.ChantierName, request.SousTraitant)
	if err != nil {
		return nil, err
	}
	var rapportDate *time.Time
	if request.RapportDate != nil {
		rapportDate = &request.RapportDate.Time
	}
	restant, err := f.ferRepo.CreateRestant(ctx, ref, rapportDate)
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := response_models.FromFerRestant(*restant, true)
	return &resp, nil
}

func (f *FerraillageService) GetRestant(ctx context.Context, id string) (*response_models.RestantResponse, error) {
	restantID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	restant, err := f.ferRepo.FindRestantByID(ctx, restantID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if restant == nil {
		return nil, utils.ErrRecordNotFound
	}
	resp := response_models.FromFerRestant(*restant, true)
	return &resp, nil
}

func (f *FerraillageService) GetRestantByRapport(ctx context.Context, rapportID string) (*response_models.RestantResponse, error) {
	id, err := parseID(rapportID)
	if err != nil {
		return nil, err
	}
	restant, err := f.ferRepo.LatestRestantForRapport(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if restant == nil {
		return nil, nil
	}
	resp := response_models.FromFerRestant(*restant, true)
	return &resp, nil
}

func (f *FerraillageService) PutSnapshot(ctx context.Context, restantID string, request request_models.SnapshotPutRequest) (*response_models.SnapshotResponse, error) {
	id, err := parseID(restantID)
	if err != nil {
		return nil, err
	}
	snapshot, err := f.ferRepo.UpsertSnapshot(ctx, id, request.Date.Time, request.Note, lignesFrom(request.Lignes))
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := response_models.FromFerSnapshot(*snapshot)
	return &resp, nil
}

func (f *FerraillageService) DeleteRestant(ctx context.Context, id string) error {
	restantID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := f.ferRepo.DeleteRestant(ctx, restantID); err != nil {
		return mapRepoError(err)
	}
	return nil
}
