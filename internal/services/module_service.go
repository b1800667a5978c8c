package services

import (
	"context"

	"smartwebify/internal/models/response_models"
	"smartwebify/internal/repositories"
	"smartwebify/pkg/utils"
)

type ModuleServiceInterface interface {
	GetCatalog(ctx context.Context) ([]response_models.ModuleResponse, error)
	GetEnabled(ctx context.Context, ent *Entitlement) ([]response_models.ModuleResponse, error)
}

type ModuleService struct {
	moduleRepo repositories.ModuleRepository
}

func NewModuleService(moduleRepo repositories.ModuleRepository) ModuleServiceInterface {
	return &ModuleService{moduleRepo: moduleRepo}
}

func (m *ModuleService) GetCatalog(ctx context.Context) ([]response_models.ModuleResponse, error) {
	modules, err := m.moduleRepo.ListCatalog(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	out := make([]response_models.ModuleResponse, 0, len(modules))
	for _, module := range modules {
		out = append(out, response_models.FromModule(module))
	}
	return out, nil
}

// GetEnabled projects the catalog down to the caller's entitlement, pruning
// sub-modules the entitlement does not cover.
func (m *ModuleService) GetEnabled(ctx context.Context, ent *Entitlement) ([]response_models.ModuleResponse, error) {
	modules, err := m.moduleRepo.ListCatalog(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.ModuleResponse, 0, len(modules))
	for _, module := range modules {
		if !ent.HasModule(module.Key) {
			continue
		}
		resp := response_models.FromModule(module)
		kept := resp.SubModules[:0]
		for _, sm := range resp.SubModules {
			if ent.HasSubModule(sm.Key) {
				kept = append(kept, sm)
			}
		}
		resp.SubModules = kept
		out = append(out, resp)
	}
	return out, nil
}
