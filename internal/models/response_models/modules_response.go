package response_models

import "smartwebify/internal/models/db_models"

type SubModuleResponse struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Route     string `json:"route"`
	SortOrder int    `json:"sortOrder"`
	IsActive  bool   `json:"isActive"`
}

type ModuleResponse struct {
	Key        string              `json:"key"`
	Name       string              `json:"name"`
	Slug       string              `json:"slug"`
	Route      string              `json:"route"`
	SortOrder  int                 `json:"sortOrder"`
	IsActive   bool                `json:"isActive"`
	SubModules []SubModuleResponse `json:"subModules"`
}

func FromModule(m db_models.Module) ModuleResponse {
	resp := ModuleResponse{
		Key:        m.Key,
		Name:       m.Name,
		Slug:       m.Slug,
		Route:      m.Route,
		SortOrder:  m.SortOrder,
		IsActive:   m.IsActive,
		SubModules: make([]SubModuleResponse, 0, len(m.SubModules)),
	}
	for _, sm := range m.SubModules {
		resp.SubModules = append(resp.SubModules, SubModuleResponse{
			Key:       sm.Key,
			Name:      sm.Name,
			Slug:      sm.Slug,
			Route:     sm.Route,
			SortOrder: sm.SortOrder,
			IsActive:  sm.IsActive,
		})
	}
	return resp
}
