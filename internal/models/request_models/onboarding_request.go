package request_models

// Keys outside the closed catalogs are rejected here, at the binding
// boundary, before any lookup.

type SelectPlanRequest struct {
	Plan         string `json:"plan" binding:"required,oneof=INDIVIDUAL ENTERPRISE"`
	BillingCycle string `json:"billingCycle" binding:"required,oneof=MONTHLY YEARLY"`
}

type SelectModulesRequest struct {
	ModuleKeys    []string `json:"moduleKeys" binding:"required,min=1,max=2,dive,modulekey"`
	SubModuleKeys []string `json:"subModuleKeys" binding:"omitempty,dive,submodulekey"`
}

// ModulesSelectRequest is the legacy /modules/select payload: empty sets are
// allowed past binding so the service can answer with the MODULES_REQUIRED /
// SUBMODULES_REQUIRED codes instead of a plain 400.
type ModulesSelectRequest struct {
	ModuleKeys    []string `json:"moduleKeys" binding:"omitempty,max=2,dive,modulekey"`
	SubModuleKeys []string `json:"subModuleKeys" binding:"omitempty,dive,submodulekey"`
}
