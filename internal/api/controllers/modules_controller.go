package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartwebify/internal/models/request_models"
	"smartwebify/internal/services"
	"smartwebify/pkg/middleware"
	"smartwebify/pkg/utils"
)

type ModulesController struct {
	moduleService     services.ModuleServiceInterface
	onboardingService services.OnboardingServiceInterface
}

func NewModulesController(moduleService services.ModuleServiceInterface, onboardingService services.OnboardingServiceInterface) *ModulesController {
	return &ModulesController{moduleService: moduleService, onboardingService: onboardingService}
}

func (m *ModulesController) GetCatalog(c *gin.Context) {
	modules, err := m.moduleService.GetCatalog(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, modules, "")
}

func (m *ModulesController) GetEnabled(c *gin.Context) {
	ent, ok := middleware.EntitlementFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	modules, err := m.moduleService.GetEnabled(c.Request.Context(), ent)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, modules, "")
}

// Select is the legacy selection endpoint kept for older clients; it demands
// both key sets up front instead of validating them together.
func (m *ModulesController) Select(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var request request_models.ModulesSelectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err := m.onboardingService.SelectModulesLegacy(c.Request.Context(), userID, request.ModuleKeys, request.SubModuleKeys)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Modules selected")
}
