package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartwebify/internal/models/db_models"
	"smartwebify/internal/models/request_models"
	"smartwebify/internal/services"
	"smartwebify/pkg/middleware"
	"smartwebify/pkg/utils"
)

type OnboardingController struct {
	onboardingService services.OnboardingServiceInterface
}

func NewOnboardingController(onboardingService services.OnboardingServiceInterface) *OnboardingController {
	return &OnboardingController{onboardingService: onboardingService}
}

func (o *OnboardingController) SelectPlan(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var request request_models.SelectPlanRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err := o.onboardingService.SelectPlan(c.Request.Context(), userID,
		db_models.PlanType(request.Plan), db_models.BillingCycle(request.BillingCycle))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Plan selected")
}

func (o *OnboardingController) SelectModules(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var request request_models.SelectModulesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err := o.onboardingService.SelectModules(c.Request.Context(), userID, request.ModuleKeys, request.SubModuleKeys)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Modules selected")
}
