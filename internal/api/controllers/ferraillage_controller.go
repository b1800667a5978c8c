package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartwebify/internal/models/request_models"
	"smartwebify/internal/services"
	"smartwebify/pkg/utils"
)

type FerraillageController struct {
	ferService services.FerraillageServiceInterface
}

func NewFerraillageController(ferService services.FerraillageServiceInterface) *FerraillageController {
	return &FerraillageController{ferService: ferService}
}

func (f *FerraillageController) ListRapports(c *gin.Context) {
	items, err := f.ferService.ListRapports(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, items, "")
}

func (f *FerraillageController) CreateRapport(c *gin.Context) {
	var request request_models.RapportCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	rapport, err := f.ferService.CreateRapport(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, rapport, "Rapport created")
}

func (f *FerraillageController) GetRapport(c *gin.Context) {
	detail, err := f.ferService.GetRapport(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, detail, "")
}

func (f *FerraillageController) DeleteRapport(c *gin.Context) {
	if err := f.ferService.DeleteRapport(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Rapport deleted")
}

func (f *FerraillageController) ListDiametres(c *gin.Context) {
	diametres, err := f.ferService.ListDiametres(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, diametres, "")
}

func (f *FerraillageController) UpsertDiametre(c *gin.Context) {
	var request request_models.DiametreUpsertRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	diametre, err := f.ferService.UpsertDiametre(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, diametre, "")
}

func (f *FerraillageController) CreateEtat(c *gin.Context) {
	var request request_models.EtatCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	etat, err := f.ferService.CreateEtat(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, etat, "Etat created")
}

func (f *FerraillageController) GetEtat(c *gin.Context) {
	etat, err := f.ferService.GetEtat(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, etat, "")
}

// GetEtatByRapport answers 200 with a null item when the rapport has no etat
// yet; the client treats that as "nothing recorded", not an error.
func (f *FerraillageController) GetEtatByRapport(c *gin.Context) {
	etat, err := f.ferService.GetEtatByRapport(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"item": etat}, "")
}

func (f *FerraillageController) CreateMouvement(c *gin.Context) {
	var request request_models.MouvementCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	mouvement, err := f.ferService.CreateMouvement(c.Request.Context(), c.Param("id"), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, mouvement, "Mouvement created")
}

func (f *FerraillageController) UpdateMouvement(c *gin.Context) {
	var request request_models.MouvementUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	mouvement, err := f.ferService.UpdateMouvement(c.Request.Context(), c.Param("id"), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, mouvement, "Mouvement updated")
}

func (f *FerraillageController) DeleteMouvement(c *gin.Context) {
	if err := f.ferService.DeleteMouvement(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Mouvement deleted")
}

func (f *FerraillageController) CreateRestant(c *gin.Context) {
	var request request_models.RestantCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	restant, err := f.ferService.CreateRestant(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, restant, "Restant created")
}

func (f *FerraillageController) GetRestant(c *gin.Context) {
	restant, err := f.ferService.GetRestant(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, restant, "")
}

func (f *FerraillageController) GetRestantByRapport(c *gin.Context) {
	restant, err := f.ferService.GetRestantByRapport(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"item": restant}, "")
}

func (f *FerraillageController) PutSnapshot(c *gin.Context) {
	var request request_models.SnapshotPutRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, err := f.ferService.PutSnapshot(c.Request.Context(), c.Param("id"), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, snapshot, "Snapshot saved")
}

func (f *FerraillageController) DeleteRestant(c *gin.Context) {
	if err := f.ferService.DeleteRestant(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Restant deleted")
}
