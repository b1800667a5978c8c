package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartwebify/internal/infra"
	"smartwebify/internal/models/request_models"
	"smartwebify/internal/models/response_models"
	"smartwebify/internal/services"
	"smartwebify/pkg/middleware"
	"smartwebify/pkg/utils"
)

type AuthController struct {
	accountService services.AccountServiceInterface
	cfg            *infra.Config
}

func NewAuthController(accountService services.AccountServiceInterface, cfg *infra.Config) *AuthController {
	return &AuthController{accountService: accountService, cfg: cfg}
}

// setSessionCookie issues the identity cookie with a max-age matching the
// token's own lifetime, so the browser and the token expire together.
func (a *AuthController) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, token, int(utils.TokenTTL().Seconds()), "/", "", a.cfg.CookieSecure, true)
}

func (a *AuthController) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", a.cfg.CookieSecure, true)
}

func (a *AuthController) SignUp(c *gin.Context) {
	var request request_models.SignUpRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.accountService.SignUp(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	token, err := utils.CreateToken(user.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	a.setSessionCookie(c, token)

	utils.RespondCreated(c, response_models.UserSummary{ID: user.ID.String(), Email: user.Email}, "Account created")
}

func (a *AuthController) Login(c *gin.Context) {
	var request request_models.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.accountService.Login(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	token, err := utils.CreateToken(user.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	a.setSessionCookie(c, token)

	utils.RespondSuccess(c, response_models.UserSummary{ID: user.ID.String(), Email: user.Email}, "Logged in")
}

func (a *AuthController) Logout(c *gin.Context) {
	a.clearSessionCookie(c)
	utils.RespondSuccess(c, nil, "Logged out")
}

func (a *AuthController) GetMe(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	me, err := a.accountService.GetMe(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, me, "")
}
