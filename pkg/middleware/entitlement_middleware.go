package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartwebify/internal/services"
	"smartwebify/pkg/utils"
)

const entitlementKey = "entitlement"

// RequireSubscriptionValid resolves the caller's entitlement and attaches it
// to the gin context. Resolution is fresh on every request; nothing is
// cached between requests.
func RequireSubscriptionValid(entitlements services.EntitlementServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		ent, err := entitlements.Resolve(c.Request.Context(), userID)
		if err != nil {
			utils.HandleServiceError(c, err)
			c.Abort()
			return
		}

		c.Set(entitlementKey, ent)
		c.Next()
	}
}

func RequireModule(moduleKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ent, ok := EntitlementFromContext(c)
		if !ok || !ent.HasModule(moduleKey) {
			utils.RespondEntitlementError(c, utils.ErrModuleNotEnabled)
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireSubModule(subModuleKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ent, ok := EntitlementFromContext(c)
		if !ok || !ent.HasSubModule(subModuleKey) {
			utils.RespondEntitlementError(c, utils.ErrSubModuleNotEnabled)
			c.Abort()
			return
		}
		c.Next()
	}
}

// EntitlementFromContext returns the bundle attached by
// RequireSubscriptionValid so downstream handlers never re-resolve.
func EntitlementFromContext(c *gin.Context) (*services.Entitlement, bool) {
	v, ok := c.Get(entitlementKey)
	if !ok {
		return nil, false
	}
	ent, ok := v.(*services.Entitlement)
	return ent, ok
}
