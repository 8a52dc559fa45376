package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/serverlessworks/meta-controller/pkg/entity"
	"github.com/serverlessworks/meta-controller/pkg/store"
)

// IdentityKey is the Gin context key for the authenticated caller identity.
const IdentityKey = "identity"

// BasicAuthMiddleware implements HTTP Basic auth against the subject store.
// The username is the caller's auth uuid and the password the auth key; a
// successful match attaches the resolved Identity to the Gin context.
func BasicAuthMiddleware(auth store.AuthStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uuid, key, ok := c.Request.BasicAuth()
		if !ok {
			logger.Debug("missing basic auth header")
			c.Header("WWW-Authenticate", `Basic realm="Restricted"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), uuid, key)
		if err != nil {
			if store.IsAuthenticationFailed(err) || store.IsNoDocument(err) {
				logger.Debug("credential mismatch", zap.String("uuid", uuid))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			GetLogger(c, logger).Error("auth store lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(IdentityKey, identity)

		// Add to logger for downstream handlers
		log := GetLogger(c, logger).With(zap.String("subject", identity.Subject))
		c.Set(LoggerKey, log)

		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from the Gin context.
func GetIdentity(c *gin.Context) (*entity.Identity, bool) {
	if v, exists := c.Get(IdentityKey); exists {
		if id, ok := v.(*entity.Identity); ok {
			return id, true
		}
	}
	return nil, false
}
