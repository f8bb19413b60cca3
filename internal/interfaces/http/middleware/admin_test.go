package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/storefront/backend/internal/domain/identity"
)

func adminTestRouter(principal *identity.Principal) *gin.Engine {
	router := gin.New()
	if principal != nil {
		p := *principal
		router.Use(func(c *gin.Context) {
			c.Set(PrincipalKey, p)
			c.Next()
		})
	}
	router.Use(RequireAdmin())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	router := adminTestRouter(&identity.Principal{UserID: uuid.New(), Role: identity.RoleAdmin})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_CustomerForbidden(t *testing.T) {
	router := adminTestRouter(&identity.Principal{UserID: uuid.New(), Role: identity.RoleCustomer})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_FORBIDDEN")
}

func TestRequireAdmin_NoPrincipal(t *testing.T) {
	router := adminTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
