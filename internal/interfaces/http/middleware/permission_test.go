package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/zreport/backend/internal/domain/identity"
	"github.com/zreport/backend/internal/infrastructure/auth"
	"github.com/zreport/backend/internal/interfaces/http/dto"
)

func TestRequireAction(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)

	tests := []struct {
		name   string
		role   identity.Role
		action identity.Action
		status int
	}{
		{"admin locks", identity.RoleAdmin, identity.ActionLockReport, http.StatusOK},
		{"accounting cannot lock", identity.RoleAccounting, identity.ActionLockReport, http.StatusForbidden},
		{"accounting submits", identity.RoleAccounting, identity.ActionSubmitReport, http.StatusOK},
		{"accounting cannot manage master data", identity.RoleAccounting, identity.ActionManageMasterData, http.StatusForbidden},
		{"accounting views master data", identity.RoleAccounting, identity.ActionViewMasterData, http.StatusOK},
		{"unknown role", identity.Role("cashier"), identity.ActionViewReports, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _ := newTestToken(t, svc, tt.role)

			router := gin.New()
			router.Use(JWTAuthMiddleware(svc))
			router.POST("/test", RequireAction(tt.action), okHandler)

			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, dto.ErrCodeForbidden, decodeError(t, rec).Code)
			}
		})
	}
}

func TestRequireAction_WithoutAuthentication(t *testing.T) {
	router := gin.New()
	router.GET("/test", RequireAction(identity.ActionViewReports), okHandler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, decodeError(t, rec).Code)
}

func TestRequireAction_ClaimsSetDirectly(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTClaimsKey, &auth.Claims{UserID: "u1", Role: "ADMIN"})
		c.Next()
	})
	router.GET("/test", RequireAction(identity.ActionManageMasterData), okHandler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	// role names are case-insensitive
	assert.Equal(t, http.StatusOK, rec.Code)
}
