package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/odtrack/analytics-api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)
	return w
}

func routerWithClaims(claims *models.Claims, guard gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/protected", func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
	}, guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireAnalyticsAccessAllowsStaff(t *testing.T) {
	claims := &models.Claims{UserID: "staff-1", Role: models.RoleStaff}
	w := performRequest(routerWithClaims(claims, RequireAnalyticsAccess()))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAnalyticsAccessRejectsStudent(t *testing.T) {
	claims := &models.Claims{UserID: "stu-1", Role: models.RoleStudent}
	w := performRequest(routerWithClaims(claims, RequireAnalyticsAccess()))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "staff role")
}

func TestRequireAnalyticsAccessRejectsMissingClaims(t *testing.T) {
	w := performRequest(routerWithClaims(nil, RequireAnalyticsAccess()))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles(t *testing.T) {
	guard := RequireRoles(models.RoleAdmin, models.RoleSuperuser)

	admin := &models.Claims{UserID: "adm-1", Role: models.RoleAdmin}
	w := performRequest(routerWithClaims(admin, guard))
	assert.Equal(t, http.StatusOK, w.Code)

	staff := &models.Claims{UserID: "staff-1", Role: models.RoleStaff}
	w = performRequest(routerWithClaims(staff, guard))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
