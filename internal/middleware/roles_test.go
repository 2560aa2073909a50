package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"lendflow/internal/models"
)

func rolesTestRouter(user *models.User, allowed ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/guarded",
		func(c *gin.Context) {
			if user != nil {
				c.Set(ContextUser, *user)
			}
		},
		RequireRoles(allowed...),
		func(c *gin.Context) {
			c.Status(http.StatusOK)
		},
	)
	return router
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	user := models.User{ID: "u1", Role: models.UserRoleBuilder}
	router := rolesTestRouter(&user, models.UserRoleBuilder, models.UserRoleSuperAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	user := models.User{ID: "u1", Role: models.UserRoleCustomer}
	router := rolesTestRouter(&user, models.UserRoleBuilder, models.UserRoleSuperAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesRejectsMissingUser(t *testing.T) {
	router := rolesTestRouter(nil, models.UserRoleSuperAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRolesSuperAdminOnly(t *testing.T) {
	for role, want := range map[models.UserRole]int{
		models.UserRoleSuperAdmin:   http.StatusOK,
		models.UserRoleSalesManager: http.StatusForbidden,
		models.UserRoleConnector:    http.StatusForbidden,
	} {
		user := models.User{ID: "u1", Role: role}
		router := rolesTestRouter(&user, models.UserRoleSuperAdmin)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))
		assert.Equal(t, want, rec.Code, "role %s", role)
	}
}
