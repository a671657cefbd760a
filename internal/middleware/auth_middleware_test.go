package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/akshayk/labledger/internal/app/models"
	"github.com/akshayk/labledger/internal/pkg/auth"
)

func newTestRouter(jwtService *auth.JWTService, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	m := NewAuthMiddleware(jwtService)
	group := router.Group("/secure", m.JWTAuth())
	if len(roles) > 0 {
		group.Use(m.RoleRequired(roles...))
	}
	group.GET("", func(c *gin.Context) {
		id, _ := CallerID(c)
		c.JSON(http.StatusOK, gin.H{"userId": id})
	})
	return router
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "labledger-test",
	})
}

func request(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMissingHeader(t *testing.T) {
	router := newTestRouter(testJWTService())

	w := request(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	router := newTestRouter(testJWTService())

	w := request(router, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthValidToken(t *testing.T) {
	jwtService := testJWTService()
	router := newTestRouter(jwtService)

	token, _, err := jwtService.GenerateToken(&models.User{ID: 7, Role: models.RoleStudent})
	assert.NoError(t, err)

	w := request(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":7`)
}

func TestRoleRequiredBlocksOtherRoles(t *testing.T) {
	jwtService := testJWTService()
	router := newTestRouter(jwtService, models.RoleAdmin)

	token, _, err := jwtService.GenerateToken(&models.User{ID: 7, Role: models.RoleStudent})
	assert.NoError(t, err)

	w := request(router, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleRequiredAllowsAnyListedRole(t *testing.T) {
	jwtService := testJWTService()
	router := newTestRouter(jwtService, models.RoleAdmin, models.RoleFaculty)

	token, _, err := jwtService.GenerateToken(&models.User{ID: 3, Role: models.RoleFaculty})
	assert.NoError(t, err)

	w := request(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	expired := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    -time.Minute,
		TokenIssuer: "labledger-test",
	})
	router := newTestRouter(testJWTService())

	token, _, err := expired.GenerateToken(&models.User{ID: 7, Role: models.RoleStudent})
	assert.NoError(t, err)

	w := request(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}
