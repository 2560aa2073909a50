package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendflow/internal/config"
	"lendflow/internal/models"
	"lendflow/internal/repository"
	"lendflow/internal/security"
)

type stubUserStore struct {
	user models.User
}

func (s *stubUserStore) Create(_ context.Context, _ models.User) error { return nil }

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	if s.user.Email != email {
		return models.User{}, repository.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	if s.user.ID != id {
		return models.User{}, repository.ErrUserNotFound
	}
	return s.user, nil
}

type stubSessionStore struct {
	session models.Session
}

func (s *stubSessionStore) Create(_ context.Context, _ models.Session) error { return nil }

func (s *stubSessionStore) GetByID(_ context.Context, id string) (models.Session, error) {
	if s.session.ID != id {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return s.session, nil
}

func (s *stubSessionStore) FindByRefreshHash(_ context.Context, _ string, _ []byte) (models.Session, error) {
	return models.Session{}, repository.ErrSessionNotFound
}

func (s *stubSessionStore) CountByUser(_ context.Context, _ string) (int, error) { return 1, nil }

func (s *stubSessionStore) DeleteOldestSessions(_ context.Context, _ string, _ int) error {
	return nil
}

func (s *stubSessionStore) DeleteByID(_ context.Context, _ string) error { return nil }

func (s *stubSessionStore) Touch(_ context.Context, _ string, _ string, _ string) error {
	return nil
}

const authTestSecret = "auth-mw-secret"

func authTestRouter(t *testing.T, user models.User, session models.Session) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Security: config.SecurityConfig{JWTAccessSecret: authTestSecret},
	}

	token, err := security.GenerateAccessToken(authTestSecret, user.ID, session.ID, string(user.Role), time.Minute)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me",
		Auth(cfg, &stubUserStore{user: user}, &stubSessionStore{session: session}),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return router, token
}

func activeFixture() (models.User, models.Session) {
	user := models.User{
		ID:     "u1",
		Email:  "asha@example.com",
		Role:   models.UserRoleCustomer,
		Status: models.UserStatusActive,
	}
	session := models.Session{
		ID:        "s1",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return user, session
}

func TestAuthAcceptsActiveUserWithLiveSession(t *testing.T) {
	user, session := activeFixture()
	router, token := authTestRouter(t, user, session)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRejectsMissingToken(t *testing.T) {
	user, session := activeFixture()
	router, _ := authTestRouter(t, user, session)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsInactiveUser(t *testing.T) {
	for _, status := range []models.UserStatus{models.UserStatusSuspended, models.UserStatusPending} {
		user, session := activeFixture()
		user.Status = status
		router, token := authTestRouter(t, user, session)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, "status %s", status)
		assert.Contains(t, rec.Body.String(), "user_inactive")
	}
}

func TestAuthRejectsExpiredSession(t *testing.T) {
	user, session := activeFixture()
	session.ExpiresAt = time.Now().Add(-time.Minute)
	router, token := authTestRouter(t, user, session)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_expired")
}
