package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payhub-id/payment-service/internal/domain/entity"
	"github.com/payhub-id/payment-service/internal/domain/repository"
	"github.com/payhub-id/payment-service/pkg/helpers"
)

type fakeUserRepo struct {
	users map[string]*entity.User
	fault error
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entity.User) error { return nil }

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if f.fault != nil {
		return nil, f.fault
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id, name, profilePicture string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) SetActive(ctx context.Context, id string, active bool) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) SetRole(ctx context.Context, id string, role entity.Role) error { return nil }

func (f *fakeUserRepo) List(ctx context.Context) ([]entity.User, error) { return nil, nil }

func (f *fakeUserRepo) Count(ctx context.Context) (int64, int64, error) { return 0, 0, nil }

func setupAuthRouter(t *testing.T, repo repository.UserRepository, jwt *helpers.JWTManager, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/")
	g.Use(Auth(repo, jwt))
	g.Use(extra...)
	g.GET("/secure", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(CtxUserID),
			"role":    c.GetString(CtxUserRole),
		})
	})
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_Success(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	repo := &fakeUserRepo{users: map[string]*entity.User{
		"u1": {ID: "u1", Email: "a@x.com", Role: entity.RoleUser, IsActive: true},
	}}
	r := setupAuthRouter(t, repo, jwt)

	token, _, err := jwt.Generate("u1", "a@x.com", "USER")
	require.NoError(t, err)

	w := doGet(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
	assert.Contains(t, w.Body.String(), `"role":"USER"`)
}

func TestAuth_MissingHeader(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := setupAuthRouter(t, &fakeUserRepo{}, jwt)

	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_LiteralNullTokens(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := setupAuthRouter(t, &fakeUserRepo{}, jwt)

	for _, h := range []string{"Bearer null", "Bearer undefined", "Bearer ", "Basic abc"} {
		w := doGet(r, h)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", h)
	}
}

func TestAuth_GarbageToken(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := setupAuthRouter(t, &fakeUserRepo{}, jwt)

	w := doGet(r, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_UnknownUser(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := setupAuthRouter(t, &fakeUserRepo{users: map[string]*entity.User{}}, jwt)

	token, _, _ := jwt.Generate("ghost", "g@x.com", "USER")
	w := doGet(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found or inactive")
}

func TestAuth_InactiveUser(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	repo := &fakeUserRepo{users: map[string]*entity.User{
		"u1": {ID: "u1", Role: entity.RoleUser, IsActive: false},
	}}
	r := setupAuthRouter(t, repo, jwt)

	token, _, _ := jwt.Generate("u1", "a@x.com", "USER")
	w := doGet(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found or inactive")
}

func TestAuth_StoreFaultIs500(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	repo := &fakeUserRepo{fault: errors.New("connection refused")}
	r := setupAuthRouter(t, repo, jwt)

	token, _, _ := jwt.Generate("u1", "a@x.com", "USER")
	w := doGet(r, "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireRole(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	repo := &fakeUserRepo{users: map[string]*entity.User{
		"u1":   {ID: "u1", Role: entity.RoleUser, IsActive: true},
		"a1":   {ID: "a1", Role: entity.RoleAdmin, IsActive: true},
		"root": {ID: "root", Role: entity.RoleSuperAdmin, IsActive: true},
	}}
	r := setupAuthRouter(t, repo, jwt, RequireRole(entity.RoleAdmin, entity.RoleSuperAdmin))

	cases := []struct {
		userID string
		want   int
	}{
		{"u1", http.StatusForbidden},
		{"a1", http.StatusOK},
		{"root", http.StatusOK},
	}
	for _, tc := range cases {
		token, _, _ := jwt.Generate(tc.userID, "x@x.com", "")
		w := doGet(r, "Bearer "+token)
		assert.Equal(t, tc.want, w.Code, "user %s", tc.userID)
	}
}

func TestRequireRole_WithoutAuthIsForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", RequireRole(entity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
