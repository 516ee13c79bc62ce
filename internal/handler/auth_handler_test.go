package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/perpus-api/internal/middleware"
	"github.com/noah-isme/perpus-api/internal/models"
	"github.com/noah-isme/perpus-api/internal/service"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	nextID  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}, nextID: 1}
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "user-" + strconv.Itoa(r.nextID)
	r.nextID++
	stored := *user
	r.byEmail[user.Email] = &stored
	r.byID[user.ID] = &stored
	return nil
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewAuthService(newStubUserRepo(), nil, nil, service.AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "perpus-api",
	})
	h := NewAuthHandler(svc)

	router := gin.New()
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/me", middleware.JWT(svc), h.Me)
	return router
}

func postJSON(router *gin.Engine, path, body, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandlerRegisterLoginMe(t *testing.T) {
	router := newAuthTestRouter()

	rec := postJSON(router, "/register", `{"name":"Siti Rahma","email":"siti@example.com","password":"rahasia1"}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(router, "/login", `{"email":"siti@example.com","password":"rahasia1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(data, &login))
	require.NotEmpty(t, login.AccessToken)

	rec = postJSON(router, "/me", "", login.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	envelope = decodeEnvelope(t, rec)
	me, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "siti@example.com", me["email"])
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	router := newAuthTestRouter()

	rec := postJSON(router, "/register", `{"name":"Siti Rahma","email":"siti@example.com","password":"rahasia1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(router, "/login", `{"email":"siti@example.com","password":"salah123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerMeWithoutToken(t *testing.T) {
	router := newAuthTestRouter()

	rec := postJSON(router, "/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerMeWithGarbageToken(t *testing.T) {
	router := newAuthTestRouter()

	rec := postJSON(router, "/me", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
