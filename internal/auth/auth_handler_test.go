package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrops/internal/auth"
	autherrors "go-hrops/internal/auth/errors"
	authMock "go-hrops/internal/auth/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setupHandlerTest(t *testing.T) (*gin.Engine, *authMock.MockService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := authMock.NewMockService(ctrl)
	h := auth.NewHandler(svc)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", h.Logout)
	r.DELETE("/users/:id", func(c *gin.Context) {
		c.Set("profile_id", "actor-1")
		h.DeleteUser(c)
	})
	return r, svc
}

func jsonBody(v any) *bytes.Buffer {
	b, _ := json.Marshal(v)
	return bytes.NewBuffer(b)
}

func TestHandler_Login(t *testing.T) {
	pair := auth.LoginResponse{
		User:      auth.AccountResponse{Role: "employee"},
		TokenPair: auth.TokenPair{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900},
	}

	t.Run("web client gets cookies", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().Login(gomock.Any(), auth.LoginRequest{Email: "a@b.co", Password: "secret-123"}).Return(pair, nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", jsonBody(gin.H{"email": "a@b.co", "password": "secret-123"}))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "web")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		cookies := strings.Join(w.Header().Values("Set-Cookie"), ";")
		assert.Contains(t, cookies, "access_token=a")
		assert.Contains(t, cookies, "refresh_token=r")
	})

	t.Run("mobile client gets body only", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(pair, nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", jsonBody(gin.H{"email": "a@b.co", "password": "secret-123"}))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "mobile")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Values("Set-Cookie"))
		assert.Contains(t, w.Body.String(), `"refresh_token":"r"`)
	})

	t.Run("bad credentials", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(auth.LoginResponse{}, autherrors.ErrInvalidCredentials)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", jsonBody(gin.H{"email": "a@b.co", "password": "nope"}))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		r, _ := setupHandlerTest(t)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", jsonBody(gin.H{"email": "a@b.co"}))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Refresh(t *testing.T) {
	t.Run("reads the cookie for web clients", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().Refresh(gomock.Any(), "from-cookie").Return(auth.LoginResponse{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		req.Header.Set("X-Client-Type", "web")
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "from-cookie"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reads the body otherwise", func(t *testing.T) {
		r, svc := setupHandlerTest(t)
		svc.EXPECT().Refresh(gomock.Any(), "from-body").Return(auth.LoginResponse{}, autherrors.ErrInvalidRefreshToken)

		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", jsonBody(gin.H{"refresh_token": "from-body"}))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "api")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Logout(t *testing.T) {
	r, _ := setupHandlerTest(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, strings.Join(w.Header().Values("Set-Cookie"), ";"), "Max-Age=0")
}

func TestHandler_DeleteUser(t *testing.T) {
	r, svc := setupHandlerTest(t)
	svc.EXPECT().DeleteUser(gomock.Any(), "actor-1", "actor-1").Return(autherrors.ErrCannotDeleteSelf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/actor-1", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}
