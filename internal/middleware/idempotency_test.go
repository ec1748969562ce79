package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func idempotentRouter(t *testing.T) (*gin.Engine, redismock.ClientMock, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rdb, mock := redismock.NewClientMock()
	calls := 0

	r := gin.New()
	r.POST("/tasks/:id/inventory", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	}, middleware.Idempotency(rdb), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, mock, &calls
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/tasks/t1/inventory", nil)
	if key != "" {
		req.Header.Set(middleware.IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	cacheKey := middleware.IdempotencyKey("/tasks/:id/inventory", "user-1", "k1")

	t.Run("no key runs the handler", func(t *testing.T) {
		r, mock, calls := idempotentRouter(t)
		w := postWithKey(r, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first call stores the response", func(t *testing.T) {
		r, mock, calls := idempotentRouter(t)
		stored := []byte(`{"status":200,"body":{"ok":true}}`)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "1", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, stored, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(cacheKey + ":lock").SetVal(1)

		w := postWithKey(r, "k1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat is replayed", func(t *testing.T) {
		r, mock, calls := idempotentRouter(t)
		mock.ExpectGet(cacheKey).SetVal(`{"status":200,"body":{"ok":true}}`)

		w := postWithKey(r, "k1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
		assert.Equal(t, 0, *calls)
	})

	t.Run("concurrent duplicate conflicts", func(t *testing.T) {
		r, mock, calls := idempotentRouter(t)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "1", 30*time.Second).SetVal(false)

		w := postWithKey(r, "k1")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, *calls)
	})
}
