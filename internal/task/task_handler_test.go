package task_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrops/internal/domain"
	"go-hrops/internal/task"
	taskerrors "go-hrops/internal/task/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	task.Service
	deductFn func(ctx context.Context, actor task.Actor, taskID string, req task.DeductInventoryRequest) (task.DeductInventoryResponse, error)
}

func (f *fakeService) DeductInventory(ctx context.Context, actor task.Actor, taskID string, req task.DeductInventoryRequest) (task.DeductInventoryResponse, error) {
	return f.deductFn(ctx, actor, taskID, req)
}

func TestHandler_DeductInventory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	actorID := uuid.NewString()
	taskID := uuid.NewString()
	itemID := uuid.NewString()

	call := func(h *task.Handler, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("profile_id", actorID)
		c.Set("role", "employee")
		c.Params = gin.Params{{Key: "id", Value: taskID}}
		c.Request = httptest.NewRequest(http.MethodPost, "/tasks/"+taskID+"/inventory", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		h.DeductInventory(c)
		return w
	}

	t.Run("passes actor and lines through", func(t *testing.T) {
		h := task.NewHandler(&fakeService{
			deductFn: func(ctx context.Context, actor task.Actor, id string, req task.DeductInventoryRequest) (task.DeductInventoryResponse, error) {
				assert.Equal(t, task.Actor{ID: actorID, Role: domain.RoleEmployee}, actor)
				assert.Equal(t, taskID, id)
				assert.Len(t, req.Items, 1)
				return task.DeductInventoryResponse{TaskID: id, Items: []task.UsageResponse{{ItemID: itemID, Quantity: 2, Remaining: 8}}}, nil
			},
		})

		w := call(h, `{"items":[{"item_id":"`+itemID+`","quantity":2}]}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"remaining":8`)
	})

	t.Run("insufficient stock is a conflict", func(t *testing.T) {
		h := task.NewHandler(&fakeService{
			deductFn: func(ctx context.Context, actor task.Actor, id string, req task.DeductInventoryRequest) (task.DeductInventoryResponse, error) {
				return task.DeductInventoryResponse{}, taskerrors.ErrInsufficientStock
			},
		})

		w := call(h, `{"items":[{"item_id":"`+itemID+`","quantity":50}]}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
	})

	t.Run("empty list rejected before service", func(t *testing.T) {
		h := task.NewHandler(&fakeService{})

		w := call(h, `{"items":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
