package profile_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrops/internal/profile"
	profileerrors "go-hrops/internal/profile/errors"
	"go-hrops/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *apiMeta        `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeProfileService struct {
	createFn         func(ctx context.Context, actorID string, req profile.CreateProfileRequest) (profile.ProfileResponse, error)
	getAllFn         func(ctx context.Context, filter profile.ListFilter) ([]profile.ProfileResponse, error)
	getByIDFn        func(ctx context.Context, id string) (profile.ProfileResponse, error)
	updateFn         func(ctx context.Context, actorID, id string, req profile.UpdateProfileRequest) (profile.ProfileResponse, error)
	terminateFn      func(ctx context.Context, actorID, id, reason string) (profile.ProfileResponse, error)
	deleteFn         func(ctx context.Context, actorID, id string) error
	uploadDocumentFn func(ctx context.Context, actorID, id string, upload storage.Upload) (profile.DocumentResponse, error)
	listDocumentsFn  func(ctx context.Context, id string) ([]profile.DocumentResponse, error)
}

func (f *fakeProfileService) Create(ctx context.Context, actorID string, req profile.CreateProfileRequest) (profile.ProfileResponse, error) {
	return f.createFn(ctx, actorID, req)
}
func (f *fakeProfileService) GetAll(ctx context.Context, filter profile.ListFilter) ([]profile.ProfileResponse, error) {
	return f.getAllFn(ctx, filter)
}
func (f *fakeProfileService) GetByID(ctx context.Context, id string) (profile.ProfileResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeProfileService) Update(ctx context.Context, actorID, id string, req profile.UpdateProfileRequest) (profile.ProfileResponse, error) {
	return f.updateFn(ctx, actorID, id, req)
}
func (f *fakeProfileService) Terminate(ctx context.Context, actorID, id, reason string) (profile.ProfileResponse, error) {
	return f.terminateFn(ctx, actorID, id, reason)
}
func (f *fakeProfileService) Delete(ctx context.Context, actorID, id string) error {
	return f.deleteFn(ctx, actorID, id)
}
func (f *fakeProfileService) UploadDocument(ctx context.Context, actorID, id string, upload storage.Upload) (profile.DocumentResponse, error) {
	return f.uploadDocumentFn(ctx, actorID, id, upload)
}
func (f *fakeProfileService) ListDocuments(ctx context.Context, id string) ([]profile.DocumentResponse, error) {
	return f.listDocumentsFn(ctx, id)
}

func TestProfileHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		actorID := uuid.NewString()
		svc := &fakeProfileService{
			createFn: func(ctx context.Context, aid string, req profile.CreateProfileRequest) (profile.ProfileResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "rina@example.com", req.Email)
				return profile.ProfileResponse{ID: uuid.NewString(), EmployeeCode: "EMP-000007", Email: req.Email, Role: "employee"}, nil
			},
		}

		h := profile.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(`{"full_name":"Rina","email":"rina@example.com"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("profile_id", actorID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got profile.ProfileResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "EMP-000007", got.EmployeeCode)
	})

	t.Run("rejects unknown role before calling service", func(t *testing.T) {
		h := profile.NewHandler(&fakeProfileService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(`{"full_name":"Rina","email":"rina@example.com","role":"owner"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestProfileHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeProfileService{
		getAllFn: func(ctx context.Context, filter profile.ListFilter) ([]profile.ProfileResponse, error) {
			assert.Equal(t, "employee", filter.Role)
			assert.True(t, filter.IncludeFormer)
			out := make([]profile.ProfileResponse, 5)
			for i := range out {
				out[i] = profile.ProfileResponse{ID: uuid.NewString()}
			}
			return out, nil
		},
	}

	h := profile.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/profiles?role=employee&include_terminated=true&page=2&page_size=2", nil)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var got []profile.ProfileResponse
	assert.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got, 2)
	assert.Equal(t, int64(5), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.Page)
}

func TestProfileHandler_Terminate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.NewString()

	t.Run("already terminated maps to conflict", func(t *testing.T) {
		svc := &fakeProfileService{
			terminateFn: func(ctx context.Context, actorID, pid, reason string) (profile.ProfileResponse, error) {
				assert.Equal(t, id, pid)
				assert.Equal(t, "no-show", reason)
				return profile.ProfileResponse{}, profileerrors.ErrAlreadyTerminated
			},
		}

		h := profile.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/profiles/"+id+"/terminate", strings.NewReader(`{"reason":"no-show"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: id}}

		h.Terminate(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})

	t.Run("reason required", func(t *testing.T) {
		h := profile.NewHandler(&fakeProfileService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/profiles/"+id+"/terminate", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: id}}

		h.Terminate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProfileHandler_UploadDocument(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.NewString()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "ktp.png")
	assert.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	assert.NoError(t, mw.Close())

	svc := &fakeProfileService{
		uploadDocumentFn: func(ctx context.Context, actorID, pid string, upload storage.Upload) (profile.DocumentResponse, error) {
			assert.Equal(t, id, pid)
			assert.Equal(t, "ktp.png", upload.Filename)
			data, _ := io.ReadAll(upload.Body)
			assert.Equal(t, "png-bytes", string(data))
			return profile.DocumentResponse{ID: uuid.NewString(), ProfileID: pid, FileName: upload.Filename}, nil
		},
	}

	h := profile.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/profiles/"+id+"/documents", &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	c.Params = gin.Params{{Key: "id", Value: id}}

	h.UploadDocument(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}
