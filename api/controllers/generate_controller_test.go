package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunavein/tripo-relay-go/api/models"
	"github.com/lunavein/tripo-relay-go/tool"
	"github.com/lunavein/tripo-relay-go/types"
)

func setupGenerateRouter(uploadDir string, g ModelGenerator, p ModelPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctrl := NewGenerateController(uploadDir, g, p, time.Minute)
	router.POST("/generate-3d-model", ctrl.HandleGenerateModel)
	return router
}

func TestGenerateModelSync(t *testing.T) {
	models.InitSessionStore(time.Minute)

	gen := &fakeGenerator{result: types.GenerationResult{
		Status: types.GenerationSuccess,
		Files:  map[string]string{"model": "output/m.glb"},
	}}
	pub := &fakePublisher{urls: []string{"https://cdn.example.com/models/1_m.glb"}}
	router := setupGenerateRouter(t.TempDir(), gen, pub)

	body, contentType := multipartBody(t, map[string][]byte{"cat.png": []byte("png")})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate-3d-model", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.GenerateResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, pub.urls, resp.FileURLs)
	assert.Len(t, gen.gotPaths, 1)
}

func TestGenerateModelSyncFailure(t *testing.T) {
	models.InitSessionStore(time.Minute)

	gen := &fakeGenerator{result: types.GenerationResult{
		Status: types.GenerationError,
		Detail: "connection refused",
	}}
	router := setupGenerateRouter(t.TempDir(), gen, &fakePublisher{})

	body, contentType := multipartBody(t, map[string][]byte{"cat.png": []byte("png")})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate-3d-model", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.GenerateResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "connection refused")
	assert.Empty(t, resp.FileURLs)
}

func TestGenerateModelSyncEmptyBatch(t *testing.T) {
	models.InitSessionStore(time.Minute)
	router := setupGenerateRouter(t.TempDir(), &fakeGenerator{}, &fakePublisher{})

	body, contentType := multipartBody(t, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate-3d-model", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestModelQR(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/model-qr", HandleModelQR)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/model-qr?data=https%3A%2F%2Fcdn.example.com%2Fm.glb", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestModelQRMissingData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/model-qr", HandleModelQR)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/model-qr", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/status", HandleStatus(true))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"running":true`)
}

func TestConfigGet(t *testing.T) {
	tool.CurrentConfig = types.AppConfig{
		Port:              9100,
		UploadFolder:      "staged",
		OutputFolder:      "out",
		SessionTTLMinutes: 5,
		ProgressWSEnabled: true,
		Generation:        types.GenerationConfig{TimeoutMinutes: 3},
		Storage:           types.StorageConfig{Bucket: "secret-bucket"},
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/config", HandleConfigGet)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/config", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data types.ConfigResponse `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 9100, resp.Data.Port)
	assert.Equal(t, "staged", resp.Data.UploadFolder)
	assert.Equal(t, 5, resp.Data.SessionTTLMinutes)
	assert.Equal(t, 3, resp.Data.GenerationTimeoutMinutes)
	assert.True(t, resp.Data.ProgressWSEnabled)
	assert.NotContains(t, w.Body.String(), "secret-bucket", "storage details must stay out of the config response")
}
