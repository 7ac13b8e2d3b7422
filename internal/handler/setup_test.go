package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/mdesign/internal/config"
	"github.com/xxxsen/mdesign/internal/filestore"
	"github.com/xxxsen/mdesign/internal/handler"
	"github.com/xxxsen/mdesign/internal/metrics"
	"github.com/xxxsen/mdesign/internal/middleware"
	"github.com/xxxsen/mdesign/internal/realtime"
	"github.com/xxxsen/mdesign/internal/repo"
	"github.com/xxxsen/mdesign/internal/service"
	"github.com/xxxsen/mdesign/internal/testutil"
)

const testUploadLimit = 1024

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenTestDB(t)
	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)

	deps := handler.RouterDeps{
		Auth:     handler.NewAuthHandler(service.NewAuthService(repo.NewUserRepo(db))),
		Projects: handler.NewProjectHandler(service.NewProjectService(repo.NewProjectRepo(db))),
		Files:    handler.NewFileHandler(service.NewAssetService(repo.NewAssetRepo(db), store), testUploadLimit),
		Health:   handler.NewHealthHandler(db),
		Realtime: realtime.New(realtime.Options{}),
		Metrics:  metrics.Handler(),
	}

	engine, err := webapi.NewEngine(
		"/api",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)
	return engine
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	switch v := body.(type) {
	case nil:
	case string:
		payload = []byte(v)
	default:
		var err error
		payload, err = json.Marshal(v)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), dst))
}
