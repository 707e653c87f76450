package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Domenick1991/paraglide/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNewRouter_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	healthy := NewRouter(config.HTTPConfig{}, zap.NewNop(), Handlers{}, map[string]HealthCheck{
		"redis": func(context.Context) error { return nil },
	})
	w := get(healthy, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	broken := NewRouter(config.HTTPConfig{}, zap.NewNop(), Handlers{}, map[string]HealthCheck{
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	})
	w = get(broken, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestNewRouter_Swagger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paraglide.swagger.json"), []byte(`{"swagger":"2.0"}`), 0o600))

	r := NewRouter(config.HTTPConfig{SwaggerDir: dir}, zap.NewNop(), Handlers{}, nil)

	w := get(r, "/swagger/paraglide.swagger.json")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"swagger":"2.0"}`, w.Body.String())

	w = get(r, "/docs/index.html")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")

	noDocs := NewRouter(config.HTTPConfig{}, zap.NewNop(), Handlers{}, nil)
	assert.Equal(t, http.StatusNotFound, get(noDocs, "/docs/index.html").Code)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: "127.0.0.1:0"}}

	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, zap.NewNop(), http.NotFoundHandler()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
