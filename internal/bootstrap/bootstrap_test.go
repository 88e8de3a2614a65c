package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/feast-registry/config"
	httpapi "github.com/GoSim-25-26J-441/feast-registry/internal/api/http"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/events"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/service"
)

func openSQLite(t *testing.T) *Storage {
	t.Helper()
	storage, err := OpenStorage(context.Background(),
		config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:", AutoCreateSchema: true},
		config.RegistryConfig{})
	require.NoError(t, err)
	t.Cleanup(storage.Close)
	return storage
}

func TestOpenStorage_SQLite(t *testing.T) {
	storage := openSQLite(t)
	require.NoError(t, storage.Health.Ping(context.Background()))

	projects, err := storage.Store.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	_, err := OpenStorage(context.Background(), config.DatabaseConfig{Driver: "oracle"}, config.RegistryConfig{})
	require.Error(t, err)
	assert.True(t, Error.Has(err))
}

func TestOpenPublisher(t *testing.T) {
	log := zap.NewNop()

	pub, closeFn, err := OpenPublisher(context.Background(), config.RedisConfig{}, log)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, events.Nop{}, pub)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	pub, closeFn, err = OpenPublisher(context.Background(), config.RedisConfig{Addr: mr.Addr(), ChannelPrefix: "registry:events"}, log)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &events.RedisPublisher{}, pub)
}

func TestBuildRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	storage := openSQLite(t)

	router := BuildRouter(RouterDeps{
		ServiceName:    "feast-registry",
		Version:        "1.0.0",
		Health:         storage.Health,
		Registry:       service.NewRegistry(storage.Store),
		AllowedOrigins: []string{"*"},
		RequestTimeout: time.Second,
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var health httpapi.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "up", health.DB)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	body := strings.NewReader(`{"proto":"AQI=","last_updated_timestamp":"2024-01-01T00:00:00"}`)
	req := httptest.NewRequest(http.MethodPost, "/p1?resource=entity&name=driver_id", body)
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/projects", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"strings":["p1"]}`, rr.Body.String())
}

type countingTeardown struct {
	calls atomic.Int32
}

func (c *countingTeardown) Teardown(context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestTeardownScheduler(t *testing.T) {
	_, err := NewTeardownScheduler("not a schedule", &countingTeardown{}, time.Second, zap.NewNop())
	require.Error(t, err)

	target := &countingTeardown{}
	s, err := NewTeardownScheduler("* * * * * *", target, time.Second, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return target.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
