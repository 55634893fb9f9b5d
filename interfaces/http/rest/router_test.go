package rest

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"statdash/application/queries/bus"
	"statdash/application/queries/handlers"
	"statdash/application/services"
	"statdash/domain/core/entities"
	"statdash/domain/core/valueobjects"
	"statdash/infrastructure/config"
	"statdash/pkg/auth"
	"statdash/pkg/common"
	"statdash/pkg/observability"
	"statdash/tests/mocks"
)

type fixture struct {
	api       *mocks.MockSpaceAPI
	collector *observability.Collector
	server    http.Handler
}

func newFixture(t *testing.T, mutate func(*Dependencies)) *fixture {
	t.Helper()

	api := new(mocks.MockSpaceAPI)
	collector := observability.NewCollector("statdash")
	service := services.NewAnalyticsService(api, nil, nil, nil, nil, zap.NewNop())

	queryBus := bus.NewQueryBus()
	require.NoError(t, handlers.NewDashboardHandlers(service, zap.NewNop()).Register(queryBus, bus.NewMetricsMiddleware(collector)))

	deps := Dependencies{
		QueryBus:  queryBus,
		Tester:    service,
		Collector: collector,
		Config:    &config.Config{EnableCORS: true, AllowedOrigins: []string{"*"}},
		Logger:    zap.NewNop(),
		Version:   "test",
	}
	if mutate != nil {
		mutate(&deps)
	}

	return &fixture{api: api, collector: collector, server: NewRouter(deps).Setup()}
}

func (f *fixture) get(t *testing.T, target string, headers ...string) (*httptest.ResponseRecorder, common.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	var body common.APIResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestRouter_Health(t *testing.T) {
	f := newFixture(t, nil)

	rec, _ := f.get(t, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)
	assert.Equal(t, "test", rec.Header().Get("X-API-Version"))
	f.api.AssertNotCalled(t, "GetSpaceInfo", mock.Anything)
}

func TestRouter_Ready(t *testing.T) {
	f := newFixture(t, nil)
	f.api.On("TestConnection", mock.Anything).Return(errors.New("bad token")).Once()
	f.api.On("TestConnection", mock.Anything).Return(nil).Once()

	rec, _ := f.get(t, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad token")

	rec, _ = f.get(t, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SpaceStats(t *testing.T) {
	f := newFixture(t, nil)
	f.api.On("GetSpaceInfo", mock.Anything).Return(&entities.SpaceInfo{
		Structures: []entities.Structure{{ID: "books", Title: "Books"}},
	}, nil)
	f.api.On("GetObjectsByStructure", mock.Anything, "books", 1000).Return(&entities.ObjectPage{
		Objects: []entities.DomainObject{{ID: "a"}, {ID: "b"}},
	}, nil)

	rec, body := f.get(t, "/api/dashboard/space-stats", "X-Request-ID", "req-1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["totalObjects"])
	require.NotNil(t, body.Meta)
	assert.NotEmpty(t, body.Meta.RequestID)
}

func TestRouter_EngineFailureIs500WithMessage(t *testing.T) {
	f := newFixture(t, nil)
	f.api.On("GetObjectsByStructure", mock.Anything, "books", 1000).Return(nil, errors.New("connection reset"))

	rec, body := f.get(t, "/api/dashboard/structure/books/numeric-properties")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "failed to fetch objects for structure books: connection reset", body.Error.Message)
}

func TestRouter_StructureRoutes(t *testing.T) {
	f := newFixture(t, nil)
	page := &entities.ObjectPage{Objects: []entities.DomainObject{
		{
			ID:         "a",
			Properties: map[string]valueobjects.PropertyValue{"pages": valueobjects.NumberValue(10)},
			CreatedAt:  "2024-03-05T10:00:00Z",
		},
	}}
	f.api.On("GetObjectsByStructure", mock.Anything, "books", 1000).Return(page, nil)

	for _, path := range []string{"/references", "/temporal", "/numeric-properties"} {
		rec, body := f.get(t, "/api/dashboard/structure/books"+path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, body.Success, path)
	}
}

func TestRouter_CompareRequiresIDs(t *testing.T) {
	f := newFixture(t, nil)

	rec, body := f.get(t, "/api/dashboard/compare")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION", body.Error.Code)
}

func TestRouter_CompareAcceptsRepeatedAndCommaSeparated(t *testing.T) {
	f := newFixture(t, nil)
	f.api.On("GetObjectsByStructure", mock.Anything, mock.Anything, 1000).Return(&entities.ObjectPage{}, nil)

	rec, body := f.get(t, "/api/dashboard/compare?structureIds=a&structureIds=b,c")

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, data, 3)
}

func TestRouter_SearchValidation(t *testing.T) {
	f := newFixture(t, nil)

	rec, _ := f.get(t, "/api/dashboard/search?query=x&limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.get(t, "/api/dashboard/search?query=%20")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	f := newFixture(t, nil)

	for _, path := range []string{"/nope", "/api/dashboard/nope"} {
		rec, body := f.get(t, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		require.NotNil(t, body.Error, path)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	f := newFixture(t, nil)
	f.get(t, "/health")

	rec, _ := f.get(t, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `statdash_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestRouter_Authentication(t *testing.T) {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "0123456789abcdef0123456789abcdef", Issuer: "statdash"})
	require.NoError(t, err)
	f := newFixture(t, func(d *Dependencies) { d.Validator = validator })
	f.api.On("GetCollections", mock.Anything).Return(&entities.CollectionList{}, nil)

	rec, body := f.get(t, "/api/dashboard/collections")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)

	token, err := validator.GenerateToken("user-1", "", nil, time.Hour)
	require.NoError(t, err)
	rec, _ = f.get(t, "/api/dashboard/collections", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.get(t, "/health")
	assert.Equal(t, http.StatusOK, rec.Code, "probes stay public")
}

func TestRouter_RateLimit(t *testing.T) {
	f := newFixture(t, func(d *Dependencies) { d.Limiter = auth.NewIPRateLimiter(1) })
	f.api.On("GetCollections", mock.Anything).Return(&entities.CollectionList{}, nil)

	rec, _ := f.get(t, "/api/dashboard/collections")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := f.get(t, "/api/dashboard/collections")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "RATE_LIMIT", body.Error.Code)
}
