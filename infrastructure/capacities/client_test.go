package capacities

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"statdash/domain/core/valueobjects"
	apperrors "statdash/pkg/errors"
)

type observation struct {
	operation string
	outcome   string
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (r *recordingObserver) ObserveUpstreamRequest(operation, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, observation{operation, outcome})
}

func newTestClient(t *testing.T, handler http.HandlerFunc, observer RequestObserver) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL: server.URL + "/",
		Token:   "secret-token",
		SpaceID: "space-1",
		Timeout: 5 * time.Second,
	}, observer, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{SpaceID: "s"}, nil, nil)
	assert.True(t, apperrors.IsValidation(err))

	_, err = NewClient(Config{Token: "t"}, nil, nil)
	assert.True(t, apperrors.IsValidation(err))

	_, err = NewClient(Config{Token: "t", SpaceID: "s", BaseURL: "not a url"}, nil, nil)
	assert.True(t, apperrors.IsValidation(err))

	client, err := NewClient(Config{Token: "t", SpaceID: "s"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}

func TestClient_GetSpaceInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/space-info", r.URL.Path)
		assert.Equal(t, "space-1", r.URL.Query().Get("spaceid"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"structures":[{"id":"RootPage","title":"Pages","propertyDefinitions":[{"id":"p","type":"blocks"}]}]}`))
	}, nil)

	info, err := client.GetSpaceInfo(context.Background())

	require.NoError(t, err)
	require.Len(t, info.Structures, 1)
	assert.Equal(t, "RootPage", info.Structures[0].ID)
	assert.Equal(t, 1, info.Structures[0].ComplexPropertyCount())
}

func TestClient_GetObjectsByStructure(t *testing.T) {
	observer := &recordingObserver{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/objects", r.URL.Path)
		assert.Equal(t, "books", r.URL.Query().Get("structureId"))
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"objects":[
			{"id":"a","properties":{"pages":320,"author":"capacities://space/p-1","done":true}},
			{"id":"b","properties":{"pages":null}}
		]}`))
	}, observer)

	page, err := client.GetObjectsByStructure(context.Background(), "books", 1000)

	require.NoError(t, err)
	require.Equal(t, 2, page.Len())
	assert.Equal(t, valueobjects.NumberValue(320), page.Objects[0].Properties["pages"])
	assert.Equal(t, valueobjects.TextValue("capacities://space/p-1"), page.Objects[0].Properties["author"])
	assert.Equal(t, valueobjects.NullValue{}, page.Objects[1].Properties["pages"])
	assert.Equal(t, []observation{{"objects_by_structure", "success"}}, observer.seen)
}

func TestClient_PathsAndParams(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		switch {
		case strings.HasPrefix(r.URL.Path, "/collections/"):
			_, _ = w.Write([]byte(`{"objects":[]}`))
		case r.URL.Path == "/collections":
			_, _ = w.Write([]byte(`{"collections":[{"id":"c1","name":"Reading"}]}`))
		case r.URL.Path == "/objects/search":
			_, _ = w.Write([]byte(`{"objects":[{"id":"x"}]}`))
		default:
			_, _ = w.Write([]byte(`{"id":"o 1","title":"One"}`))
		}
	}, nil)
	ctx := context.Background()

	obj, err := client.GetObject(ctx, "o 1")
	require.NoError(t, err)
	assert.Equal(t, "One", obj.Title)

	results, err := client.SearchObjects(ctx, "deep work", "", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, results.Len())

	list, err := client.GetCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Reading", list.Collections[0].Name)

	_, err = client.GetCollectionObjects(ctx, "c1", 1000)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/objects/o%201",
		"/objects/search?limit=10&query=deep+work",
		"/collections",
		"/collections/c1/objects?limit=1000",
	}, paths)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errType apperrors.ErrorType
		message string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"invalid token"}`, errType: apperrors.ErrorTypeUnauthorized, message: "invalid token"},
		{name: "not found", status: http.StatusNotFound, body: `not here`, errType: apperrors.ErrorTypeNotFound, message: "not here"},
		{name: "rate limited", status: http.StatusTooManyRequests, body: ``, errType: apperrors.ErrorTypeRateLimit, message: "Too Many Requests"},
		{name: "server error", status: http.StatusBadGateway, body: `{"error":"upstream"}`, errType: apperrors.ErrorTypeExternal, message: "upstream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &recordingObserver{}
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, observer)

			_, err := client.GetSpaceInfo(context.Background())

			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.errType))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)

			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.status, appErr.Details["upstream_status"])
			assert.Equal(t, "space info", appErr.Details["resource"])
			assert.Equal(t, "space_info", observer.seen[0].operation)
		})
	}
}

func TestClient_ErrorBodyIsCapped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", maxErrorBodyBytes*2)))
	}, nil)

	_, err := client.GetCollections(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Len(t, apiErr.Body, maxErrorBodyBytes)
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, Token: "t", SpaceID: "s"}, nil, zap.NewNop())
	require.NoError(t, err)

	err = client.TestConnection(context.Background())

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
}

func TestClient_DecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"structures": [`))
	}, nil)

	_, err := client.GetSpaceInfo(context.Background())

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"collections":[]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, Token: "t", SpaceID: "s", RateLimit: 0.01}, nil, zap.NewNop())
	require.NoError(t, err)

	_, err = client.GetCollections(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.GetCollections(ctx)

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTimeout))
}
