// Package capacities is the HTTP client of the Capacities API.
package capacities

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"statdash/application/ports"
	"statdash/domain/core/entities"
	apperrors "statdash/pkg/errors"
)

// DefaultBaseURL is the public Capacities API endpoint
const DefaultBaseURL = "https://api.capacities.io"

// Config holds the connection settings of the client
type Config struct {
	BaseURL   string
	Token     string
	SpaceID   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables throttling
	Tracing   bool
}

// RequestObserver is notified after every upstream call
type RequestObserver interface {
	ObserveUpstreamRequest(operation, outcome string, duration time.Duration)
}

// Client talks to the Capacities API on behalf of a single space
type Client struct {
	baseURL    string
	token      string
	spaceID    string
	httpClient *http.Client
	limiter    *rate.Limiter
	tracing    bool
	observer   RequestObserver
	logger     *zap.Logger
}

var _ ports.SpaceAPI = (*Client)(nil)

// NewClient creates a Capacities client. observer may be nil.
func NewClient(cfg Config, observer RequestObserver, logger *zap.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, apperrors.NewValidationError("capacities api token is required")
	}
	if cfg.SpaceID == "" {
		return nil, apperrors.NewValidationError("capacities space id is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid capacities base url %q", cfg.BaseURL))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	if cfg.Tracing {
		httpClient = xray.Client(httpClient)
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		spaceID:    cfg.SpaceID,
		httpClient: httpClient,
		limiter:    limiter,
		tracing:    cfg.Tracing,
		observer:   observer,
		logger:     logger.Named("capacities"),
	}, nil
}

// GetSpaceInfo lists the structures of the configured space
func (c *Client) GetSpaceInfo(ctx context.Context) (*entities.SpaceInfo, error) {
	var info entities.SpaceInfo
	params := url.Values{"spaceid": {c.spaceID}}
	if err := c.get(ctx, "space_info", "space info", "/space-info", params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetObjectsByStructure returns at most limit objects of a structure
func (c *Client) GetObjectsByStructure(ctx context.Context, structureID string, limit int) (*entities.ObjectPage, error) {
	params := url.Values{"structureId": {structureID}}
	setLimit(params, limit)

	var page entities.ObjectPage
	if err := c.get(ctx, "objects_by_structure", "structure "+structureID, "/objects", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetObject retrieves a single object
func (c *Client) GetObject(ctx context.Context, objectID string) (*entities.DomainObject, error) {
	var obj entities.DomainObject
	path := "/objects/" + url.PathEscape(objectID)
	if err := c.get(ctx, "object", "object "+objectID, path, nil, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// SearchObjects runs a search; structureID is optional
func (c *Client) SearchObjects(ctx context.Context, query, structureID string, limit int) (*entities.ObjectPage, error) {
	params := url.Values{"query": {query}}
	if structureID != "" {
		params.Set("structureId", structureID)
	}
	setLimit(params, limit)

	var page entities.ObjectPage
	if err := c.get(ctx, "search", "search results", "/objects/search", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetCollections lists the collections of the space
func (c *Client) GetCollections(ctx context.Context) (*entities.CollectionList, error) {
	var list entities.CollectionList
	if err := c.get(ctx, "collections", "collections", "/collections", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetCollectionObjects returns at most limit objects of a collection
func (c *Client) GetCollectionObjects(ctx context.Context, collectionID string, limit int) (*entities.ObjectPage, error) {
	params := url.Values{}
	setLimit(params, limit)

	var page entities.ObjectPage
	path := "/collections/" + url.PathEscape(collectionID) + "/objects"
	if err := c.get(ctx, "collection_objects", "collection "+collectionID, path, params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// TestConnection fetches the space info and discards it
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.GetSpaceInfo(ctx)
	return err
}

func setLimit(params url.Values, limit int) {
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
}

// get performs one GET request and decodes the JSON response into out
func (c *Client) get(ctx context.Context, operation, resource, path string, params url.Values, out interface{}) error {
	if !c.tracing {
		return c.do(ctx, operation, resource, path, params, out)
	}
	return xray.Capture(ctx, "capacities."+operation, func(ctx context.Context) error {
		return c.do(ctx, operation, resource, path, params, out)
	})
}

func (c *Client) do(ctx context.Context, operation, resource, path string, params url.Values, out interface{}) (err error) {
	start := time.Now()
	outcome := "success"
	defer func() {
		if err != nil && outcome == "success" {
			outcome = "error"
		}
		if c.observer != nil {
			c.observer.ObserveUpstreamRequest(operation, outcome, time.Since(start))
		}
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			outcome = "throttled"
			return apperrors.NewTimeoutError("capacities " + operation).WithCause(err)
		}
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return apperrors.NewInternalError("failed to build capacities request").WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = "canceled"
		}
		return apperrors.NewNetworkError(fmt.Sprintf("capacities %s request failed", operation), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		apiErr := newAPIError(resp.StatusCode, body)
		outcome = "http_" + strconv.Itoa(resp.StatusCode)
		c.logger.Warn("Capacities request failed",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return toAppError(resource, apiErr)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		outcome = "decode_error"
		return apperrors.NewExternalError("capacities", fmt.Errorf("decode %s response: %w", operation, err))
	}

	c.logger.Debug("Capacities request completed",
		zap.String("operation", operation),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
