package capacities

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"statdash/application/ports"
	"statdash/domain/core/entities"
	apperrors "statdash/pkg/errors"
)

// BreakerSettings configures the circuit breaker around the API
type BreakerSettings struct {
	MaxRequests  uint32        // requests allowed while half-open
	Interval     time.Duration // closed-state window after which counts reset
	Timeout      time.Duration // open period before probing again
	MinRequests  uint32        // requests needed before the failure ratio is considered
	FailureRatio float64
}

// DefaultBreakerSettings returns the breaker settings used in production
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// StateObserver is notified when the breaker changes state
type StateObserver interface {
	ObserveBreakerState(name string, state string)
}

// BreakerClient guards a SpaceAPI with a circuit breaker.
// Upstream 4xx responses other than 429 do not count as failures.
type BreakerClient struct {
	next   ports.SpaceAPI
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

var _ ports.SpaceAPI = (*BreakerClient)(nil)

// NewBreakerClient wraps next with a circuit breaker. observer may be nil.
func NewBreakerClient(next ports.SpaceAPI, settings BreakerSettings, observer StateObserver, logger *zap.Logger) *BreakerClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	const name = "capacities-api"

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if observer != nil {
				observer.ObserveBreakerState(name, to.String())
			}
		},
		IsSuccessful: isSuccessful,
	})
	if observer != nil {
		observer.ObserveBreakerState(name, gobreaker.StateClosed.String())
	}

	return &BreakerClient{next: next, cb: cb, logger: logger}
}

func isSuccessful(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return !apiErr.Temporary()
	}
	return false
}

// State returns the current breaker state
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

func execute[T any](b *BreakerClient, fn func() (T, error)) (T, error) {
	var zero T
	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			b.logger.Debug("Capacities request rejected by circuit breaker", zap.Error(err))
			return zero, apperrors.NewUnavailableError("capacities").WithCause(err)
		}
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// GetSpaceInfo implements ports.SpaceAPI
func (b *BreakerClient) GetSpaceInfo(ctx context.Context) (*entities.SpaceInfo, error) {
	return execute(b, func() (*entities.SpaceInfo, error) {
		return b.next.GetSpaceInfo(ctx)
	})
}

// GetObjectsByStructure implements ports.SpaceAPI
func (b *BreakerClient) GetObjectsByStructure(ctx context.Context, structureID string, limit int) (*entities.ObjectPage, error) {
	return execute(b, func() (*entities.ObjectPage, error) {
		return b.next.GetObjectsByStructure(ctx, structureID, limit)
	})
}

// GetObject implements ports.SpaceAPI
func (b *BreakerClient) GetObject(ctx context.Context, objectID string) (*entities.DomainObject, error) {
	return execute(b, func() (*entities.DomainObject, error) {
		return b.next.GetObject(ctx, objectID)
	})
}

// SearchObjects implements ports.SpaceAPI
func (b *BreakerClient) SearchObjects(ctx context.Context, query, structureID string, limit int) (*entities.ObjectPage, error) {
	return execute(b, func() (*entities.ObjectPage, error) {
		return b.next.SearchObjects(ctx, query, structureID, limit)
	})
}

// GetCollections implements ports.SpaceAPI
func (b *BreakerClient) GetCollections(ctx context.Context) (*entities.CollectionList, error) {
	return execute(b, func() (*entities.CollectionList, error) {
		return b.next.GetCollections(ctx)
	})
}

// GetCollectionObjects implements ports.SpaceAPI
func (b *BreakerClient) GetCollectionObjects(ctx context.Context, collectionID string, limit int) (*entities.ObjectPage, error) {
	return execute(b, func() (*entities.ObjectPage, error) {
		return b.next.GetCollectionObjects(ctx, collectionID, limit)
	})
}

// TestConnection implements ports.SpaceAPI
func (b *BreakerClient) TestConnection(ctx context.Context) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, b.next.TestConnection(ctx)
	})
	return err
}
