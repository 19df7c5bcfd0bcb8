// Package reporting aggregates booking figures for the admin dashboard.
// It is constructed with its dependencies like every other service, so
// tests can point it at any store and cache.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkoval/cinetix/internal/access"
	"github.com/mkoval/cinetix/internal/domain"
	redisx "github.com/mkoval/cinetix/internal/redis"
	"github.com/mkoval/cinetix/internal/repository"
	postgresrepo "github.com/mkoval/cinetix/internal/repository/postgres"
	redisrepo "github.com/mkoval/cinetix/internal/repository/redis"
)

var (
	ErrForbidden         = errors.New("forbidden")
	ErrScreeningNotFound = errors.New("screening not found")
)

const summaryTTL = time.Minute

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache) *Service {
	return &Service{store: store, cache: cache}
}

// ScreeningSummary returns booking counts per status and revenue for one
// screening. Cached for a minute; booking writes invalidate the key.
func (s *Service) ScreeningSummary(ctx context.Context, actor access.Actor, screeningID int64) (*domain.ScreeningSummary, error) {
	const op = "service.reporting.ScreeningSummary"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	sum, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyScreeningSummary(screeningID), summaryTTL,
		func(ctx context.Context) (*domain.ScreeningSummary, error) {
			if _, err := s.store.Screenings().Get(ctx, screeningID); err != nil {
				return nil, err
			}
			return s.store.Bookings().SummaryByScreening(ctx, screeningID)
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrScreeningNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sum, nil
}

// Overview returns cinema-wide booking counts, revenue and the
// best-selling movies. Cached for a minute, never invalidated early, so
// figures can lag booking writes by up to the TTL.
func (s *Service) Overview(ctx context.Context, actor access.Actor) (*domain.BookingsOverview, error) {
	const op = "service.reporting.Overview"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	ov, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyBookingsOverview(), summaryTTL,
		func(ctx context.Context) (*domain.BookingsOverview, error) {
			return s.store.Bookings().Overview(ctx)
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ov, nil
}
