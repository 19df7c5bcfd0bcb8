package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkoval/cinetix/internal/domain"
	"github.com/mkoval/cinetix/internal/repository"
	postgresrepo "github.com/mkoval/cinetix/internal/repository/postgres"
	redisrepo "github.com/mkoval/cinetix/internal/repository/redis"
	redisx "github.com/mkoval/cinetix/internal/redis"
	"github.com/mkoval/cinetix/internal/uow"
)

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.ScreeningsPubSub
	uow    *uow.UoW
	now    func() time.Time
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, pubsub *redisx.ScreeningsPubSub) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
		now:    time.Now,
	}
}

type ScreeningInput struct {
	MovieID       int64
	HallID        int64
	Start         time.Time
	End           time.Time
	PriceStandard int
	PriceVIP      int
}

// Create validates and inserts a screening. The overlap check runs inside
// the same serializable transaction as the insert, so two admins cannot
// schedule the same hall slot concurrently.
func (s *Service) Create(ctx context.Context, in ScreeningInput) (int64, error) {
	const op = "service.schedule.Create"

	var id int64

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.validate(ctx, tx, in, 0); err != nil {
			return err
		}

		var err error
		id, err = s.store.Screenings().With(tx).Create(ctx, domain.Screening{
			MovieID:       in.MovieID,
			HallID:        in.HallID,
			Start:         in.Start,
			End:           in.End,
			PriceStandard: in.PriceStandard,
			PriceVIP:      in.PriceVIP,
			Active:        true,
		})
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrScreeningConflict)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateScreening(ctx, id)
			_ = s.pubsub.PublishScreeningChanged(ctx, id)
		})

		return nil
	})

	return id, err
}

// Update re-validates and rewrites an existing screening, excluding the
// screening itself from the overlap check.
func (s *Service) Update(ctx context.Context, id int64, in ScreeningInput) error {
	const op = "service.schedule.Update"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if _, err := s.store.Screenings().With(tx).Get(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrScreeningNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := s.validate(ctx, tx, in, id); err != nil {
			return err
		}

		if err := s.store.Screenings().With(tx).Update(ctx, domain.Screening{
			ID:            id,
			MovieID:       in.MovieID,
			HallID:        in.HallID,
			Start:         in.Start,
			End:           in.End,
			PriceStandard: in.PriceStandard,
			PriceVIP:      in.PriceVIP,
			Active:        true,
		}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateScreening(ctx, id)
			_ = s.pubsub.PublishScreeningChanged(ctx, id)
		})

		return nil
	})
}

// validate applies the full screening rule set; excludeID > 0 marks an
// update. Returns *ValidationError with every collected field error.
func (s *Service) validate(ctx context.Context, tx postgresrepo.DB, in ScreeningInput, excludeID int64) error {
	const op = "service.schedule.validate"

	movie, err := s.store.Catalog().With(tx).GetMovie(ctx, in.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrMovieNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.store.Catalog().With(tx).GetHall(ctx, in.HallID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrHallNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	fields, fatal := ValidateTimes(s.now(), in.Start, in.End, excludeID > 0)

	if !fatal {
		slots, err := s.store.Screenings().
			With(tx).
			OverlappingSlots(ctx, in.HallID, in.Start, in.End, excludeID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		var conflicts []domain.ScreeningSlot
		for _, slot := range slots {
			if SlotOverlaps(in.Start, in.End, slot) {
				conflicts = append(conflicts, slot)
			}
		}

		if msg := OverlapMessage(conflicts); msg != "" {
			fields["overlap"] = msg
		}

		fields.merge(ValidateMovieFit(movie.Duration, in.Start, in.End))
	}

	fields.merge(ValidatePrices(in.PriceStandard, in.PriceVIP))

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.ScreeningDetail, error) {
	const op = "service.schedule.Get"

	d, err := s.store.Screenings().GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrScreeningNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

// ListQuery narrows the public screening listing. A non-zero Date keeps
// only screenings starting on that calendar day; NowPlaying keeps only
// screenings running at the current instant.
type ListQuery struct {
	MovieID    int64
	HallID     int64
	Date       time.Time
	NowPlaying bool
	Limit      int
	Offset     int
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Screening, error) {
	const op = "service.schedule.List"

	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 100
	}

	f := domain.ScreeningFilter{MovieID: q.MovieID, HallID: q.HallID}
	if !q.Date.IsZero() {
		f.From = q.Date
		f.To = q.Date.AddDate(0, 0, 1)
	}
	if q.NowPlaying {
		f.At = s.now()
	}

	out, err := s.store.Screenings().List(ctx, f, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Deactivate soft-deletes a screening; its slot stops counting for overlap
// checks and it disappears from listings.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	const op = "service.schedule.Deactivate"

	if err := s.store.Screenings().Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrScreeningNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	_ = s.cache.InvalidateScreening(ctx, id)
	_ = s.pubsub.PublishScreeningChanged(ctx, id)

	return nil
}
