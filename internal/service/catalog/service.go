// Package catalog manages the movie library, halls and their seat grids.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mkoval/cinetix/internal/domain"
	"github.com/mkoval/cinetix/internal/repository"
	postgresrepo "github.com/mkoval/cinetix/internal/repository/postgres"
	"github.com/mkoval/cinetix/internal/uow"
)

type Service struct {
	store *postgresrepo.Store
	uow   *uow.UoW
}

func New(store *postgresrepo.Store) *Service {
	return &Service{store: store, uow: uow.NewUoW(store)}
}

func (s *Service) CreateMovie(ctx context.Context, m domain.Movie) (int64, error) {
	const op = "service.catalog.CreateMovie"

	m.Title = strings.TrimSpace(m.Title)
	if errs := ValidateMovie(m); len(errs) > 0 {
		return 0, &ValidationError{Fields: errs}
	}

	m.Active = true
	id, err := s.store.Catalog().CreateMovie(ctx, m)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// UpdateMovie rewrites a movie. Changing the duration or deactivating
// the movie is blocked while future screenings exist, since their time
// slots were sized for the old runtime.
func (s *Service) UpdateMovie(ctx context.Context, m domain.Movie) error {
	const op = "service.catalog.UpdateMovie"

	m.Title = strings.TrimSpace(m.Title)
	if errs := ValidateMovie(m); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, _ func(uow.AfterCommit)) error {
		cur, err := s.store.Catalog().With(tx).GetMovie(ctx, m.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrMovieNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		if m.Duration != cur.Duration || (cur.Active && !m.Active) {
			inUse, err := s.store.Catalog().With(tx).MovieHasFutureScreenings(ctx, m.ID)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			if inUse {
				return fmt.Errorf("%s: %w", op, ErrMovieInUse)
			}
		}

		if err := s.store.Catalog().With(tx).UpdateMovie(ctx, m); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})
}

func (s *Service) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	const op = "service.catalog.GetMovie"

	m, err := s.store.Catalog().GetMovie(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrMovieNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return m, nil
}

func (s *Service) ListMovies(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Movie, error) {
	const op = "service.catalog.ListMovies"

	if limit <= 0 || limit > 200 {
		limit = 100
	}

	out, err := s.store.Catalog().ListMovies(ctx, onlyActive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// DeleteMovie removes a movie without future screenings; otherwise it
// fails so the schedule stays consistent.
func (s *Service) DeleteMovie(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteMovie"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, _ func(uow.AfterCommit)) error {
		inUse, err := s.store.Catalog().With(tx).MovieHasFutureScreenings(ctx, id)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if inUse {
			return fmt.Errorf("%s: %w", op, ErrMovieInUse)
		}

		if err := s.store.Catalog().With(tx).DeleteMovie(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrMovieNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})
}

// CreateHall inserts the hall and generates its full seat grid in one
// transaction, so a hall is never observable without seats.
func (s *Service) CreateHall(ctx context.Context, h domain.Hall) (int64, error) {
	const op = "service.catalog.CreateHall"

	h.Name = strings.TrimSpace(h.Name)
	if errs := ValidateHall(h); len(errs) > 0 {
		return 0, &ValidationError{Fields: errs}
	}

	var id int64

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, _ func(uow.AfterCommit)) error {
		taken, err := s.store.Catalog().With(tx).HallNameTaken(ctx, h.Name, 0)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if taken {
			return fmt.Errorf("%s: %w", op, ErrHallNameTaken)
		}

		h.Active = true
		id, err = s.store.Catalog().With(tx).CreateHall(ctx, h)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrHallNameTaken)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := s.store.Catalog().With(tx).InitHallSeats(ctx, id, GenerateSeatGrid(id, h.Rows, h.SeatsPerRow)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})

	return id, err
}

func (s *Service) GetHall(ctx context.Context, id int64) (*domain.Hall, error) {
	const op = "service.catalog.GetHall"

	h, err := s.store.Catalog().GetHall(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrHallNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return h, nil
}

func (s *Service) ListHalls(ctx context.Context) ([]domain.Hall, error) {
	const op = "service.catalog.ListHalls"

	out, err := s.store.Catalog().ListHalls(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// DeleteHall removes a hall with no upcoming screenings and no active
// bookings, along with its seats.
func (s *Service) DeleteHall(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteHall"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, _ func(uow.AfterCommit)) error {
		inUse, err := s.store.Catalog().With(tx).HallInUse(ctx, id)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if inUse {
			return fmt.Errorf("%s: %w", op, ErrHallInUse)
		}

		if err := s.store.Catalog().With(tx).DeleteHall(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrHallNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})
}

func (s *Service) ListHallSeats(ctx context.Context, hallID int64) ([]domain.Seat, error) {
	const op = "service.catalog.ListHallSeats"

	if _, err := s.store.Catalog().GetHall(ctx, hallID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrHallNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := s.store.Catalog().ListHallSeats(ctx, hallID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// UpdateSeats retypes or (de)activates a set of seats in one hall. Seats
// holding active bookings on future screenings cannot be touched.
func (s *Service) UpdateSeats(
	ctx context.Context,
	hallID int64,
	seatIDs []int64,
	seatType domain.SeatType,
	active bool,
) error {
	const op = "service.catalog.UpdateSeats"

	if len(seatIDs) == 0 {
		return &ValidationError{Fields: FieldErrors{"seat_ids": "at least one seat required"}}
	}
	if err := ValidateSeatType(seatType); err != nil {
		return err
	}

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, _ func(uow.AfterCommit)) error {
		if _, err := s.store.Catalog().With(tx).GetHall(ctx, hallID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrHallNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		busy, err := s.store.Catalog().With(tx).SeatsHaveFutureBookings(ctx, seatIDs)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if busy {
			return fmt.Errorf("%s: %w", op, ErrSeatInUse)
		}

		n, err := s.store.Catalog().With(tx).UpdateSeats(ctx, hallID, seatIDs, seatType, active)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if n != int64(len(seatIDs)) {
			return fmt.Errorf("%s: %w", op, ErrSeatNotFound)
		}

		return nil
	})
}
