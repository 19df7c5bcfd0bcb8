package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkoval/cinetix/internal/access"
	"github.com/mkoval/cinetix/internal/domain"
	redisx "github.com/mkoval/cinetix/internal/redis"
	"github.com/mkoval/cinetix/internal/repository"
	postgresrepo "github.com/mkoval/cinetix/internal/repository/postgres"
	redisrepo "github.com/mkoval/cinetix/internal/repository/redis"
	"github.com/mkoval/cinetix/internal/uow"
)

const (
	seatMapTTL    = 30 * time.Second
	maxTxAttempts = 3
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

type CreateInput struct {
	ScreeningID int64
	SeatIDs     []int64
}

// Create books all requested seats or none of them. The availability check
// and every insert run in one serializable transaction; a concurrent
// booking of the same seat either forces a retryable serialization failure
// or trips the partial unique index, and both surface as "seats
// unavailable" rather than a partial booking.
func (s *Service) Create(ctx context.Context, actor access.Actor, in CreateInput) ([]domain.BookingDetail, error) {
	if len(in.SeatIDs) == 0 {
		return nil, &SeatsUnavailableError{Result: domain.AvailabilityResult{
			Message: "no seats requested",
		}}
	}

	var created []domain.BookingDetail

	// Serialization failures under seat contention are expected; retry the
	// whole transaction a couple of times before giving up.
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = s.createTx(ctx, actor, in, &created)
		if err == nil || !postgresrepo.IsRetryable(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *Service) createTx(
	ctx context.Context,
	actor access.Actor,
	in CreateInput,
	created *[]domain.BookingDetail,
) error {
	const op = "service.booking.Create"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		*created = nil

		sc, err := s.store.Screenings().With(tx).GetDetail(ctx, in.ScreeningID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrScreeningNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		now := s.now()

		if _, err := ValidateWindow(now, sc.Start); err != nil {
			return err
		}

		// The quota only applies to identified users; kiosk sales have no
		// account to count against.
		if actor.IsAuthenticated() {
			existing, err := s.store.Bookings().With(tx).CountUserActive(ctx, in.ScreeningID, *actor.UserID)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			if err := ValidateQuota(existing, len(in.SeatIDs)); err != nil {
				return err
			}
		}

		seats, res, err := s.classify(ctx, tx, sc, in.SeatIDs, uuid.Nil)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !res.Available {
			return &SeatsUnavailableError{Result: res}
		}

		if err := ValidateCluster(seats); err != nil {
			return err
		}

		for _, seat := range seats {
			b, err := s.insertOne(ctx, tx, sc, seat, actor.UserID, now)
			if err != nil {
				return err
			}
			*created = append(*created, *b)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateScreening(ctx, in.ScreeningID)
			_ = s.pubsub.PublishScreeningChanged(ctx, in.ScreeningID)
		})

		return nil
	})
}

// insertOne builds and persists one booking row with its code and QR image.
func (s *Service) insertOne(
	ctx context.Context,
	tx postgresrepo.DB,
	sc *domain.ScreeningDetail,
	seat domain.Seat,
	userID *int64,
	now time.Time,
) (*domain.BookingDetail, error) {
	const op = "service.booking.insertOne"

	code, err := uniqueCode(ctx, sc.ID, seat.ID, now, s.store.Bookings().With(tx).CodeExists)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d := domain.BookingDetail{
		Booking: domain.Booking{
			ID:          uuid.New(),
			ScreeningID: sc.ID,
			SeatID:      seat.ID,
			UserID:      userID,
			Code:        code,
			Price:       sc.SeatPrice(seat.Type),
			Status:      domain.BookingConfirmed,
		},
		MovieTitle: sc.MovieTitle,
		HallName:   sc.HallName,
		SeatRow:    seat.Row,
		SeatNumber: seat.Number,
		SeatType:   seat.Type,
		Start:      sc.Start,
		End:        sc.End,
	}

	png, err := RenderQRPNG(QRPayload(&d))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	d.QRPNG = png

	if err := s.store.Bookings().With(tx).Insert(ctx, d.Booking); err != nil {
		// Loser of a same-seat race against a transaction that already
		// committed: report it as a taken seat, not a server error.
		if errors.Is(err, repository.ErrConflict) {
			return nil, &SeatsUnavailableError{Result: domain.AvailabilityResult{
				UnavailableSeats: []int64{seat.ID},
				Message:          fmt.Sprintf("seats [%d] are already taken. ", seat.ID),
				Details:          domain.AvailabilityDetails{Booked: []int64{seat.ID}},
			}}
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &d, nil
}

// classify loads the requested seats and the already-booked set, then runs
// the availability classification against them.
func (s *Service) classify(
	ctx context.Context,
	db postgresrepo.DB,
	sc *domain.ScreeningDetail,
	seatIDs []int64,
	excludeBooking uuid.UUID,
) ([]domain.Seat, domain.AvailabilityResult, error) {
	var repo = s.store.Catalog()
	var bookings = s.store.Bookings()
	if db != nil {
		repo = repo.With(db)
		bookings = bookings.With(db)
	}

	seats, err := repo.SeatsByIDs(ctx, sc.HallID, seatIDs)
	if err != nil {
		return nil, domain.AvailabilityResult{}, err
	}

	booked, err := bookings.BookedSeatIDs(ctx, sc.ID, seatIDs, excludeBooking)
	if err != nil {
		return nil, domain.AvailabilityResult{}, err
	}

	return seats, ClassifySeats(seatIDs, seats, booked), nil
}

// CheckSeats is the read-only availability probe behind the booking form.
// It never reserves anything; Create repeats the check transactionally.
func (s *Service) CheckSeats(ctx context.Context, screeningID int64, seatIDs []int64) (*domain.AvailabilityResult, error) {
	const op = "service.booking.CheckSeats"

	sc, err := s.store.Screenings().GetDetail(ctx, screeningID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrScreeningNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, res, err := s.classify(ctx, nil, sc, seatIDs, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &res, nil
}

// SeatMap returns every seat of the screening's hall with its booked flag,
// cached briefly since the booking UI polls it.
func (s *Service) SeatMap(ctx context.Context, screeningID int64) ([]domain.SeatWithAvailability, error) {
	const op = "service.booking.SeatMap"

	out, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyScreeningSeatMap(screeningID), seatMapTTL,
		func(ctx context.Context) ([]domain.SeatWithAvailability, error) {
			if _, err := s.store.Screenings().Get(ctx, screeningID); err != nil {
				return nil, err
			}
			return s.store.Screenings().SeatMap(ctx, screeningID)
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrScreeningNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Get returns one booking with its ticket context, for the owner or an
// admin.
func (s *Service) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*domain.BookingDetail, error) {
	const op = "service.booking.Get"

	d, err := s.store.Bookings().GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !access.CanViewBooking(actor, d.UserID) {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	return d, nil
}

// List returns the actor's own bookings; admins may list any user's (or
// everyone's with userID = 0).
func (s *Service) List(
	ctx context.Context,
	actor access.Actor,
	userID int64,
	status domain.BookingStatus,
	limit, offset int,
) ([]domain.BookingDetail, error) {
	const op = "service.booking.List"

	if !access.CanListAllBookings(actor) {
		if !actor.IsAuthenticated() {
			return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
		}
		userID = *actor.UserID
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	out, err := s.store.Bookings().List(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Cancel frees the seat if the booking is still cancellable. The status
// read and the update share one transaction so a concurrent verification
// cannot mark a just-cancelled ticket as used.
func (s *Service) Cancel(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	const op = "service.booking.Cancel"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		d, err := s.store.Bookings().With(tx).GetDetail(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrBookingNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		if !access.CanCancelBooking(actor, d.UserID) {
			return fmt.Errorf("%s: %w", op, ErrForbidden)
		}

		if _, err := ValidateCancellation(s.now(), d.Status, d.Start); err != nil {
			return err
		}

		if err := s.store.Bookings().With(tx).UpdateStatus(ctx, id, domain.BookingCancelled); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateScreening(ctx, d.ScreeningID)
			_ = s.pubsub.PublishScreeningChanged(ctx, d.ScreeningID)
		})

		return nil
	})
}

// VerifyResult is what a door scanner sees for a ticket code.
type VerifyResult struct {
	Status  string                `json:"status"`
	Booking *domain.BookingDetail `json:"booking"`
}

const (
	VerifyValid     = "valid"
	VerifyUsed      = "used"
	VerifyCancelled = "cancelled"
	VerifyExpired   = "expired"
)

// Verify looks a ticket up by its booking code and classifies it for entry
// control. With markUsed set, a valid ticket is atomically marked used so
// the same code cannot pass the door twice.
func (s *Service) Verify(ctx context.Context, actor access.Actor, code string, markUsed bool) (*VerifyResult, error) {
	const op = "service.booking.Verify"

	if !access.CanVerifyTickets(actor) {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	var out VerifyResult

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		d, err := s.store.Bookings().With(tx).GetDetailByCode(ctx, code)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrBookingNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		out = VerifyResult{Status: s.verdict(d), Booking: d}

		if !markUsed || out.Status != VerifyValid {
			return nil
		}

		if !d.Status.CanTransition(domain.BookingUsed) {
			return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
		}

		if err := s.store.Bookings().With(tx).UpdateStatus(ctx, d.ID, domain.BookingUsed); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		d.Status = domain.BookingUsed
		out.Status = VerifyUsed

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateScreening(ctx, d.ScreeningID)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (s *Service) verdict(d *domain.BookingDetail) string {
	switch d.Status {
	case domain.BookingCancelled:
		return VerifyCancelled
	case domain.BookingUsed:
		return VerifyUsed
	}
	if s.now().After(d.End) {
		return VerifyExpired
	}
	return VerifyValid
}

// TicketQR returns the stored QR PNG for a booking, for the owner or an
// admin.
func (s *Service) TicketQR(ctx context.Context, actor access.Actor, id uuid.UUID) ([]byte, error) {
	const op = "service.booking.TicketQR"

	d, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if len(d.QRPNG) == 0 {
		// Older rows may predate QR storage; regenerate on the fly.
		png, err := RenderQRPNG(QRPayload(d))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return png, nil
	}

	return d.QRPNG, nil
}
