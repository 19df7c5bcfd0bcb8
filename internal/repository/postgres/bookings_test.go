package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkoval/cinetix/internal/domain"
	"github.com/mkoval/cinetix/internal/repository"
)

// testPool connects to the database named by TEST_DATABASE_URL, which must
// already carry the migrations, and skips the test when it is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// seedScreening inserts a movie, hall, seat and screening inside tx and
// returns the screening and seat ids.
func seedScreening(t *testing.T, ctx context.Context, tx pgx.Tx) (screeningID, seatID int64) {
	t.Helper()

	var movieID, hallID int64
	err := tx.QueryRow(ctx,
		`INSERT INTO movies (title, duration_min) VALUES ('Heat', 120) RETURNING id`,
	).Scan(&movieID)
	if err != nil {
		t.Fatalf("seed movie: %v", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO halls (name, rows, seats_per_row) VALUES ($1, 5, 5) RETURNING id`,
		"hall-"+uuid.NewString(),
	).Scan(&hallID)
	if err != nil {
		t.Fatalf("seed hall: %v", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO seats (hall_id, seat_row, seat_number) VALUES ($1, 1, 1) RETURNING id`,
		hallID,
	).Scan(&seatID)
	if err != nil {
		t.Fatalf("seed seat: %v", err)
	}

	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	err = tx.QueryRow(ctx,
		`INSERT INTO screenings (movie_id, hall_id, start_time, end_time, price_standard, price_vip)
         VALUES ($1, $2, $3, $4, 100, 150) RETURNING id`,
		movieID, hallID, start, start.Add(2*time.Hour),
	).Scan(&screeningID)
	if err != nil {
		t.Fatalf("seed screening: %v", err)
	}

	return screeningID, seatID
}

func testBooking(screeningID, seatID int64, status domain.BookingStatus) domain.Booking {
	return domain.Booking{
		ID:          uuid.New(),
		ScreeningID: screeningID,
		SeatID:      seatID,
		Code:        "BK260910" + uuid.NewString()[:10],
		Price:       100,
		Status:      status,
	}
}

// The second non-cancelled booking for the same (screening, seat) must hit
// the partial unique index and come back as a conflict, not a raw error.
func TestInsertSameSeatConflict(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx)

	screeningID, seatID := seedScreening(t, ctx, tx)
	repo := NewStore(pool).Bookings().With(tx)

	if err := repo.Insert(ctx, testBooking(screeningID, seatID, domain.BookingConfirmed)); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	err = repo.Insert(ctx, testBooking(screeningID, seatID, domain.BookingConfirmed))
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("second insert err = %v, want ErrConflict", err)
	}
}

// A cancelled booking releases the seat: the index only covers rows with
// status <> 'cancelled'.
func TestInsertAfterCancellation(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx)

	screeningID, seatID := seedScreening(t, ctx, tx)
	repo := NewStore(pool).Bookings().With(tx)

	if err := repo.Insert(ctx, testBooking(screeningID, seatID, domain.BookingCancelled)); err != nil {
		t.Fatalf("cancelled insert: %v", err)
	}

	if err := repo.Insert(ctx, testBooking(screeningID, seatID, domain.BookingConfirmed)); err != nil {
		t.Fatalf("rebooking a cancelled seat: %v", err)
	}
}
