package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkoval/cinetix/internal/domain"
)

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// BookedSeatIDs returns the subset of seatIDs already taken by a
// non-cancelled booking for this screening, excluding excludeID (uuid.Nil
// for create flows).
func (r *BookingRepo) BookedSeatIDs(
	ctx context.Context,
	screeningID int64,
	seatIDs []int64,
	excludeID uuid.UUID,
) ([]int64, error) {
	const op = "postgres.BookingRepo.BookedSeatIDs"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT seat_id
       	 FROM bookings
      	 WHERE screening_id = $1
           AND seat_id = ANY($2)
           AND status IN ('confirmed', 'pending')
           AND id <> $3`,
		screeningID, seatIDs, excludeID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// CountUserActive counts the user's confirmed/pending bookings on one
// screening, for the per-user seat quota.
func (r *BookingRepo) CountUserActive(ctx context.Context, screeningID, userID int64) (int, error) {
	const op = "postgres.BookingRepo.CountUserActive"

	db := r.handle()

	var n int
	err := db.QueryRow(ctx,
		`SELECT COUNT(*)
       	 FROM bookings
      	 WHERE screening_id = $1
           AND user_id = $2
           AND status IN ('confirmed', 'pending')`,
		screeningID, userID,
	).Scan(&n)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

func (r *BookingRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	const op = "postgres.BookingRepo.CodeExists"

	db := r.handle()

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE booking_code = $1)`,
		code,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

// Insert writes a single booking row. The partial unique index on
// (screening_id, seat_id) WHERE status <> 'cancelled' rejects the loser of
// a double-booking race with a conflict the service maps to
// "seat unavailable", never a server error.
func (r *BookingRepo) Insert(ctx context.Context, b domain.Booking) error {
	const op = "postgres.BookingRepo.Insert"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO bookings(id, screening_id, seat_id, user_id, booking_code, price, status, qr_png)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.ScreeningID, b.SeatID, b.UserID, b.Code, b.Price, b.Status, b.QRPNG,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *BookingRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.Get"

	db := r.handle()

	var b domain.Booking
	err := db.QueryRow(ctx,
		`SELECT id, screening_id, seat_id, user_id, booking_code, price, status, qr_png, created_at, updated_at
       	 FROM bookings WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.ScreeningID, &b.SeatID, &b.UserID, &b.Code, &b.Price, &b.Status, &b.QRPNG, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &b, nil
}

const bookingDetailQuery = `
	SELECT b.id, b.screening_id, b.seat_id, b.user_id, b.booking_code, b.price,
	       b.status, b.qr_png, b.created_at, b.updated_at,
	       m.title, h.name, s.seat_row, s.seat_number, s.seat_type,
	       sc.start_time, sc.end_time
	FROM bookings b
	JOIN screenings sc ON sc.id = b.screening_id
	JOIN movies m ON m.id = sc.movie_id
	JOIN halls h ON h.id = sc.hall_id
	JOIN seats s ON s.id = b.seat_id`

func scanBookingDetail(row pgx.Row, d *domain.BookingDetail) error {
	return row.Scan(
		&d.ID, &d.ScreeningID, &d.SeatID, &d.UserID, &d.Code, &d.Price,
		&d.Status, &d.QRPNG, &d.CreatedAt, &d.UpdatedAt,
		&d.MovieTitle, &d.HallName, &d.SeatRow, &d.SeatNumber, &d.SeatType,
		&d.Start, &d.End,
	)
}

func (r *BookingRepo) GetDetail(ctx context.Context, id uuid.UUID) (*domain.BookingDetail, error) {
	const op = "postgres.BookingRepo.GetDetail"

	db := r.handle()

	var d domain.BookingDetail
	if err := scanBookingDetail(
		db.QueryRow(ctx, bookingDetailQuery+` WHERE b.id = $1`, id), &d,
	); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &d, nil
}

func (r *BookingRepo) GetDetailByCode(ctx context.Context, code string) (*domain.BookingDetail, error) {
	const op = "postgres.BookingRepo.GetDetailByCode"

	db := r.handle()

	var d domain.BookingDetail
	if err := scanBookingDetail(
		db.QueryRow(ctx, bookingDetailQuery+` WHERE b.booking_code = $1`, code), &d,
	); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &d, nil
}

// List returns bookings newest first. userID = 0 lists all users (admin),
// status = "" skips the status filter.
func (r *BookingRepo) List(
	ctx context.Context,
	userID int64,
	status domain.BookingStatus,
	limit, offset int,
) ([]domain.BookingDetail, error) {
	const op = "postgres.BookingRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		bookingDetailQuery+`
		 WHERE ($1 = 0 OR b.user_id = $1)
		   AND ($2 = '' OR b.status = $2)
		 ORDER BY b.created_at DESC
		 LIMIT $3 OFFSET $4`,
		userID, string(status), limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.BookingDetail
	for rows.Next() {
		var d domain.BookingDetail
		if err := scanBookingDetail(rows, &d); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	const op = "postgres.BookingRepo.UpdateStatus"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

// SummaryByScreening aggregates booking counts by status and the revenue of
// non-cancelled bookings for one screening.
func (r *BookingRepo) SummaryByScreening(ctx context.Context, screeningID int64) (*domain.ScreeningSummary, error) {
	const op = "postgres.BookingRepo.SummaryByScreening"

	db := r.handle()

	sum := domain.ScreeningSummary{ScreeningID: screeningID}
	err := db.QueryRow(ctx,
		`SELECT
       	 	COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
    	 	COALESCE(SUM(CASE WHEN status = 'confirmed' THEN 1 ELSE 0 END), 0),
       	 	COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0),
       	 	COALESCE(SUM(CASE WHEN status = 'used' THEN 1 ELSE 0 END), 0),
       	 	COALESCE(SUM(CASE WHEN status <> 'cancelled' THEN price ELSE 0 END), 0)
     	 FROM bookings
     	 WHERE screening_id = $1`,
		screeningID,
	).Scan(&sum.Pending, &sum.Confirmed, &sum.Cancelled, &sum.Used, &sum.Revenue)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &sum, nil
}

// Overview aggregates bookings across the whole cinema plus the ten
// movies with the highest non-cancelled revenue.
func (r *BookingRepo) Overview(ctx context.Context) (*domain.BookingsOverview, error) {
	const op = "postgres.BookingRepo.Overview"

	db := r.handle()

	var ov domain.BookingsOverview
	err := db.QueryRow(ctx,
		`SELECT
       	 	COUNT(*),
       	 	COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
    	 	COALESCE(SUM(CASE WHEN status = 'confirmed' THEN 1 ELSE 0 END), 0),
       	 	COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0),
       	 	COALESCE(SUM(CASE WHEN status = 'used' THEN 1 ELSE 0 END), 0),
       	 	COALESCE(SUM(CASE WHEN status <> 'cancelled' THEN price ELSE 0 END), 0)
     	 FROM bookings`,
	).Scan(&ov.Total, &ov.Pending, &ov.Confirmed, &ov.Cancelled, &ov.Used, &ov.Revenue)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := db.Query(ctx,
		`SELECT m.title, COUNT(*), COALESCE(SUM(b.price), 0)
       	 FROM bookings b
         JOIN screenings sc ON sc.id = b.screening_id
         JOIN movies m ON m.id = sc.movie_id
      	 WHERE b.status <> 'cancelled'
      	 GROUP BY m.title
      	 ORDER BY 3 DESC, m.title
      	 LIMIT 10`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	for rows.Next() {
		var mr domain.MovieRevenue
		if err := rows.Scan(&mr.MovieTitle, &mr.Bookings, &mr.Revenue); err != nil {
			return nil, wrapDBErr(op, err)
		}
		ov.TopMovies = append(ov.TopMovies, mr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &ov, nil
}
