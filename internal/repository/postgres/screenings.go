package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkoval/cinetix/internal/domain"
)

type ScreeningRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ScreeningRepo) With(db DB) *ScreeningRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ScreeningRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *ScreeningRepo) Create(ctx context.Context, s domain.Screening) (int64, error) {
	const op = "postgres.ScreeningRepo.Create"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO screenings(movie_id, hall_id, start_time, end_time, price_standard, price_vip, is_active)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7)
     	 RETURNING id`,
		s.MovieID, s.HallID, s.Start, s.End, s.PriceStandard, s.PriceVIP, s.Active,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *ScreeningRepo) Update(ctx context.Context, s domain.Screening) error {
	const op = "postgres.ScreeningRepo.Update"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE screenings
         SET movie_id = $2, hall_id = $3, start_time = $4, end_time = $5,
             price_standard = $6, price_vip = $7, is_active = $8
      	 WHERE id = $1`,
		s.ID, s.MovieID, s.HallID, s.Start, s.End, s.PriceStandard, s.PriceVIP, s.Active,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

func (r *ScreeningRepo) Get(ctx context.Context, id int64) (*domain.Screening, error) {
	const op = "postgres.ScreeningRepo.Get"

	db := r.handle()

	var s domain.Screening
	err := db.QueryRow(ctx,
		`SELECT id, movie_id, hall_id, start_time, end_time, price_standard, price_vip, is_active, created_at
       	 FROM screenings WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.MovieID, &s.HallID, &s.Start, &s.End, &s.PriceStandard, &s.PriceVIP, &s.Active, &s.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &s, nil
}

// GetDetail joins the screening with its movie and hall.
func (r *ScreeningRepo) GetDetail(ctx context.Context, id int64) (*domain.ScreeningDetail, error) {
	const op = "postgres.ScreeningRepo.GetDetail"

	db := r.handle()

	var d domain.ScreeningDetail
	err := db.QueryRow(ctx,
		`SELECT sc.id, sc.movie_id, sc.hall_id, sc.start_time, sc.end_time,
                sc.price_standard, sc.price_vip, sc.is_active, sc.created_at,
                m.title, m.duration_min, h.name
       	 FROM screenings sc
         JOIN movies m ON m.id = sc.movie_id
         JOIN halls h ON h.id = sc.hall_id
      	 WHERE sc.id = $1`,
		id,
	).Scan(&d.ID, &d.MovieID, &d.HallID, &d.Start, &d.End,
		&d.PriceStandard, &d.PriceVIP, &d.Active, &d.CreatedAt,
		&d.MovieTitle, &d.MovieDuration, &d.HallName)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &d, nil
}

func (r *ScreeningRepo) List(ctx context.Context, f domain.ScreeningFilter, limit, offset int) ([]domain.Screening, error) {
	const op = "postgres.ScreeningRepo.List"

	db := r.handle()

	var from, to, at *time.Time
	if !f.From.IsZero() {
		from = &f.From
	}
	if !f.To.IsZero() {
		to = &f.To
	}
	if !f.At.IsZero() {
		at = &f.At
	}

	rows, err := db.Query(ctx,
		`SELECT id, movie_id, hall_id, start_time, end_time, price_standard, price_vip, is_active, created_at
       	 FROM screenings
      	 WHERE is_active
           AND ($1 = 0 OR movie_id = $1)
           AND ($2 = 0 OR hall_id = $2)
           AND ($3::timestamptz IS NULL OR start_time >= $3)
           AND ($4::timestamptz IS NULL OR start_time < $4)
           AND ($5::timestamptz IS NULL OR (start_time <= $5 AND end_time >= $5))
      	 ORDER BY start_time
      	 LIMIT $6 OFFSET $7`,
		f.MovieID, f.HallID, from, to, at, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Screening
	for rows.Next() {
		var s domain.Screening
		if err := rows.Scan(&s.ID, &s.MovieID, &s.HallID, &s.Start, &s.End,
			&s.PriceStandard, &s.PriceVIP, &s.Active, &s.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// OverlappingSlots returns active screenings in the hall whose [start,end)
// interval intersects the given one, excluding excludeID when updating.
// Ordered by start time so conflict reports stay stable.
func (r *ScreeningRepo) OverlappingSlots(
	ctx context.Context,
	hallID int64,
	start, end time.Time,
	excludeID int64,
) ([]domain.ScreeningSlot, error) {
	const op = "postgres.ScreeningRepo.OverlappingSlots"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT sc.id, m.title, sc.start_time, sc.end_time
       	 FROM screenings sc
         JOIN movies m ON m.id = sc.movie_id
      	 WHERE sc.hall_id = $1
           AND sc.is_active
           AND sc.start_time < $3
           AND sc.end_time > $2
           AND sc.id <> $4
      	 ORDER BY sc.start_time`,
		hallID, start, end, excludeID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.ScreeningSlot
	for rows.Next() {
		var s domain.ScreeningSlot
		if err := rows.Scan(&s.ID, &s.Title, &s.Start, &s.End); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (r *ScreeningRepo) Deactivate(ctx context.Context, id int64) error {
	const op = "postgres.ScreeningRepo.Deactivate"

	db := r.handle()

	tag, err := db.Exec(ctx, `UPDATE screenings SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

// SeatMap returns every seat of the screening's hall with a booked flag
// against non-cancelled bookings of this screening.
func (r *ScreeningRepo) SeatMap(ctx context.Context, screeningID int64) ([]domain.SeatWithAvailability, error) {
	const op = "postgres.ScreeningRepo.SeatMap"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT s.id, s.hall_id, s.seat_row, s.seat_number, s.seat_type, s.is_active,
                EXISTS (
                  SELECT 1 FROM bookings b
                  WHERE b.screening_id = sc.id
                    AND b.seat_id = s.id
                    AND b.status IN ('confirmed', 'pending')
                )
       	 FROM screenings sc
         JOIN seats s ON s.hall_id = sc.hall_id
      	 WHERE sc.id = $1
      	 ORDER BY s.seat_row, s.seat_number`,
		screeningID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.SeatWithAvailability
	for rows.Next() {
		var sa domain.SeatWithAvailability
		if err := rows.Scan(&sa.ID, &sa.HallID, &sa.Row, &sa.Number, &sa.Type, &sa.Active, &sa.Booked); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
