package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkoval/cinetix/internal/domain"
)

type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// --- Movies ---

func (r *CatalogRepo) CreateMovie(ctx context.Context, m domain.Movie) (int64, error) {
	const op = "postgres.CatalogRepo.CreateMovie"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO movies(title, description, duration_min, release_date, director, cast_list, is_active)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7)
     	 RETURNING id`,
		m.Title, m.Description, m.Duration, m.ReleaseDate, m.Director, m.Cast, m.Active,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *CatalogRepo) UpdateMovie(ctx context.Context, m domain.Movie) error {
	const op = "postgres.CatalogRepo.UpdateMovie"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE movies
         SET title = $2, description = $3, duration_min = $4, release_date = $5,
             director = $6, cast_list = $7, is_active = $8
      	 WHERE id = $1`,
		m.ID, m.Title, m.Description, m.Duration, m.ReleaseDate, m.Director, m.Cast, m.Active,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, translateDBErr(pgx.ErrNoRows))
	}

	return nil
}

func (r *CatalogRepo) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	const op = "postgres.CatalogRepo.GetMovie"

	db := r.handle()

	var m domain.Movie
	err := db.QueryRow(ctx,
		`SELECT id, title, description, duration_min, release_date, director, cast_list, is_active, created_at
       	 FROM movies WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Title, &m.Description, &m.Duration, &m.ReleaseDate, &m.Director, &m.Cast, &m.Active, &m.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &m, nil
}

func (r *CatalogRepo) ListMovies(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Movie, error) {
	const op = "postgres.CatalogRepo.ListMovies"

	db := r.handle()

	q := `SELECT id, title, description, duration_min, release_date, director, cast_list, is_active, created_at
	      FROM movies`
	if onlyActive {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := db.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Movie
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Duration,
			&m.ReleaseDate, &m.Director, &m.Cast, &m.Active, &m.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// MovieHasFutureScreenings reports whether any active screening of the movie
// starts after now(). Such movies must not be deleted or re-timed.
func (r *CatalogRepo) MovieHasFutureScreenings(ctx context.Context, movieID int64) (bool, error) {
	const op = "postgres.CatalogRepo.MovieHasFutureScreenings"

	db := r.handle()

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (
           SELECT 1 FROM screenings
       	   WHERE movie_id = $1 AND is_active AND start_time > now()
         )`,
		movieID,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

func (r *CatalogRepo) DeleteMovie(ctx context.Context, id int64) error {
	const op = "postgres.CatalogRepo.DeleteMovie"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

// --- Halls ---

func (r *CatalogRepo) CreateHall(ctx context.Context, h domain.Hall) (int64, error) {
	const op = "postgres.CatalogRepo.CreateHall"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO halls(name, rows, seats_per_row, description, is_active)
       	 VALUES ($1, $2, $3, $4, $5)
     	 RETURNING id`,
		h.Name, h.Rows, h.SeatsPerRow, h.Description, h.Active,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// InitHallSeats creates the full rows x seatsPerRow grid for a freshly
// created hall. (hall, row, number) is unique at the schema level.
func (r *CatalogRepo) InitHallSeats(ctx context.Context, hallID int64, seats []domain.Seat) error {
	const op = "postgres.CatalogRepo.InitHallSeats"

	db := r.handle()

	batch := &pgx.Batch{}
	for _, s := range seats {
		batch.Queue(
			`INSERT INTO seats(hall_id, seat_row, seat_number, seat_type, is_active)
         	 VALUES ($1, $2, $3, $4, $5)`,
			hallID, s.Row, s.Number, s.Type, s.Active,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *CatalogRepo) GetHall(ctx context.Context, id int64) (*domain.Hall, error) {
	const op = "postgres.CatalogRepo.GetHall"

	db := r.handle()

	var h domain.Hall
	err := db.QueryRow(ctx,
		`SELECT id, name, rows, seats_per_row, description, is_active, created_at
       	 FROM halls WHERE id = $1`,
		id,
	).Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsPerRow, &h.Description, &h.Active, &h.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &h, nil
}

func (r *CatalogRepo) ListHalls(ctx context.Context) ([]domain.Hall, error) {
	const op = "postgres.CatalogRepo.ListHalls"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, rows, seats_per_row, description, is_active, created_at
       	 FROM halls ORDER BY name`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Hall
	for rows.Next() {
		var h domain.Hall
		if err := rows.Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsPerRow, &h.Description, &h.Active, &h.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (r *CatalogRepo) HallNameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	const op = "postgres.CatalogRepo.HallNameTaken"

	db := r.handle()

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM halls WHERE name = $1 AND id <> $2)`,
		name, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

// HallInUse reports whether the hall has future active screenings or
// non-cancelled bookings attached to any of its screenings.
func (r *CatalogRepo) HallInUse(ctx context.Context, hallID int64) (bool, error) {
	const op = "postgres.CatalogRepo.HallInUse"

	db := r.handle()

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (
           SELECT 1 FROM screenings
       	   WHERE hall_id = $1 AND is_active AND start_time > now()
         ) OR EXISTS (
           SELECT 1 FROM bookings b
           JOIN screenings sc ON sc.id = b.screening_id
       	   WHERE sc.hall_id = $1 AND b.status IN ('confirmed', 'pending')
         )`,
		hallID,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

func (r *CatalogRepo) DeleteHall(ctx context.Context, id int64) error {
	const op = "postgres.CatalogRepo.DeleteHall"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM halls WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

// --- Seats ---

func (r *CatalogRepo) ListHallSeats(ctx context.Context, hallID int64) ([]domain.Seat, error) {
	const op = "postgres.CatalogRepo.ListHallSeats"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, hall_id, seat_row, seat_number, seat_type, is_active
       	 FROM seats
      	 WHERE hall_id = $1
      	 ORDER BY seat_row, seat_number`,
		hallID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.HallID, &s.Row, &s.Number, &s.Type, &s.Active); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// SeatsByIDs resolves the requested seat IDs against one hall. Seats from
// other halls are simply absent from the result.
func (r *CatalogRepo) SeatsByIDs(ctx context.Context, hallID int64, ids []int64) ([]domain.Seat, error) {
	const op = "postgres.CatalogRepo.SeatsByIDs"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, hall_id, seat_row, seat_number, seat_type, is_active
       	 FROM seats
      	 WHERE hall_id = $1 AND id = ANY($2)`,
		hallID, ids,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.HallID, &s.Row, &s.Number, &s.Type, &s.Active); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// SeatsHaveFutureBookings reports whether any of the seats is referenced by
// a non-cancelled booking on a future screening. Seat type changes are
// forbidden while that holds.
func (r *CatalogRepo) SeatsHaveFutureBookings(ctx context.Context, seatIDs []int64) (bool, error) {
	const op = "postgres.CatalogRepo.SeatsHaveFutureBookings"

	db := r.handle()

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (
           SELECT 1 FROM bookings b
           JOIN screenings sc ON sc.id = b.screening_id
       	   WHERE b.seat_id = ANY($1)
             AND b.status IN ('confirmed', 'pending')
             AND sc.start_time > now()
         )`,
		seatIDs,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

func (r *CatalogRepo) UpdateSeats(ctx context.Context, hallID int64, seatIDs []int64, seatType domain.SeatType, active bool) (int64, error) {
	const op = "postgres.CatalogRepo.UpdateSeats"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE seats
         SET seat_type = $3, is_active = $4
      	 WHERE hall_id = $1 AND id = ANY($2)`,
		hallID, seatIDs, seatType, active,
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}
