package httpgin

import (
	"encoding/base64"
	"time"

	"github.com/mkoval/cinetix/internal/domain"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Extra  map[string]any    `json:"extra,omitempty"`
}

// --- auth ---

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
}

// --- catalog ---

type MovieRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	DurationMin int    `json:"duration_min" binding:"required"`
	ReleaseDate string `json:"release_date"`
	Director    string `json:"director"`
	Cast        string `json:"cast"`
}

type MovieResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DurationMin int    `json:"duration_min"`
	ReleaseDate string `json:"release_date,omitempty"`
	Director    string `json:"director"`
	Cast        string `json:"cast"`
	Active      bool   `json:"is_active"`
}

func toMovieResponse(m *domain.Movie) MovieResponse {
	out := MovieResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		DurationMin: m.Duration,
		Director:    m.Director,
		Cast:        m.Cast,
		Active:      m.Active,
	}
	if m.ReleaseDate != nil {
		out.ReleaseDate = m.ReleaseDate.Format("2006-01-02")
	}
	return out
}

type HallRequest struct {
	Name        string `json:"name" binding:"required"`
	Rows        int    `json:"rows" binding:"required,gt=0"`
	SeatsPerRow int    `json:"seats_per_row" binding:"required,gt=0"`
	Description string `json:"description"`
}

type HallResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Rows        int    `json:"rows"`
	SeatsPerRow int    `json:"seats_per_row"`
	TotalSeats  int    `json:"total_seats"`
	Description string `json:"description"`
	Active      bool   `json:"is_active"`
}

func toHallResponse(h *domain.Hall) HallResponse {
	return HallResponse{
		ID:          h.ID,
		Name:        h.Name,
		Rows:        h.Rows,
		SeatsPerRow: h.SeatsPerRow,
		TotalSeats:  h.TotalSeats(),
		Description: h.Description,
		Active:      h.Active,
	}
}

type UpdateSeatsRequest struct {
	SeatIDs  []int64 `json:"seat_ids" binding:"required,min=1,dive,required"`
	SeatType string  `json:"seat_type" binding:"required"`
	Active   *bool   `json:"is_active" binding:"required"`
}

// --- schedule ---

type ScreeningRequest struct {
	MovieID       int64  `json:"movie_id" binding:"required"`
	HallID        int64  `json:"hall_id" binding:"required"`
	StartsAt      string `json:"starts_at" binding:"required"`
	EndsAt        string `json:"ends_at" binding:"required"`
	PriceStandard int    `json:"price_standard"`
	PriceVIP      int    `json:"price_vip"`
}

type ScreeningResponse struct {
	ID            int64     `json:"id"`
	MovieID       int64     `json:"movie_id"`
	MovieTitle    string    `json:"movie_title,omitempty"`
	HallID        int64     `json:"hall_id"`
	HallName      string    `json:"hall_name,omitempty"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	PriceStandard int       `json:"price_standard"`
	PriceVIP      int       `json:"price_vip"`
	Active        bool      `json:"is_active"`
}

func toScreeningResponse(s domain.Screening) ScreeningResponse {
	return ScreeningResponse{
		ID:            s.ID,
		MovieID:       s.MovieID,
		HallID:        s.HallID,
		StartsAt:      s.Start,
		EndsAt:        s.End,
		PriceStandard: s.PriceStandard,
		PriceVIP:      s.PriceVIP,
		Active:        s.Active,
	}
}

func toScreeningDetailResponse(d *domain.ScreeningDetail) ScreeningResponse {
	out := toScreeningResponse(d.Screening)
	out.MovieTitle = d.MovieTitle
	out.HallName = d.HallName
	return out
}

// --- booking ---

type CreateBookingRequest struct {
	ScreeningID int64   `json:"screening_id" binding:"required"`
	SeatIDs     []int64 `json:"seat_ids" binding:"required,min=1,dive,required"`
}

type CheckSeatsRequest struct {
	SeatIDs []int64 `json:"seat_ids" binding:"required,min=1,dive,required"`
}

type BookingResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"booking_code"`
	ScreeningID int64     `json:"screening_id"`
	MovieTitle  string    `json:"movie_title"`
	HallName    string    `json:"hall_name"`
	SeatID      int64     `json:"seat_id"`
	SeatRow     int       `json:"seat_row"`
	SeatNumber  int       `json:"seat_number"`
	SeatType    string    `json:"seat_type"`
	StartsAt    time.Time `json:"starts_at"`
	Price       int       `json:"price"`
	Status      string    `json:"status"`
	QRBase64    string    `json:"qr_png_base64,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toBookingResponse(d *domain.BookingDetail, withQR bool) BookingResponse {
	out := BookingResponse{
		ID:          d.ID.String(),
		Code:        d.Code,
		ScreeningID: d.ScreeningID,
		MovieTitle:  d.MovieTitle,
		HallName:    d.HallName,
		SeatID:      d.SeatID,
		SeatRow:     d.SeatRow,
		SeatNumber:  d.SeatNumber,
		SeatType:    string(d.SeatType),
		StartsAt:    d.Start,
		Price:       d.Price,
		Status:      string(d.Status),
		CreatedAt:   d.CreatedAt,
	}
	if withQR && len(d.QRPNG) > 0 {
		out.QRBase64 = base64.StdEncoding.EncodeToString(d.QRPNG)
	}
	return out
}

func toBookingResponses(ds []domain.BookingDetail, withQR bool) []BookingResponse {
	out := make([]BookingResponse, 0, len(ds))
	for i := range ds {
		out = append(out, toBookingResponse(&ds[i], withQR))
	}
	return out
}

type SeatResponse struct {
	ID     int64  `json:"id"`
	Row    int    `json:"row"`
	Number int    `json:"number"`
	Type   string `json:"seat_type"`
	Active bool   `json:"is_active"`
	Booked bool   `json:"is_booked,omitempty"`
}

type VerifyTicketRequest struct {
	Code       string `json:"booking_code" binding:"required"`
	MarkAsUsed bool   `json:"mark_as_used"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
