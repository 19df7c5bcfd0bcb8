package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

type SeatType string

const (
	SeatStandard SeatType = "standard"
	SeatVIP      SeatType = "vip"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingUsed      BookingStatus = "used"
)

// IsActive reports whether the booking still occupies its seat.
func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed
}

// CanTransition encodes the booking lifecycle:
// pending -> confirmed -> {cancelled, used}; pending may also be cancelled
// directly. cancelled and used are terminal.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCancelled || to == BookingUsed
	default:
		return false
	}
}

type Movie struct {
	ID          int64
	Title       string
	Description string
	Duration    int // minutes
	ReleaseDate *time.Time
	Director    string
	Cast        string
	Active      bool
	CreatedAt   time.Time
}

type Hall struct {
	ID          int64
	Name        string
	Rows        int
	SeatsPerRow int
	Description string
	Active      bool
	CreatedAt   time.Time
}

func (h Hall) TotalSeats() int { return h.Rows * h.SeatsPerRow }

type Seat struct {
	ID     int64
	HallID int64
	Row    int
	Number int
	Type   SeatType
	Active bool
}

type Screening struct {
	ID            int64
	MovieID       int64
	HallID        int64
	Start         time.Time
	End           time.Time
	PriceStandard int
	PriceVIP      int
	Active        bool
	CreatedAt     time.Time
}

// SeatPrice returns the ticket price for a seat of the given type.
func (s Screening) SeatPrice(t SeatType) int {
	if t == SeatVIP {
		return s.PriceVIP
	}
	return s.PriceStandard
}

// ScreeningSlot is the minimal view of a screening used for overlap
// conflict reporting: the movie title plus the occupied interval.
type ScreeningSlot struct {
	ID    int64
	Title string
	Start time.Time
	End   time.Time
}

// ScreeningFilter narrows screening listings. Zero values disable the
// corresponding condition.
type ScreeningFilter struct {
	MovieID int64
	HallID  int64
	From    time.Time // start_time >= From
	To      time.Time // start_time < To
	At      time.Time // running at this instant
}

// ScreeningDetail joins a screening with its movie and hall for seat maps
// and booking windows.
type ScreeningDetail struct {
	Screening
	MovieTitle    string
	MovieDuration int
	HallName      string
}

type Booking struct {
	ID          uuid.UUID
	ScreeningID int64
	SeatID      int64
	UserID      *int64
	Code        string
	Price       int
	Status      BookingStatus
	QRPNG       []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingDetail carries everything a ticket (QR payload, PDF) needs.
type BookingDetail struct {
	Booking
	MovieTitle string
	HallName   string
	SeatRow    int
	SeatNumber int
	SeatType   SeatType
	Start      time.Time
	End        time.Time
}

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// SeatWithAvailability is the seat-map projection for a screening.
type SeatWithAvailability struct {
	Seat
	Booked bool
}

// AvailabilityDetails classifies why requested seats were rejected.
type AvailabilityDetails struct {
	Missing  []int64 `json:"missing,omitempty"`
	Inactive []int64 `json:"inactive,omitempty"`
	Booked   []int64 `json:"booked,omitempty"`
}

// AvailabilityResult is the outcome of a seat availability check.
type AvailabilityResult struct {
	Available        bool                `json:"available"`
	AvailableSeats   []int64             `json:"available_seats"`
	UnavailableSeats []int64             `json:"unavailable_seats"`
	Message          string              `json:"message"`
	Details          AvailabilityDetails `json:"details"`
}

// BookingsOverview is the cinema-wide admin reporting projection: counts
// per status, revenue of non-cancelled bookings and the best-selling
// movies.
type BookingsOverview struct {
	Total     int64          `json:"total_bookings"`
	Pending   int64          `json:"pending"`
	Confirmed int64          `json:"confirmed"`
	Cancelled int64          `json:"cancelled"`
	Used      int64          `json:"used"`
	Revenue   int64          `json:"revenue"`
	TopMovies []MovieRevenue `json:"top_movies"`
}

// MovieRevenue is one row of the best-selling movies ranking.
type MovieRevenue struct {
	MovieTitle string `json:"movie_title"`
	Bookings   int64  `json:"bookings"`
	Revenue    int64  `json:"revenue"`
}

// ScreeningSummary is the admin reporting projection for one screening.
type ScreeningSummary struct {
	ScreeningID int64 `json:"screening_id"`
	Pending     int64 `json:"pending"`
	Confirmed   int64 `json:"confirmed"`
	Cancelled   int64 `json:"cancelled"`
	Used        int64 `json:"used"`
	Revenue     int64 `json:"revenue"`
}
