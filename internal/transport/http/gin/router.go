package httpgin

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/mkoval/cinetix/internal/domain"
	redisrepo "github.com/mkoval/cinetix/internal/repository/redis"
	"github.com/mkoval/cinetix/internal/service"
	"github.com/mkoval/cinetix/internal/service/auth"
	"github.com/mkoval/cinetix/internal/service/booking"
	"github.com/mkoval/cinetix/internal/service/catalog"
	"github.com/mkoval/cinetix/internal/service/reporting"
	"github.com/mkoval/cinetix/internal/service/schedule"
	"github.com/mkoval/cinetix/internal/ticket"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	limiter *redisrepo.SlidingWindowLimiter,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		LoggingMiddleware(logger),
		RequestIDMiddleware(),
		CORS(),
		AuthMiddleware(svcs.Auth),
	)
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// auth
	r.POST("/auth/register", handleRegister(svcs))
	r.POST("/auth/login", handleLogin(svcs))

	// Public catalog
	r.GET("/movies", handleListMovies(svcs))
	r.GET("/movies/:id", handleGetMovie(svcs))
	r.GET("/halls", handleListHalls(svcs))
	r.GET("/halls/:id", handleGetHall(svcs))
	r.GET("/halls/:id/seats", handleListHallSeats(svcs))

	// Public schedule
	r.GET("/screenings", handleListScreenings(svcs))
	r.GET("/screenings/:id", handleGetScreening(svcs))
	r.GET("/screenings/:id/seats", handleSeatMap(svcs))
	r.POST("/screenings/:id/check-seats", handleCheckSeats(svcs))

	// Bookings: anonymous allowed, authenticated gets history and quota.
	r.POST("/bookings", RateLimitMiddleware(limiter), handleCreateBooking(svcs, idem))
	r.GET("/bookings", handleListBookings(svcs))
	r.GET("/bookings/:id", handleGetBooking(svcs))
	r.POST("/bookings/:id/cancel", handleCancelBooking(svcs))
	r.GET("/bookings/:id/qr", handleBookingQR(svcs))
	r.GET("/bookings/:id/ticket.pdf", handleBookingPDF(svcs))

	// Admin-API
	adm := r.Group("/admin", RequireAdmin())
	{
		adm.POST("/movies", handleCreateMovie(svcs))
		adm.PUT("/movies/:id", handleUpdateMovie(svcs))
		adm.DELETE("/movies/:id", handleDeleteMovie(svcs))

		adm.POST("/halls", handleCreateHall(svcs))
		adm.DELETE("/halls/:id", handleDeleteHall(svcs))
		adm.PATCH("/halls/:id/seats", handleUpdateSeats(svcs))

		adm.POST("/screenings", handleCreateScreening(svcs))
		adm.PUT("/screenings/:id", handleUpdateScreening(svcs))
		adm.DELETE("/screenings/:id", handleDeleteScreening(svcs))
		adm.GET("/screenings/:id/summary", handleScreeningSummary(svcs))

		adm.GET("/bookings/stats", handleBookingsOverview(svcs))

		adm.POST("/tickets/verify", handleVerifyTicket(svcs))
	}

	return r
}

// --- auth handlers ---

// @Summary  Register a guest account
// @Param    req body  RegisterRequest true "payload"
// @Success  201 {object} UserResponse
// @Failure  409 {object} ErrorResponse
// @Router   /auth/register [post]
func handleRegister(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		u, err := svcs.Auth.Register(c.Request.Context(), req.Email, req.Name, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toUserResponse(u))
	}
}

// @Summary  Log in and receive an access token
// @Param    req body  LoginRequest true "payload"
// @Success  200 {object} LoginResponse
// @Failure  401 {object} ErrorResponse
// @Router   /auth/login [post]
func handleLogin(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		sess, err := svcs.Auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, LoginResponse{
			Token:     sess.Token,
			ExpiresAt: sess.ExpiresAt,
			User:      toUserResponse(sess.User),
		})
	}
}

// --- catalog handlers ---

// @Summary  List movies
// @Param    all    query  bool false "include inactive"
// @Param    limit  query  int  false "page size"
// @Param    offset query  int  false "offset"
// @Success  200 {array} MovieResponse
// @Router   /movies [get]
func handleListMovies(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		onlyActive := c.Query("all") != "true"
		limit := parseIntDefault(c.Query("limit"), 100)
		offset := parseIntDefault(c.Query("offset"), 0)

		movies, err := svcs.Catalog.ListMovies(c.Request.Context(), onlyActive, limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}

		out := make([]MovieResponse, 0, len(movies))
		for i := range movies {
			out = append(out, toMovieResponse(&movies[i]))
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60")
	}
}

// @Summary  Get movie
// @Param    id  path  int  true  "Movie ID"
// @Success  200 {object} MovieResponse
// @Failure  404 {object} ErrorResponse
// @Router   /movies/{id} [get]
func handleGetMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		m, err := svcs.Catalog.GetMovie(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toMovieResponse(m), "public, max-age=60")
	}
}

// @Summary  Create movie
// @Param    req body  MovieRequest true "payload"
// @Success  201 {object} MovieResponse
// @Router   /admin/movies [post]
func handleCreateMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := bindMovie(c)
		if !ok {
			return
		}
		id, err := svcs.Catalog.CreateMovie(c.Request.Context(), m)
		if err != nil {
			respondErr(c, err)
			return
		}
		m.ID = id
		m.Active = true
		c.JSON(http.StatusCreated, toMovieResponse(&m))
	}
}

// @Summary  Update movie
// @Param    id  path  int  true  "Movie ID"
// @Param    req body  MovieRequest true "payload"
// @Success  200 {object} MovieResponse
// @Router   /admin/movies/{id} [put]
func handleUpdateMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		m, ok := bindMovie(c)
		if !ok {
			return
		}
		m.ID = id
		if err := svcs.Catalog.UpdateMovie(c.Request.Context(), m); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toMovieResponse(&m))
	}
}

// @Summary  Delete movie
// @Param    id  path  int  true  "Movie ID"
// @Success  204
// @Failure  409 {object} ErrorResponse "movie has future screenings"
// @Router   /admin/movies/{id} [delete]
func handleDeleteMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteMovie(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func bindMovie(c *gin.Context) (domain.Movie, bool) {
	var req MovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return domain.Movie{}, false
	}

	m := domain.Movie{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.DurationMin,
		Director:    req.Director,
		Cast:        req.Cast,
	}
	if req.ReleaseDate != "" {
		d, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			badRequest(c, "invalid release_date (YYYY-MM-DD)")
			return domain.Movie{}, false
		}
		m.ReleaseDate = &d
	}
	return m, true
}

// @Summary  List halls
// @Success  200 {array} HallResponse
// @Router   /halls [get]
func handleListHalls(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		halls, err := svcs.Catalog.ListHalls(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]HallResponse, 0, len(halls))
		for i := range halls {
			out = append(out, toHallResponse(&halls[i]))
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60")
	}
}

// @Summary  Get hall
// @Param    id  path  int  true  "Hall ID"
// @Success  200 {object} HallResponse
// @Router   /halls/{id} [get]
func handleGetHall(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		h, err := svcs.Catalog.GetHall(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toHallResponse(h), "public, max-age=60")
	}
}

// @Summary  List hall seats
// @Param    id  path  int  true  "Hall ID"
// @Success  200 {array} SeatResponse
// @Router   /halls/{id}/seats [get]
func handleListHallSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		seats, err := svcs.Catalog.ListHallSeats(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]SeatResponse, 0, len(seats))
		for _, s := range seats {
			out = append(out, SeatResponse{
				ID:     s.ID,
				Row:    s.Row,
				Number: s.Number,
				Type:   string(s.Type),
				Active: s.Active,
			})
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60")
	}
}

// @Summary  Create hall with its seat grid
// @Param    req body  HallRequest true "payload"
// @Success  201 {object} HallResponse
// @Router   /admin/halls [post]
func handleCreateHall(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req HallRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		h := domain.Hall{
			Name:        req.Name,
			Rows:        req.Rows,
			SeatsPerRow: req.SeatsPerRow,
			Description: req.Description,
		}
		id, err := svcs.Catalog.CreateHall(c.Request.Context(), h)
		if err != nil {
			respondErr(c, err)
			return
		}
		h.ID = id
		h.Active = true
		c.JSON(http.StatusCreated, toHallResponse(&h))
	}
}

// @Summary  Delete hall
// @Param    id  path  int  true  "Hall ID"
// @Success  204
// @Failure  409 {object} ErrorResponse "hall in use"
// @Router   /admin/halls/{id} [delete]
func handleDeleteHall(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteHall(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Retype or (de)activate seats
// @Param    id  path  int  true  "Hall ID"
// @Param    req body  UpdateSeatsRequest true "payload"
// @Success  204
// @Failure  409 {object} ErrorResponse "seats have active bookings"
// @Router   /admin/halls/{id}/seats [patch]
func handleUpdateSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req UpdateSeatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		err := svcs.Catalog.UpdateSeats(
			c.Request.Context(),
			id,
			req.SeatIDs,
			domain.SeatType(req.SeatType),
			*req.Active,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// --- schedule handlers ---

// @Summary  List screenings
// @Param    movie_id    query  int    false "filter by movie"
// @Param    hall_id     query  int    false "filter by hall"
// @Param    date        query  string false "only screenings starting on this day (YYYY-MM-DD)"
// @Param    now_playing query  bool   false "only screenings running right now"
// @Param    limit       query  int    false "page size"
// @Param    offset      query  int    false "offset"
// @Success  200 {array} ScreeningResponse
// @Failure  400 {object} ErrorResponse
// @Router   /screenings [get]
func handleListScreenings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := schedule.ListQuery{
			MovieID: int64(parseIntDefault(c.Query("movie_id"), 0)),
			HallID:  int64(parseIntDefault(c.Query("hall_id"), 0)),
			Limit:   parseIntDefault(c.Query("limit"), 100),
			Offset:  parseIntDefault(c.Query("offset"), 0),
		}
		if v := c.Query("date"); v != "" {
			date, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date must be YYYY-MM-DD"})
				return
			}
			q.Date = date
		}
		q.NowPlaying = c.Query("now_playing") == "true"

		screenings, err := svcs.Schedule.List(c.Request.Context(), q)
		if err != nil {
			respondErr(c, err)
			return
		}

		out := make([]ScreeningResponse, 0, len(screenings))
		for _, s := range screenings {
			out = append(out, toScreeningResponse(s))
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=15")
	}
}

// @Summary  Get screening
// @Param    id  path  int  true  "Screening ID"
// @Success  200 {object} ScreeningResponse
// @Failure  404 {object} ErrorResponse
// @Router   /screenings/{id} [get]
func handleGetScreening(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		d, err := svcs.Schedule.Get(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toScreeningDetailResponse(d), "public, max-age=15")
	}
}

// @Summary  Seat map with availability
// @Param    id  path  int  true  "Screening ID"
// @Success  200 {array} SeatResponse
// @Router   /screenings/{id}/seats [get]
func handleSeatMap(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		seats, err := svcs.Booking.SeatMap(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]SeatResponse, 0, len(seats))
		for _, s := range seats {
			out = append(out, SeatResponse{
				ID:     s.ID,
				Row:    s.Row,
				Number: s.Number,
				Type:   string(s.Type),
				Active: s.Active,
				Booked: s.Booked,
			})
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=15")
	}
}

// @Summary  Check seat availability
// @Param    id  path  int  true  "Screening ID"
// @Param    req body  CheckSeatsRequest true "payload"
// @Success  200 {object} domain.AvailabilityResult
// @Router   /screenings/{id}/check-seats [post]
func handleCheckSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req CheckSeatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svcs.Booking.CheckSeats(c.Request.Context(), id, req.SeatIDs)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  Create screening
// @Param    req body  ScreeningRequest true "payload"
// @Success  201 {object} ScreeningResponse
// @Failure  400 {object} ErrorResponse "validation report"
// @Router   /admin/screenings [post]
func handleCreateScreening(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, ok := bindScreening(c)
		if !ok {
			return
		}
		id, err := svcs.Schedule.Create(c.Request.Context(), in)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// @Summary  Update screening
// @Param    id  path  int  true  "Screening ID"
// @Param    req body  ScreeningRequest true "payload"
// @Success  204
// @Router   /admin/screenings/{id} [put]
func handleUpdateScreening(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		in, ok := bindScreening(c)
		if !ok {
			return
		}
		if err := svcs.Schedule.Update(c.Request.Context(), id, in); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Deactivate screening
// @Param    id  path  int  true  "Screening ID"
// @Success  204
// @Router   /admin/screenings/{id} [delete]
func handleDeleteScreening(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Schedule.Deactivate(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func bindScreening(c *gin.Context) (schedule.ScreeningInput, bool) {
	var req ScreeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return schedule.ScreeningInput{}, false
	}
	start, err := parseRFC3339(req.StartsAt)
	if err != nil {
		badRequest(c, "invalid starts_at (RFC3339)")
		return schedule.ScreeningInput{}, false
	}
	end, err := parseRFC3339(req.EndsAt)
	if err != nil {
		badRequest(c, "invalid ends_at (RFC3339)")
		return schedule.ScreeningInput{}, false
	}
	return schedule.ScreeningInput{
		MovieID:       req.MovieID,
		HallID:        req.HallID,
		Start:         start,
		End:           end,
		PriceStandard: req.PriceStandard,
		PriceVIP:      req.PriceVIP,
	}, true
}

// --- booking handlers ---

// @Summary  Book seats (idempotent)
// @Param    req body  CreateBookingRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {array} BookingResponse
// @Failure  400 {object} ErrorResponse "window / quota / cluster"
// @Failure  409 {object} ErrorResponse "seats unavailable / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /bookings [post]
func handleCreateBooking(svcs *service.Services, idem *redisrepo.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemBooking(req.ScreeningID, idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		created, err := svcs.Booking.Create(c.Request.Context(), actorFrom(c), booking.CreateInput{
			ScreeningID: req.ScreeningID,
			SeatIDs:     req.SeatIDs,
		})
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := toBookingResponses(created, true)

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  List bookings (own for guests, any for admins)
// @Param    user_id query  int    false "admin only: filter by user, 0 = all"
// @Param    status  query  string false "status filter"
// @Param    limit   query  int    false "page size"
// @Param    offset  query  int    false "offset"
// @Success  200 {array} BookingResponse
// @Router   /bookings [get]
func handleListBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := int64(parseIntDefault(c.Query("user_id"), 0))
		status := domain.BookingStatus(c.Query("status"))
		limit := parseIntDefault(c.Query("limit"), 50)
		offset := parseIntDefault(c.Query("offset"), 0)

		out, err := svcs.Booking.List(c.Request.Context(), actorFrom(c), userID, status, limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toBookingResponses(out, false))
	}
}

// @Summary  Get booking
// @Param    id  path  string  true  "Booking ID (uuid)"
// @Success  200 {object} BookingResponse
// @Failure  404 {object} ErrorResponse
// @Router   /bookings/{id} [get]
func handleGetBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		d, err := svcs.Booking.Get(c.Request.Context(), actorFrom(c), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toBookingResponse(d, true))
	}
}

// @Summary  Cancel booking
// @Param    id  path  string  true  "Booking ID (uuid)"
// @Success  204
// @Failure  400 {object} ErrorResponse "too late / terminal status"
// @Router   /bookings/{id}/cancel [post]
func handleCancelBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Booking.Cancel(c.Request.Context(), actorFrom(c), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Ticket QR image
// @Param    id      path   string  true   "Booking ID (uuid)"
// @Param    format  query  string  false  "Set to base64 for a JSON-wrapped data URI"
// @Produce  png
// @Success  200
// @Router   /bookings/{id}/qr [get]
func handleBookingQR(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		png, err := svcs.Booking.TicketQR(c.Request.Context(), actorFrom(c), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		if c.Query("format") == "base64" {
			c.JSON(http.StatusOK, gin.H{
				"qr_code": "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
			})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}

// @Summary  Printable ticket
// @Param    id  path  string  true  "Booking ID (uuid)"
// @Produce  application/pdf
// @Success  200
// @Router   /bookings/{id}/ticket.pdf [get]
func handleBookingPDF(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		d, err := svcs.Booking.Get(c.Request.Context(), actorFrom(c), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		pdf, err := ticket.RenderPDF(d)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="ticket_`+d.Code+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}

// @Summary  Verify ticket by booking code
// @Param    req body  VerifyTicketRequest true "payload"
// @Success  200 {object} booking.VerifyResult
// @Failure  404 {object} ErrorResponse
// @Router   /admin/tickets/verify [post]
func handleVerifyTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svcs.Booking.Verify(c.Request.Context(), actorFrom(c), req.Code, req.MarkAsUsed)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// --- reporting handlers ---

// @Summary  Screening booking summary
// @Param    id  path  int  true  "Screening ID"
// @Success  200 {object} domain.ScreeningSummary
// @Router   /admin/screenings/{id}/summary [get]
func handleScreeningSummary(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		sum, err := svcs.Reporting.ScreeningSummary(c.Request.Context(), actorFrom(c), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, sum)
	}
}

// @Summary  Cinema-wide bookings statistics
// @Success  200 {object} domain.BookingsOverview
// @Router   /admin/bookings/stats [get]
func handleBookingsOverview(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ov, err := svcs.Reporting.Overview(c.Request.Context(), actorFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ov)
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var (
		catalogVal  *catalog.ValidationError
		scheduleVal *schedule.ValidationError
		windowErr   *booking.WindowError
		quotaErr    *booking.QuotaError
		clusterErr  *booking.ClusterError
		cancelErr   *booking.CancelError
		seatsErr    *booking.SeatsUnavailableError
	)

	switch {
	// validation reports
	case errors.As(err, &catalogVal):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: catalogVal.Fields})
	case errors.As(err, &scheduleVal):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: scheduleVal.Fields})

	// booking rule violations
	case errors.As(err, &windowErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: windowErr.Error(),
			Code:  windowErr.Code,
			Extra: map[string]any{"minutes_left": windowErr.MinutesLeft},
		})
	case errors.As(err, &quotaErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: quotaErr.Error(),
			Code:  "quota_exceeded",
			Extra: map[string]any{
				"existing":    quotaErr.Existing,
				"requested":   quotaErr.Requested,
				"max_allowed": quotaErr.MaxAllowed,
			},
		})
	case errors.As(err, &clusterErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: clusterErr.Error(), Code: clusterErr.Code})
	case errors.As(err, &cancelErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: cancelErr.Error(),
			Code:  cancelErr.Code,
			Extra: map[string]any{"minutes_left": cancelErr.MinutesLeft},
		})
	case errors.As(err, &seatsErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: seatsErr.Error(),
			Code:  "seats_unavailable",
			Extra: map[string]any{"availability": seatsErr.Result},
		})
	case errors.Is(err, booking.ErrSeatsUnavailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seats unavailable", Code: "seats_unavailable"})

	// not found
	case errors.Is(err, catalog.ErrMovieNotFound),
		errors.Is(err, catalog.ErrHallNotFound),
		errors.Is(err, catalog.ErrSeatNotFound),
		errors.Is(err, schedule.ErrScreeningNotFound),
		errors.Is(err, schedule.ErrMovieNotFound),
		errors.Is(err, schedule.ErrHallNotFound),
		errors.Is(err, booking.ErrScreeningNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, reporting.ErrScreeningNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	// conflicts
	case errors.Is(err, catalog.ErrMovieInUse),
		errors.Is(err, catalog.ErrHallInUse),
		errors.Is(err, catalog.ErrSeatInUse),
		errors.Is(err, catalog.ErrHallNameTaken),
		errors.Is(err, schedule.ErrScreeningConflict),
		errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	// auth
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	// access
	case errors.Is(err, booking.ErrForbidden),
		errors.Is(err, reporting.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
