package service

import (
	"time"

	redisx "github.com/mkoval/cinetix/internal/redis"
	postgres "github.com/mkoval/cinetix/internal/repository/postgres"
	redis "github.com/mkoval/cinetix/internal/repository/redis"
	"github.com/mkoval/cinetix/internal/service/auth"
	"github.com/mkoval/cinetix/internal/service/booking"
	"github.com/mkoval/cinetix/internal/service/catalog"
	"github.com/mkoval/cinetix/internal/service/reporting"
	"github.com/mkoval/cinetix/internal/service/schedule"
)

type Services struct {
	Catalog   *catalog.Service
	Schedule  *schedule.Service
	Booking   *booking.Service
	Auth      *auth.Service
	Reporting *reporting.Service
}

type Config struct {
	JWTSecret string
	AccessTTL time.Duration
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redisx.ScreeningsPubSub,
	cfg Config,
) *Services {
	return &Services{
		Catalog:   catalog.New(store),
		Schedule:  schedule.New(store, cache, pubsub),
		Booking:   booking.New(store, cache, pubsub),
		Auth:      auth.New(store, cfg.JWTSecret, cfg.AccessTTL),
		Reporting: reporting.New(store, cache),
	}
}
