package service

import (
	"log/slog"

	redisx "github.com/kirinyoku/cinebook/internal/redis"
	"github.com/kirinyoku/cinebook/internal/repository"
	redisrepo "github.com/kirinyoku/cinebook/internal/repository/redis"
	"github.com/kirinyoku/cinebook/internal/service/admin"
	"github.com/kirinyoku/cinebook/internal/service/booking"
	"github.com/kirinyoku/cinebook/internal/service/query"
)

type Services struct {
	Booking *booking.Service
	Admin   *admin.Service
	Query   *query.Service
}

type Config struct {
	Booking booking.Config
	Admin   admin.Config
	Query   query.Config
}

// NewServices wires the services over one unit of work. repos serves reads
// outside any transaction.
func NewServices(
	uow repository.UnitOfWork,
	repos repository.Repos,
	cache *redisrepo.Cache,
	pubsub *redisx.SessionsPubSub,
	logger *slog.Logger,
	cfg Config,
) *Services {
	return &Services{
		Booking: booking.New(uow, cache, pubsub, logger, cfg.Booking),
		Admin:   admin.New(uow, cache, pubsub, logger, cfg.Admin),
		Query:   query.New(repos, cache, cfg.Query),
	}
}
