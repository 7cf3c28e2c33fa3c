package httpgin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/metrics"
	"github.com/kirinyoku/cinebook/internal/schedule"
	"github.com/kirinyoku/cinebook/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// IdempotencyStore is the subset of redis.IdempotencyStore the handlers use.
type IdempotencyStore interface {
	GetResult(ctx context.Context, key string) (string, bool, error)
	AcquireLock(ctx context.Context, key string, lockTTL time.Duration) (bool, error)
	SaveResult(ctx context.Context, key string, jsonPayload string) error
	Release(ctx context.Context, key string) error
}

func NewRouter(
	svcs *service.Services,
	idem IdempotencyStore,
	limiter RateLimiter,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger), CORS(), metrics.Middleware)
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/sessions/:id/seats", handleSeatMap(svcs))
	r.GET("/sessions/:id/availability", handleAvailability(svcs))
	r.POST("/sessions/:id/tickets", RateLimit(limiter, logger), handleSellTicket(svcs, idem))

	r.GET("/tickets/:id", handleGetTicket(svcs))
	r.POST("/tickets/:id/cancel", handleCancelTicket(svcs))
	r.POST("/tickets/:id/check-in", handleCheckIn(svcs))

	r.POST("/rentals", handleRequestRental(svcs))
	r.PUT("/rentals/:id/schedule", handleRescheduleRental(svcs))
	r.POST("/rentals/:id/approve", handleApproveRental(svcs))
	r.POST("/rentals/:id/cancel", handleCancelRental(svcs))

	r.POST("/cleanings", handleScheduleCleaning(svcs))
	r.DELETE("/cleanings/:id", handleDeleteCleaning(svcs))

	r.POST("/customers/:id/redemptions", handleRedeemPoints(svcs))

	// TODO: put the admin group behind the auth middleware once token issuance exists.
	admin := r.Group("/admin")
	{
		admin.POST("/sessions", handleCreateSession(svcs))
		admin.PUT("/sessions/:id", handleUpdateSession(svcs))
		admin.POST("/rooms/:id/seats", handleRegenerateSeats(svcs))
		admin.PATCH("/rooms/:id/seats/:row/:number", handleSetPreferential(svcs))
	}

	return r
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
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

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: "invalid_input"})
}

// respondErr maps an error kind to a status. Errors without a kind and
// critical inconsistencies are attached to the context so the logging
// middleware reports them at error level.
func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	kind := domain.Kind(err)

	var status int
	var code string
	switch kind {
	case domain.ErrInvalidInput:
		status, code = http.StatusBadRequest, "invalid_input"
	case domain.ErrNotFound:
		status, code = http.StatusNotFound, "not_found"
	case domain.ErrForbidden:
		status, code = http.StatusConflict, "forbidden"
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "internal"})
		return
	}

	c.JSON(status, ErrorResponse{Error: publicMessage(err, kind), Code: code})
}

// publicMessage drops the op chain in front of the kind, e.g.
// "service.booking.SellFullTicket:forbidden operation: seat unavailable"
// becomes "forbidden operation: seat unavailable".
func publicMessage(err, kind error) string {
	var conflict schedule.ConflictError
	if errors.As(err, &conflict) {
		return conflict.Error()
	}

	msg := err.Error()
	if i := strings.Index(msg, kind.Error()); i >= 0 {
		return msg[i:]
	}
	return kind.Error()
}
