package httpgin

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/cinebook/internal/domain"
	redisx "github.com/kirinyoku/cinebook/internal/redis"
	"github.com/kirinyoku/cinebook/internal/service"
	"github.com/kirinyoku/cinebook/internal/service/booking"
)

const idemLockTTL = 60 * time.Second

// @Summary  Session seat map
// @Param    id  path  int  true  "Session ID"
// @Success  200  {array}   SeatResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /sessions/{id}/seats [get]
func handleSeatMap(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		seats, err := svcs.Query.SeatMap(c.Request.Context(), sessionID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, toSeatResponses(seats), 15)
	}
}

// @Summary  Session availability counters
// @Param    id  path  int  true  "Session ID"
// @Success  200  {object}  AvailabilityResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /sessions/{id}/availability [get]
func handleAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		cnt, err := svcs.Query.Availability(c.Request.Context(), sessionID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, AvailabilityResponse{
			Available: cnt.Available,
			Taken:     cnt.Taken,
			Total:     cnt.Total,
		}, 15)
	}
}

// @Summary  Sell a full or half ticket (idempotent)
// @Param    id  path  int  true  "Session ID"
// @Param    req body  SellTicketRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} TicketResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "seat unavailable / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /sessions/{id}/tickets [post]
func handleSellTicket(svcs *service.Services, idem IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req SellTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		ctx := c.Request.Context()

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var storageKey string
		if idem != nil && idemKey != "" {
			storageKey = redisx.KeyIdempotency("tickets", sessionID, idemKey)

			if replayed := replayResult(c, idem, storageKey, idemKey); replayed {
				return
			}

			locked, err := idem.AcquireLock(ctx, storageKey, idemLockTTL)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if replayed := replayResult(c, idem, storageKey, idemKey); replayed {
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress", Code: "in_progress"})
				return
			}
		}

		sale := booking.SaleRequest{
			SessionID:          sessionID,
			CustomerID:         req.CustomerID,
			Row:                req.Row,
			Number:             req.Number,
			PaymentMethod:      domain.PaymentMethod(req.PaymentMethod),
			PaidCents:          req.PaidCents,
			Coupon:             req.Coupon,
			AdvanceReservation: req.AdvanceReservation,
			PointsToRedeem:     req.PointsToRedeem,
		}

		var (
			ticket *domain.Ticket
			err    error
		)
		if req.Half {
			ticket, err = svcs.Booking.SellHalfTicket(ctx, sale, req.HalfReason)
		} else {
			ticket, err = svcs.Booking.SellFullTicket(ctx, sale)
		}
		if err != nil {
			if storageKey != "" {
				_ = idem.Release(ctx, storageKey)
			}
			respondErr(c, err)
			return
		}

		resp := toTicketResponse(ticket)

		if storageKey != "" {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(ctx, storageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

func replayResult(c *gin.Context, idem IdempotencyStore, storageKey, idemKey string) bool {
	payload, ok, _ := idem.GetResult(c.Request.Context(), storageKey)
	if !ok {
		return false
	}
	c.Header("Idempotency-Key", idemKey)
	c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
	return true
}

// @Summary  Get ticket
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  200 {object} TicketResponse
// @Failure  404 {object} ErrorResponse
// @Router   /tickets/{id} [get]
func handleGetTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Query.GetTicket(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toTicketResponse(t))
	}
}

// @Summary  Cancel ticket
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  204
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "cancellation window closed"
// @Router   /tickets/{id}/cancel [post]
func handleCancelTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Booking.CancelTicket(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Check in ticket
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  204
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /tickets/{id}/check-in [post]
func handleCheckIn(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Booking.CheckIn(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
