package httpgin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/service"
	"github.com/kirinyoku/cinebook/internal/service/admin"
)

func bindSession(c *gin.Context) (admin.SessionRequest, bool) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return admin.SessionRequest{}, false
	}
	starts, err := parseRFC3339(req.StartsAt)
	if err != nil {
		badRequest(c, "invalid starts_at (RFC3339)")
		return admin.SessionRequest{}, false
	}
	return admin.SessionRequest{
		RoomID:         req.RoomID,
		FilmID:         req.FilmID,
		Starts:         starts,
		BasePriceCents: req.BasePriceCents,
		Type:           domain.SessionType(req.Type),
		EventName:      req.EventName,
		PartnerName:    req.PartnerName,
		Language:       req.Language,
	}, true
}

// @Summary  Create session and init its seats
// @Param    req body  SessionRequest true "payload"
// @Success  201 {object} SessionResponse
// @Failure  409 {object} ErrorResponse "room taken / staffing"
// @Router   /admin/sessions [post]
func handleCreateSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindSession(c)
		if !ok {
			return
		}
		s, err := svcs.Admin.CreateSession(c.Request.Context(), req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toSessionResponse(s))
	}
}

// @Summary  Update session
// @Param    id  path  int  true  "Session ID"
// @Param    req body  SessionRequest true "payload"
// @Success  200 {object} SessionResponse
// @Router   /admin/sessions/{id} [put]
func handleUpdateSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		req, ok := bindSession(c)
		if !ok {
			return
		}
		s, err := svcs.Admin.UpdateSession(c.Request.Context(), id, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toSessionResponse(s))
	}
}

// @Summary  Regenerate room seats
// @Param    id  path  int  true  "Room ID"
// @Param    req body  RegenerateSeatsRequest true "payload"
// @Success  201 {array} SeatResponse
// @Router   /admin/rooms/{id}/seats [post]
func handleRegenerateSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req RegenerateSeatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		seats, err := svcs.Admin.RegenerateSeats(
			c.Request.Context(),
			roomID,
			req.Capacity,
			req.CoupleSeats,
			req.AccessibleSeats,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toSeatResponses(seats))
	}
}

// @Summary  Flag a seat as preferential
// @Param    id      path  int     true  "Room ID"
// @Param    row     path  string  true  "Row letter"
// @Param    number  path  int     true  "Seat number"
// @Param    req body  PreferentialRequest true "payload"
// @Success  200 {object} SeatResponse
// @Router   /admin/rooms/{id}/seats/{row}/{number} [patch]
func handleSetPreferential(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		number, err := strconv.Atoi(c.Param("number"))
		if err != nil {
			badRequest(c, "invalid number")
			return
		}
		var req PreferentialRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		seat, err := svcs.Admin.SetPreferential(c.Request.Context(), roomID, c.Param("row"), number, req.Preferential)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toSeatResponse(*seat))
	}
}
