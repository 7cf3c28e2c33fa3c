package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/cinebook/internal/service"
	"github.com/kirinyoku/cinebook/internal/service/booking"
)

// @Summary  Request a room rental
// @Param    req body  RentalRequest true "payload"
// @Success  201 {object} RentalResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "room taken"
// @Router   /rentals [post]
func handleRequestRental(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RentalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		starts, ends, msg := parseWindow(req.StartsAt, req.EndsAt)
		if msg != "" {
			badRequest(c, msg)
			return
		}
		rental, err := svcs.Booking.RequestRoomRental(c.Request.Context(), booking.RentalRequest{
			RoomID:          req.RoomID,
			CustomerID:      req.CustomerID,
			Starts:          starts,
			Ends:            ends,
			BirthdayPackage: req.BirthdayPackage,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toRentalResponse(rental))
	}
}

// @Summary  Reschedule a room rental
// @Param    id  path  string  true  "Rental ID (uuid)"
// @Param    req body  RescheduleRequest true "payload"
// @Success  200 {object} RentalResponse
// @Router   /rentals/{id}/schedule [put]
func handleRescheduleRental(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req RescheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		starts, ends, msg := parseWindow(req.StartsAt, req.EndsAt)
		if msg != "" {
			badRequest(c, msg)
			return
		}
		rental, err := svcs.Booking.RescheduleRental(c.Request.Context(), id, starts, ends)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toRentalResponse(rental))
	}
}

// @Summary  Approve a room rental
// @Param    id  path  string  true  "Rental ID (uuid)"
// @Param    req body  ApproveRentalRequest false "optional value override"
// @Success  200 {object} RentalResponse
// @Router   /rentals/{id}/approve [post]
func handleApproveRental(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req ApproveRentalRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err.Error())
				return
			}
		}
		rental, err := svcs.Booking.ApproveRental(c.Request.Context(), id, req.ValueCents)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toRentalResponse(rental))
	}
}

// @Summary  Cancel a room rental
// @Param    id  path  string  true  "Rental ID (uuid)"
// @Success  204
// @Router   /rentals/{id}/cancel [post]
func handleCancelRental(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Booking.CancelRental(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Schedule a cleaning assignment
// @Param    req body  CleaningRequest true "payload"
// @Success  201 {object} CleaningResponse
// @Router   /cleanings [post]
func handleScheduleCleaning(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CleaningRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		starts, ends, msg := parseWindow(req.StartsAt, req.EndsAt)
		if msg != "" {
			badRequest(c, msg)
			return
		}
		a, err := svcs.Booking.ScheduleCleaning(c.Request.Context(), req.RoomID, req.EmployeeID, starts, ends)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toCleaningResponse(a))
	}
}

// @Summary  Delete a cleaning assignment
// @Param    id  path  string  true  "Assignment ID (uuid)"
// @Success  204
// @Router   /cleanings/{id} [delete]
func handleDeleteCleaning(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Booking.DeleteCleaning(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Redeem loyalty points for a product
// @Param    id  path  int  true  "Customer ID"
// @Param    req body  RedemptionRequest true "payload"
// @Success  201 {object} RedemptionResponse
// @Router   /customers/{id}/redemptions [post]
func handleRedeemPoints(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req RedemptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		r, err := svcs.Booking.RedeemPointsForProduct(c.Request.Context(), customerID, req.ProductID, req.Quantity)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toRedemptionResponse(r))
	}
}
