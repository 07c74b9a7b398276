package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hall-backend/services"
	"hall-backend/utils"
)

// principalFrom pulls the authenticated principal placed in the context
// by the auth middleware.
func principalFrom(c *gin.Context) (services.Principal, bool) {
	v, ok := c.Get("principal")
	if !ok {
		utils.JSONMessage(c, http.StatusUnauthorized, "Unauthorized")
		return services.Principal{}, false
	}
	p, ok := v.(services.Principal)
	if !ok {
		utils.JSONMessage(c, http.StatusUnauthorized, "Unauthorized")
		return services.Principal{}, false
	}
	return p, true
}

func badRequest(c *gin.Context, message string) {
	utils.JSONMessage(c, http.StatusBadRequest, message)
}

// respondError maps service errors onto the API's status codes and the
// {"message": ...} payload shape.
func respondError(c *gin.Context, err error, internalMessage string) {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		utils.JSONMessage(c, http.StatusBadRequest, validation.Message)
		return
	}

	var conflict *services.SlotConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"message": "This time slot conflicts with an existing booking",
			"conflictingBooking": gin.H{
				"startTime":    conflict.StartTime,
				"endTime":      conflict.EndTime,
				"customerName": conflict.CustomerName,
			},
		})
		return
	}

	var duplicate *services.DuplicateInvoiceError
	if errors.As(err, &duplicate) {
		utils.JSONMessage(c, http.StatusConflict,
			"An active "+duplicate.InvoiceType+" invoice already exists for this booking")
		return
	}

	switch {
	case errors.Is(err, services.ErrUserNotFound):
		utils.JSONMessage(c, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrHallOwnerNotFound):
		utils.JSONMessage(c, http.StatusNotFound, "Hall owner not found")
	case errors.Is(err, services.ErrHallNotFound):
		utils.JSONMessage(c, http.StatusNotFound, "Hall not found")
	case errors.Is(err, services.ErrBookingNotFound):
		utils.JSONMessage(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, services.ErrQuotationNotFound):
		utils.JSONMessage(c, http.StatusNotFound, "Quotation not found")
	case errors.Is(err, services.ErrInvoiceNotFound):
		utils.JSONMessage(c, http.StatusNotFound, "Invoice not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONMessage(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrAccessDenied):
		utils.JSONMessage(c, http.StatusForbidden, "Access denied")
	default:
		utils.JSONInternal(c, internalMessage, err)
	}
}
