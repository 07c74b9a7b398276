package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hall-backend/services"
)

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{Bookings: bookings}
}

// Create handles the public booking form submission.
func (bc *BookingController) Create(c *gin.Context) {
	var in services.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	booking, err := bc.Bookings.Create(in)
	if err != nil {
		respondError(c, err, "Failed to create booking")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully",
		"booking": booking,
	})
}

// ListForOwner returns every booking of the hall owner in the path.
func (bc *BookingController) ListForOwner(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	bookings, err := bc.Bookings.ListForOwner(p, c.Param("hallOwnerId"))
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

func (bc *BookingController) Get(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	booking, err := bc.Bookings.GetByID(p, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type updateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (bc *BookingController) UpdateStatus(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	booking, err := bc.Bookings.UpdateStatus(p, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update booking status")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status updated successfully",
		"booking": booking,
	})
}

func (bc *BookingController) UpdatePrice(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	var in services.UpdatePriceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	booking, err := bc.Bookings.UpdatePrice(p, c.Param("id"), in)
	if err != nil {
		respondError(c, err, "Failed to update booking price")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Booking price updated successfully",
		"booking": booking,
	})
}

// UnavailableSlots serves the public availability calendar.
func (bc *BookingController) UnavailableSlots(c *gin.Context) {
	slots, total, err := bc.Bookings.UnavailableSlots(
		c.Param("hallOwnerId"),
		c.Query("resourceId"),
		c.Query("startDate"),
		c.Query("endDate"),
	)
	if err != nil {
		respondError(c, err, "Failed to fetch unavailable slots")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"unavailableSlots": slots,
		"totalBookings":    total,
	})
}
