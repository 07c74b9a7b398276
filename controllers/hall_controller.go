package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hall-backend/services"
)

type HallController struct {
	Halls *services.HallService
}

func NewHallController(halls *services.HallService) *HallController {
	return &HallController{Halls: halls}
}

func (hc *HallController) Create(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	var in services.HallInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	hall, err := hc.Halls.Create(p, in)
	if err != nil {
		respondError(c, err, "Failed to create hall")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Hall created successfully", "hall": hall})
}

// ListPublic serves the public hall list used by the booking form.
func (hc *HallController) ListPublic(c *gin.Context) {
	halls, err := hc.Halls.ListPublic(c.Param("hallOwnerId"))
	if err != nil {
		respondError(c, err, "Failed to fetch halls")
		return
	}
	c.JSON(http.StatusOK, gin.H{"halls": halls, "count": len(halls)})
}

func (hc *HallController) List(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	halls, err := hc.Halls.ListForOwner(p)
	if err != nil {
		respondError(c, err, "Failed to fetch halls")
		return
	}
	c.JSON(http.StatusOK, gin.H{"halls": halls, "count": len(halls)})
}

func (hc *HallController) Update(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	var in services.HallInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	hall, err := hc.Halls.Update(p, c.Param("id"), in)
	if err != nil {
		respondError(c, err, "Failed to update hall")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Hall updated successfully", "hall": hall})
}

func (hc *HallController) Delete(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	if err := hc.Halls.Delete(p, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete hall")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Hall deleted successfully"})
}
