package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hall-backend/models"
	"hall-backend/services"
)

type PricingController struct {
	Pricing *services.PricingService
}

func NewPricingController(pricing *services.PricingService) *PricingController {
	return &PricingController{Pricing: pricing}
}

// SetRateCard upserts the rate card for one resource.
func (pc *PricingController) SetRateCard(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	var card models.RateCard
	if err := c.ShouldBindJSON(&card); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	card.ResourceID = c.Param("resourceId")
	saved, err := pc.Pricing.SetRateCard(p, card)
	if err != nil {
		respondError(c, err, "Failed to save rate card")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rate card saved successfully", "rateCard": saved})
}

func (pc *PricingController) ListRateCards(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	cards, err := pc.Pricing.ListRateCards(p)
	if err != nil {
		respondError(c, err, "Failed to fetch rate cards")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rateCards": cards, "count": len(cards)})
}
