package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hall-backend/services"
)

type QuotationController struct {
	Quotations *services.QuotationService
}

func NewQuotationController(quotations *services.QuotationService) *QuotationController {
	return &QuotationController{Quotations: quotations}
}

func (qc *QuotationController) Create(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	var in services.CreateQuotationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	quotation, err := qc.Quotations.Create(p, in, c.ClientIP())
	if err != nil {
		respondError(c, err, "Failed to create quotation")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Quotation created successfully",
		"quotation": quotation,
	})
}

func (qc *QuotationController) List(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	quotations, err := qc.Quotations.ListForOwner(p)
	if err != nil {
		respondError(c, err, "Failed to fetch quotations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotations": quotations, "count": len(quotations)})
}

func (qc *QuotationController) Get(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	quotation, err := qc.Quotations.Get(p, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch quotation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotation": quotation})
}

type updateQuotationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (qc *QuotationController) UpdateStatus(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	var req updateQuotationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	quotation, err := qc.Quotations.UpdateStatus(p, c.Param("id"), req.Status, c.ClientIP())
	if err != nil {
		respondError(c, err, "Failed to update quotation status")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Quotation status updated successfully",
		"quotation": quotation,
	})
}

func (qc *QuotationController) Update(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	var in services.UpdateQuotationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	quotation, err := qc.Quotations.Update(p, c.Param("id"), in)
	if err != nil {
		respondError(c, err, "Failed to update quotation")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Quotation updated successfully",
		"quotation": quotation,
	})
}

func (qc *QuotationController) Delete(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	if err := qc.Quotations.Delete(p, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete quotation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quotation deleted successfully"})
}

// DownloadPDF streams the rendered quotation PDF.
func (qc *QuotationController) DownloadPDF(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	pdf, err := qc.Quotations.RenderPDF(p, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to render quotation PDF")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="quotation-`+c.Param("id")+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
