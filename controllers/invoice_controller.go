package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hall-backend/services"
)

type InvoiceController struct {
	Invoices *services.InvoiceService
}

func NewInvoiceController(invoices *services.InvoiceService) *InvoiceController {
	return &InvoiceController{Invoices: invoices}
}

func (ic *InvoiceController) Create(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	var in services.CreateInvoiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	invoice, err := ic.Invoices.Create(p, in, c.ClientIP())
	if err != nil {
		respondError(c, err, "Failed to create invoice")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Invoice created successfully",
		"invoice": invoice,
	})
}

// ListForOwner lists invoices, optionally filtered by ?bookingId=.
func (ic *InvoiceController) ListForOwner(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	invoices, err := ic.Invoices.ListForOwner(p, c.Query("bookingId"))
	if err != nil {
		respondError(c, err, "Failed to fetch invoices")
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "count": len(invoices)})
}

func (ic *InvoiceController) Get(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	invoice, err := ic.Invoices.Get(p, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch invoice")
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

type updateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (ic *InvoiceController) UpdateStatus(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	var req updateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	invoice, err := ic.Invoices.UpdateStatus(p, c.Param("id"), req.Status, c.ClientIP())
	if err != nil {
		respondError(c, err, "Failed to update invoice status")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice status updated successfully",
		"invoice": invoice,
	})
}

func (ic *InvoiceController) RecordPayment(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	var in services.RecordPaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	invoice, payment, err := ic.Invoices.RecordPayment(p, c.Param("id"), in, c.ClientIP())
	if err != nil {
		respondError(c, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment recorded successfully",
		"invoice": invoice,
		"payment": payment,
	})
}

func (ic *InvoiceController) ListPayments(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	payments, err := ic.Invoices.ListPayments(p, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch payments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments, "count": len(payments)})
}

// DownloadPDF streams the rendered invoice PDF.
func (ic *InvoiceController) DownloadPDF(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	pdf, err := ic.Invoices.RenderPDF(p, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to render invoice PDF")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoice-`+c.Param("id")+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
