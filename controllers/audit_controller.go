package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hall-backend/services"
)

type AuditController struct {
	Audit *services.AuditService
}

func NewAuditController(audit *services.AuditService) *AuditController {
	return &AuditController{Audit: audit}
}

// List returns the audit trail for the caller's effective hall owner.
func (ac *AuditController) List(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	logs, err := ac.Audit.ListForOwner(p, c.Query("hallOwnerId"))
	if err != nil {
		respondError(c, err, "Failed to fetch audit logs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"auditLogs": logs, "count": len(logs)})
}
