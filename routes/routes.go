package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hall-backend/controllers"
	"hall-backend/middleware"
	"hall-backend/services"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Controllers bundles everything SetupRouter wires.
type Controllers struct {
	Auth       *controllers.AuthController
	Bookings   *controllers.BookingController
	Quotations *controllers.QuotationController
	Invoices   *controllers.InvoiceController
	Halls      *controllers.HallController
	Pricing    *controllers.PricingController
	Audit      *controllers.AuditController
}

func SetupRouter(
	ctl Controllers,
	tokens *services.TokenService,
	resolver *services.AccessResolver,
	log *logrus.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	api := r.Group("/api")

	// Public surface: booking form, availability calendar, hall list,
	// login.
	api.POST("/auth/login", ctl.Auth.Login)
	api.POST("/bookings", ctl.Bookings.Create)
	api.GET("/bookings/unavailable-dates/:hallOwnerId", ctl.Bookings.UnavailableSlots)
	api.GET("/halls/hall-owner/:hallOwnerId", ctl.Halls.ListPublic)

	auth := api.Group("")
	auth.Use(middleware.RequireAuth(tokens, resolver))
	{
		auth.GET("/users/me", ctl.Auth.Me)
		auth.POST("/users/sub-users", ctl.Auth.CreateSubUser)
		auth.GET("/users/sub-users", ctl.Auth.ListSubUsers)

		auth.GET("/bookings/hall-owner/:hallOwnerId", ctl.Bookings.ListForOwner)
		auth.GET("/bookings/:id", ctl.Bookings.Get)
		auth.PUT("/bookings/:id/status", ctl.Bookings.UpdateStatus)
		auth.PUT("/bookings/:id/price", ctl.Bookings.UpdatePrice)

		auth.POST("/quotations", ctl.Quotations.Create)
		auth.GET("/quotations", ctl.Quotations.List)
		auth.GET("/quotations/:id", ctl.Quotations.Get)
		auth.PUT("/quotations/:id", ctl.Quotations.Update)
		auth.PUT("/quotations/:id/status", ctl.Quotations.UpdateStatus)
		auth.DELETE("/quotations/:id", ctl.Quotations.Delete)
		auth.GET("/quotations/:id/pdf", ctl.Quotations.DownloadPDF)

		auth.POST("/invoices", ctl.Invoices.Create)
		auth.GET("/invoices", ctl.Invoices.ListForOwner)
		auth.GET("/invoices/:id", ctl.Invoices.Get)
		auth.PUT("/invoices/:id/status", ctl.Invoices.UpdateStatus)
		auth.PUT("/invoices/:id/payment", ctl.Invoices.RecordPayment)
		auth.GET("/invoices/:id/payments", ctl.Invoices.ListPayments)
		auth.GET("/invoices/:id/pdf", ctl.Invoices.DownloadPDF)

		auth.POST("/halls", ctl.Halls.Create)
		auth.GET("/halls", ctl.Halls.List)
		auth.PUT("/halls/:id", ctl.Halls.Update)
		auth.DELETE("/halls/:id", ctl.Halls.Delete)

		auth.PUT("/pricing/rate-cards/:resourceId", ctl.Pricing.SetRateCard)
		auth.GET("/pricing/rate-cards", ctl.Pricing.ListRateCards)

		auth.GET("/audit", ctl.Audit.List)
	}

	return r
}
