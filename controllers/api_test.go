package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hall-backend/config"
	"hall-backend/controllers"
	"hall-backend/models"
	"hall-backend/routes"
	"hall-backend/services"
	"hall-backend/utils"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	owner  models.User
	hall   models.Hall
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)
	services.SetLogger(log)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	owner := models.User{
		UID:      uuid.NewString(),
		Email:    "owner@example.com",
		Password: string(hash),
		Name:     "Owner",
		Role:     models.RoleHallOwner,
	}
	require.NoError(t, db.Create(&owner).Error)

	hall := models.Hall{ID: uuid.NewString(), HallOwnerID: owner.UID, Name: "Main Hall", Capacity: 150}
	require.NoError(t, db.Create(&hall).Error)

	card := models.RateCard{
		HallOwnerID: owner.UID,
		ResourceID:  hall.ID,
		RateType:    models.RateTypeHourly,
		WeekdayRate: 50,
		WeekendRate: 80,
	}
	require.NoError(t, db.Create(&card).Error)

	outbox := services.NewSyncOutbox(log)
	mailer := &utils.Mailer{Log: log}
	tokens := services.NewTokenService("test-session-secret", "test-legacy-secret", time.Hour)
	resolver := services.NewAccessResolver(db)
	audit := services.NewAuditService(db, outbox)
	pricing := services.NewPricingService(db)
	bookings := services.NewBookingService(db, pricing)
	quotations := services.NewQuotationService(db, mailer, audit, outbox)
	invoices := services.NewInvoiceService(db, mailer, audit, outbox)
	halls := services.NewHallService(db)
	users := services.NewUserService(db, tokens)

	router := routes.SetupRouter(routes.Controllers{
		Auth:       controllers.NewAuthController(users),
		Bookings:   controllers.NewBookingController(bookings),
		Quotations: controllers.NewQuotationController(quotations),
		Invoices:   controllers.NewInvoiceController(invoices),
		Halls:      controllers.NewHallController(halls),
		Pricing:    controllers.NewPricingController(pricing),
		Audit:      controllers.NewAuditController(audit),
	}, tokens, resolver, log)

	return &testApp{router: router, db: db, owner: owner, hall: hall}
}

func (a *testApp) request(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var payload map[string]interface{}
	if len(w.Body.Bytes()) > 0 && w.Header().Get("Content-Type") != "application/pdf" {
		_ = json.Unmarshal(w.Body.Bytes(), &payload)
	}
	return w, payload
}

func (a *testApp) login(t *testing.T) string {
	t.Helper()
	w, payload := a.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    a.owner.Email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func futureDate(n int) string {
	return time.Now().AddDate(0, 0, n).Format("2006-01-02")
}

func (a *testApp) bookingBody(start, end string) gin.H {
	return gin.H{
		"customerName":  "Jamie Lee",
		"customerEmail": "jamie@example.com",
		"customerPhone": "+61400000000",
		"eventType":     "Birthday",
		"selectedHall":  a.hall.ID,
		"bookingDate":   futureDate(45),
		"startTime":     start,
		"endTime":       end,
		"hallOwnerId":   a.owner.UID,
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w, payload := app.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", payload["status"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app := newTestApp(t)
	w, payload := app.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": app.owner.Email, "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", payload["message"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)
	w, _ := app.request(t, http.MethodGet, "/api/quotations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = app.request(t, http.MethodGet, "/api/quotations", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// Full lifecycle: public booking, conflict rejection, invoicing and
// payments until PAID.
func TestBookingToPaidInvoiceFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	// Public booking submission gets priced from the rate card.
	w, payload := app.request(t, http.MethodPost, "/api/bookings", "", app.bookingBody("10:00", "13:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := payload["booking"].(map[string]interface{})
	bookingID := booking["id"].(string)
	assert.Equal(t, "pending", booking["status"])
	assert.Equal(t, 150.0, booking["calculatedPrice"])

	// Overlapping slot is rejected with the conflicting window echoed.
	w, payload = app.request(t, http.MethodPost, "/api/bookings", "", app.bookingBody("12:00", "15:00"))
	require.Equal(t, http.StatusConflict, w.Code)
	conflict := payload["conflictingBooking"].(map[string]interface{})
	assert.Equal(t, "10:00", conflict["startTime"])
	assert.Equal(t, "13:00", conflict["endTime"])
	assert.Equal(t, "Jamie Lee", conflict["customerName"])

	// Abutting slot is accepted.
	w, _ = app.request(t, http.MethodPost, "/api/bookings", "", app.bookingBody("13:00", "15:00"))
	assert.Equal(t, http.StatusCreated, w.Code)

	// Past date is a 400.
	past := app.bookingBody("10:00", "12:00")
	past["bookingDate"] = "2020-01-01"
	w, _ = app.request(t, http.MethodPost, "/api/bookings", "", past)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Owner confirms the booking.
	w, _ = app.request(t, http.MethodPut, "/api/bookings/"+bookingID+"/status", token, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Invoice the booking.
	w, payload = app.request(t, http.MethodPost, "/api/invoices", token, gin.H{
		"bookingId":   bookingID,
		"invoiceType": "DEPOSIT",
		"lineItems":   []gin.H{{"description": "Hall hire", "quantity": 1, "unitPrice": 100.0}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	invoice := payload["invoice"].(map[string]interface{})
	invoiceID := invoice["id"].(string)
	assert.Equal(t, 110.0, invoice["total"])

	// Duplicate active DEPOSIT invoice is a conflict.
	w, _ = app.request(t, http.MethodPost, "/api/invoices", token, gin.H{
		"bookingId": bookingID, "invoiceType": "DEPOSIT",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Two payments take it DRAFT -> PARTIAL -> PAID.
	w, payload = app.request(t, http.MethodPut, "/api/invoices/"+invoiceID+"/payment", token, gin.H{"amount": 50.0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PARTIAL", payload["invoice"].(map[string]interface{})["status"])

	w, payload = app.request(t, http.MethodPut, "/api/invoices/"+invoiceID+"/payment", token, gin.H{"amount": 60.0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PAID", payload["invoice"].(map[string]interface{})["status"])

	// PDF download.
	w, _ = app.request(t, http.MethodGet, "/api/invoices/"+invoiceID+"/pdf", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", w.Body.String()[:4])

	// Audit trail recorded the activity.
	w, payload = app.request(t, http.MethodGet, "/api/audit", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Greater(t, payload["count"].(float64), 0.0)
}

func TestQuotationAcceptFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	w, payload := app.request(t, http.MethodPost, "/api/quotations", token, gin.H{
		"customerName":  "Sam Carter",
		"customerEmail": "sam@example.com",
		"customerPhone": "+61400111222",
		"eventType":     "Wedding",
		"resource":      app.hall.ID,
		"eventDate":     futureDate(60),
		"startTime":     "10:00",
		"endTime":       "18:00",
		"totalAmount":   500.0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	quotation := payload["quotation"].(map[string]interface{})
	quotationID := quotation["id"].(string)
	assert.Equal(t, "Draft", quotation["status"])

	w, payload = app.request(t, http.MethodPut, "/api/quotations/"+quotationID+"/status", token, gin.H{"status": "Accepted"})
	require.Equal(t, http.StatusOK, w.Code)
	accepted := payload["quotation"].(map[string]interface{})
	bookingID, _ := accepted["bookingId"].(string)
	require.NotEmpty(t, bookingID)

	// Accepting again keeps the same booking.
	w, payload = app.request(t, http.MethodPut, "/api/quotations/"+quotationID+"/status", token, gin.H{"status": "Accepted"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, bookingID, payload["quotation"].(map[string]interface{})["bookingId"])

	w, payload = app.request(t, http.MethodGet, "/api/bookings/"+bookingID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	booking := payload["booking"].(map[string]interface{})
	assert.Equal(t, "confirmed", booking["status"])
	assert.Equal(t, "quotation", booking["bookingSource"])
}

func TestUnavailableDatesPublic(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.request(t, http.MethodPost, "/api/bookings", "", app.bookingBody("10:00", "13:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	w, payload := app.request(t, http.MethodGet, "/api/bookings/unavailable-dates/"+app.owner.UID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, payload["totalBookings"])

	w, _ = app.request(t, http.MethodGet, "/api/bookings/unavailable-dates/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubUserAccess(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	w, payload := app.request(t, http.MethodPost, "/api/users/sub-users", token, gin.H{
		"email": "helper@example.com", "password": "longenough", "name": "Helper",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, payload = app.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "helper@example.com", "password": "longenough",
	})
	require.Equal(t, http.StatusOK, w.Code)
	subToken := payload["token"].(string)

	// Sub-user can raise quotations for the parent owner.
	w, payload = app.request(t, http.MethodPost, "/api/quotations", subToken, gin.H{
		"customerName":  "Sam Carter",
		"customerEmail": "sam@example.com",
		"customerPhone": "+61400111222",
		"eventType":     "Meeting",
		"resource":      app.hall.ID,
		"eventDate":     futureDate(20),
		"startTime":     "09:00",
		"endTime":       "11:00",
		"totalAmount":   120.0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	quotation := payload["quotation"].(map[string]interface{})
	assert.Equal(t, app.owner.UID, quotation["hallOwnerId"])

	// But cannot change booking statuses.
	w, _ = app.request(t, http.MethodPost, "/api/bookings", "", app.bookingBody("10:00", "12:00"))
	require.Equal(t, http.StatusCreated, w.Code)
	var booking models.Booking
	require.NoError(t, app.db.First(&booking, "booking_source = ?", models.BookingSourceDirect).Error)

	w, _ = app.request(t, http.MethodPut, "/api/bookings/"+booking.ID+"/status", subToken, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
