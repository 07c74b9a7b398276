package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hall-backend/models"
	"hall-backend/utils"
)

func newInvoiceService(db *gorm.DB) *InvoiceService {
	log := testLogger()
	outbox := NewSyncOutbox(log)
	mailer := &utils.Mailer{Log: log}
	return NewInvoiceService(db, mailer, NewAuditService(db, outbox), outbox)
}

func seedBooking(t *testing.T, db *gorm.DB, owner models.User, hall models.Hall) models.Booking {
	t.Helper()
	svc := newBookingService(db)
	booking, err := svc.Create(validBookingInput(owner, hall))
	require.NoError(t, err)
	return booking
}

func TestCreateInvoiceTotals(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	owner, hall := seedOwner(t, db)
	booking := seedBooking(t, db, owner, hall)
	p := ownerPrincipal(owner)

	invoice, err := svc.Create(p, CreateInvoiceInput{
		BookingID:   booking.ID,
		InvoiceType: models.InvoiceTypeDeposit,
		LineItems: []models.LineItem{
			{Description: "Hall hire", Quantity: 1, UnitPrice: 100},
		},
	}, "")
	require.NoError(t, err)

	assert.Regexp(t, `^INV-\d{6}-\d{4}$`, invoice.InvoiceNumber)
	assert.Equal(t, models.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, 100.0, invoice.Subtotal)
	assert.Equal(t, 10.0, invoice.GST)
	assert.Equal(t, 110.0, invoice.Total)
	assert.Zero(t, invoice.PaidAmount)
	assert.Equal(t, booking.CustomerName, invoice.CustomerName)
	assert.Equal(t, hall.Name, invoice.Resource)
}

func TestCreateInvoiceDefaultsToBookingPrice(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	owner, hall := seedOwner(t, db)
	booking := seedBooking(t, db, owner, hall)

	price := 200.0
	require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("calculated_price", price).Error)

	invoice, err := svc.Create(ownerPrincipal(owner), CreateInvoiceInput{
		BookingID:   booking.ID,
		InvoiceType: models.InvoiceTypeFinal,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 200.0, invoice.Subtotal)
	assert.Equal(t, 220.0, invoice.Total)
}

func TestCreateInvoiceRejectsDuplicateActiveType(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	owner, hall := seedOwner(t, db)
	booking := seedBooking(t, db, owner, hall)
	p := ownerPrincipal(owner)

	in := CreateInvoiceInput{BookingID: booking.ID, InvoiceType: models.InvoiceTypeDeposit}
	first, err := svc.Create(p, in, "")
	require.NoError(t, err)

	_, err = svc.Create(p, in, "")
	var dup *DuplicateInvoiceError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, models.InvoiceTypeDeposit, dup.InvoiceType)

	// Different type is fine.
	_, err = svc.Create(p, CreateInvoiceInput{BookingID: booking.ID, InvoiceType: models.InvoiceTypeBond}, "")
	assert.NoError(t, err)

	// Voiding the first frees the type.
	_, err = svc.UpdateStatus(p, first.ID, models.InvoiceStatusVoid, "")
	require.NoError(t, err)
	_, err = svc.Create(p, in, "")
	assert.NoError(t, err)
}

func TestCreateInvoiceValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	owner, hall := seedOwner(t, db)
	booking := seedBooking(t, db, owner, hall)
	p := ownerPrincipal(owner)

	var verr *ValidationError
	_, err := svc.Create(p, CreateInvoiceInput{InvoiceType: models.InvoiceTypeFinal}, "")
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Create(p, CreateInvoiceInput{BookingID: booking.ID, InvoiceType: "PRO-FORMA"}, "")
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Create(p, CreateInvoiceInput{BookingID: "nope", InvoiceType: models.InvoiceTypeFinal}, "")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.Create(p, CreateInvoiceInput{
		BookingID:   booking.ID,
		InvoiceType: models.InvoiceTypeFinal,
		LineItems:   []models.LineItem{{Description: "x", Quantity: 0, UnitPrice: 10}},
	}, "")
	assert.ErrorAs(t, err, &verr)
}

func TestInvoiceStatusFirstSendStampsSentAt(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	owner, hall := seedOwner(t, db)
	booking := seedBooking(t, db, owner, hall)
	p := ownerPrincipal(owner)

	invoice, err := svc.Create(p, CreateInvoiceInput{BookingID: booking.ID, InvoiceType: models.InvoiceTypeDeposit}, "")
	require.NoError(t, err)
	require.Nil(t, invoice.SentAt)

	sent, err := svc.UpdateStatus(p, invoice.ID, models.InvoiceStatusSent, "")
	require.NoError(t, err)
	require.NotNil(t, sent.SentAt)
	firstSentAt := *sent.SentAt

	// A later re-send keeps the original timestamp.
	_, err = svc.UpdateStatus(p, invoice.ID, models.InvoiceStatusDraft, "")
	require.NoError(t, err)
	again, err := svc.UpdateStatus(p, invoice.ID, models.InvoiceStatusSent, "")
	require.NoError(t, err)
	require.NotNil(t, again.SentAt)
	assert.Equal(t, firstSentAt.Unix(), again.SentAt.Unix())
}

func TestRecordPaymentAccumulates(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	owner, hall := seedOwner(t, db)
	booking := seedBooking(t, db, owner, hall)
	p := ownerPrincipal(owner)

	invoice, err := svc.Create(p, CreateInvoiceInput{
		BookingID:   booking.ID,
		InvoiceType: models.InvoiceTypeDeposit,
		LineItems:   []models.LineItem{{Description: "Hire", Quantity: 1, UnitPrice: 100}},
	}, "")
	require.NoError(t, err)
	require.Equal(t, 110.0, invoice.Total)

	amount := 50.0
	partial, payment, err := svc.RecordPayment(p, invoice.ID, RecordPaymentInput{Amount: &amount}, "")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPartial, partial.Status)
	assert.Equal(t, 50.0, partial.PaidAmount)
	assert.Equal(t, "Bank Transfer", payment.PaymentMethod)
	assert.Equal(t, p.UID, payment.ProcessedBy)

	amount = 60.0
	paid, _, err := svc.RecordPayment(p, invoice.ID, RecordPaymentInput{Amount: &amount, PaymentMethod: "Cash"}, "")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, paid.Status)
	assert.Equal(t, 110.0, paid.PaidAmount)

	payments, err := svc.ListPayments(p, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestRecordPaymentOverpaymentKept(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	owner, hall := seedOwner(t, db)
	booking := seedBooking(t, db, owner, hall)
	p := ownerPrincipal(owner)

	invoice, err := svc.Create(p, CreateInvoiceInput{
		BookingID:   booking.ID,
		InvoiceType: models.InvoiceTypeDeposit,
		LineItems:   []models.LineItem{{Description: "Hire", Quantity: 1, UnitPrice: 100}},
	}, "")
	require.NoError(t, err)

	amount := 150.0
	paid, _, err := svc.RecordPayment(p, invoice.ID, RecordPaymentInput{Amount: &amount}, "")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, paid.Status)
	assert.Equal(t, 150.0, paid.PaidAmount)
}

func TestRecordPaymentValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	owner, hall := seedOwner(t, db)
	booking := seedBooking(t, db, owner, hall)
	p := ownerPrincipal(owner)

	invoice, err := svc.Create(p, CreateInvoiceInput{BookingID: booking.ID, InvoiceType: models.InvoiceTypeDeposit}, "")
	require.NoError(t, err)

	var verr *ValidationError
	zero := 0.0
	_, _, err = svc.RecordPayment(p, invoice.ID, RecordPaymentInput{Amount: &zero}, "")
	assert.ErrorAs(t, err, &verr)

	_, _, err = svc.RecordPayment(p, invoice.ID, RecordPaymentInput{}, "")
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateStatus(p, invoice.ID, models.InvoiceStatusVoid, "")
	require.NoError(t, err)
	amount := 10.0
	_, _, err = svc.RecordPayment(p, invoice.ID, RecordPaymentInput{Amount: &amount}, "")
	assert.ErrorAs(t, err, &verr)
}

func TestInvoiceAccessScoping(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	owner, hall := seedOwner(t, db)
	other, _ := seedOwner(t, db)
	booking := seedBooking(t, db, owner, hall)

	invoice, err := svc.Create(ownerPrincipal(owner), CreateInvoiceInput{
		BookingID: booking.ID, InvoiceType: models.InvoiceTypeDeposit,
	}, "")
	require.NoError(t, err)

	_, err = svc.Get(ownerPrincipal(other), invoice.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Create(ownerPrincipal(other), CreateInvoiceInput{
		BookingID: booking.ID, InvoiceType: models.InvoiceTypeFinal,
	}, "")
	assert.ErrorIs(t, err, ErrAccessDenied)

	mine, err := svc.ListForOwner(ownerPrincipal(owner), booking.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestInvoicePDFRenders(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	owner, hall := seedOwner(t, db)
	booking := seedBooking(t, db, owner, hall)
	p := ownerPrincipal(owner)

	invoice, err := svc.Create(p, CreateInvoiceInput{
		BookingID:   booking.ID,
		InvoiceType: models.InvoiceTypeFinal,
		LineItems:   []models.LineItem{{Description: "Hall hire", Quantity: 2, UnitPrice: 75}},
	}, "")
	require.NoError(t, err)

	pdf, err := svc.RenderPDF(p, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
