package utils

import (
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"hall-backend/models"
)

// Mailer sends customer-facing emails over SMTP. When SMTP is not
// configured (dev, tests) sends fall back to a mock log line and
// succeed, matching the rest of the best-effort side-effect handling.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
	Log      *logrus.Logger
}

func NewMailer(log *logrus.Logger) *Mailer {
	return &Mailer{
		Host:     EnvOrDefault("SMTP_HOST", ""),
		Port:     EnvOrDefault("SMTP_PORT", ""),
		Username: EnvOrDefault("SMTP_USERNAME", ""),
		Password: EnvOrDefault("SMTP_PASSWORD", ""),
		FromName: EnvOrDefault("SMTP_FROM_NAME", "Hall Bookings"),
		Log:      log,
	}
}

func (m *Mailer) configured() bool {
	return m.Host != "" && m.Port != "" && m.Username != "" && m.Password != ""
}

type attachment struct {
	filename string
	mime     string
	data     []byte
}

// send builds a multipart MIME message (HTML body plus optional
// attachments) and submits it over SMTP.
func (m *Mailer) send(to, subject, htmlBody string, attachments ...attachment) error {
	if !m.configured() {
		m.Log.WithFields(logrus.Fields{
			"to":          to,
			"subject":     subject,
			"attachments": len(attachments),
		}).Info("[MOCK EMAIL] SMTP not configured; logging instead of sending")
		return nil
	}

	boundary := "hall-backend-mime-boundary"
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s <%s>\r\n", m.FromName, m.Username)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&sb, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&sb, "--%s\r\n", boundary)
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(htmlBody)
	sb.WriteString("\r\n")

	for _, a := range attachments {
		fmt.Fprintf(&sb, "--%s\r\n", boundary)
		fmt.Fprintf(&sb, "Content-Type: %s\r\n", a.mime)
		sb.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&sb, "Content-Disposition: attachment; filename=%q\r\n\r\n", a.filename)

		encoded := base64.StdEncoding.EncodeToString(a.data)
		for len(encoded) > 76 {
			sb.WriteString(encoded[:76])
			sb.WriteString("\r\n")
			encoded = encoded[76:]
		}
		sb.WriteString(encoded)
		sb.WriteString("\r\n")
	}
	fmt.Fprintf(&sb, "--%s--\r\n", boundary)

	addr := m.Host + ":" + m.Port
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	if err := smtp.SendMail(addr, auth, m.Username, []string{to}, []byte(sb.String())); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}

// SendQuotationEmail delivers a sent quotation with its PDF attached.
func (m *Mailer) SendQuotationEmail(q models.Quotation, pdf []byte) error {
	subject := fmt.Sprintf("Quotation %s for your %s", q.ID, q.EventType)
	body := fmt.Sprintf(`
		<h2>Quotation %s</h2>
		<p>Dear %s,</p>
		<p>Please find attached our quotation for your %s on %s, %s&ndash;%s.</p>
		<table>
			<tr><td><b>Total:</b></td><td>$%.2f AUD</td></tr>
			<tr><td><b>Valid until:</b></td><td>%s</td></tr>
		</table>
		<p>Reply to this email to accept or discuss the quotation.</p>`,
		q.ID, q.CustomerName, q.EventType, q.EventDate, q.StartTime, q.EndTime,
		q.TotalAmount, q.ValidUntil.Format("2 January 2006"))
	return m.send(q.CustomerEmail, subject, body,
		attachment{filename: fmt.Sprintf("quotation-%s.pdf", q.ID), mime: "application/pdf", data: pdf})
}

// SendQuotationDeclineEmail notifies the customer a quotation was
// declined.
func (m *Mailer) SendQuotationDeclineEmail(q models.Quotation) error {
	subject := fmt.Sprintf("Update on quotation %s", q.ID)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Unfortunately we are unable to proceed with quotation %s for your %s
		on %s. Please get in touch if you would like to discuss alternatives.</p>`,
		q.CustomerName, q.ID, q.EventType, q.EventDate)
	return m.send(q.CustomerEmail, subject, body)
}

// SendBookingConfirmationEmail confirms the booking materialised from
// an accepted quotation.
func (m *Mailer) SendBookingConfirmationEmail(q models.Quotation, bookingID string) error {
	subject := "Your booking is confirmed"
	body := fmt.Sprintf(`
		<h2>Booking confirmed</h2>
		<p>Dear %s,</p>
		<p>Your %s on %s, %s&ndash;%s is confirmed.</p>
		<table>
			<tr><td><b>Booking ID:</b></td><td>%s</td></tr>
			<tr><td><b>Quotation:</b></td><td>%s</td></tr>
			<tr><td><b>Total:</b></td><td>$%.2f AUD</td></tr>
		</table>`,
		q.CustomerName, q.EventType, q.EventDate, q.StartTime, q.EndTime,
		bookingID, q.ID, q.TotalAmount)
	return m.send(q.CustomerEmail, subject, body)
}

// SendInvoiceEmail delivers an invoice PDF to the customer.
func (m *Mailer) SendInvoiceEmail(inv models.Invoice, pdf []byte) error {
	subject := fmt.Sprintf("Invoice %s", inv.InvoiceNumber)
	body := fmt.Sprintf(`
		<h2>Invoice %s</h2>
		<p>Dear %s,</p>
		<p>Please find attached invoice %s (%s) for %s.</p>
		<table>
			<tr><td><b>Subtotal:</b></td><td>$%.2f</td></tr>
			<tr><td><b>GST:</b></td><td>$%.2f</td></tr>
			<tr><td><b>Total:</b></td><td>$%.2f AUD</td></tr>
			<tr><td><b>Due:</b></td><td>%s</td></tr>
		</table>`,
		inv.InvoiceNumber, inv.CustomerName, inv.InvoiceNumber, inv.InvoiceType,
		inv.Resource, inv.Subtotal, inv.GST, inv.Total, inv.DueDate.Format("2 January 2006"))
	return m.send(inv.CustomerEmail, subject, body,
		attachment{filename: fmt.Sprintf("invoice-%s.pdf", inv.InvoiceNumber), mime: "application/pdf", data: pdf})
}
