package utils

import (
	"fmt"
	"lms/config"
	"log"
	"net/smtp"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends an HTML email. Flows whose failures must surface to the caller
// (enrollment confirmation, payment-received) call Send synchronously; the
// rest fire-and-forget.
type Mailer interface {
	Send(to []string, subject string, htmlBody string) error
}

// NewMailer picks the configured transport: SendGrid when an API key is set,
// SMTP otherwise.
func NewMailer() Mailer {
	if config.AppConfig.SendGridAPIKey != "" {
		return &SendGridMailer{APIKey: config.AppConfig.SendGridAPIKey}
	}
	return &SMTPMailer{}
}

// SMTPMailer sends through Gmail SMTP using the configured sender
type SMTPMailer struct{}

func (m *SMTPMailer) Send(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: EduStream <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("Error sending email: %v", err)
		return err
	}
	return nil
}

// SendGridMailer sends through the SendGrid API
type SendGridMailer struct {
	APIKey string
}

func (m *SendGridMailer) Send(to []string, subject string, htmlBody string) error {
	from := mail.NewEmail("EduStream", config.AppConfig.EmailSender)

	for _, recipient := range to {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail("", recipient), "", htmlBody)
		client := sendgrid.NewSendClient(m.APIKey)
		resp, err := client.Send(message)
		if err != nil {
			log.Printf("Error sending email via SendGrid: %v", err)
			return err
		}
		if resp.StatusCode >= 400 {
			log.Printf("SendGrid rejected email: %d %s", resp.StatusCode, resp.Body)
			return fmt.Errorf("sendgrid rejected email: %d", resp.StatusCode)
		}
	}
	return nil
}

// HTML Wrapper (Professional Look)
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.content h2 { color: #00004D; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #d7b56d; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #d7b56d; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>EDUSTREAM</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 EduStream. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Templates ---

// CourseEnrollmentEmail builds the enrollment-confirmation email
func CourseEnrollmentEmail(courseName, name string) (subject, body string) {
	subject = "Successfully Enrolled into " + courseName
	content := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have been successfully enrolled into <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Head to your dashboard to start learning.
		</div>
		<a href="#" class="btn">Go to Course</a>
	`, name, courseName)
	return subject, getEmailTemplate("Enrollment Confirmed", content)
}

// PaymentSuccessEmail builds the payment-received email. Amount is in major
// units (callers divide minor-unit amounts by 100 before passing it in).
func PaymentSuccessEmail(name string, amount float64, orderID, paymentID string) (subject, body string) {
	subject = "Payment Received"
	content := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your payment of <strong>PKR %.2f</strong>.</p>
		<div class="info-box">
			<ul style="list-style: none; padding: 0; margin: 0;">
				<li style="margin-bottom: 8px;"><strong>Order ID:</strong> %s</li>
				<li><strong>Payment ID:</strong> %s</li>
			</ul>
		</div>
		<p>Your course access will be activated shortly.</p>
	`, name, amount, orderID, paymentID)
	return subject, getEmailTemplate("Payment Received", content)
}

// --- Triggers ---

// SendWelcomeEmail is best-effort; signup does not wait on it
func SendWelcomeEmail(mailer Mailer, email, name string) {
	subject := "Welcome to EduStream"
	content := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>EduStream</strong>! We are thrilled to have you onboard.</p>
		<p>Your account has been successfully created. You can now browse our courses and start learning.</p>
		<p>If you have any questions, feel free to reach out to our support team.</p>
	`, name)

	go func() {
		if err := mailer.Send([]string{email}, subject, getEmailTemplate("Welcome Onboard!", content)); err != nil {
			log.Printf("Error sending welcome email to %s: %v", email, err)
		}
	}()
}
