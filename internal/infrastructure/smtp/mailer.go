package smtp

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/go-shop-api/internal/config"
)

// Mailer sends transactional emails. The html body is the primary part;
// text is an optional plain-text alternative.
type Mailer interface {
	SendEmail(to, subject, html, text string) error
	SendVerificationEmail(to, name, token string) error
	SendWelcomeEmail(to, name string) error
}

type mailer struct {
	host        string
	port        string
	from        string
	fromName    string
	username    string
	password    string
	frontendURL string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		from:        cfg.SMTPFrom,
		fromName:    cfg.SMTPFromName,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		frontendURL: cfg.FrontendURL,
	}
}

func (m *mailer) SendEmail(to, subject, html, text string) error {
	const boundary = "mail-boundary-0a1b2c"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.fromName, m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	if text != "" {
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, text)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, html)
		fmt.Fprintf(&b, "--%s--\r\n", boundary)
	} else {
		fmt.Fprintf(&b, "Content-Type: text/html; charset=utf-8\r\n\r\n%s", html)
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(b.String()))
}

func (m *mailer) SendVerificationEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.frontendURL, token)
	subject := fmt.Sprintf("%s - Verify your email address", m.fromName)
	html := fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Thank you for registering with %s! To complete your registration, please verify your email address:</p>
<p><a href="%s">Verify Email Address</a></p>
<p>Or copy and paste this link into your browser:</p>
<p>%s</p>
<p><strong>This link will expire in 24 hours.</strong></p>
<p>If you didn't create an account with us, you can safely ignore this email.</p>
</body></html>`, name, m.fromName, link, link)
	text := fmt.Sprintf("Hi %s,\n\nVerify your email address by opening this link:\n%s\n\nThis link will expire in 24 hours.", name, link)
	return m.SendEmail(to, subject, html, text)
}

func (m *mailer) SendWelcomeEmail(to, name string) error {
	subject := fmt.Sprintf("Welcome to %s!", m.fromName)
	html := fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Your email address has been verified and your account is ready to use.</p>
<p>Happy shopping!</p>
</body></html>`, name)
	text := fmt.Sprintf("Hi %s,\n\nYour email address has been verified and your account is ready to use.", name)
	return m.SendEmail(to, subject, html, text)
}
