// Package mailer sends the contact form emails over SMTP.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"studio-site-api/internal/domain"
)

type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
	SiteURL    string
	Timeout    time.Duration
}

// SendFunc delivers one already-encoded message.
type SendFunc func(ctx context.Context, from string, to []string, msg []byte) error

type Mailer struct {
	cfg  Config
	send SendFunc
	now  func() time.Time
}

func New(cfg Config) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	m := &Mailer{cfg: cfg, now: time.Now}
	m.send = m.smtpSend
	return m
}

// WithSender swaps the transport; used by tests.
func (m *Mailer) WithSender(fn SendFunc) *Mailer {
	m.send = fn
	return m
}

type contactView struct {
	*domain.ContactMessage
	Received string
	SiteURL  string
}

func (m *Mailer) view(c *domain.ContactMessage) contactView {
	return contactView{ContactMessage: c, Received: m.now().Format("2006-01-02 15:04:05 MST"), SiteURL: m.cfg.SiteURL}
}

// NotifyAdmin tells the site owner about a new submission.
func (m *Mailer) NotifyAdmin(ctx context.Context, c *domain.ContactMessage) error {
	if m.cfg.AdminEmail == "" {
		return fmt.Errorf("mailer: admin address not configured")
	}
	body, err := render(adminTmpl, m.view(c))
	if err != nil {
		return err
	}
	subject := "New Contact Form Submission - " + c.Subject
	return m.deliver(ctx, m.cfg.AdminEmail, subject, body)
}

// AutoReply acknowledges the submission to the sender.
func (m *Mailer) AutoReply(ctx context.Context, c *domain.ContactMessage) error {
	body, err := render(replyTmpl, m.view(c))
	if err != nil {
		return err
	}
	return m.deliver(ctx, c.Email, "شكراً لتواصلك معنا - Thank you for contacting us", body)
}

func (m *Mailer) deliver(ctx context.Context, to, subject string, html []byte) error {
	from, err := mail.ParseAddress(m.cfg.From)
	if err != nil {
		return fmt.Errorf("mailer: from address: %w", err)
	}
	rcpt, err := mail.ParseAddress(to)
	if err != nil {
		return fmt.Errorf("mailer: recipient: %w", err)
	}
	msg := buildMessage(from, rcpt, subject, html)
	if err := m.send(ctx, from.Address, []string{rcpt.Address}, msg); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", rcpt.Address, err)
	}
	return nil
}

func buildMessage(from, to *mail.Address, subject string, html []byte) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from.String())
	fmt.Fprintf(&b, "To: %s\r\n", to.String())
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.Write(bytes.ReplaceAll(html, []byte("\n"), []byte("\r\n")))
	return b.Bytes()
}

func (m *Mailer) smtpSend(ctx context.Context, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}
	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return err
		}
	}
	if m.cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, r := range to {
		if err := c.Rcpt(r); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func render(t *template.Template, data any) ([]byte, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return nil, fmt.Errorf("mailer: render %s: %w", t.Name(), err)
	}
	return b.Bytes(), nil
}

var funcs = template.FuncMap{
	"orDefault": func(s, def string) string {
		if strings.TrimSpace(s) == "" {
			return def
		}
		return s
	},
}

var adminTmpl = template.Must(template.New("admin").Funcs(funcs).Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>New Contact Form Submission</h2>
  <h3>Contact Details</h3>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Phone:</strong> {{orDefault .Phone "Not provided"}}</p>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p><strong>Category:</strong> {{.Category}}</p>
  <h3>Message</h3>
  <p style="white-space: pre-wrap;">{{.Message}}</p>
  <p style="font-size: 14px; color: #666;">
    <strong>Received:</strong> {{.Received}}<br>
    <strong>IP Address:</strong> {{.IPAddress}}<br>
    <strong>User Agent:</strong> {{.UserAgent}}
  </p>
</div>
`))

var replyTmpl = template.Must(template.New("reply").Funcs(funcs).Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 dir="rtl">مرحباً {{.Name}}</h2>
  <p dir="rtl">شكراً لك على تواصلك معنا. لقد تم استلام رسالتك بنجاح وسيقوم فريقنا بالرد عليك في أقرب وقت ممكن.</p>
  <hr>
  <h2>Hello {{.Name}}</h2>
  <p>Thank you for contacting us. We have successfully received your message and our team will respond to you as soon as possible.</p>
  <h3>تفاصيل رسالتك - Your Message Details</h3>
  <p><strong>الموضوع - Subject:</strong> {{.Subject}}</p>
  <p><strong>التصنيف - Category:</strong> {{.Category}}</p>
  <p><strong>تاريخ الإرسال - Date:</strong> {{.Received}}</p>
  {{if .SiteURL}}<p><a href="{{.SiteURL}}">زيارة موقعنا - Visit Our Website</a></p>{{end}}
</div>
`))
