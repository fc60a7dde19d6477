package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/bryanwahyu/siren-alert/internal/domain/alerts"
)

// SMTPConfig koneksi server SMTP
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends alert mails with PLAIN auth.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now  func() time.Time
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail, now: time.Now}
}

func (m *SMTPMailer) Send(ctx context.Context, msg alerts.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return alerts.ErrNoRecipients
	}
	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	body := buildMessage(msg.From, from, msg.To, msg.Subject, msg.HTML, m.now())

	if err := m.send(addr, auth, from, msg.To, body); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	log.Printf("mail=sent to=%d subject=%q", len(msg.To), msg.Subject)
	return nil
}

// buildMessage menyusun pesan MIME html; nama pengirim di-encode RFC 2047
func buildMessage(senderName, from string, to []string, subject, html string, at time.Time) []byte {
	var b bytes.Buffer
	sender := from
	if senderName != "" {
		sender = fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", senderName), from)
	}
	fmt.Fprintf(&b, "From: %s\r\n", sender)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.BEncoding.Encode("UTF-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", at.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")

	enc := base64.StdEncoding.EncodeToString([]byte(html))
	for len(enc) > 76 {
		b.WriteString(enc[:76] + "\r\n")
		enc = enc[76:]
	}
	b.WriteString(enc + "\r\n")
	return b.Bytes()
}

// LogMailer dipakai kalau SMTP belum dikonfigurasi; hanya menulis log
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg alerts.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return alerts.ErrNoRecipients
	}
	log.Printf("mail=logged to=%s subject=%q bytes=%d", strings.Join(msg.To, ","), msg.Subject, len(msg.HTML))
	return nil
}
