package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"net/smtp"
	"strings"

	"marinehub.app/configs/configslog"
	"marinehub.app/pkg/metrics"

	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
)

const (
	TemplateVerifyEmail       = "verify_email"
	TemplateResetPassword     = "reset_password"
	TemplateApplicationStatus = "application_status"
	layoutName                = "layout"
)

//go:embed templates/*.html
var templateFS embed.FS

// Mailer sends templated HTML emails.
type Mailer interface {
	Send(ctx context.Context, to, subject, template string, data map[string]any) error
}

// Options configures the SMTP relay.
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Renderer renders the embedded email templates inside the shared layout.
type Renderer struct {
	engine *html.Engine
}

// NewRenderer parses the embedded email templates.
func NewRenderer() (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("email templates could not be loaded: %w", err)
	}
	return &Renderer{engine: engine}, nil
}

func (r *Renderer) Render(template string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, template, data, layoutName); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// New returns an SMTP mailer, or a logging mailer when no SMTP host is set.
func New(opts Options) (Mailer, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	if opts.Host == "" {
		configslog.SLog.Warn("SMTP_HOST not set, emails will only be logged.")
		return &LogMailer{renderer: renderer}, nil
	}
	return &SMTPMailer{opts: opts, renderer: renderer}, nil
}

// SMTPMailer delivers through an authenticated SMTP relay (STARTTLS when offered).
type SMTPMailer struct {
	opts     Options
	renderer *Renderer
}

// Send renders template with data and delivers it through the relay.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, template string, data map[string]any) error {
	body, err := m.renderer.Render(template, data)
	if err != nil {
		configslog.Log.Error("Email template could not be rendered", zap.String("template", template), zap.Error(err))
		metrics.EmailsSentTotal.WithLabelValues(template, "render_error").Inc()
		return err
	}
	msg := buildMessage(m.opts.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.opts.Host, m.opts.Port)
	var auth smtp.Auth
	if m.opts.User != "" {
		auth = smtp.PlainAuth("", m.opts.User, m.opts.Password, m.opts.Host)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- smtp.SendMail(addr, auth, m.opts.From, []string{to}, msg) }()
	select {
	case <-ctx.Done():
		metrics.EmailsSentTotal.WithLabelValues(template, "cancelled").Inc()
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			configslog.Log.Error("Email could not be sent", zap.String("to", to), zap.String("template", template), zap.Error(err))
			metrics.EmailsSentTotal.WithLabelValues(template, "failed").Inc()
			return err
		}
	}
	metrics.EmailsSentTotal.WithLabelValues(template, "sent").Inc()
	configslog.SLog.Infof("Email '%s' sent to %s", template, to)
	return nil
}

// LogMailer renders the message and writes it to the log (development).
type LogMailer struct {
	renderer *Renderer
}

func (m *LogMailer) Send(_ context.Context, to, subject, template string, data map[string]any) error {
	body, err := m.renderer.Render(template, data)
	if err != nil {
		metrics.EmailsSentTotal.WithLabelValues(template, "render_error").Inc()
		return err
	}
	metrics.EmailsSentTotal.WithLabelValues(template, "logged").Inc()
	configslog.Log.Info("Email (not sent, SMTP disabled)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("template", template),
		zap.Int("body_size", len(body)),
		zap.Any("data", data),
	)
	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + strings.ReplaceAll(subject, "\n", " ") + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
