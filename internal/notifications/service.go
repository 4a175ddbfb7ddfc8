package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/brandpulse/mentions-dashboard/internal/config"
	"github.com/brandpulse/mentions-dashboard/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service delivers digests via the configured channels: a JSON webhook
// and/or SMTP email.
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// WebhookMessage is the JSON body posted to the digest webhook
type WebhookMessage struct {
	Title    string           `json:"title"`
	Text     string           `json:"text"`
	Summary  models.Summary   `json:"summary"`
	Mentions []WebhookMention `json:"mentions"`
}

// WebhookMention is one digest entry in the webhook payload
type WebhookMention struct {
	Network      string  `json:"network"`
	FromName     string  `json:"from_name"`
	Message      string  `json:"message"`
	ImpactScore  float64 `json:"impact_score"`
	ImpactLevel  string  `json:"impact_level"`
	PermalinkURL string  `json:"permalink_url"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(cfg.FetchTimeout),
	}
}

// SendDigest sends the digest via every configured channel, collecting
// per-channel failures into one error.
func (s *Service) SendDigest(digest *Digest) error {
	var errors []string

	if s.config.DigestWebhookURL != "" {
		if err := s.sendToWebhook(digest); err != nil {
			logrus.Errorf("Failed to send digest webhook: %v", err)
			errors = append(errors, fmt.Sprintf("webhook: %v", err))
		} else {
			logrus.Info("Successfully sent digest to webhook")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(digest); err != nil {
			logrus.Errorf("Failed to send digest email: %v", err)
			errors = append(errors, fmt.Sprintf("email: %v", err))
		} else {
			logrus.Info("Successfully sent digest via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToWebhook(digest *Digest) error {
	message := BuildWebhookMessage(digest)

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.DigestWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to post digest: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("digest webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

// BuildWebhookMessage flattens a digest into the webhook payload.
func BuildWebhookMessage(digest *Digest) *WebhookMessage {
	message := &WebhookMessage{
		Title: fmt.Sprintf("Negative mentions digest - %s", digest.PageName),
		Text: fmt.Sprintf("%d negative mentions out of %d total",
			digest.Summary.Negative, digest.Summary.TotalMentions),
		Summary: digest.Summary,
	}

	for _, m := range digest.Mentions {
		text := ""
		if m.Message != nil {
			text = *m.Message
		}
		message.Mentions = append(message.Mentions, WebhookMention{
			Network:      m.Network,
			FromName:     m.FromName,
			Message:      truncate(text, 200),
			ImpactScore:  m.Stats.ImpactScore,
			ImpactLevel:  m.Stats.ImpactLevel,
			PermalinkURL: m.PermalinkURL,
		})
	}

	return message
}

func (s *Service) sendEmail(digest *Digest) error {
	subject := fmt.Sprintf("Negative mentions digest - %s (%d mentions)",
		digest.PageName, digest.Summary.Negative)

	htmlBody, err := buildEmailHTML(digest)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", buildEmailText(digest))
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

var emailTemplate = template.Must(template.New("digest").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Negative Mentions Digest</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #c0392b; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .mention { border-left: 4px solid #c0392b; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .meta { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Negative Mentions Digest</h1>
        <p>{{.PageName}} &mdash; generated {{.GeneratedAt.Format "2006-01-02 15:04 UTC"}}</p>
    </div>
    <div class="summary">
        <strong>{{.Summary.Negative}}</strong> negative of <strong>{{.Summary.TotalMentions}}</strong> total mentions
        ({{.Summary.Positive}} positive, {{.Summary.Neutral}} neutral)
    </div>
    {{range .Mentions}}
    <div class="mention">
        <div class="meta">{{.Network}} &middot; {{.FromName}} &middot; impact {{printf "%.3f" .Stats.ImpactScore}} ({{.Stats.ImpactLevel}})</div>
        {{if .Message}}<p>{{.Message}}</p>{{end}}
        {{if .PermalinkURL}}<a href="{{.PermalinkURL}}">View post</a>{{end}}
    </div>
    {{end}}
</body>
</html>`))

func buildEmailHTML(digest *Digest) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, digest); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildEmailText(digest *Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Negative mentions digest - %s\n", digest.PageName)
	fmt.Fprintf(&b, "%d negative of %d total mentions\n\n",
		digest.Summary.Negative, digest.Summary.TotalMentions)

	for _, m := range digest.Mentions {
		text := ""
		if m.Message != nil {
			text = *m.Message
		}
		fmt.Fprintf(&b, "[%s] %s (impact %.3f, %s)\n", m.Network, m.FromName,
			m.Stats.ImpactScore, m.Stats.ImpactLevel)
		if text != "" {
			fmt.Fprintf(&b, "  %s\n", truncate(text, 200))
		}
		if m.PermalinkURL != "" {
			fmt.Fprintf(&b, "  %s\n", m.PermalinkURL)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
