package notifications

import (
	"time"

	"github.com/brandpulse/mentions-dashboard/internal/models"
)

// Digest is a point-in-time summary of negative mentions, built fresh on
// every scheduled run. Nothing is kept between runs.
type Digest struct {
	GeneratedAt time.Time
	PageName    string
	Summary     models.Summary
	Mentions    []models.Mention // highest-impact negative mentions first
}

// NotificationInterface defines the digest delivery contract
type NotificationInterface interface {
	SendDigest(digest *Digest) error
}
