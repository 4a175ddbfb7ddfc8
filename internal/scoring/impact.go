package scoring

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/brandpulse/mentions-dashboard/internal/models"
)

// Graph timestamps come in RFC 3339 form or with a colon-less UTC offset
// ("2025-01-02T15:04:05+0000").
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
}

// Impact blends message length and recency into a 0..1 score. A missing or
// unparseable timestamp contributes a recency of zero rather than an error.
func Impact(text string, createdTime string) models.Stats {
	return impactAt(text, createdTime, time.Now().UTC())
}

func impactAt(text, createdTime string, now time.Time) models.Stats {
	lengthScore := 0.0
	if text != "" {
		lengthScore = math.Min(float64(utf8.RuneCountInString(text))/280.0, 1.0)
	}

	recencyScore := 0.0
	if createdTime != "" {
		if created, ok := parseTimestamp(createdTime); ok {
			days := int(now.Sub(created).Hours() / 24)
			if days < 0 {
				days = 0
			}
			if days > 30 {
				days = 30
			}
			recencyScore = 1.0 - float64(days)/30.0
		}
	}

	score := math.Round((0.6*recencyScore+0.4*lengthScore)*1000) / 1000

	level := "bajo"
	switch {
	case score >= 0.66:
		level = "alto"
	case score >= 0.33:
		level = "medio"
	}

	return models.Stats{ImpactScore: score, ImpactLevel: level}
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
