package mentions

import (
	"github.com/brandpulse/mentions-dashboard/internal/models"
	"github.com/brandpulse/mentions-dashboard/internal/scoring"
)

// Normalize builds a canonical Mention from one raw upstream record and its
// network tag. Field names are network-specific; any of them may be absent
// without failing the record.
func Normalize(network string, rec models.RawRecord) models.Mention {
	var (
		message     *string
		createdTime *string
		permalink   string
		fromName    string
		fromID      string
	)

	switch network {
	case "instagram":
		message = rec.StringPtr("caption")
		createdTime = rec.StringPtr("timestamp")
		permalink = rec.String("permalink")
		fromName = rec.String("username")
		// Instagram has no stable author id
	default: // facebook
		message = rec.StringPtr("message")
		createdTime = rec.StringPtr("created_time")
		permalink = rec.String("permalink_url")
		if from := rec.Object("from"); from != nil {
			fromName = from.String("name")
			fromID = from.String("id")
		}
	}

	text := deref(message)

	return models.Mention{
		ID:           rec.String("id"),
		Network:      network,
		FromName:     fromName,
		FromID:       fromID,
		Message:      message,
		CreatedTime:  createdTime,
		PermalinkURL: permalink,
		Sentiment:    scoring.Sentiment(text),
		Stats:        scoring.Impact(text, deref(createdTime)),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
