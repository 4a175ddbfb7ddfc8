package scoring

import (
	"math"
	"strings"

	"github.com/brandpulse/mentions-dashboard/internal/models"
)

// Marker phrases are matched as lower-cased substrings, so partial and
// overlapping occurrences count. Basic keyword analysis - in production,
// you'd use a real language service.
var positiveMarkers = []string{
	"bueno",
	"genial",
	"excelente",
	"maravilloso",
	"gracias",
	"felicitaciones",
	"recomendado",
	"me gusta",
	"buenísimo",
	"increíble",
}

var negativeMarkers = []string{
	"malo",
	"pésimo",
	"horrible",
	"terrible",
	"queja",
	"reclamo",
	"no me gusta",
	"decepción",
	"fraude",
	"estafa",
}

// Sentiment classifies text by counting positive and negative marker
// phrases. Equal counts, including none at all, are neutral with score 0.
func Sentiment(text string) models.Sentiment {
	if text == "" {
		return models.Sentiment{Label: "neutral", Score: 0.0}
	}

	lower := strings.ToLower(text)

	pos := 0
	for _, marker := range positiveMarkers {
		if strings.Contains(lower, marker) {
			pos++
		}
	}

	neg := 0
	for _, marker := range negativeMarkers {
		if strings.Contains(lower, marker) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return models.Sentiment{
			Label: "positive",
			Score: math.Min(1.0, float64(pos)/float64(pos+neg)),
		}
	case neg > pos:
		return models.Sentiment{
			Label: "negative",
			Score: math.Min(1.0, float64(neg)/float64(pos+neg)),
		}
	default:
		return models.Sentiment{Label: "neutral", Score: 0.0}
	}
}
