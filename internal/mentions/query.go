package mentions

import (
	"sort"
	"strings"

	"github.com/brandpulse/mentions-dashboard/internal/models"
)

var sentimentOrder = map[string]int{
	"negative": 0,
	"neutral":  1,
	"positive": 2,
}

// Run executes a declarative query over the normalized mention set:
// filter, summarize the filtered set, stable sort, then paginate. Network
// filtering is not applied here; only the requested networks are fetched
// upstream.
func Run(items []models.Mention, q models.Query) models.QueryResult {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	filtered := make([]models.Mention, 0, len(items))
	for _, m := range items {
		if q.Sentiment != "" && q.Sentiment != "all" && m.Sentiment.Label != q.Sentiment {
			continue
		}
		if search != "" && !matchesSearch(m, search) {
			continue
		}
		filtered = append(filtered, m)
	}

	// Summary reflects the filtered set, not the whole universe
	summary := models.Summary{TotalMentions: len(filtered)}
	for _, m := range filtered {
		switch m.Sentiment.Label {
		case "positive":
			summary.Positive++
		case "negative":
			summary.Negative++
		default:
			summary.Neutral++
		}
	}

	desc := q.SortDir != "asc"
	sort.SliceStable(filtered, func(i, j int) bool {
		if desc {
			return sortLess(filtered[j], filtered[i], q.SortField)
		}
		return sortLess(filtered[i], filtered[j], q.SortField)
	})

	page, pageSize := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}

	totalItems := len(filtered)
	totalPages := 1
	if totalItems > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > totalItems {
		end = totalItems
	}

	return models.QueryResult{
		Items:   filtered[start:end],
		Summary: summary,
		Pagination: models.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: totalItems,
			TotalPages: totalPages,
		},
	}
}

func matchesSearch(m models.Mention, search string) bool {
	return strings.Contains(strings.ToLower(deref(m.Message)), search) ||
		strings.Contains(strings.ToLower(m.FromName), search)
}

// sortLess orders mentions ascending on one field. Unrecognized fields fall
// back to created_time, whose raw ISO-8601 strings compare chronologically.
func sortLess(a, b models.Mention, field string) bool {
	switch field {
	case "from_name":
		return strings.ToLower(a.FromName) < strings.ToLower(b.FromName)
	case "sentiment":
		return sentimentOrdinal(a.Sentiment.Label) < sentimentOrdinal(b.Sentiment.Label)
	case "impact":
		return a.Stats.ImpactScore < b.Stats.ImpactScore
	default:
		return deref(a.CreatedTime) < deref(b.CreatedTime)
	}
}

func sentimentOrdinal(label string) int {
	if ord, ok := sentimentOrder[label]; ok {
		return ord
	}
	return sentimentOrder["neutral"]
}
