package models

// RawRecord is a single decoded Graph API object as returned by a source
// adapter. Its field names vary per network and it never crosses the
// adapter/normalizer boundary.
type RawRecord map[string]any

// String returns the named field as a string, or "" when it is absent or
// not a string.
func (r RawRecord) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// StringPtr returns the named field as a *string, or nil when it is absent
// or not a string.
func (r RawRecord) StringPtr(key string) *string {
	if v, ok := r[key].(string); ok {
		return &v
	}
	return nil
}

// Object returns the named field as a nested record, or nil.
func (r RawRecord) Object(key string) RawRecord {
	if v, ok := r[key].(map[string]any); ok {
		return RawRecord(v)
	}
	return nil
}

// Sentiment is the keyword-derived classification of a mention's text.
type Sentiment struct {
	Label string  `json:"label"` // "positive", "neutral", "negative"
	Score float64 `json:"score"` // 0..1
}

// Stats holds the derived impact heuristic for a mention.
type Stats struct {
	ImpactScore float64 `json:"impact_score"` // 0..1, rounded to 3 decimals
	ImpactLevel string  `json:"impact_level"` // "alto", "medio", "bajo"
}

// Mention is the canonical record of a tagged post from any supported
// network. It is fully derived from one RawRecord plus its network tag and
// is immutable once built.
type Mention struct {
	ID           string    `json:"id"`
	Network      string    `json:"network"` // "facebook" or "instagram"
	FromName     string    `json:"from_name"`
	FromID       string    `json:"from_id"` // always empty for instagram
	Message      *string   `json:"message"`
	CreatedTime  *string   `json:"created_time"`
	PermalinkURL string    `json:"permalink_url"`
	Sentiment    Sentiment `json:"sentiment"`
	Stats        Stats     `json:"stats"`
}

// Query describes one request against the mention set.
type Query struct {
	Network   string // "all", "facebook", "instagram"
	Sentiment string // "all" or a sentiment label
	Search    string // free text, matched against message and from_name
	SortField string // "created_time", "from_name", "sentiment", "impact"
	SortDir   string // "asc" or "desc"
	Page      int    // 1-based
	PageSize  int    // clamped to 1..100
}

// Summary counts sentiment labels over the filtered mention set.
type Summary struct {
	TotalMentions int `json:"total_mentions"`
	Positive      int `json:"positive"`
	Neutral       int `json:"neutral"`
	Negative      int `json:"negative"`
}

// Pagination describes the slice of the filtered set being returned.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// QueryResult is the output of the query engine over a mention set.
type QueryResult struct {
	Items      []Mention
	Summary    Summary
	Pagination Pagination
}

// MentionsResponse is the JSON body served by GET /api/mentions.
type MentionsResponse struct {
	Mentions   []Mention  `json:"mentions"`
	Summary    Summary    `json:"summary"`
	Pagination Pagination `json:"pagination"`
}

// ErrorResponse is the JSON body for failed queries.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// IGProfile is the Instagram business account profile resolved by the
// OAuth linking flow.
type IGProfile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Biography         string `json:"biography,omitempty"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}
