package mentions

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/brandpulse/mentions-dashboard/internal/models"
	"github.com/brandpulse/mentions-dashboard/internal/sources"
	"github.com/sirupsen/logrus"
)

// Service runs the mention pipeline: fetch from the requested networks,
// normalize, then execute the query. Each query is stateless; mentions are
// rebuilt from the upstream APIs every time.
type Service struct {
	sources      []sources.Source
	fetchLimit   int
	fetchTimeout time.Duration
	metrics      *Metrics
	mu           sync.RWMutex
}

// Metrics holds pipeline metrics for the last completed query
type Metrics struct {
	TotalMentions      int            `json:"total_mentions"`
	LastQuery          time.Time      `json:"last_query"`
	LastQueryDuration  string         `json:"last_query_duration"`
	NetworkMetrics     map[string]int `json:"network_metrics"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
	ErrorCount         int            `json:"error_count"`
}

// NewService creates a new mention pipeline service
func NewService(srcs []sources.Source, fetchLimit int, fetchTimeout time.Duration) *Service {
	return &Service{
		sources:      srcs,
		fetchLimit:   fetchLimit,
		fetchTimeout: fetchTimeout,
		metrics: &Metrics{
			NetworkMetrics:     make(map[string]int),
			SentimentBreakdown: make(map[string]int),
		},
	}
}

// QueryMentions fetches and normalizes mentions for the query's networks
// and runs the query engine over them. Any fetch failure fails the whole
// query; no partial mention list is returned.
func (s *Service) QueryMentions(ctx context.Context, q models.Query) (*models.MentionsResponse, error) {
	start := time.Now()

	selected := s.selectSources(q.Network)

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	var wg sync.WaitGroup
	recordsByNetwork := make(map[string][]models.RawRecord, len(selected))
	var recordsMu sync.Mutex
	errorsChan := make(chan error, len(selected))

	for _, source := range selected {
		wg.Add(1)
		go func(src sources.Source) {
			defer wg.Done()

			logrus.Debugf("Fetching mentions from %s (limit: %d)", src.Network(), s.fetchLimit)
			records, err := src.Fetch(ctx, s.fetchLimit)

			if err != nil {
				logrus.Errorf("Error fetching from %s: %v", src.Network(), err)
				errorsChan <- err
				return
			}

			recordsMu.Lock()
			recordsByNetwork[src.Network()] = records
			recordsMu.Unlock()
		}(source)
	}

	wg.Wait()
	close(errorsChan)

	var fetchErr error
	errorCount := 0
	for err := range errorsChan {
		errorCount++
		if fetchErr == nil || (isTimeout(err) && !isTimeout(fetchErr)) {
			fetchErr = err
		}
	}

	if fetchErr != nil {
		s.recordFailure(errorCount)
		return nil, fetchErr
	}

	// Merge in registration order so ties in the stable sort are
	// deterministic regardless of which fetch finished first.
	var all []models.Mention
	for _, source := range selected {
		for _, rec := range recordsByNetwork[source.Network()] {
			all = append(all, Normalize(source.Network(), rec))
		}
	}

	result := Run(all, q)
	s.updateMetrics(all, time.Since(start))

	items := result.Items
	if items == nil {
		items = []models.Mention{}
	}

	return &models.MentionsResponse{
		Mentions:   items,
		Summary:    result.Summary,
		Pagination: result.Pagination,
	}, nil
}

func (s *Service) selectSources(network string) []sources.Source {
	if network == "" || network == "all" {
		return s.sources
	}

	var selected []sources.Source
	for _, src := range s.sources {
		if src.Network() == network {
			selected = append(selected, src)
		}
	}
	return selected
}

func isTimeout(err error) bool {
	var fetchErr *sources.FetchError
	return errors.As(err, &fetchErr) && fetchErr.IsTimeout()
}

func (s *Service) updateMetrics(all []models.Mention, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalMentions = len(all)
	s.metrics.LastQuery = time.Now()
	s.metrics.LastQueryDuration = duration.String()
	s.metrics.ErrorCount = 0

	s.metrics.NetworkMetrics = make(map[string]int)
	s.metrics.SentimentBreakdown = make(map[string]int)

	for _, m := range all {
		s.metrics.NetworkMetrics[m.Network]++
		s.metrics.SentimentBreakdown[m.Sentiment.Label]++
	}
}

func (s *Service) recordFailure(errorCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.LastQuery = time.Now()
	s.metrics.ErrorCount = errorCount
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
