package accounts

import (
	"sync"

	"github.com/brandpulse/mentions-dashboard/internal/models"
)

// Store holds the currently linked Instagram business account. The
// dashboard monitors a single account, so one linked profile replaces the
// configured fallback until it is disconnected.
type Store struct {
	mu       sync.RWMutex
	profile  *models.IGProfile
	state    string
	fallback string
}

// NewStore creates a link store with the configured IG user id as fallback
func NewStore(fallbackUserID string) *Store {
	return &Store{fallback: fallbackUserID}
}

// IGUserID returns the linked account id, or the configured fallback when
// no account has been linked. Implements sources.UserIDProvider.
func (s *Store) IGUserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profile != nil {
		return s.profile.ID
	}
	return s.fallback
}

// Profile returns a copy of the linked profile, or nil.
func (s *Store) Profile() *models.IGProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profile == nil {
		return nil
	}
	profile := *s.profile
	return &profile
}

// SetProfile records a freshly linked profile.
func (s *Store) SetProfile(profile models.IGProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &profile
}

// Clear unlinks the current profile.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = nil
}

func (s *Store) setState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Store) consumeState(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.state != "" && s.state == state
	s.state = ""
	return ok
}
