package session

import "sync"

// Session is the process-wide auth state. It is read by every API call and
// written only by login, logout and restaurant selection.
type Session struct {
	mu           sync.RWMutex
	token        string
	username     string
	restaurantID string
}

// Snapshot is a consistent copy of the session at one instant.
type Snapshot struct {
	Token        string
	Username     string
	RestaurantID string
}

func New() *Session {
	return &Session{}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) RestaurantID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restaurantID
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Token: s.token, Username: s.username, RestaurantID: s.restaurantID}
}

func (s *Session) setCredentials(username, token string) {
	s.mu.Lock()
	s.username = username
	s.token = token
	s.mu.Unlock()
}

func (s *Session) setRestaurant(id string) {
	s.mu.Lock()
	s.restaurantID = id
	s.mu.Unlock()
}

func (s *Session) clear() {
	s.mu.Lock()
	s.token = ""
	s.username = ""
	s.restaurantID = ""
	s.mu.Unlock()
}
