package server

import (
	"sync"

	"supportbot/internal/models"
)

// SessionStore keeps one Conversation value per browser session. Values are
// replaced wholesale; nothing mutates a stored Conversation in place.
type SessionStore struct {
	sessions map[string]models.Conversation
	locks    map[string]*sync.Mutex
	mu       sync.RWMutex
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]models.Conversation),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Get returns the conversation for id, or an empty one carrying id.
func (s *SessionStore) Get(id string) models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if conv, ok := s.sessions[id]; ok {
		return conv
	}
	return models.Conversation{ID: id}
}

func (s *SessionStore) Set(conv models.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[conv.ID] = conv
}

// Update runs fn on the current conversation of id and stores the result.
// Calls for the same id run one at a time, so every turn lands in history.
// On error the stored value is kept and returned.
func (s *SessionStore) Update(id string, fn func(models.Conversation) (models.Conversation, error)) (models.Conversation, error) {
	l := s.sessionLock(id)
	l.Lock()
	defer l.Unlock()

	conv := s.Get(id)
	next, err := fn(conv)
	if err != nil {
		return conv, err
	}
	s.Set(next)
	return next, nil
}

func (s *SessionStore) sessionLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
