package conversation

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager owns the live chat sessions. Each session holds exactly one
// Conversation; nothing is persisted between sessions, and abandoning a
// session simply discards its state.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Conversation
	logger   *logrus.Logger
}

// NewManager creates an empty session manager.
func NewManager(logger *logrus.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Conversation),
		logger:   logger,
	}
}

// Create starts a new session and returns its id along with the fresh
// conversation.
func (m *Manager) Create() (string, *Conversation) {
	id := uuid.NewString()
	conv := New()

	m.mu.Lock()
	m.sessions[id] = conv
	m.mu.Unlock()

	m.logger.WithField("session_id", id).Debug("Created chat session")
	return id, conv
}

// Get returns the conversation for a session id.
func (m *Manager) Get(id string) (*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conv, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return conv, nil
}

// Remove discards a session. Removing an unknown id is a no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
