package bookings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/withsutham/SE-KPS-68-2/internal/booking"
)

// DefaultSessionTTL bounds how long an untouched session is kept.
const DefaultSessionTTL = 2 * time.Hour

var (
	ErrSessionNotFound = errors.New("bookings: session not found")
	ErrSessionExists   = errors.New("bookings: session already exists")
	ErrSessionConflict = errors.New("bookings: session changed by another request")
)

// Session is one customer's pass through the wizard.
type Session struct {
	ID           string                `json:"id"`
	Draft        booking.Draft         `json:"draft"`
	Confirmation *booking.Confirmation `json:"confirmation,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
	// Version counts successful saves. Save only succeeds against the
	// version the session was loaded at.
	Version int64 `json:"version"`
}

// Store persists sessions. Saving an existing session refreshes its expiry
// and bumps Version; a stale Version fails with ErrSessionConflict.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// InMemoryStore keeps sessions in process. Expired entries are dropped on access.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewInMemoryStore creates a store whose sessions expire after ttl.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &InMemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *InMemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.sessions[s.ID]; ok && m.now().Before(entry.expiresAt) {
		return ErrSessionExists
	}
	m.sessions[s.ID] = memoryEntry{session: *s, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *InMemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	s := entry.session
	return &s, nil
}

func (m *InMemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions[s.ID]
	if !ok || !m.now().Before(entry.expiresAt) {
		delete(m.sessions, s.ID)
		return ErrSessionNotFound
	}
	if entry.session.Version != s.Version {
		return ErrSessionConflict
	}
	s.Version++
	m.sessions[s.ID] = memoryEntry{session: *s, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *InMemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}
