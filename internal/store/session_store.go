package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ads-insights-assistant/internal/dto"
	"ads-insights-assistant/internal/insights"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// Session is one user's report and the questions asked about it. Nothing outlives the process.
type Session struct {
	ID          string
	Params      insights.Params
	Report      *insights.Report
	History     []dto.ConversationTurn
	CreatedAt   time.Time
	RefreshedAt time.Time
}

type SessionStore interface {
	CreateSession(ctx context.Context, params insights.Params, report *insights.Report) (Session, error)
	GetSession(ctx context.Context, sessionID string) (Session, error)
	// ReplaceReport swaps in a freshly fetched report; history is kept.
	ReplaceReport(ctx context.Context, sessionID string, report *insights.Report) (Session, error)
	AddTurn(ctx context.Context, sessionID string, turn dto.ConversationTurn) error
	ListSessionIDs(ctx context.Context) []string
	DeleteSession(ctx context.Context, sessionID string) error
}

type inMemorySessionStore struct {
	store map[string]*Session // map[sessionId]*Session
	mu    sync.RWMutex
	now   func() time.Time
}

func NewInMemorySessionStore() SessionStore {
	return &inMemorySessionStore{
		store: make(map[string]*Session),
		now:   time.Now,
	}
}

func (s *inMemorySessionStore) CreateSession(ctx context.Context, params insights.Params, report *insights.Report) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	sess := &Session{
		ID:          uuid.NewString(),
		Params:      params,
		Report:      report,
		History:     make([]dto.ConversationTurn, 0),
		CreatedAt:   now,
		RefreshedAt: now,
	}
	s.store[sess.ID] = sess
	return sess.snapshot(), nil
}

func (s *inMemorySessionStore) GetSession(ctx context.Context, sessionID string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.store[sessionID]; ok {
		return sess.snapshot(), nil
	}
	return Session{}, ErrSessionNotFound
}

func (s *inMemorySessionStore) ReplaceReport(ctx context.Context, sessionID string, report *insights.Report) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.store[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	sess.Report = report
	sess.RefreshedAt = s.now().UTC()
	return sess.snapshot(), nil
}

func (s *inMemorySessionStore) AddTurn(ctx context.Context, sessionID string, turn dto.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.store[sessionID]; ok {
		sess.History = append(sess.History, turn)
		return nil
	}
	return ErrSessionNotFound
}

func (s *inMemorySessionStore) ListSessionIDs(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.store))
	for id := range s.store {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *inMemorySessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.store[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.store, sessionID)
	return nil
}

// snapshot copies the history so callers never share the backing array. The report is
// replaced wholesale on refresh and never mutated in place.
func (sess *Session) snapshot() Session {
	out := *sess
	out.History = append([]dto.ConversationTurn(nil), sess.History...)
	return out
}
