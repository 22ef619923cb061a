package session

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/squadkit/squadbot/internal/models"
)

// ErrSessionNotFound is returned when a session is not found
var ErrSessionNotFound = errors.New("session not found")

// memoryRepository implements the Repository interface with an in-process map.
// Session state is deliberately process-lifetime only; losing in-flight
// sessions on a crash is an accepted tradeoff.
type memoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewMemory creates a new in-memory session repository
func NewMemory() *memoryRepository {
	return &memoryRepository{
		sessions: make(map[string]*models.Session),
	}
}

// Save stores a session, replacing any existing record with the same ID
func (r *memoryRepository) Save(_ context.Context, input *SaveInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	if input.Session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[input.Session.ID] = input.Session.Clone()
	return nil
}

// Get retrieves a session by ID. Callers receive a copy, never the stored record.
func (r *memoryRepository) Get(_ context.Context, input *GetInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[input.SessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return sess.Clone(), nil
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (r *memoryRepository) Delete(_ context.Context, input *DeleteInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, input.SessionID)
	return nil
}

// ListByGuild retrieves all sessions for a guild, oldest first
func (r *memoryRepository) ListByGuild(_ context.Context, input *ListByGuildInput) (*ListByGuildOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := &ListByGuildOutput{}
	for _, sess := range r.sessions {
		if sess.GuildID == input.GuildID {
			out.Sessions = append(out.Sessions, sess.Clone())
		}
	}

	sortByCreation(out.Sessions)
	return out, nil
}

// ListAll retrieves every stored session, oldest first
func (r *memoryRepository) ListAll(_ context.Context, _ *ListAllInput) (*ListAllOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := &ListAllOutput{}
	for _, sess := range r.sessions {
		out.Sessions = append(out.Sessions, sess.Clone())
	}

	sortByCreation(out.Sessions)
	return out, nil
}

func sortByCreation(sessions []*models.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
}
