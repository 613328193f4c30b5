package authstate

import (
	"errors"
	"sync"
	"time"

	"github.com/socialmindhq/socialmind/pkg/utils"
)

// TTL after which an unredeemed state token becomes invalid.
const EntryTTL = 10 * time.Minute

var ErrInvalidState = errors.New("invalid or expired state")

type Entry struct {
	UserID   int64
	IssuedAt time.Time
}

// Store holds pending external-authorization requests keyed by an opaque
// single-use state token. Both OAuth connect flows go through it, so a
// callback can always be bound to the user who initiated the request.
// Kept as an interface so the in-memory map can later be swapped for a
// shared store without touching the flows.
type Store interface {
	Put(userID int64) (string, error)
	Consume(state string) (*Entry, error)
	Sweep()
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time
}

func NewMemoryStore() Store {
	return &memoryStore{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

func (s *memoryStore) Put(userID int64) (string, error) {
	state, err := utils.GenerateRandomKey(32)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.entries[state] = Entry{UserID: userID, IssuedAt: s.now()}
	s.mu.Unlock()

	return state, nil
}

// Consume redeems a state token exactly once. Unknown, already-consumed and
// expired tokens all fail the same way.
func (s *memoryStore) Consume(state string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[state]
	if !ok {
		return nil, ErrInvalidState
	}
	delete(s.entries, state)

	if s.now().Sub(entry.IssuedAt) > EntryTTL {
		return nil, ErrInvalidState
	}

	return &entry, nil
}

// Sweep reaps entries that were never redeemed. Runs on a fixed interval,
// independent of request traffic.
func (s *memoryStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-EntryTTL)
	for state, entry := range s.entries {
		if entry.IssuedAt.Before(cutoff) {
			delete(s.entries, state)
		}
	}
}
