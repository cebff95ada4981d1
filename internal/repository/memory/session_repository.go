package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	ragmemory "yt-coach-be/pkg/rag/memory"
)

// SessionRepository holds one conversation log per chat session, in memory.
// Sessions idle for an hour are evicted together with their history.
type SessionRepository struct {
	cache    *cache.Cache
	maxTurns int
}

func NewSessionRepository(maxTurns int) *SessionRepository {
	// Default expiration of 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache:    c,
		maxTurns: maxTurns,
	}
}

func (r *SessionRepository) Save(sessionID string, conv *ragmemory.Conversation) {
	r.cache.Set(sessionID, conv, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*ragmemory.Conversation, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*ragmemory.Conversation), true
	}
	return nil, false
}

// GetOrCreate returns the session's conversation, creating an empty one when
// the session is new or was evicted.
func (r *SessionRepository) GetOrCreate(sessionID string) *ragmemory.Conversation {
	if conv, found := r.Get(sessionID); found {
		return conv
	}
	conv := ragmemory.NewConversation(ragmemory.WithMaxTurns(r.maxTurns))
	r.Save(sessionID, conv)
	return conv
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
