package memory

import (
	"time"

	"ai-webchat-be/internal/dto"

	"github.com/patrickmn/go-cache"
)

// SessionListCache caches the per-user sidebar session list. Any mutation
// visible in the sidebar (create, rename, delete, title summarization) must
// invalidate the owning user's entry.
type SessionListCache struct {
	cache *cache.Cache
}

func NewSessionListCache() *SessionListCache {
	// Default expiration 5 minutes, purge sweep every 10 minutes
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &SessionListCache{
		cache: c,
	}
}

func (r *SessionListCache) Get(userId string) ([]*dto.SessionTitleResponse, bool) {
	if x, found := r.cache.Get(userId); found {
		return x.([]*dto.SessionTitleResponse), true
	}
	return nil, false
}

func (r *SessionListCache) Set(userId string, titles []*dto.SessionTitleResponse) {
	r.cache.Set(userId, titles, cache.DefaultExpiration)
}

func (r *SessionListCache) Invalidate(userId string) {
	r.cache.Delete(userId)
}
