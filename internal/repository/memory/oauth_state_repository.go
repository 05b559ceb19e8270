package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// OAuthState is what we remember between redirecting to the provider and its callback.
type OAuthState struct {
	State     string
	ReturnTo  string
	CreatedAt time.Time
}

// OAuthStateRepository keeps pending OAuth states for a short while.
// A state can be consumed once.
type OAuthStateRepository struct {
	cache *cache.Cache
}

func NewOAuthStateRepository(ttl time.Duration) *OAuthStateRepository {
	return &OAuthStateRepository{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *OAuthStateRepository) Save(state *OAuthState) {
	r.cache.Set(state.State, state, cache.DefaultExpiration)
}

// Consume returns the state and forgets it.
func (r *OAuthStateRepository) Consume(state string) (*OAuthState, bool) {
	x, found := r.cache.Get(state)
	if !found {
		return nil, false
	}
	r.cache.Delete(state)
	return x.(*OAuthState), true
}
