package leaderboard

import (
	"context"
	"sync"
)

// SessionClaims is an in-memory ClaimTracker. Claims live as long as the
// value, so the score cap applies per process or per session.
type SessionClaims struct {
	mu     sync.Mutex
	claims map[int][]string
}

// NewSessionClaims returns an empty tracker.
func NewSessionClaims() *SessionClaims {
	return &SessionClaims{claims: make(map[int][]string)}
}

func (c *SessionClaims) Claimants(_ context.Context, score int) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.claims[score]))
	copy(out, c.claims[score])
	return out, nil
}

func (c *SessionClaims) AddClaim(_ context.Context, score int, identity string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.claims[score] {
		if id == identity {
			return nil
		}
	}
	c.claims[score] = append(c.claims[score], identity)
	return nil
}

func (c *SessionClaims) RemoveClaim(_ context.Context, score int, identity string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := c.claims[score]
	for i, id := range ids {
		if id == identity {
			c.claims[score] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(c.claims[score]) == 0 {
		delete(c.claims, score)
	}
	return nil
}
