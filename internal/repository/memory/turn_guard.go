package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// TurnGuard suppresses duplicate first turns. Clients that retry a
// stream request within the window would otherwise open two chats for
// the same message.
type TurnGuard struct {
	cache *cache.Cache
}

func NewTurnGuard() *TurnGuard {
	c := cache.New(10*time.Second, 1*time.Minute)
	return &TurnGuard{
		cache: c,
	}
}

func key(userId uuid.UUID, message string) string {
	h := sha256.Sum256([]byte(userId.String() + ":" + message))
	return hex.EncodeToString(h[:])
}

// Claim marks the turn as in flight. Returns false when an identical
// turn from the same user is already being processed.
func (g *TurnGuard) Claim(userId uuid.UUID, message string) bool {
	err := g.cache.Add(key(userId, message), struct{}{}, cache.DefaultExpiration)
	return err == nil
}

// Release clears the claim once the turn is persisted or failed.
func (g *TurnGuard) Release(userId uuid.UUID, message string) {
	g.cache.Delete(key(userId, message))
}
