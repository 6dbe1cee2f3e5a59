package memory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTurnGuardClaimRelease(t *testing.T) {
	guard := NewTurnGuard()
	userId := uuid.New()

	assert.True(t, guard.Claim(userId, "hello"), "first claim should win")
	assert.False(t, guard.Claim(userId, "hello"), "duplicate claim within window should lose")

	guard.Release(userId, "hello")
	assert.True(t, guard.Claim(userId, "hello"), "claim should succeed again after release")
}

func TestTurnGuardIsolation(t *testing.T) {
	guard := NewTurnGuard()
	alice := uuid.New()
	bob := uuid.New()

	assert.True(t, guard.Claim(alice, "same message"))
	assert.True(t, guard.Claim(bob, "same message"), "different users never collide")
	assert.True(t, guard.Claim(alice, "other message"), "different messages never collide")
}
