package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionActive(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	s := NewSession("tok", now, 10*24*time.Hour)

	assert.Equal(t, now.Add(240*time.Hour).UnixMilli(), s.ExpiresAt)
	assert.True(t, s.Active(now))
	assert.True(t, s.Active(time.UnixMilli(s.ExpiresAt-1)))
	assert.False(t, s.Active(time.UnixMilli(s.ExpiresAt)), "expiry instant counts as expired")
	assert.False(t, s.Active(time.UnixMilli(s.ExpiresAt+1)))
}

func TestUserFindSession(t *testing.T) {
	u := User{Sessions: []Session{{Token: "a", ExpiresAt: 1}, {Token: "b", ExpiresAt: 2}}}

	s, ok := u.FindSession("b")
	assert.True(t, ok)
	assert.Equal(t, int64(2), s.ExpiresAt)

	_, ok = u.FindSession("B")
	assert.False(t, ok)
	_, ok = u.FindSession("")
	assert.False(t, ok)
}
