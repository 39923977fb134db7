package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListenAddrDefaults(t *testing.T) {
	t.Setenv("HOST", "")
	t.Setenv("PORT", "")
	assert.Equal(t, "127.0.0.1:5000", listenAddr())
}

func TestListenAddrOverrides(t *testing.T) {
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "8080")
	assert.Equal(t, "0.0.0.0:8080", listenAddr())
}

func TestSessionRegistry(t *testing.T) {
	r := newSessionRegistry()

	_, ok := r.Get("missing")
	assert.False(t, ok)

	r.Put(&liveSession{ID: "sess-1", CaseID: "case_leg_erythema_pain"})
	s, ok := r.Get("sess-1")
	assert.True(t, ok)
	assert.Equal(t, "case_leg_erythema_pain", s.CaseID)

	r.SetScore("sess-1", 55)
	s, _ = r.Get("sess-1")
	assert.Equal(t, 55, s.Score)

	// Unknown ids are ignored.
	r.SetScore("missing", 10)
}
