package main

import (
	"sync"
)

// liveSession pairs a persisted session with its in-flight chat handle.
// Chat handles cannot be persisted, so a restarted server keeps the sqlite
// record (for the report endpoint) but the conversation itself is gone.
type liveSession struct {
	ID          string
	CaseID      string
	PatientName string
	ESIGoal     int
	Score       int
	ArrivalTime string
	Chat        PatientChat
}

type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*liveSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*liveSession)}
}

func (r *sessionRegistry) Put(s *liveSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

func (r *sessionRegistry) Get(id string) (*liveSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// SetScore updates the running score of a live session, if it still exists.
func (r *sessionRegistry) SetScore(id string, score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.Score = score
	}
}
