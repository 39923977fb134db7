package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqliteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "triage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testSessionRecord(id string) SessionRecord {
	return SessionRecord{
		SessionID:   id,
		CaseID:      "case_leg_erythema_pain",
		PatientName: "Tyler James",
		ESIGoal:     2,
		Score:       0,
		ArrivalTime: "09:30:00 AM",
		CreatedAt:   time.Now().Unix(),
	}
}

func TestSQLiteStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := testSessionRecord("sess-1")
	require.NoError(t, store.SaveSession(ctx, rec))

	got, err := store.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, rec, *got)

	_, err = store.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, errSessionNotFound)
}

func TestSQLiteStoreRecordTurn(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, testSessionRecord("sess-1")))

	turns := []TurnRecord{
		{StudentMessage: "Do you have a fever?", PatientMessage: "I think so, I feel hot.", Score: 40, Feedback: "Found key symptom: fever.", CreatedAt: 100},
		{StudentMessage: "Any chills?", PatientMessage: "Yes, since this morning.", Score: 70, Feedback: "Progression noted.", CreatedAt: 101},
	}
	for _, turn := range turns {
		require.NoError(t, store.RecordTurn(ctx, "sess-1", turn))
	}

	got, err := store.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 70, got.Score, "session score tracks the latest turn")

	listed, err := store.ListTurns(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, turns, listed)
}

func TestSQLiteStoreRecordTurnUnknownSession(t *testing.T) {
	store := newTestStore(t)

	err := store.RecordTurn(context.Background(), "nope", TurnRecord{Score: 10})
	assert.ErrorIs(t, err, errSessionNotFound)
}

func TestSQLiteStoreListSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := testSessionRecord("sess-1")
	first.CreatedAt = 100
	second := testSessionRecord("sess-2")
	second.CreatedAt = 200
	require.NoError(t, store.SaveSession(ctx, first))
	require.NoError(t, store.SaveSession(ctx, second))

	recs, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "sess-2", recs[0].SessionID, "newest first")
	assert.Equal(t, "sess-1", recs[1].SessionID)
}

func TestSQLiteStoreSaveSessionUpsertsScore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := testSessionRecord("sess-1")
	require.NoError(t, store.SaveSession(ctx, rec))

	rec.Score = 90
	require.NoError(t, store.SaveSession(ctx, rec))

	got, err := store.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 90, got.Score)
}
