package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

var errSessionNotFound = errors.New("session not found")

// SessionRecord is the persisted view of a triage session.
type SessionRecord struct {
	SessionID   string `json:"session_id"`
	CaseID      string `json:"case_id"`
	PatientName string `json:"patient_name"`
	ESIGoal     int    `json:"esi_goal"`
	Score       int    `json:"current_score"`
	ArrivalTime string `json:"arrival_time"`
	CreatedAt   int64  `json:"created_at"`
}

// TurnRecord is one student/patient exchange within a session.
type TurnRecord struct {
	StudentMessage string `json:"student_message"`
	PatientMessage string `json:"patient_message"`
	Score          int    `json:"score"`
	Feedback       string `json:"feedback"`
	CreatedAt      int64  `json:"created_at"`
}

type sqliteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*sqliteStore, error) {
	if dbPath == "" {
		dbPath = "triage.db"
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, err
	}
	schema := []string{`CREATE TABLE IF NOT EXISTS sessions(
						session_id TEXT PRIMARY KEY,
						case_id TEXT NOT NULL,
						patient_name TEXT NOT NULL,
						esi_goal INTEGER NOT NULL,
						score INTEGER NOT NULL DEFAULT 0,
						arrival_time TEXT NOT NULL,
						created_at INTEGER NOT NULL
					);`, `CREATE TABLE IF NOT EXISTS turns(
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						session_id TEXT NOT NULL REFERENCES sessions(session_id),
						student_message TEXT NOT NULL,
						patient_message TEXT NOT NULL,
						score INTEGER NOT NULL,
						feedback TEXT NOT NULL,
						created_at INTEGER NOT NULL
					);`}
	for _, s := range schema {
		if _, err := db.Exec(s); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }

func (s *sqliteStore) SaveSession(ctx context.Context, rec SessionRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO sessions(session_id, case_id, patient_name, esi_goal, score, arrival_time, created_at) VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(session_id) DO UPDATE SET score=excluded.score`,
		rec.SessionID, rec.CaseID, rec.PatientName, rec.ESIGoal, rec.Score, rec.ArrivalTime, rec.CreatedAt)
	return err
}

func (s *sqliteStore) GetSession(ctx context.Context, sessionID string) (*SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT session_id, case_id, patient_name, esi_goal, score, arrival_time, created_at FROM sessions WHERE session_id = ?`, sessionID)
	var rec SessionRecord
	if err := row.Scan(&rec.SessionID, &rec.CaseID, &rec.PatientName, &rec.ESIGoal, &rec.Score, &rec.ArrivalTime, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errSessionNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// RecordTurn appends one exchange and moves the session's running score in
// the same transaction, so a crash never leaves the report half-updated.
func (s *sqliteStore) RecordTurn(ctx context.Context, sessionID string, turn TurnRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO turns(session_id, student_message, patient_message, score, feedback, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, turn.StudentMessage, turn.PatientMessage, turn.Score, turn.Feedback, turn.CreatedAt); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `UPDATE sessions SET score = ? WHERE session_id = ?`, turn.Score, sessionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("record turn: %w", errSessionNotFound)
	}
	return tx.Commit()
}

func (s *sqliteStore) ListTurns(ctx context.Context, sessionID string) ([]TurnRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT student_message, patient_message, score, feedback, created_at FROM turns WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []TurnRecord
	for rows.Next() {
		var t TurnRecord
		if err := rows.Scan(&t.StudentMessage, &t.PatientMessage, &t.Score, &t.Feedback, &t.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func (s *sqliteStore) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session_id, case_id, patient_name, esi_goal, score, arrival_time, created_at FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.SessionID, &rec.CaseID, &rec.PatientName, &rec.ESIGoal, &rec.Score, &rec.ArrivalTime, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
