package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// handleStart creates a new simulation session for the requested case: a
// fresh model chat seeded with the case prompt, a uuid the frontend uses for
// every later call, and a persisted session record.
func handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CaseID == "" {
		writeError(w, http.StatusBadRequest, "No case ID provided")
		return
	}

	pc, ok := findCase(req.CaseID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Case ID '%s' not found.", req.CaseID))
		return
	}

	chat, err := model.StartChat(r.Context(), pc.SimulationPrompt())
	if err != nil {
		log.Printf("DEBUG: handleStart - error seeding chat for case %s: %v", pc.ID, err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Server error starting session: %v", err))
		return
	}

	sessionID := uuid.NewString()
	// Arrival time = when the triage session starts.
	arrivalTime := time.Now().Format("03:04:05 PM")

	registry.Put(&liveSession{
		ID:          sessionID,
		CaseID:      pc.ID,
		PatientName: pc.Name,
		ESIGoal:     pc.ESILevel,
		Score:       0,
		ArrivalTime: arrivalTime,
		Chat:        chat,
	})

	rec := SessionRecord{
		SessionID:   sessionID,
		CaseID:      pc.ID,
		PatientName: pc.Name,
		ESIGoal:     pc.ESILevel,
		Score:       0,
		ArrivalTime: arrivalTime,
		CreatedAt:   time.Now().Unix(),
	}
	if err := sessionDB.SaveSession(r.Context(), rec); err != nil {
		log.Printf("DEBUG: handleStart - error persisting session %s: %v", sessionID, err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Server error starting session: %v", err))
		return
	}

	addOwnedSession(w, r, sessionID)

	writeJSON(w, http.StatusOK, StartResponse{
		SessionID:      sessionID,
		PatientText:    pc.InitialLine,
		CaseID:         pc.ID,
		PatientName:    pc.Name,
		ESIGoal:        pc.ESILevel,
		InitialScore:   0,
		Age:            pc.Age,
		Sex:            pc.Sex,
		ArrivalTime:    arrivalTime,
		ChiefComplaint: pc.ChiefComplaint,
	})
}

// handleTriage forwards one student message to the patient simulation,
// splits the hidden scoring block out of the reply, and records the turn.
func handleTriage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req TriageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, ok := registry.Get(req.SessionID)
	if !ok || !ownsSession(r, req.SessionID) {
		writeError(w, http.StatusNotFound, "Invalid or expired session ID")
		return
	}

	raw, err := sess.Chat.Send(r.Context(), req.Message)
	if err != nil {
		log.Printf("Error during triage turn for session %s: %v", req.SessionID, err)
		writeError(w, http.StatusInternalServerError, "An internal error occurred during the conversation turn.")
		return
	}

	patientText, newScore, clueStatus := parseModelReply(raw, sess.Score)
	registry.SetScore(req.SessionID, newScore)

	turn := TurnRecord{
		StudentMessage: req.Message,
		PatientMessage: patientText,
		Score:          newScore,
		Feedback:       clueStatus,
		CreatedAt:      time.Now().Unix(),
	}
	if err := sessionDB.RecordTurn(r.Context(), req.SessionID, turn); err != nil {
		log.Printf("DEBUG: handleTriage - error recording turn for session %s: %v", req.SessionID, err)
	}

	writeJSON(w, http.StatusOK, TriageResponse{
		PatientText:      patientText,
		CurrentScore:     newScore,
		RealTimeFeedback: clueStatus,
	})
}

// handleSessionReport serves the persisted record of a past or current
// session: GET /sessions/{id} returns the session plus its turn transcript,
// GET /sessions/ lists all sessions this browser started.
func handleSessionReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if id == "" {
		owned := ownedSessionIDs(r)
		reports := make([]SessionRecord, 0, len(owned))
		for _, sid := range owned {
			rec, err := sessionDB.GetSession(r.Context(), sid)
			if err != nil {
				continue
			}
			reports = append(reports, *rec)
		}
		writeJSON(w, http.StatusOK, reports)
		return
	}

	if !ownsSession(r, id) {
		writeError(w, http.StatusNotFound, "Invalid or expired session ID")
		return
	}

	rec, err := sessionDB.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, errSessionNotFound) {
			writeError(w, http.StatusNotFound, "Invalid or expired session ID")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	turns, err := sessionDB.ListTurns(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SessionReport{Session: *rec, Turns: turns})
}
