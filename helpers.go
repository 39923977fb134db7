package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

func executeTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	if err := tpl.ExecuteTemplate(w, templateName, data); err != nil {
		log.Printf("Template execution error for %s: %v", templateName, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("DEBUG: writeJSON - encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// Cookie session bookkeeping. The browser session remembers which triage
// sessions it started; endpoints that mutate a session check membership so
// one browser cannot drive another's conversation.

func ownedSessionIDs(r *http.Request) []string {
	session, _ := store.Get(r, sessionName)
	raw, _ := session.Values["owned"].(string)
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func addOwnedSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, _ := store.Get(r, sessionName)
	raw, _ := session.Values["owned"].(string)
	if raw == "" {
		raw = sessionID
	} else {
		raw += "," + sessionID
	}
	session.Values["owned"] = raw
	if err := session.Save(r, w); err != nil {
		log.Printf("DEBUG: addOwnedSession - save error: %v", err)
	}
}

func ownsSession(r *http.Request, sessionID string) bool {
	for _, id := range ownedSessionIDs(r) {
		if id == sessionID {
			return true
		}
	}
	return false
}
