package main

import (
	"log"
	"net/http"
)

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	log.Printf("DEBUG: handleIndex called - Method: %s, URL: %s", r.Method, r.URL.Path)

	summaries := make([]CaseSummary, 0, len(patientCases))
	for _, c := range patientCases {
		summaries = append(summaries, CaseSummary{
			ID:        c.ID,
			Name:      c.Name,
			Complaint: truncateComplaint(c.ChiefComplaint),
		})
	}

	executeTemplate(w, "index.html", IndexPageData{
		Title: "Triage Companion",
		Cases: summaries,
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		App:    "triage-companion",
		Status: "ok",
		Debug:  debugMode,
	})
}
