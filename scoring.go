package main

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	scoringOpenTag  = "<SCORING_DATA>"
	scoringCloseTag = "</SCORING_DATA>"

	feedbackAwaiting  = "Awaiting key finding..."
	feedbackReceived  = "Feedback received."
	feedbackBroken = "Error processing AI feedback (JSON format broken)."
)

var (
	scoringBlockRe   = regexp.MustCompile(`(?s)` + scoringOpenTag + `\s*(\{.*?\})\s*` + scoringCloseTag)
	bracketedTextRe  = regexp.MustCompile(`\s*[\(\[\{<][^\)\]\}>]*[\)\]\}>]\s*`)
	whitespaceRunsRe = regexp.MustCompile(`\s{2,}`)
)

type scoringData struct {
	ScoreUpdate   *int   `json:"score_update"`
	HotClueStatus string `json:"hot_clue_status"`
}

// parseModelReply splits a raw model reply into the conversational patient
// text and the hidden scoring block. A missing block leaves the score
// unchanged; a malformed block additionally flags the feedback so the UI can
// show that scoring broke rather than silently stalling.
func parseModelReply(raw string, currentScore int) (patientText string, newScore int, clueStatus string) {
	patientText = strings.TrimSpace(strings.SplitN(raw, scoringOpenTag, 2)[0])
	newScore = currentScore
	clueStatus = feedbackAwaiting

	m := scoringBlockRe.FindStringSubmatch(raw)
	if m == nil {
		return patientText, newScore, clueStatus
	}

	var data scoringData
	if err := json.Unmarshal([]byte(m[1]), &data); err != nil {
		return patientText, newScore, feedbackBroken
	}

	if data.ScoreUpdate != nil {
		newScore = *data.ScoreUpdate
	}
	if data.HotClueStatus != "" {
		clueStatus = data.HotClueStatus
	} else {
		clueStatus = feedbackReceived
	}
	return patientText, newScore, clueStatus
}

// removeBracketedText strips stage directions in (), [], {} or <> before
// text is sent to speech synthesis.
func removeBracketedText(s string) string {
	out := bracketedTextRe.ReplaceAllString(s, " ")
	out = whitespaceRunsRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
