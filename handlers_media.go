package main

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// Upload cap sits well above the inline/Files API threshold so large
// recordings still reach the upload path.
const maxAudioUpload = 64 << 20

// handleTranscribeAudio accepts a multipart form with a session_id field and
// an audio file, and returns the model's transcription of the recording.
func handleTranscribeAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	sessionID := r.FormValue("session_id")
	if _, ok := registry.Get(sessionID); !ok || !ownsSession(r, sessionID) {
		writeError(w, http.StatusNotFound, "Invalid or expired session ID")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No audio file uploaded")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read audio upload")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "audio/wav"
	}

	transcript, err := model.Transcribe(r.Context(), audio, mimeType)
	if err != nil {
		log.Printf("DEBUG: handleTranscribeAudio - error for session %s: %v", sessionID, err)
		writeError(w, http.StatusInternalServerError, "Error during transcription: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, TranscribeResponse{Transcript: transcript})
}

// handleSynthesizeSpeech converts patient text into speech and returns
// base64 WAV audio. Bracketed stage directions are stripped before the text
// reaches the TTS model.
func handleSynthesizeSpeech(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text := removeBracketedText(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "No text provided")
		return
	}

	pcm, err := model.Synthesize(r.Context(), text)
	if err != nil {
		log.Printf("TTS error: %v", err)
		writeError(w, http.StatusInternalServerError, "TTS synthesis failed: "+err.Error())
		return
	}

	wav := wrapPCMInWAV(pcm)
	writeJSON(w, http.StatusOK, SynthesizeResponse{
		AudioBase64: base64.StdEncoding.EncodeToString(wav),
		MimeType:    "audio/wav",
	})
}
