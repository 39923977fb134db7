package main

import (
	"context"
	"crypto/rand"
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
)

const (
	sessionName = "triage-companion-session"

	defaultHost = "127.0.0.1"
	defaultPort = "5000"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

var (
	store     *sessions.CookieStore
	tpl       *template.Template
	model     ModelClient
	registry  *sessionRegistry
	sessionDB *sqliteStore
	debugMode bool
)

// Run initializes global state and starts the HTTP server.
func Run() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	debugMode = os.Getenv("DEBUG") != "0"

	ctx := context.Background()
	if os.Getenv("TRIAGE_FAKE_MODEL") == "1" {
		log.Println("TRIAGE_FAKE_MODEL=1: using canned model responses")
		model = newFakeModelClient()
	} else {
		m, err := newGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"))
		if err != nil {
			log.Fatalf("failed to initialize Gemini client: %v", err)
		}
		model = m
	}

	secret := []byte(os.Getenv("SESSION_SECRET"))
	if len(secret) == 0 {
		// Dev server: a random per-process key just invalidates cookies on
		// restart.
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("failed to generate session secret: %v", err)
		}
	}
	store = sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{HttpOnly: true, Secure: false, Path: "/"}

	db, err := NewSQLiteStore(os.Getenv("SESSION_DB_PATH"))
	if err != nil {
		log.Fatalf("failed to initialize SQLite store: %v", err)
	}
	sessionDB = db

	registry = newSessionRegistry()

	tpl = template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))

	addr := listenAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("failed to bind %s: %v", addr, err)
	}

	log.Printf("Starting Triage Companion backend on http://%s (debug=%v)", addr, debugMode)
	log.Fatal(http.Serve(ln, loggingMiddleware(newMux())))
}

func listenAddr() string {
	host := os.Getenv("HOST")
	if host == "" {
		host = defaultHost
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	return net.JoinHostPort(host, port)
}

// newMux wires every route. Split out from Run so handler tests can stand
// up the full surface without binding a port.
func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/start", handleStart)
	mux.HandleFunc("/triage", handleTriage)
	mux.HandleFunc("/transcribe_audio", handleTranscribeAudio)
	mux.HandleFunc("/synthesize_speech", handleSynthesizeSpeech)
	mux.HandleFunc("/sessions/", handleSessionReport)

	subStaticFS, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("failed to prepare static filesystem: %v", err)
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(subStaticFS))))
	return mux
}
