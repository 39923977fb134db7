package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const (
	chatModelName = "gemini-2.5-flash"
	ttsModelName  = "gemini-2.5-flash-preview-tts"
	ttsVoiceName  = "Kore"

	// Audio payloads above this size go through the Files API instead of
	// being inlined into the request.
	inlineAudioLimit = 20 << 20
)

// PatientChat is one ongoing conversation with a simulated patient.
type PatientChat interface {
	Send(ctx context.Context, message string) (string, error)
}

// ModelClient is the seam between the handlers and the generative model.
// The production implementation talks to Gemini; tests and offline runs use
// fakeModelClient.
type ModelClient interface {
	// StartChat opens a new conversation seeded with the case's simulation
	// prompt. The seeding reply is discarded; the case's scripted initial
	// line is what the student sees first.
	StartChat(ctx context.Context, prompt string) (PatientChat, error)
	// Transcribe converts a recorded triage question to text.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
	// Synthesize renders patient text as raw PCM16 mono audio at 24 kHz.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type geminiClient struct {
	client *genai.Client
}

func newGeminiClient(ctx context.Context, apiKey string) (*geminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiClient{client: c}, nil
}

type geminiChat struct {
	chat *genai.Chat
}

func (g *geminiClient) StartChat(ctx context.Context, prompt string) (PatientChat, error) {
	chat, err := g.client.Chats.Create(ctx, chatModelName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	if _, err := chat.SendMessage(ctx, genai.Part{Text: prompt}); err != nil {
		return nil, fmt.Errorf("seed chat: %w", err)
	}
	return &geminiChat{chat: chat}, nil
}

func (c *geminiChat) Send(ctx context.Context, message string) (string, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty model response")
	}
	return text, nil
}

func (g *geminiClient) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	prompt := "Please transcribe this audio recording of a triage question."

	var audioPart *genai.Part
	if len(audio) > inlineAudioLimit {
		uploaded, err := g.client.Files.Upload(ctx, bytes.NewReader(audio), &genai.UploadFileConfig{
			MIMEType: mimeType,
		})
		if err != nil {
			return "", fmt.Errorf("upload audio: %w", err)
		}
		audioPart = genai.NewPartFromURI(uploaded.URI, uploaded.MIMEType)
	} else {
		audioPart = genai.NewPartFromBytes(audio, mimeType)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			audioPart,
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, chatModelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	transcript := strings.TrimSpace(resp.Text())
	if transcript == "" {
		return "", errors.New("empty transcription response")
	}
	return transcript, nil
}

func (g *geminiClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: ttsVoiceName,
				},
			},
		},
	}
	resp, err := g.client.Models.GenerateContent(ctx, ttsModelName, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, errors.New("no audio data in TTS response")
}

// fakeModelClient is a canned stand-in for Gemini, used by tests and when
// TRIAGE_FAKE_MODEL=1 lets the server run without an API key.
type fakeModelClient struct {
	mu      sync.Mutex
	replies []string

	transcript string
	pcm        []byte

	startErr error
	sendErr  error
	synthErr error
}

func newFakeModelClient() *fakeModelClient {
	return &fakeModelClient{
		transcript: "Does the pain get worse when you move?",
		pcm:        bytes.Repeat([]byte{0x00, 0x7f}, 240),
	}
}

type fakeChat struct {
	parent *fakeModelClient
}

func (f *fakeModelClient) StartChat(ctx context.Context, prompt string) (PatientChat, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &fakeChat{parent: f}, nil
}

func (c *fakeChat) Send(ctx context.Context, message string) (string, error) {
	f := c.parent
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	if len(f.replies) > 0 {
		reply := f.replies[0]
		f.replies = f.replies[1:]
		return reply, nil
	}
	return `It hurts when you press there. <SCORING_DATA> {"score_update": 10, "hot_clue_status": "Probing the right area."} </SCORING_DATA>`, nil
}

func (f *fakeModelClient) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return f.transcript, nil
}

func (f *fakeModelClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if f.synthErr != nil {
		return nil, f.synthErr
	}
	return f.pcm, nil
}
