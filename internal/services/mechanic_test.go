package services

import (
	"testing"

	"github.com/google/generative-ai-go/genai"

	"pitstop-backend/internal/models"
)

func TestBuildHistoryMapsRoles(t *testing.T) {
	turns := []models.ChatMessage{
		{Role: "user", Content: "My brakes squeal"},
		{Role: "assistant", Content: "Could be worn pads"},
		{Role: "user", Content: "How much to replace?"},
	}

	history := buildHistory(turns)
	if len(history) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(history))
	}

	wantRoles := []string{"user", "model", "user"}
	for i, want := range wantRoles {
		if history[i].Role != want {
			t.Errorf("turn %d: role = %q, want %q", i, history[i].Role, want)
		}
	}

	if text, ok := history[1].Parts[0].(genai.Text); !ok || string(text) != "Could be worn pads" {
		t.Errorf("turn 1 content not carried over: %v", history[1].Parts)
	}
}

func TestBuildHistoryEmpty(t *testing.T) {
	if got := buildHistory(nil); len(got) != 0 {
		t.Errorf("expected empty history, got %d entries", len(got))
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("🔧 PitStop"), genai.Text(" Fundi")}}},
		},
	}
	if got := extractText(resp); got != "🔧 PitStop Fundi" {
		t.Errorf("extractText = %q", got)
	}

	empty := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: nil}}}
	if got := extractText(empty); got != "" {
		t.Errorf("expected empty string for nil content, got %q", got)
	}
}
