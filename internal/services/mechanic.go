package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"pitstop-backend/internal/models"
)

// MechanicService drives token-by-token generation against Gemini. The model
// name is injected from config so the latency/quality tradeoff (pro vs flash)
// is an ops decision, not a code change.
type MechanicService struct {
	client    *genai.Client
	modelName string
	rateChan  chan struct{} // Token bucket
}

func NewMechanicService(apiKey, modelName string, concurrentReqs int) (*MechanicService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &MechanicService{
		client:    client,
		modelName: modelName,
		rateChan:  rateChan,
	}, nil
}

func (s *MechanicService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *MechanicService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *MechanicService) releaseRate() {
	s.rateChan <- struct{}{}
}

// StreamChat runs one generation turn. history is oldest-first and must end
// with the pending user message. onChunk is invoked for every text fragment
// as it arrives; returning an error from it aborts the stream. The full
// assembled reply is returned once generation completes so the caller can
// hand it to persistence.
func (s *MechanicService) StreamChat(ctx context.Context, systemPrompt string, history []models.ChatMessage, onChunk func(text string) error) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("empty message history")
	}

	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(0.7)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	session := model.StartChat()
	session.History = buildHistory(history[:len(history)-1])

	var full strings.Builder
	iter := session.SendMessageStream(ctx, genai.Text(history[len(history)-1].Content))
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("generation stream: %w", err)
		}

		chunk := extractText(resp)
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if err := onChunk(chunk); err != nil {
			return full.String(), fmt.Errorf("forward chunk: %w", err)
		}
	}

	return full.String(), nil
}

// buildHistory converts client wire turns into Gemini content. Gemini calls
// the assistant role "model".
func buildHistory(turns []models.ChatMessage) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		role := "user"
		if turn.Role == "assistant" {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}
	return history
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
