package recognition

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"
	"flightlog-service/pkg/logger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiRecognizer recognizes scanned flight-report pages using the Gemini
// API. It is the only component that talks to the recognition service; one
// call per document, no retries.
type GeminiRecognizer struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logger.Logger
}

// NewGeminiRecognizer creates a new Gemini-backed recognizer
func NewGeminiRecognizer(ctx context.Context, apiKey, modelName string, logger logger.Logger) (*GeminiRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"

	return &GeminiRecognizer{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Close closes the client connection
func (r *GeminiRecognizer) Close() {
	if r.client != nil {
		r.client.Close()
	}
}

// Recognize sends one scanned page to the model and maps the structured JSON
// answer into a report draft
func (r *GeminiRecognizer) Recognize(ctx context.Context, doc entity.Document) (*entity.ReportDraft, error) {
	mimeType := doc.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}

	resp, err := r.model.GenerateContent(ctx,
		genai.Text(extractionPrompt),
		genai.Blob{MIMEType: mimeType, Data: doc.Data},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var fullText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}

	draft, err := parseDraft(fullText)
	if err != nil {
		r.logger.Warn("Unparseable recognition output", "document", doc.Name, "error", err)
		return nil, err
	}

	return draft, nil
}

var _ repository.Recognizer = (*GeminiRecognizer)(nil)

// parseDraft decodes the model output into a draft. The model is asked for
// bare JSON but sometimes wraps it in a markdown fence anyway.
func parseDraft(raw string) (*entity.ReportDraft, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return nil, fmt.Errorf("recognition output is empty")
	}

	var draft entity.ReportDraft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return nil, fmt.Errorf("failed to decode recognition output: %w", err)
	}

	return &draft, nil
}
