package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/EIV-Education/cvtohireteacher/internal/ai"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-3-flash-preview"

	// defaultMaxAttempts allows exactly one retry of a failed call.
	defaultMaxAttempts = 2
	retryDelay         = 2 * time.Second
)

var sleep = time.Sleep

// nonRetryable lists HTTP status codes that are never retried: bad requests
// will not improve on a second attempt and auth failures need operator action.
var nonRetryable = map[int]bool{
	http.StatusBadRequest:   true,
	http.StatusUnauthorized: true,
}

// modelCaller is the slice of the genai client the generator needs.
type modelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// InlineData carries raw file bytes attached to the request for formats the
// model reads natively.
type InlineData struct {
	MIMEType string
	Data     []byte
}

// Generator wraps the Google GenAI client with the fixed generation settings
// used for resume extraction and a bounded retry loop.
type Generator struct {
	models      modelCaller
	model       string
	maxAttempts int
	logger      *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxAttempts int, logger *zap.Logger) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ai.ErrMissingAPIKey
	}

	cfg := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		models:      client.Models,
		model:       model,
		maxAttempts: maxAttempts,
		logger:      logger,
	}, nil
}

// GenerateContent sends the prompt (and optional inline file part, placed
// ahead of the text) to Gemini and returns the textual response. Extraction
// runs at low temperature with a JSON response format to keep output shape
// stable. Transient failures are retried after a fixed delay; codes in
// nonRetryable surface immediately.
func (g *Generator) GenerateContent(ctx context.Context, system, prompt string, inline *InlineData) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt must not be empty")
	}

	parts := make([]*genai.Part, 0, 2)
	if inline != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: inline.MIMEType,
				Data:     inline.Data,
			},
		})
	}
	parts = append(parts, &genai.Part{Text: prompt})

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: parts,
	}}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
		Temperature:      genai.Ptr[float32](0.1),
		ResponseMIMEType: "application/json",
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
		if err != nil {
			if code, ok := apiErrorCode(err); ok && nonRetryable[code] {
				return "", fmt.Errorf("generate content: %w", err)
			}
			lastErr = err
		} else {
			output := collectText(resp)
			if output != "" {
				return output, nil
			}
			lastErr = ai.ErrEmptyResult
		}

		if attempt < g.maxAttempts {
			g.logger.Debug("retrying gemini call",
				zap.Int("attempt", attempt),
				zap.Duration("delay", retryDelay),
				zap.Error(lastErr),
			)
			sleep(retryDelay)
		}
	}

	if errors.Is(lastErr, ai.ErrEmptyResult) {
		return "", lastErr
	}
	return "", fmt.Errorf("generate content: %w", lastErr)
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	return 0, false
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}
