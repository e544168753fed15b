package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/EIV-Education/cvtohireteacher/internal/ai"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeModels struct {
	mu    sync.Mutex
	calls []modelCall
	queue []fakeResponse
}

type modelCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, modelCall{model: model, contents: contents, config: config})
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestGenerator(models *fakeModels) *Generator {
	return &Generator{
		models:      models,
		model:       "gemini-pro",
		maxAttempts: 2,
		logger:      zap.NewNop(),
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(textResponse("retry ok"), nil)

	g := newTestGenerator(models)

	output, err := g.GenerateContent(context.Background(), "system", "message", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}

	for _, call := range models.calls {
		if call.config == nil || call.config.SystemInstruction == nil {
			t.Fatal("expected system instruction to be set")
		}
		if got := call.config.SystemInstruction.Parts[0].Text; got != "system" {
			t.Fatalf("unexpected system instruction: %q", got)
		}
		if call.config.ResponseMIMEType != "application/json" {
			t.Fatalf("unexpected response mime type: %q", call.config.ResponseMIMEType)
		}
		if call.config.Temperature == nil || *call.config.Temperature != 0.1 {
			t.Fatalf("unexpected temperature: %v", call.config.Temperature)
		}
		if len(call.contents) != 1 || len(call.contents[0].Parts) != 1 {
			t.Fatalf("unexpected contents shape: %+v", call.contents)
		}
		if got := call.contents[0].Parts[0].Text; got != "message" {
			t.Fatalf("unexpected prompt part: %q", got)
		}
	}
}

func TestGeneratorDoesNotRetryOnAuthError(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusUnauthorized, Status: "UNAUTHENTICATED"})

	g := newTestGenerator(models)

	if _, err := g.GenerateContent(context.Background(), "sys", "msg", nil); err == nil {
		t.Fatal("expected error for auth failure")
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestGeneratorDoesNotRetryOnBadRequest(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	g := newTestGenerator(models)

	if _, err := g.GenerateContent(context.Background(), "sys", "msg", nil); err == nil {
		t.Fatal("expected error for bad request")
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestGeneratorRetriesEmptyResponseThenSurfacesIt(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	models := &fakeModels{}
	models.enqueue(textResponse(""), nil)
	models.enqueue(textResponse(""), nil)

	g := newTestGenerator(models)

	_, err := g.GenerateContent(context.Background(), "sys", "msg", nil)
	if !errors.Is(err, ai.ErrEmptyResult) {
		t.Fatalf("expected empty result error, got %v", err)
	}

	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestGeneratorPlacesInlinePartAheadOfText(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(textResponse("ok"), nil)

	g := newTestGenerator(models)

	inline := &InlineData{MIMEType: "application/pdf", Data: []byte{0x25, 0x50, 0x44, 0x46}}
	if _, err := g.GenerateContent(context.Background(), "sys", "msg", inline); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := models.calls[0].contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}

	if parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "application/pdf" {
		t.Fatalf("expected inline part first, got %+v", parts[0])
	}

	if parts[1].Text != "msg" {
		t.Fatalf("expected text part second, got %+v", parts[1])
	}
}
