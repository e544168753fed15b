package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/EIV-Education/cvtohireteacher/internal/ai"
	"github.com/EIV-Education/cvtohireteacher/internal/cv"
	"github.com/EIV-Education/cvtohireteacher/internal/input"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
	lastInline *InlineData
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string, inline *InlineData) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	s.lastInline = inline
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestExtractParsesObjectAndIgnoresProse(t *testing.T) {
	stub := &stubGenerator{
		response: "Here is the result you asked for:\n" +
			`{"full_name": "John Doe", "gender": "Male", "certificates": "IELTS 7.5"}` +
			"\nLet me know if you need anything else.",
	}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	record, err := extractor.Extract(context.Background(), cv.DefaultTemplate, "John Doe, male, ielts 7.5", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := record.Get("full_name"); got != "John Doe" {
		t.Fatalf("unexpected full_name: %q", got)
	}

	if got := record.Get("gender"); got != "Male" {
		t.Fatalf("unexpected gender: %q", got)
	}

	if got := record.Get("certificates"); got != "IELTS 7.5" {
		t.Fatalf("unexpected certificates: %q", got)
	}

	if got := record.Get("branch"); got != "" {
		t.Fatalf("missing keys must read as empty, got %q", got)
	}

	if stub.lastSystem == "" {
		t.Fatal("expected a system instruction")
	}

	if !strings.Contains(stub.lastPrompt, "John Doe, male, ielts 7.5") {
		t.Fatalf("prompt must embed the pasted text: %s", stub.lastPrompt)
	}
}

func TestExtractReturnsFormatErrorWithoutJSON(t *testing.T) {
	stub := &stubGenerator{response: "I could not find any structured data, sorry."}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	_, err := extractor.Extract(context.Background(), cv.DefaultTemplate, "some text", nil)

	var formatErr *ai.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected format error, got %v", err)
	}

	if !strings.Contains(formatErr.Error(), "extraction template") {
		t.Fatalf("format error must point at the template: %s", formatErr.Error())
	}
}

func TestParseRecordEmptyObject(t *testing.T) {
	t.Parallel()

	if _, err := ParseRecord("{}"); !errors.Is(err, ai.ErrNoData) {
		t.Fatalf("expected no-data error, got %v", err)
	}
}

func TestParseRecordRejectsNestedValues(t *testing.T) {
	t.Parallel()

	_, err := ParseRecord(`{"full_name": {"first": "John"}}`)

	var formatErr *ai.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected format error for nested values, got %v", err)
	}
}

func TestExtractAttachesInlinePartForSupportedTypes(t *testing.T) {
	stub := &stubGenerator{response: `{"full_name": "Jane"}`}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	file := &input.UploadedFile{
		Name:     "cv.pdf",
		MIMEType: "application/pdf",
		DataURL:  input.DataURL("application/pdf", []byte("%PDF")),
	}

	if _, err := extractor.Extract(context.Background(), cv.DefaultTemplate, "", file); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.lastInline == nil {
		t.Fatal("expected an inline attachment for pdf input")
	}

	if stub.lastInline.MIMEType != "application/pdf" {
		t.Fatalf("unexpected inline mime type: %q", stub.lastInline.MIMEType)
	}

	if string(stub.lastInline.Data) != "%PDF" {
		t.Fatalf("unexpected inline payload: %q", stub.lastInline.Data)
	}

	if !strings.Contains(stub.lastPrompt, "(analyze the attached file below)") {
		t.Fatalf("prompt must carry the attachment placeholder: %s", stub.lastPrompt)
	}
}

func TestExtractNeverAttachesWordDocuments(t *testing.T) {
	stub := &stubGenerator{response: `{"full_name": "Jane"}`}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	file := &input.UploadedFile{
		Name:          "cv.docx",
		MIMEType:      "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		DataURL:       input.DataURL("application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("PK")),
		ExtractedText: "Jane Doe, teacher with five years of experience.",
	}

	if _, err := extractor.Extract(context.Background(), cv.DefaultTemplate, file.ExtractedText, file); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.lastInline != nil {
		t.Fatal("word documents must not be attached as inline data")
	}

	if !strings.Contains(stub.lastPrompt, "TEXT EXTRACTED FROM WORD FILE") {
		t.Fatalf("prompt must embed the extracted word text: %s", stub.lastPrompt)
	}
}

func TestBuildPromptBoundsWordExcerpt(t *testing.T) {
	t.Parallel()

	marker := "END-OF-DOCUMENT-MARKER"
	file := &input.UploadedFile{
		Name:          "cv.docx",
		MIMEType:      "application/msword",
		ExtractedText: strings.Repeat("x", wordExcerptLimit) + marker,
	}

	prompt := buildPrompt(cv.DefaultTemplate, "text", file)

	if strings.Contains(prompt, marker) {
		t.Fatal("word excerpt must be bounded")
	}
}
