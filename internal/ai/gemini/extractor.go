package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/EIV-Education/cvtohireteacher/internal/ai"
	"github.com/EIV-Education/cvtohireteacher/internal/cv"
	"github.com/EIV-Education/cvtohireteacher/internal/input"
	"github.com/EIV-Education/cvtohireteacher/internal/logger"

	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string, inline *InlineData) (string, error)
}

// systemInstruction fixes the model's role for every extraction call.
const systemInstruction = "You are a recruitment specialist. Your task is to read the CV and extract " +
	"its information into JSON with extreme accuracy. Focus on summarizing the candidate's experience " +
	"professionally for internal reports."

// wordExcerptLimit bounds how much locally extracted word text is embedded in
// the prompt.
const wordExcerptLimit = 10000

const defaultMaxLogLength = 200

// inlineTypes are the MIME types the model accepts as inline binary parts.
// Word documents are absent on purpose: they cause a bad-request response, so
// their locally extracted text goes into the prompt instead.
var inlineTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/heic":      true,
	"image/heif":      true,
}

// Extractor turns resume content into a structured record via the Gemini API.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExtractor(generator contentGenerator, log *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Extractor{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Extract builds the prompt from the extraction template and the resume
// content, calls the model and parses the response into a record.
func (e *Extractor) Extract(ctx context.Context, template, text string, file *input.UploadedFile) (*cv.Record, error) {
	prompt := buildPrompt(template, text, file)

	inline, err := inlinePart(file)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
		zap.Bool("inline_attachment", inline != nil),
	)

	raw, err := e.generator.GenerateContent(ctx, systemInstruction, prompt, inline)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	return ParseRecord(raw)
}

// ParseRecord locates the first JSON object span in the raw response, parses
// and validates it, and decodes it into a record. Surrounding prose is
// ignored.
func ParseRecord(raw string) (*cv.Record, error) {
	span, ok := cv.ObjectSpan(raw)
	if !ok {
		return nil, &ai.FormatError{}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, &ai.FormatError{Cause: err}
	}

	if len(obj) == 0 {
		return nil, ai.ErrNoData
	}

	if err := cv.ValidateObject(obj); err != nil {
		return nil, &ai.FormatError{Cause: err}
	}

	return cv.Decode(obj)
}

func buildPrompt(template, text string, file *input.UploadedFile) string {
	content := strings.TrimSpace(text)
	if content == "" {
		content = "(analyze the attached file below)"
	}

	var b strings.Builder
	b.WriteString("FORMAT REQUIREMENTS:\n")
	b.WriteString(template)
	b.WriteString("\n\nCV DATA (TEXT):\n")
	b.WriteString(content)

	if file != nil && file.ExtractedText != "" {
		b.WriteString("\n\nTEXT EXTRACTED FROM WORD FILE:\n")
		b.WriteString(truncateRunes(file.ExtractedText, wordExcerptLimit))
	}

	return b.String()
}

func inlinePart(file *input.UploadedFile) (*InlineData, error) {
	if file == nil || !inlineTypes[file.MIMEType] {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(file.Base64Payload())
	if err != nil {
		return nil, fmt.Errorf("decode file payload for %q: %w", file.Name, err)
	}

	return &InlineData{MIMEType: file.MIMEType, Data: data}, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
