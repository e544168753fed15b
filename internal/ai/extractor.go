package ai

import (
	"context"

	"github.com/EIV-Education/cvtohireteacher/internal/cv"
	"github.com/EIV-Education/cvtohireteacher/internal/input"
)

// Extractor turns resume content into a structured record using an
// extraction template.
type Extractor interface {
	Extract(ctx context.Context, template, text string, file *input.UploadedFile) (*cv.Record, error)
}
