package input

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the upload ceiling.
const MaxFileSize = 10 << 20

// SupportedTypes maps accepted MIME types to the extensions shown in
// validation messages. Any other image/* subtype is also accepted.
var SupportedTypes = map[string]string{
	"application/pdf": ".pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/msword": ".doc",
	"image/jpeg":         ".jpg, .jpeg",
	"image/png":          ".png",
	"image/webp":         ".webp",
	"image/heic":         ".heic",
}

// extensionTypes resolves a MIME type from the file extension. stdlib
// mime.TypeByExtension depends on the host's mime database, which rarely
// knows the office types; an explicit table keeps validation deterministic.
var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// ValidationError rejects an upload with a human-readable reason. It never
// affects an operation already in flight.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// UploadedFile is an immutable snapshot of a selected resume file. It is
// replaced wholesale on re-upload and discarded after a successful send or a
// cancel. ExtractedText is populated for word-processor documents only.
type UploadedFile struct {
	Name          string
	MIMEType      string
	DataURL       string
	ExtractedText string
}

// Base64Payload returns the raw base64 content with the data-URL prefix
// stripped, the form both the model API and the webhook expect.
func (f *UploadedFile) Base64Payload() string {
	if idx := strings.Index(f.DataURL, ","); idx != -1 {
		return f.DataURL[idx+1:]
	}
	return f.DataURL
}

// IsWordDocument reports whether the file is a word-processor document that
// needs local text extraction.
func (f *UploadedFile) IsWordDocument() bool {
	return IsWordDocument(f.Name, f.MIMEType)
}

// IsImage reports whether the file carries any image subtype.
func (f *UploadedFile) IsImage() bool {
	return strings.HasPrefix(f.MIMEType, "image/")
}

// Validate is the pure admission check: the MIME type must be in the
// supported set or an image subtype, and the size must not exceed the
// ceiling.
func Validate(name, mimeType string, size int64) error {
	supported := strings.HasPrefix(mimeType, "image/")
	if !supported {
		_, supported = SupportedTypes[mimeType]
	}

	if !supported {
		return &ValidationError{Reason: fmt.Sprintf(
			"unsupported file format %q; accepted: %s", mimeType, supportedExtensions(),
		)}
	}

	if size > MaxFileSize {
		return &ValidationError{Reason: fmt.Sprintf(
			"file %q is too large; the maximum size is %dMB", name, MaxFileSize/1024/1024,
		)}
	}

	return nil
}

// Load reads a resume file from disk and prepares it for extraction:
// validate, base64-encode as a data URL and, for word documents, extract the
// plain text locally. On any failure no file is returned and the caller's
// previous state stays untouched.
func Load(path string) (*UploadedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	name := filepath.Base(path)
	mimeType := DetectType(name)

	if err := Validate(name, mimeType, info.Size()); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	file := &UploadedFile{
		Name:     name,
		MIMEType: mimeType,
		DataURL:  DataURL(mimeType, data),
	}

	if file.IsWordDocument() {
		text, err := ExtractWordText(name, data)
		if err != nil {
			return nil, err
		}
		file.ExtractedText = text
	}

	return file, nil
}

// DetectType maps a filename to its MIME type, falling back to a generic
// binary type for unknown extensions so validation can reject them with a
// clear reason.
func DetectType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mimeType, ok := extensionTypes[ext]; ok {
		return mimeType
	}
	return "application/octet-stream"
}

// DataURL encodes file content as a base64 data-URL string.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsWordDocument matches word-processor files by MIME type or extension, the
// same way the upload surface does.
func IsWordDocument(name, mimeType string) bool {
	if strings.Contains(mimeType, "word") {
		return true
	}
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".docx") || strings.HasSuffix(lower, ".doc")
}

func supportedExtensions() string {
	// Stable order for messages and tests.
	order := []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/msword",
		"image/jpeg",
		"image/png",
		"image/webp",
		"image/heic",
	}
	exts := make([]string, 0, len(order))
	for _, mimeType := range order {
		exts = append(exts, SupportedTypes[mimeType])
	}
	return strings.Join(exts, ", ")
}
