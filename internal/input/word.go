package input

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

// ExtractWordText decodes a word-processor document into raw text. Word
// binaries cannot be sent to the model as inline data, so their text has to
// be recovered locally and substituted into the prompt instead.
func ExtractWordText(name string, data []byte) (string, error) {
	if !strings.HasSuffix(strings.ToLower(name), ".docx") {
		return "", fmt.Errorf("cannot extract text from legacy word document %q; save it as .docx and retry", name)
	}

	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("reading word document %q: %w", name, err)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("word document %q contains no text or has a broken layout", name)
	}

	return text, nil
}
