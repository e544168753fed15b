package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/EIV-Education/cvtohireteacher/internal/cv"
)

// DefaultWebhookURL points at the HR team's Lark Base automation webhook.
const DefaultWebhookURL = "https://eiveducation.sg.larksuite.com/base/automation/webhook/event/XczYac0jswZYWehHEcXlXJJQgmc"

const (
	appDir   = "cvtohireteacher"
	fileName = "settings.json"
)

// Settings holds the persisted user configuration: the sync target and the
// extraction template. It is read at the start of each operation, not
// snapshotted.
type Settings struct {
	WebhookURL string `json:"webhookUrl"`
	Enabled    bool   `json:"enabled"`
	Template   string `json:"extraction_template"`
}

// SyncConfigured reports whether a sync target URL is set and enabled.
func (s *Settings) SyncConfigured() bool {
	return s.Enabled && strings.TrimSpace(s.WebhookURL) != ""
}

// Default returns the built-in settings used before any user edit.
func Default() *Settings {
	return &Settings{
		WebhookURL: DefaultWebhookURL,
		Enabled:    true,
		Template:   cv.DefaultTemplate,
	}
}

// Store persists settings as one JSON document. Load is called once per
// operation and Save once per confirmed edit, keeping the I/O out of the
// interactive layer.
type Store struct {
	path string
}

// NewStore creates a store at the given path, or at the default location in
// the user config dir when path is empty.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving user config dir: %w", err)
		}
		path = filepath.Join(base, appDir, fileName)
	}

	return &Store{path: path}, nil
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings document, applying defaults when the file does not
// exist yet or omits a value.
func (s *Store) Load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings file %q: %w", s.path, err)
	}

	loaded := &Settings{}
	if err := json.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing settings file %q: %w", s.path, err)
	}

	if strings.TrimSpace(loaded.Template) == "" {
		loaded.Template = cv.DefaultTemplate
	}

	return loaded, nil
}

// Save writes the whole settings document, creating the directory on first
// use.
func (s *Store) Save(settings *Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing settings file %q: %w", s.path, err)
	}

	return nil
}
