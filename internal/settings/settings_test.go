package settings

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/EIV-Education/cvtohireteacher/internal/cv"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "settings.json"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return store
}

func TestLoadReturnsDefaultsWhenFileMissing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loaded.WebhookURL != DefaultWebhookURL {
		t.Fatalf("unexpected webhook url: %q", loaded.WebhookURL)
	}

	if !loaded.Enabled {
		t.Fatal("defaults must have sync enabled")
	}

	if loaded.Template != cv.DefaultTemplate {
		t.Fatal("defaults must carry the built-in template")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	edited := &Settings{
		WebhookURL: "https://example.com/webhook",
		Enabled:    false,
		Template:   "custom template {\"full_name\": \"A\"}",
	}

	if err := store.Save(edited); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.WebhookURL != edited.WebhookURL || loaded.Enabled != edited.Enabled || loaded.Template != edited.Template {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestLoadRestoresDefaultTemplateWhenBlank(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if err := store.Save(&Settings{WebhookURL: "https://example.com", Enabled: true}); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Template != cv.DefaultTemplate {
		t.Fatal("blank template must fall back to the default")
	}
}

func TestSyncConfigured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings Settings
		expect   bool
	}{
		{name: "configured", settings: Settings{WebhookURL: "https://example.com", Enabled: true}, expect: true},
		{name: "disabled", settings: Settings{WebhookURL: "https://example.com", Enabled: false}, expect: false},
		{name: "blank url", settings: Settings{WebhookURL: "   ", Enabled: true}, expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.settings.SyncConfigured(); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestNewStoreDefaultsToUserConfigDir(t *testing.T) {
	store, err := NewStore("")
	if err != nil {
		t.Skipf("no user config dir available: %v", err)
	}

	if !strings.Contains(store.Path(), "cvtohireteacher") {
		t.Fatalf("unexpected default path: %q", store.Path())
	}
}
