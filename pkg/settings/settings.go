// Package settings loads and saves the application settings. A Store is
// created once at startup and passed to whatever needs configuration.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

const (
	// FileName is the settings file inside the config directory.
	FileName = "settings.yaml"

	AppDir = "quillmate"
)

// Environment overrides. They apply on top of the persisted values and are
// never written back.
const (
	EnvAPIKey  = "OPENAI_API_KEY"
	EnvModel   = "OPENAI_MODEL"
	EnvBaseURL = "OPENAI_BASE_URL"
	EnvRoot    = "QUILLMATE_ROOT"
	EnvAddr    = "QUILLMATE_ADDR"
)

// DefaultPath returns the settings file location in the user config dir,
// falling back to the working directory.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppDir, FileName)
	}
	return filepath.Join("."+AppDir, FileName)
}

// Store holds the persisted settings and the effective view derived from
// them.
type Store struct {
	mu        sync.RWMutex
	path      string
	persisted *models.Settings
	effective *models.Settings
	lookupEnv func(string) (string, bool)
}

// Option configures a Store.
type Option func(*Store)

// WithEnv overrides how environment variables are looked up.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(s *Store) { s.lookupEnv = lookup }
}

// NewStore creates a store backed by the file at path holding defaults.
// Call Load to read the file.
func NewStore(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultPath()
	}
	s := &Store{
		path:      path,
		persisted: models.DefaultSettings(),
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.effective = s.derive(s.persisted)
	return s
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. Values present in the file replace the
// defaults key by key; a missing file leaves the defaults in place.
func (s *Store) Load() (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := models.DefaultSettings()
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read settings: %w", err)
	default:
		if err := yaml.Unmarshal(data, loaded); err != nil {
			return nil, fmt.Errorf("failed to parse settings: %w", err)
		}
	}

	normalize(loaded)
	s.persisted = loaded
	s.effective = s.derive(loaded)
	return clone(s.effective), nil
}

// Get returns a copy of the effective settings.
func (s *Store) Get() *models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.effective)
}

// Persisted returns a copy of the settings as stored on disk, without
// environment overrides.
func (s *Store) Persisted() *models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.persisted)
}

// Update applies fn to the persisted settings and saves them.
func (s *Store) Update(fn func(*models.Settings)) (*models.Settings, error) {
	s.mu.Lock()
	next := clone(s.persisted)
	fn(next)
	normalize(next)
	s.persisted = next
	s.effective = s.derive(next)
	out := clone(s.effective)
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save writes the persisted settings to disk atomically.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(s.persisted)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// The file may hold an API key.
	tmpFile := s.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmpFile, s.path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *Store) derive(base *models.Settings) *models.Settings {
	out := clone(base)
	if v, ok := s.lookupEnv(EnvAPIKey); ok && v != "" {
		out.API.OpenAI.APIKey = v
	}
	if v, ok := s.lookupEnv(EnvModel); ok && v != "" {
		out.API.OpenAI.SelectedModel = v
	}
	if v, ok := s.lookupEnv(EnvBaseURL); ok && v != "" {
		out.API.OpenAI.BaseURL = v
	}
	if v, ok := s.lookupEnv(EnvRoot); ok && v != "" {
		out.Files.Root = v
	}
	if v, ok := s.lookupEnv(EnvAddr); ok && v != "" {
		out.Server.Addr = v
	}
	return out
}

// normalize replaces unusable values with defaults.
func normalize(st *models.Settings) {
	def := models.DefaultSettings()

	if st.Editor.Spacing != models.SpacingPreserve && st.Editor.Spacing != models.SpacingNone {
		st.Editor.Spacing = def.Editor.Spacing
	}
	if st.Editor.AutosaveDelay <= 0 {
		st.Editor.AutosaveDelay = def.Editor.AutosaveDelay
	}
	if st.Editor.RefreshDelay <= 0 {
		st.Editor.RefreshDelay = def.Editor.RefreshDelay
	}
	if st.API.OpenAI.Timeout <= 0 {
		st.API.OpenAI.Timeout = def.API.OpenAI.Timeout
	}
	if st.API.OpenAI.RequestsPerMinute < 0 {
		st.API.OpenAI.RequestsPerMinute = 0
	}
	if len(st.API.OpenAI.Models) == 0 {
		st.API.OpenAI.Models = def.API.OpenAI.Models
	}
	if st.API.OpenAI.SelectedModel == "" {
		st.API.OpenAI.SelectedModel = st.API.OpenAI.Models[0]
	}
	if st.Files.Root == "" {
		st.Files.Root = def.Files.Root
	}
	if st.Server.Addr == "" {
		st.Server.Addr = def.Server.Addr
	}
	if st.Logging.Level == "" {
		st.Logging.Level = def.Logging.Level
	}
}

func clone(st *models.Settings) *models.Settings {
	out := *st
	out.API.OpenAI.Models = append([]string(nil), st.API.OpenAI.Models...)
	return &out
}

// Redacted returns a copy safe to display: the API key is masked.
func Redacted(st *models.Settings) *models.Settings {
	out := clone(st)
	out.API.OpenAI.APIKey = MaskKey(out.API.OpenAI.APIKey)
	return out
}

// MaskKey hides all but the last four characters of a secret.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
