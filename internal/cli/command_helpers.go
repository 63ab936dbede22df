package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quillmate/quillmate-cli/pkg/assistant"
	"github.com/quillmate/quillmate-cli/pkg/files"
	"github.com/quillmate/quillmate-cli/pkg/llm"
	"github.com/quillmate/quillmate-cli/pkg/logging"
	"github.com/quillmate/quillmate-cli/pkg/models"
	"github.com/quillmate/quillmate-cli/pkg/observability"
	"github.com/quillmate/quillmate-cli/pkg/reconcile"
	"github.com/quillmate/quillmate-cli/pkg/session"
	"github.com/quillmate/quillmate-cli/pkg/settings"
)

// Options carries the global flags that shape a CommandContext.
type Options struct {
	SettingsPath string
	Root         string
	LogLevel     string
	Verbose      bool
}

// CommandContext holds what commands share: settings, the document store,
// logging and metrics.
type CommandContext struct {
	Settings *settings.Store
	Files    *files.Store
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	// Completer, when set, replaces the backend built from settings.
	Completer llm.Completer

	closeLog func() error
}

// NewCommandContext loads settings and opens the document store.
func NewCommandContext(opts Options) (*CommandContext, error) {
	store := settings.NewStore(opts.SettingsPath)
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, closeLog, err := logging.New(logging.Config{
		Level:   level,
		JSON:    cfg.Logging.JSON,
		Dir:     cfg.Logging.Dir,
		Service: "quillmate",
		Quiet:   !opts.Verbose,
	})
	if err != nil {
		return nil, err
	}

	root := cfg.Files.Root
	if opts.Root != "" {
		root = opts.Root
	}
	docs, err := files.NewStore(root)
	if err != nil {
		closeLog()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	return &CommandContext{
		Settings: store,
		Files:    docs,
		Logger:   logger,
		Metrics:  observability.NewMetrics(reg),
		Registry: reg,
		closeLog: closeLog,
	}, nil
}

// Close flushes the log file.
func (c *CommandContext) Close() error {
	if c.closeLog == nil {
		return nil
	}
	return c.closeLog()
}

// NewAssistant builds an assistant from the given settings.
func (c *CommandContext) NewAssistant(cfg *models.Settings) *assistant.Assistant {
	completer := c.Completer
	if completer == nil {
		completer = llm.New(llm.ConfigFromSettings(cfg.API.OpenAI), c.Logger)
	}
	return assistant.New(completer,
		assistant.WithReconciler(reconcile.New(reconcile.WithSpacing(cfg.Editor.Spacing))),
		assistant.WithMetrics(c.Metrics),
		assistant.WithLogger(c.Logger),
		assistant.WithModel(cfg.API.OpenAI.SelectedModel))
}

// NewSession builds a session over the store with the current settings.
func (c *CommandContext) NewSession() *session.Session {
	cfg := c.Settings.Get()
	return session.New(session.Config{
		Store:         c.Files,
		Assistant:     c.NewAssistant(cfg),
		RefreshDelay:  cfg.Editor.RefreshDelay,
		AutosaveDelay: cfg.Editor.AutosaveDelay,
		Metrics:       c.Metrics,
		Logger:        c.Logger,
	})
}

// ResolveDocument maps a user reference to a store path. It accepts a
// path with or without the extension, or a display name found anywhere
// in the tree when it is unique.
func (c *CommandContext) ResolveDocument(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("document reference cannot be empty")
	}

	candidates := []string{ref}
	if !strings.HasSuffix(ref, files.Extension) {
		candidates = append(candidates, ref+files.Extension)
	}
	for _, p := range candidates {
		if c.Files.Exists(p) && !c.Files.IsDir(p) {
			return p, nil
		}
	}

	docs, err := c.Files.Documents("")
	if err != nil {
		return "", err
	}
	var matches []string
	for _, doc := range docs {
		if strings.EqualFold(files.DisplayName(path.Base(doc)), ref) {
			matches = append(matches, doc)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("document not found: %s", ref)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("multiple documents named %q: %s", ref, strings.Join(matches, ", "))
}

// EditorLauncher opens files in an external editor.
type EditorLauncher struct {
	Command string
}

// NewEditorLauncher picks the configured editor, then $EDITOR, then vi.
func NewEditorLauncher(configured string) *EditorLauncher {
	editor := configured
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	return &EditorLauncher{Command: editor}
}

// Cmd returns the command that edits file, attached to the terminal.
func (e *EditorLauncher) Cmd(file string) *exec.Cmd {
	parts := strings.Fields(e.Command)
	cmd := exec.Command(parts[0], append(parts[1:], file)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// OpenFile edits file and waits for the editor to exit.
func (e *EditorLauncher) OpenFile(file string) error {
	if err := e.Cmd(file).Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}
