// Package tui is the terminal editor: the active document as numbered
// lines, an instruction prompt, and the assistant's last answer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quillmate/quillmate-cli/pkg/assistant"
	"github.com/quillmate/quillmate-cli/pkg/files"
	"github.com/quillmate/quillmate-cli/pkg/intent"
	"github.com/quillmate/quillmate-cli/pkg/logging"
	"github.com/quillmate/quillmate-cli/pkg/session"
	"github.com/quillmate/quillmate-cli/pkg/watch"
)

// Options configures the editor.
type Options struct {
	Files *files.Store
	// Model names the model used for the token budget in the status bar.
	Model string
	// EditorCmd builds the external editor command for ctrl+e. Nil
	// disables it.
	EditorCmd func(path string) *exec.Cmd
	Logger    *slog.Logger
}

// StatusMsg sets the status line.
type StatusMsg string

type errorMsg struct{ err error }

type linesChangedMsg struct{}

type chatDoneMsg struct {
	reply *session.Reply
	err   error
}

type enhanceDoneMsg struct {
	resp *assistant.EnhanceResponse
	err  error
}

type editorClosedMsg struct{ err error }

type externalChangeMsg struct{ events []watch.Event }

// App is the root bubbletea model.
type App struct {
	ctx    context.Context
	sess   *session.Session
	opts   Options
	logger *slog.Logger

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	confirm  *ConfirmationModel

	width  int
	height int

	selection session.Selection
	busy      bool
	reply     string
	status    string
	statusErr bool
}

// NewApp creates the model for an already opened session.
func NewApp(ctx context.Context, sess *session.Session, opts Options) *App {
	input := textinput.New()
	input.Placeholder = "Ask the assistant, or /help"
	input.Prompt = "> "
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AIMarkerStyle

	a := &App{
		ctx:      ctx,
		sess:     sess,
		opts:     opts,
		logger:   logging.OrDiscard(opts.Logger),
		viewport: viewport.New(80, 20),
		input:    input,
		spinner:  sp,
		confirm:  NewConfirmation(),
	}
	a.refreshContent()
	return a
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case tea.KeyMsg:
		if a.confirm.Active() {
			return a, a.confirm.Update(msg)
		}
		return a, a.handleKey(msg)

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case StatusMsg:
		a.setStatus(string(msg), false)
		return a, nil

	case errorMsg:
		a.setStatus(msg.err.Error(), true)
		return a, nil

	case linesChangedMsg:
		a.refreshContent()
		return a, nil

	case chatDoneMsg:
		a.finishChat(msg)
		return a, nil

	case enhanceDoneMsg:
		a.busy = false
		if msg.err != nil {
			a.setStatus(a.errorText(msg.err), true)
		} else {
			a.reply = msg.resp.Explanation
			a.selection = session.Selection{}
			a.setStatus("Selection enhanced", false)
		}
		a.refreshContent()
		return a, nil

	case editorClosedMsg:
		if msg.err != nil {
			a.setStatus(fmt.Sprintf("Editor failed: %v", msg.err), true)
			return a, nil
		}
		if err := a.sess.Open(a.sess.Path()); err != nil {
			a.setStatus(fmt.Sprintf("Failed to reload: %v", err), true)
			return a, nil
		}
		a.refreshContent()
		a.setStatus("Reloaded "+a.sess.Filename(), false)
		return a, nil

	case externalChangeMsg:
		if a.sess.HandleExternalChanges(msg.events) {
			a.refreshContent()
			a.setStatus("Reloaded "+a.sess.Filename()+" after an external change", false)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		if a.busy {
			a.confirm.Show("A request is still running. Quit anyway?", true,
				func() tea.Cmd { return tea.Quit }, nil)
			return nil
		}
		return tea.Quit

	case "ctrl+s":
		if err := a.sess.Save(); err != nil {
			a.setStatus(fmt.Sprintf("Save failed: %v", err), true)
		} else {
			a.setStatus("Saved "+a.sess.Filename(), false)
		}
		return nil

	case "ctrl+r":
		renamed, err := a.sess.RenameFromTitle()
		if err != nil {
			a.setStatus(fmt.Sprintf("Rename failed: %v", err), true)
		} else {
			a.setStatus("Renamed to "+renamed, false)
		}
		return nil

	case "ctrl+y":
		if err := clipboard.WriteAll(a.sess.Editor().Text()); err != nil {
			a.setStatus(fmt.Sprintf("Failed to copy: %v", err), true)
		} else {
			a.setStatus("Copied document text to clipboard", false)
		}
		return nil

	case "ctrl+e":
		return a.openExternalEditor()

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return cmd

	case "enter":
		if a.busy {
			return nil
		}
		text := strings.TrimSpace(a.input.Value())
		if text == "" {
			return nil
		}
		a.input.Reset()
		if strings.HasPrefix(text, "/") {
			return a.runCommand(text)
		}
		return a.startChat(text)
	}

	if a.busy {
		return nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return cmd
}

// runCommand handles the slash commands typed into the prompt.
func (a *App) runCommand(text string) tea.Cmd {
	name, arg, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "select", "sel":
		sel, err := parseSelection(arg, len(a.sess.Lines()))
		if err != nil {
			a.setStatus(err.Error(), true)
			return nil
		}
		a.selection = sel
		a.refreshContent()
		a.setStatus(fmt.Sprintf("Selected lines %d-%d", sel.From, sel.To), false)
	case "clear":
		a.selection = session.Selection{}
		a.refreshContent()
		a.setStatus("Selection cleared", false)
	case "enhance":
		if arg == "" {
			a.setStatus("Usage: /enhance <instruction>", true)
			return nil
		}
		return a.startEnhance(arg)
	case "open":
		if err := a.sess.Open(arg); err != nil {
			a.setStatus(fmt.Sprintf("Failed to open %s: %v", arg, err), true)
			return nil
		}
		a.selection = session.Selection{}
		a.reply = ""
		a.refreshContent()
		a.setStatus("Opened "+a.sess.Filename(), false)
	case "help":
		a.reply = "/select N[-M]  /clear  /enhance <instruction>  /open <path>  " +
			"ctrl+s save  ctrl+r rename from title  ctrl+y copy  ctrl+e $EDITOR  esc quit"
	default:
		a.setStatus("Unknown command: /"+name, true)
	}
	return nil
}

func (a *App) startChat(message string) tea.Cmd {
	a.busy = true
	a.setStatus("Thinking...", false)
	sel := a.selection
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		reply, err := a.sess.Chat(a.ctx, message, sel)
		return chatDoneMsg{reply: reply, err: err}
	})
}

func (a *App) startEnhance(prompt string) tea.Cmd {
	if a.selection.Empty() {
		a.setStatus("Select lines first with /select N-M", true)
		return nil
	}
	a.busy = true
	a.setStatus("Enhancing...", false)
	sel := a.selection
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		resp, err := a.sess.EnhanceSelection(a.ctx, sel, prompt)
		return enhanceDoneMsg{resp: resp, err: err}
	})
}

func (a *App) finishChat(msg chatDoneMsg) {
	a.busy = false
	if msg.err != nil {
		a.setStatus(a.errorText(msg.err), true)
		return
	}

	resp := msg.reply.Response
	a.reply = resp.Message
	switch {
	case resp.Error:
		a.setStatus("The assistant could not apply that", true)
	case msg.reply.Opened != "":
		a.selection = session.Selection{}
		a.setStatus("Opened generated "+msg.reply.Opened, false)
	case msg.reply.Mutated:
		a.selection = session.Selection{}
		a.setStatus("Document updated", false)
	default:
		a.setStatus("", false)
	}
	a.refreshContent()
}

func (a *App) errorText(err error) string {
	if errors.Is(err, session.ErrBusy) {
		return err.Error()
	}
	a.logger.Error("assistant request failed", "error", err)
	return assistant.UserMessage(err)
}

func (a *App) openExternalEditor() tea.Cmd {
	if a.opts.EditorCmd == nil || a.opts.Files == nil {
		a.setStatus("No external editor configured", true)
		return nil
	}
	if err := a.sess.Save(); err != nil {
		a.setStatus(fmt.Sprintf("Save failed: %v", err), true)
		return nil
	}
	abs, err := a.opts.Files.Abs(a.sess.Path())
	if err != nil {
		a.setStatus(err.Error(), true)
		return nil
	}
	return tea.ExecProcess(a.opts.EditorCmd(abs), func(err error) tea.Msg {
		return editorClosedMsg{err: err}
	})
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

func parseSelection(spec string, total int) (session.Selection, error) {
	from, to, err := intent.ParseRange(spec)
	if err != nil {
		return session.Selection{}, fmt.Errorf("usage: /select N or /select N-M")
	}
	if to > total {
		return session.Selection{}, fmt.Errorf("no lines %d-%d in a %d-line document", from, to, total)
	}
	return session.Selection{From: from, To: to}, nil
}

// Run opens the editor full screen until the user quits or ctx ends.
// When the options carry a store, on-disk edits to the open document are
// picked up while it runs.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	app := NewApp(ctx, sess, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	// Send blocks until the program reads the message; never block the
	// session's update path on it.
	unsubscribe := sess.Subscribe(func() { go p.Send(linesChangedMsg{}) })
	defer unsubscribe()

	if opts.Files != nil {
		w, err := watch.New(opts.Files.Root(), func(events []watch.Event) {
			p.Send(externalChangeMsg{events: events})
		}, watch.Options{Logger: opts.Logger})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
