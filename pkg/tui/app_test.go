package tui

import (
	"context"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmate/quillmate-cli/pkg/assistant"
	"github.com/quillmate/quillmate-cli/pkg/files"
	"github.com/quillmate/quillmate-cli/pkg/llm"
	"github.com/quillmate/quillmate-cli/pkg/session"
)

func newTestApp(t *testing.T, replies ...string) (*App, *files.Store) {
	t.Helper()
	store, err := files.NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Write("notes.html", "<p>Hello</p><p>World</p>"))

	sess := session.New(session.Config{
		Store:     store,
		Assistant: assistant.New(llm.NewFake(replies...)),
	})
	t.Cleanup(func() { sess.Close() })
	require.NoError(t, sess.Open("notes.html"))

	app := NewApp(context.Background(), sess, Options{Files: store, Model: "gpt-4o"})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app, store
}

// drain runs cmd and everything it batches, returning the messages that
// are not spinner ticks.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, drain(c)...)
		}
		return out
	case nil:
		return nil
	default:
		if _, tick := msg.(spinner.TickMsg); tick {
			return nil
		}
		return []tea.Msg{msg}
	}
}

func submit(app *App, text string) tea.Cmd {
	app.input.SetValue(text)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestChatAppliesEdit(t *testing.T) {
	app, _ := newTestApp(t, `{"operation":"inline_edit","changes":[{"lineNumber":1,"content":"Hi"}]}`)

	cmd := submit(app, "edit line 1 to be shorter")
	require.NotNil(t, cmd)
	assert.True(t, app.busy)
	assert.Empty(t, app.input.Value())

	done, ok := findMsg[chatDoneMsg](drain(cmd))
	require.True(t, ok)
	require.NoError(t, done.err)

	app.Update(done)
	assert.False(t, app.busy)
	assert.Equal(t, "Document updated", app.status)
	assert.Equal(t, "Hi", app.sess.Lines()[0].Content)
	assert.Contains(t, app.View(), "Hi")
}

func TestChatErrorShowsUserMessage(t *testing.T) {
	app, _ := newTestApp(t)
	app.sess = session.New(session.Config{
		Store:     app.opts.Files,
		Assistant: assistant.New(llm.Unavailable{Err: llm.ErrMissingCredentials}),
	})
	t.Cleanup(func() { app.sess.Close() })
	require.NoError(t, app.sess.Open("notes.html"))

	done, ok := findMsg[chatDoneMsg](drain(submit(app, "summarize this")))
	require.True(t, ok)
	app.Update(done)

	assert.True(t, app.statusErr)
	assert.Equal(t, assistant.UserMessage(llm.ErrMissingCredentials), app.status)
}

func TestEnterIgnoredWhileBusy(t *testing.T) {
	app, _ := newTestApp(t)
	app.busy = true

	cmd := submit(app, "summarize this")

	assert.Nil(t, cmd)
	assert.Equal(t, "summarize this", app.input.Value())
}

func TestSelectCommand(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Nil(t, submit(app, "/select 1-2"))
	assert.Equal(t, session.Selection{From: 1, To: 2}, app.selection)

	submit(app, "/select 5")
	assert.True(t, app.statusErr)
	assert.Equal(t, session.Selection{From: 1, To: 2}, app.selection)

	submit(app, "/clear")
	assert.True(t, app.selection.Empty())
}

func TestEnhanceSelection(t *testing.T) {
	app, _ := newTestApp(t, `{"enhancedText":"Greetings","explanation":"More formal.","changes":[]}`)

	submit(app, "/enhance make it formal")
	assert.True(t, app.statusErr, "enhance needs a selection")

	submit(app, "/select 1")
	cmd := submit(app, "/enhance make it formal")
	require.NotNil(t, cmd)

	done, ok := findMsg[enhanceDoneMsg](drain(cmd))
	require.True(t, ok)
	app.Update(done)

	assert.Equal(t, "More formal.", app.reply)
	assert.Equal(t, "Greetings", app.sess.Lines()[0].Content)
	assert.True(t, app.selection.Empty())
}

func TestSaveShortcut(t *testing.T) {
	app, store := newTestApp(t)
	require.NoError(t, app.sess.SetContent("<p>Changed</p>"))

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, "Saved notes.html", app.status)
	content, err := store.Read("notes.html")
	require.NoError(t, err)
	assert.Equal(t, "<p>Changed</p>", content)
}

func TestQuitConfirmsWhileBusy(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	app.busy = true
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	assert.True(t, app.confirm.Active())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Nil(t, cmd)
	assert.False(t, app.confirm.Active())
}

func TestRenderLinesMarksSelectionAndAI(t *testing.T) {
	app, _ := newTestApp(t)
	lines := app.sess.Lines()
	lines[1].AIEnhanced = true

	out := renderLines(lines, session.Selection{From: 2, To: 2}, 60)

	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "World")
	assert.Contains(t, out, "*")
	assert.Contains(t, renderLines(nil, session.Selection{}, 60), "Empty document")
}

func TestParseSelection(t *testing.T) {
	sel, err := parseSelection("2-3", 4)
	require.NoError(t, err)
	assert.Equal(t, session.Selection{From: 2, To: 3}, sel)

	_, err = parseSelection("abc", 4)
	assert.Error(t, err)
	_, err = parseSelection("3-2", 4)
	assert.Error(t, err)
	_, err = parseSelection("3-9", 4)
	assert.ErrorContains(t, err, "4-line document")
}
