package commands

import (
	"github.com/spf13/cobra"

	"github.com/quillmate/quillmate-cli/internal/cli"
	"github.com/quillmate/quillmate-cli/pkg/models"
	"github.com/quillmate/quillmate-cli/pkg/tui"
)

var editExternal bool

// NewEditCommand creates the edit command
func NewEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [document]",
		Short: "Open a document in the terminal editor",
		Long: `Open a document full screen with the assistant prompt. Without a
document the most recently modified one is opened, or a new Untitled
document when there is none.

Examples:
  quillmate edit notes/plan

  # Open the HTML in $EDITOR instead
  EDITOR=vim quillmate edit notes/plan --external`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEdit,
	}

	cmd.Flags().BoolVar(&editExternal, "external", false, "Open in the external editor ($EDITOR)")

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx, err := openContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	var rel string
	if len(args) > 0 {
		rel, err = ctx.ResolveDocument(args[0])
	} else {
		rel, err = latestDocument(ctx)
	}
	if err != nil {
		return err
	}

	cfg := ctx.Settings.Get()
	launcher := cli.NewEditorLauncher(cfg.Editor.Command)
	if editExternal {
		abs, err := ctx.Files.Abs(rel)
		if err != nil {
			return err
		}
		cli.PrintInfo("Opening %s in %s...", rel, launcher.Command)
		return launcher.OpenFile(abs)
	}

	sess := ctx.NewSession()
	if err := sess.Open(rel); err != nil {
		sess.Close()
		return err
	}
	runErr := tui.Run(cmd.Context(), sess, tui.Options{
		Files:     ctx.Files,
		Model:     cfg.API.OpenAI.SelectedModel,
		EditorCmd: launcher.Cmd,
		Logger:    ctx.Logger,
	})
	if err := sess.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// latestDocument returns the most recently modified document, creating
// one when the store is empty.
func latestDocument(ctx *cli.CommandContext) (string, error) {
	items, err := ctx.Files.List("")
	if err != nil {
		return "", err
	}

	var latest *models.FileItem
	walkItems(items, func(item models.FileItem, _ int) {
		if item.IsDirectory {
			return
		}
		if latest == nil || item.LastModified.After(latest.LastModified) {
			latest = &item
		}
	})
	if latest != nil {
		return latest.Path, nil
	}
	return ctx.Files.CreateUntitled("", false)
}
