package commands

import (
	"path"

	"github.com/spf13/cobra"

	"github.com/quillmate/quillmate-cli/internal/cli"
)

// NewMoveCommand creates the move command
func NewMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <source> <destination>",
		Short: "Move a document or folder",
		Long: `Move a document or folder. When the destination is an existing folder
the source is moved into it.

Examples:
  quillmate move drafts/plan.html archive
  quillmate move "New Folder" projects`,
		Aliases: []string{"mv"},
		Args:    cobra.ExactArgs(2),
		RunE:    runMove,
	}
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx, err := openContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	src := args[0]
	if !ctx.Files.Exists(src) {
		if src, err = ctx.ResolveDocument(src); err != nil {
			return err
		}
	}
	dst := args[1]
	if ctx.Files.IsDir(dst) {
		dst = path.Join(dst, path.Base(src))
	}

	if err := ctx.Files.Move(src, dst); err != nil {
		return err
	}
	cli.PrintSuccess("Moved %s to %s", src, dst)
	return nil
}
