package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillmate/quillmate-cli/internal/cli"
)

// NewRenameCommand creates the rename command
func NewRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <document> [new name...]",
		Short: "Rename a document, by default after its title",
		Long: `Rename a document within its folder. Without a new name the first
heading, or the first line, becomes the name.

Examples:
  quillmate rename Untitled
  quillmate rename notes/draft "Quarterly plan"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRename,
	}
}

func runRename(cmd *cobra.Command, args []string) error {
	ctx, err := openContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	rel, err := ctx.ResolveDocument(args[0])
	if err != nil {
		return err
	}

	var renamed string
	if len(args) > 1 {
		name := strings.Join(args[1:], " ")
		if err := cli.ValidateDocumentName(name); err != nil {
			return err
		}
		renamed, err = ctx.Files.Rename(rel, name)
	} else {
		sess := ctx.NewSession()
		if err := sess.Open(rel); err != nil {
			return err
		}
		renamed, err = sess.RenameFromTitle()
		if closeErr := sess.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	if err != nil {
		return fmt.Errorf("failed to rename %s: %w", rel, err)
	}

	if renamed == rel {
		cli.PrintInfo("%s already matches its title", rel)
		return nil
	}
	cli.PrintSuccess("Renamed %s to %s", rel, renamed)
	fmt.Fprintln(cmd.OutOrStdout(), renamed)
	return nil
}
