package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillmate/quillmate-cli/internal/cli"
)

var deleteForce bool

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <document|folder>",
		Short: "Delete a document or a folder",
		Long: `Permanently delete a document, or a folder with everything in it.

This cannot be undone. Confirmation can be turned off with
  quillmate settings set confirmations.file_delete false

Examples:
  quillmate delete drafts/old-plan
  quillmate delete "New Folder" --force`,
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE:    runDelete,
	}

	cmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Delete without confirmation")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx, err := openContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	target := args[0]
	kind := "folder"
	if !ctx.Files.IsDir(target) {
		kind = "document"
		if target, err = ctx.ResolveDocument(target); err != nil {
			return err
		}
	}

	if !deleteForce && ctx.Settings.Get().Confirmations.FileDelete {
		prompt := fmt.Sprintf("Permanently delete %s '%s'? This cannot be undone.", kind, target)
		confirmed, err := cli.Confirm(prompt, false)
		if err != nil {
			return err
		}
		if !confirmed {
			cli.PrintInfo("Deletion cancelled")
			return nil
		}
	}

	if err := ctx.Files.Delete(target); err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	cli.PrintSuccess("Deleted %s: %s", kind, target)
	return nil
}
