package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillmate/quillmate-cli/internal/cli"
	"github.com/quillmate/quillmate-cli/pkg/files"
)

var (
	newWithTitle bool
	newTitle     string
)

// NewNewCommand creates the new command
func NewNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [folder]",
		Short: "Create a new document",
		Long: `Create a document in the given folder, or at the top level.

Without --title the document is named Untitled, Untitled-01 and so on.

Examples:
  # Create Untitled.html
  quillmate new

  # Create a document with an empty heading slot
  quillmate new drafts --with-title

  # Create "Meeting-notes.html" with a heading
  quillmate new --title "Meeting notes"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runNew,
	}

	cmd.Flags().BoolVar(&newWithTitle, "with-title", false, "Start with an empty heading")
	cmd.Flags().StringVar(&newTitle, "title", "", "Name the document and use the name as its heading")

	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}

	ctx, err := openContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	var rel string
	if newTitle != "" {
		if err := cli.ValidateDocumentName(newTitle); err != nil {
			return err
		}
		rel, err = ctx.Files.CreateDocument(dir, newTitle, fmt.Sprintf("<h1>%s</h1><p></p>", htmlEscape(newTitle)))
	} else {
		rel, err = ctx.Files.CreateUntitled(dir, newWithTitle)
	}
	if err != nil {
		return err
	}

	if outputFormat != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, map[string]string{"path": rel})
	}
	cli.PrintSuccess("Created %s", rel)
	return nil
}

// NewMkdirCommand creates the mkdir command
func NewMkdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir [parent]",
		Short: "Create a new folder",
		Long:  `Create "New Folder" (or "New Folder 1", "New Folder 2", ...) inside parent.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := ""
			if len(args) > 0 {
				parent = args[0]
			}

			ctx, err := openContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			rel, err := ctx.Files.CreateFolder(parent)
			if err != nil {
				return err
			}
			cli.PrintSuccess("Created folder %s", files.DisplayName(rel))
			fmt.Fprintln(cmd.OutOrStdout(), rel)
			return nil
		},
	}
}
