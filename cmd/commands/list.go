package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillmate/quillmate-cli/internal/cli"
	"github.com/quillmate/quillmate-cli/pkg/models"
)

var listFlat bool

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [folder]",
		Short: "List documents and folders",
		Long: `List the document tree, folders first.

Examples:
  # Show the whole tree
  quillmate list

  # One row per document with size and age
  quillmate list --flat

  # Machine-readable output
  quillmate list -o json`,
		Aliases: []string{"ls"},
		Args:    cobra.MaximumNArgs(1),
		RunE:    runList,
	}

	cmd.Flags().BoolVar(&listFlat, "flat", false, "List documents only, as a table")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}

	ctx, err := openContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	items, err := ctx.Files.List(dir)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if outputFormat != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, items)
	}

	if len(items) == 0 {
		cli.PrintInfo("No documents yet. Create one with 'quillmate new'.")
		return nil
	}

	if listFlat {
		table := cli.NewTableFormatter(cmd.OutOrStdout())
		table.Header("PATH", "NAME", "SIZE", "MODIFIED")
		now := time.Now()
		walkItems(items, func(item models.FileItem, _ int) {
			if !item.IsDirectory {
				table.Row(item.Path, item.DisplayName, cli.FormatBytes(item.Size), cli.FormatAge(item.LastModified, now))
			}
		})
		return table.Flush()
	}

	walkItems(items, func(item models.FileItem, depth int) {
		name := item.DisplayName
		if item.IsDirectory {
			name += "/"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", strings.Repeat("  ", depth), name)
	})
	return nil
}

func walkItems(items []models.FileItem, fn func(models.FileItem, int)) {
	var walk func([]models.FileItem, int)
	walk = func(items []models.FileItem, depth int) {
		for _, item := range items {
			fn(item, depth)
			if item.IsDirectory {
				walk(item.Children, depth+1)
			}
		}
	}
	walk(items, 0)
}
