package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillmate/quillmate-cli/internal/cli"
	"github.com/quillmate/quillmate-cli/pkg/document"
	"github.com/quillmate/quillmate-cli/pkg/utils"
)

var (
	showHTML     bool
	showMetadata bool
)

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <document>",
		Short: "Print a document",
		Long: `Print a document as plain text, one block per line.

The document can be named by path (notes/plan.html), by path without the
extension, or by display name when that is unique.

Examples:
  quillmate show "Meeting notes"
  quillmate show notes/plan --html
  quillmate show plan --metadata`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cmd.Flags().BoolVar(&showHTML, "html", false, "Print the stored HTML")
	cmd.Flags().BoolVar(&showMetadata, "metadata", false, "Print path, title and token estimate first")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx, err := openContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	rel, err := ctx.ResolveDocument(args[0])
	if err != nil {
		return err
	}
	content, err := ctx.Files.Read(rel)
	if err != nil {
		return err
	}
	doc, err := document.Parse(content)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat != string(cli.FormatText) {
		return cli.OutputResults(out, outputFormat, map[string]any{
			"path":  rel,
			"title": doc.Title(),
			"html":  content,
			"text":  doc.Text(),
		})
	}

	if showMetadata {
		model := ctx.Settings.Get().API.OpenAI.SelectedModel
		tokens := utils.EstimateTokens(doc.Text())
		pct, _, _ := utils.BudgetStatus(tokens, model)
		fmt.Fprintf(out, "Path: %s\n", rel)
		fmt.Fprintf(out, "Title: %s\n", doc.Title())
		fmt.Fprintf(out, "Estimated tokens: %s (%d%% of %s)\n", utils.FormatTokenCount(tokens), pct, model)
		fmt.Fprintln(out, "---")
	}

	if showHTML {
		fmt.Fprintln(out, content)
		return nil
	}
	fmt.Fprintln(out, doc.Text())
	return nil
}
