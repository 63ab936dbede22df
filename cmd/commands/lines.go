package commands

import (
	"github.com/spf13/cobra"

	"github.com/quillmate/quillmate-cli/internal/cli"
	"github.com/quillmate/quillmate-cli/pkg/document"
	"github.com/quillmate/quillmate-cli/pkg/tracker"
)

var linesWidth int

// NewLinesCommand creates the lines command
func NewLinesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lines <document>",
		Short: "Print the numbered lines the assistant sees",
		Long: `Print the document as the numbered lines instructions refer to.
Blank spacer paragraphs are skipped, so "line 3" here is line 3 in a chat
instruction.

With -o json the full line metadata is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: runLines,
	}

	cmd.Flags().IntVar(&linesWidth, "width", 0, "Wrap lines at this width")

	return cmd
}

func runLines(cmd *cobra.Command, args []string) error {
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

	lines := tracker.New().Update(doc)
	if outputFormat != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, lines)
	}
	cli.WriteLines(cmd.OutOrStdout(), lines, linesWidth)
	return nil
}
