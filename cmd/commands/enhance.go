package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillmate/quillmate-cli/internal/cli"
	"github.com/quillmate/quillmate-cli/pkg/session"
)

var enhanceDiff bool

// NewEnhanceCommand creates the enhance command
func NewEnhanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enhance <document> <lines> <prompt...>",
		Short: "Rewrite a range of lines with a prompt",
		Long: `Send the selected lines and a prompt to the assistant and replace the
lines with its rewrite.

Examples:
  quillmate enhance notes 3 "make it friendlier"
  quillmate enhance notes 2-5 "turn this into a bulleted summary" --diff`,
		Args: cobra.MinimumNArgs(3),
		RunE: runEnhance,
	}

	cmd.Flags().BoolVar(&enhanceDiff, "diff", false, "Print a diff of the document text")

	return cmd
}

func runEnhance(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args[2:], " ")

	ctx, err := openContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	rel, err := ctx.ResolveDocument(args[0])
	if err != nil {
		return err
	}

	sess := ctx.NewSession()
	if err := sess.Open(rel); err != nil {
		return err
	}
	from, to, err := cli.ValidateLineRange(args[1], len(sess.Lines()))
	if err != nil {
		sess.Close()
		return err
	}

	before := sess.Editor().Text()
	resp, err := sess.EnhanceSelection(cmd.Context(), session.Selection{From: from, To: to}, prompt)
	after := sess.Editor().Text()
	if closeErr := sess.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to save %s: %w", rel, closeErr)
	}
	if err != nil {
		ctx.Logger.Error("enhance failed", "path", rel, "error", err)
		return userError(err)
	}

	out := cmd.OutOrStdout()
	if outputFormat != string(cli.FormatText) {
		return cli.OutputResults(out, outputFormat, resp)
	}

	cli.PrintSuccess("Enhanced lines %d-%d of %s", from, to, rel)
	if resp.Explanation != "" {
		fmt.Fprintln(out, resp.Explanation)
	}
	for _, c := range resp.Changes {
		fmt.Fprintf(out, "  %s: %s\n", c.Type, c.Description)
	}
	if enhanceDiff {
		diff, err := unifiedDiff(rel, before, after)
		if err != nil {
			return err
		}
		fmt.Fprint(out, diff)
	}
	return nil
}
