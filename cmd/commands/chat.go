package commands

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/quillmate/quillmate-cli/internal/cli"
	"github.com/quillmate/quillmate-cli/pkg/session"
)

var (
	chatLines string
	chatDiff  bool
	chatCopy  bool
)

// NewChatCommand creates the chat command
func NewChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <document> <instruction...>",
		Short: "Send one instruction about a document to the assistant",
		Long: `Route an instruction to an assistant operation, send it with the
document, and apply the answer. Edits are saved to the document.

Examples:
  # Edit specific lines
  quillmate chat notes "rewrite line 2 to be more formal"

  # Continue the text
  quillmate chat notes "add two more paragraphs after line 3" --diff

  # Ask about the selected lines
  quillmate chat notes "explain this" --lines 4-6

  # Questions leave the document alone
  quillmate chat notes "summarize this" --copy`,
		Args: cobra.MinimumNArgs(2),
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatLines, "lines", "", "Select lines N or N-M as the focus of the instruction")
	cmd.Flags().BoolVar(&chatDiff, "diff", false, "Print a diff of the document text when it changes")
	cmd.Flags().BoolVar(&chatCopy, "copy", false, "Copy the assistant's reply to the clipboard")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	instruction := strings.Join(args[1:], " ")

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

	var sel session.Selection
	if chatLines != "" {
		from, to, err := cli.ValidateLineRange(chatLines, len(sess.Lines()))
		if err != nil {
			sess.Close()
			return err
		}
		sel = session.Selection{From: from, To: to}
	}

	before := sess.Editor().Text()
	cli.CheckPromptBudget(before, ctx.Settings.Get().API.OpenAI.SelectedModel)

	reply, err := sess.Chat(cmd.Context(), instruction, sel)
	after := sess.Editor().Text()
	if closeErr := sess.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to save %s: %w", rel, closeErr)
	}
	if err != nil {
		ctx.Logger.Error("chat failed", "path", rel, "error", err)
		return userError(err)
	}

	resp := reply.Response
	out := cmd.OutOrStdout()
	if outputFormat != string(cli.FormatText) {
		return cli.OutputResults(out, outputFormat, resp)
	}

	if resp.Message != "" {
		fmt.Fprintln(out, resp.Message)
	}
	switch {
	case resp.Error:
		cli.PrintWarning("The document was not changed")
	case reply.Opened != "":
		cli.PrintSuccess("Created %s", reply.Opened)
	case reply.Mutated:
		cli.PrintSuccess("Updated %s", rel)
		if resp.SpacersAdded > 0 {
			cli.PrintInfo("Added %d blank line(s) to keep paragraph spacing", resp.SpacersAdded)
		}
		if chatDiff {
			diff, err := unifiedDiff(rel, before, after)
			if err != nil {
				return err
			}
			fmt.Fprint(out, diff)
		}
	}

	if chatCopy && resp.Message != "" {
		if err := clipboard.WriteAll(resp.Message); err != nil {
			cli.PrintWarning("Failed to copy to clipboard: %v", err)
		} else {
			cli.PrintSuccess("Reply copied to clipboard")
		}
	}
	return nil
}
