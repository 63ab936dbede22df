package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillmate/quillmate-cli/internal/cli"
	"github.com/quillmate/quillmate-cli/pkg/llm"
)

var (
	globalOpts   cli.Options
	outputFormat string
	quietFlag    bool
	noColorFlag  bool
	yesFlag      bool

	// completerOverride replaces the configured backend; tests set it.
	completerOverride llm.Completer
)

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "quillmate [document]",
		Short: "AI-assisted editor for HTML documents",
		Long: `Quillmate keeps a folder of HTML documents and edits them with an
AI assistant. Instructions such as "rewrite line 3", "continue after line 2
with two paragraphs" or "summarize this" are routed to an operation, sent to
an OpenAI-compatible model and applied line by line.

Run without arguments to open the most recently edited document.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cli.SetGlobalFlags(quietFlag, noColorFlag, yesFlag)
			return cli.ValidateOutputFormat(outputFormat)
		},
		RunE: runEdit,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&globalOpts.SettingsPath, "config", "", "Settings file (default: user config dir)")
	pf.StringVar(&globalOpts.Root, "root", "", "Document folder (overrides settings)")
	pf.StringVar(&globalOpts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "Log to stderr")
	pf.StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	pf.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress informational output")
	pf.BoolVar(&noColorFlag, "no-color", false, "Disable symbols in messages")
	pf.BoolVarP(&yesFlag, "yes", "y", false, "Answer yes to confirmations")

	root.AddCommand(
		NewInitCommand(),
		NewNewCommand(),
		NewMkdirCommand(),
		NewListCommand(),
		NewShowCommand(),
		NewLinesCommand(),
		NewChatCommand(),
		NewEnhanceCommand(),
		NewRenameCommand(),
		NewMoveCommand(),
		NewDeleteCommand(),
		NewSettingsCommand(),
		NewServeCommand(),
		NewEditCommand(),
		newVersionCommand(version),
	)
	return root
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of Quillmate",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Quillmate version %s\n", version)
		},
	}
}

// openContext builds the shared command context from the global flags.
func openContext() (*cli.CommandContext, error) {
	ctx, err := cli.NewCommandContext(globalOpts)
	if err != nil {
		return nil, err
	}
	ctx.Completer = completerOverride
	return ctx, nil
}
