package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillmate/quillmate-cli/internal/cli"
)

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the settings file and create the document folder",
		Long: `Write a settings file holding the defaults, unless one exists, and
create the document folder.

The API key can be set later with:
  quillmate settings set api.openai.api_key sk-...
or supplied through OPENAI_API_KEY.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx, err := openContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	if err := ctx.Settings.Save(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	cli.PrintSuccess("Settings written to %s", ctx.Settings.Path())
	cli.PrintSuccess("Documents live in %s", ctx.Files.Root())

	if ctx.Settings.Get().API.OpenAI.APIKey == "" {
		cli.PrintWarning("No API key configured. Set OPENAI_API_KEY or run 'quillmate settings set api.openai.api_key <key>'.")
	}
	return nil
}
