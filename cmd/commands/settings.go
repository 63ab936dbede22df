package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillmate/quillmate-cli/internal/cli"
	"github.com/quillmate/quillmate-cli/pkg/logging"
	"github.com/quillmate/quillmate-cli/pkg/models"
	"github.com/quillmate/quillmate-cli/pkg/settings"
)

var settingsEffective bool

// settingSetters maps the dotted keys accepted by "settings set" onto the
// settings fields.
var settingSetters = map[string]func(*models.Settings, string) error{
	"api.openai.api_key": func(s *models.Settings, v string) error {
		s.API.OpenAI.APIKey = v
		return nil
	},
	"api.openai.selected_model": func(s *models.Settings, v string) error {
		if err := cli.ValidateModel(v, s.API.OpenAI.Models); err != nil {
			return err
		}
		s.API.OpenAI.SelectedModel = v
		return nil
	},
	"api.openai.models": func(s *models.Settings, v string) error {
		var names []string
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				names = append(names, m)
			}
		}
		if len(names) == 0 {
			return fmt.Errorf("at least one model is required")
		}
		s.API.OpenAI.Models = names
		return nil
	},
	"api.openai.base_url": func(s *models.Settings, v string) error {
		s.API.OpenAI.BaseURL = v
		return nil
	},
	"api.openai.timeout": durationSetter(func(s *models.Settings) *time.Duration { return &s.API.OpenAI.Timeout }),
	"api.openai.requests_per_minute": func(s *models.Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("requests_per_minute must be a non-negative integer")
		}
		s.API.OpenAI.RequestsPerMinute = n
		return nil
	},
	"editor.spacing": func(s *models.Settings, v string) error {
		if err := cli.ValidateSpacing(v); err != nil {
			return err
		}
		s.Editor.Spacing = v
		return nil
	},
	"editor.autosave_delay": durationSetter(func(s *models.Settings) *time.Duration { return &s.Editor.AutosaveDelay }),
	"editor.refresh_delay":  durationSetter(func(s *models.Settings) *time.Duration { return &s.Editor.RefreshDelay }),
	"editor.command": func(s *models.Settings, v string) error {
		s.Editor.Command = v
		return nil
	},
	"files.root": func(s *models.Settings, v string) error {
		s.Files.Root = v
		return nil
	},
	"server.addr": func(s *models.Settings, v string) error {
		s.Server.Addr = v
		return nil
	},
	"logging.level": func(s *models.Settings, v string) error {
		if _, err := logging.ParseLevel(v); err != nil {
			return err
		}
		s.Logging.Level = v
		return nil
	},
	"logging.json": boolSetter(func(s *models.Settings) *bool { return &s.Logging.JSON }),
	"logging.dir": func(s *models.Settings, v string) error {
		s.Logging.Dir = v
		return nil
	},
	"confirmations.file_delete": boolSetter(func(s *models.Settings) *bool { return &s.Confirmations.FileDelete }),
	"ui.show_numbers":           boolSetter(func(s *models.Settings) *bool { return &s.UI.ShowNumbers }),
}

func durationSetter(field func(*models.Settings) *time.Duration) func(*models.Settings, string) error {
	return func(s *models.Settings, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid duration %q (examples: 500ms, 2s)", v)
		}
		*field(s) = d
		return nil
	}
}

func boolSetter(field func(*models.Settings) *bool) func(*models.Settings, string) error {
	return func(s *models.Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", v)
		}
		*field(s) = b
		return nil
	}
}

func settingKeys() []string {
	keys := make([]string, 0, len(settingSetters))
	for k := range settingSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewSettingsCommand creates the settings command
func NewSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		Long: `Show the settings with the API key masked. Use --effective to include
environment overrides (OPENAI_API_KEY, OPENAI_MODEL, OPENAI_BASE_URL,
QUILLMATE_ROOT, QUILLMATE_ADDR).`,
		Args: cobra.NoArgs,
		RunE: runSettingsShow,
	}
	cmd.Flags().BoolVar(&settingsEffective, "effective", false, "Include environment overrides")

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long:  "Change one setting and save the file.\n\nKeys:\n  " + strings.Join(settingKeys(), "\n  "),
		Args:  cobra.ExactArgs(2),
		RunE:  runSettingsSet,
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := openContext()
			if err != nil {
				return err
			}
			defer ctx.Close()
			fmt.Fprintln(cmd.OutOrStdout(), ctx.Settings.Path())
			return nil
		},
	}

	cmd.AddCommand(set, path)
	return cmd
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	ctx, err := openContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	st := ctx.Settings.Persisted()
	if settingsEffective {
		st = ctx.Settings.Get()
	}
	format := outputFormat
	if format == string(cli.FormatText) {
		format = string(cli.FormatYAML)
	}
	return cli.OutputResults(cmd.OutOrStdout(), format, settings.Redacted(st))
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, value := strings.ToLower(args[0]), args[1]
	setter, ok := settingSetters[key]
	if !ok {
		return fmt.Errorf("unknown setting %q; run 'quillmate settings set --help' for the list", key)
	}

	ctx, err := openContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	if err := setter(ctx.Settings.Persisted(), value); err != nil {
		return err
	}
	if _, err := ctx.Settings.Update(func(s *models.Settings) { _ = setter(s, value) }); err != nil {
		return err
	}

	shown := value
	if key == "api.openai.api_key" {
		shown = settings.MaskKey(value)
	}
	cli.PrintSuccess("Set %s = %s", key, shown)
	return nil
}
