package models

import "time"

// Settings represents the application configuration
type Settings struct {
	API           APISettings          `yaml:"api" json:"api"`
	Editor        EditorSettings       `yaml:"editor" json:"editor"`
	Files         FilesSettings        `yaml:"files" json:"files"`
	Confirmations ConfirmationSettings `yaml:"confirmations" json:"confirmations"`
	UI            UISettings           `yaml:"ui" json:"ui"`
	Server        ServerSettings       `yaml:"server" json:"server"`
	Logging       LoggingSettings      `yaml:"logging" json:"logging"`
}

// APISettings groups language-model backends
type APISettings struct {
	OpenAI OpenAISettings `yaml:"openai" json:"openai"`
}

// OpenAISettings configures the OpenAI-compatible backend
type OpenAISettings struct {
	APIKey        string        `yaml:"api_key" json:"apiKey"`
	Models        []string      `yaml:"models" json:"models"`
	SelectedModel string        `yaml:"selected_model" json:"selectedModel"`
	BaseURL       string        `yaml:"base_url,omitempty" json:"baseURL,omitempty"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	// RequestsPerMinute of 0 disables client-side pacing.
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requestsPerMinute"`
}

// Spacing policies for AI-continued text
const (
	SpacingPreserve = "preserve"
	SpacingNone     = "none"
)

// EditorSettings controls editing behaviour
type EditorSettings struct {
	Spacing       string        `yaml:"spacing" json:"spacing"`
	AutosaveDelay time.Duration `yaml:"autosave_delay" json:"autosaveDelay"`
	RefreshDelay  time.Duration `yaml:"refresh_delay" json:"refreshDelay"`
	Command       string        `yaml:"command" json:"command"`
	FontSize      int           `yaml:"font_size" json:"fontSize"`
	LineHeight    float64       `yaml:"line_height" json:"lineHeight"`
	FontFamily    string        `yaml:"font_family" json:"fontFamily"`
	FontWeight    int           `yaml:"font_weight" json:"fontWeight"`
}

// FilesSettings controls the document store
type FilesSettings struct {
	Root string `yaml:"root" json:"root"`
}

// ConfirmationSettings toggles confirmation prompts
type ConfirmationSettings struct {
	FileDelete bool `yaml:"file_delete" json:"fileDelete"`
}

// UISettings controls terminal layout preferences
type UISettings struct {
	SidebarWidth  int  `yaml:"sidebar_width" json:"sidebarWidth"`
	RightBarWidth int  `yaml:"right_bar_width" json:"rightBarWidth"`
	ShowNumbers   bool `yaml:"show_numbers" json:"showNumbers"`
}

// ServerSettings controls the HTTP backend
type ServerSettings struct {
	Addr string `yaml:"addr" json:"addr"`
}

// LoggingSettings controls structured logging
type LoggingSettings struct {
	Level string `yaml:"level" json:"level"`
	JSON  bool   `yaml:"json" json:"json"`
	Dir   string `yaml:"dir,omitempty" json:"dir,omitempty"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		API: APISettings{
			OpenAI: OpenAISettings{
				Models:            []string{"gpt-4o", "gpt-4o-mini"},
				SelectedModel:     "gpt-4o",
				Timeout:           60 * time.Second,
				RequestsPerMinute: 20,
			},
		},
		Editor: EditorSettings{
			Spacing:       SpacingPreserve,
			AutosaveDelay: time.Second,
			RefreshDelay:  500 * time.Millisecond,
			FontSize:      16,
			LineHeight:    1.5,
			FontFamily:    "Roboto",
			FontWeight:    400,
		},
		Files: FilesSettings{
			Root: "ai-editor-files",
		},
		Confirmations: ConfirmationSettings{
			FileDelete: true,
		},
		UI: UISettings{
			SidebarWidth:  300,
			RightBarWidth: 400,
			ShowNumbers:   true,
		},
		Server: ServerSettings{
			Addr: "127.0.0.1:3001",
		},
		Logging: LoggingSettings{
			Level: "info",
		},
	}
}
