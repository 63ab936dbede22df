package utils

import (
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"Empty string", "", 0},
		{"Whitespace only", "  \n\t ", 0},
		{"Single short word", "hi", 1},
		{"Simple sentence", "The quick brown fox jumps over the lazy dog.", 11},
		{"Markup counts denser", "<p>Hello world</p>", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.input); got != tt.expected {
				t.Errorf("EstimateTokens(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEstimateTokensGrowsWithText(t *testing.T) {
	short := EstimateTokens("one paragraph of text")
	long := EstimateTokens("one paragraph of text, followed by a second paragraph that keeps going for a while")
	if long <= short {
		t.Errorf("expected longer text to cost more tokens, got %d <= %d", long, short)
	}
}

func TestFormatTokenCount(t *testing.T) {
	tests := []struct {
		tokens   int
		expected string
	}{
		{100, "~100 tokens"},
		{999, "~999 tokens"},
		{1000, "~1.0K tokens"},
		{1500, "~1.5K tokens"},
		{9999, "~10.0K tokens"},
		{10000, "~10K tokens"},
		{150000, "~150K tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatTokenCount(tt.tokens); got != tt.expected {
				t.Errorf("FormatTokenCount(%d) = %s, expected %s", tt.tokens, got, tt.expected)
			}
		})
	}
}

func TestContextWindow(t *testing.T) {
	tests := []struct {
		model    string
		expected int
	}{
		{"gpt-4o", 128000},
		{"GPT-4o-mini", 128000},
		{"gpt-4o-2024-08-06", 128000},
		{"gpt-4", 8192},
		{"gpt-4-0613", 8192},
		{"llama3", DefaultContextWindow},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := ContextWindow(tt.model); got != tt.expected {
				t.Errorf("ContextWindow(%q) = %d, expected %d", tt.model, got, tt.expected)
			}
		})
	}
}

func TestBudgetStatus(t *testing.T) {
	tests := []struct {
		tokens         int
		model          string
		expectedStatus string
		expectedLimit  int
	}{
		{1000, "gpt-4", "good", 8192},
		{5000, "gpt-4", "warning", 8192},
		{7000, "gpt-4", "danger", 8192},
		{100000, "gpt-4o", "warning", 128000},
		{20000, "gpt-4o", "good", 128000},
	}

	for _, tt := range tests {
		t.Run(tt.model+"/"+tt.expectedStatus, func(t *testing.T) {
			_, limit, status := BudgetStatus(tt.tokens, tt.model)
			if status != tt.expectedStatus {
				t.Errorf("BudgetStatus(%d, %s) status = %s, expected %s", tt.tokens, tt.model, status, tt.expectedStatus)
			}
			if limit != tt.expectedLimit {
				t.Errorf("BudgetStatus(%d, %s) limit = %d, expected %d", tt.tokens, tt.model, limit, tt.expectedLimit)
			}
		})
	}
}
