package composer

import (
	"fmt"
	"strings"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

const responseFormat = "Respond in JSON format following the specified structure for each operation type.\n\n" +
	`IMPORTANT: Always use type: "paragraph" for all content. Never use headers or list items.`

// operationPrompt holds the task description, numbered rules and JSON shape
// for one operation.
type operationPrompt struct {
	task      string
	rules     []string
	structure string
}

var editStructure = `{
  "operation": "%s",
  "message": "Description of changes",
  "changes": [{ "lineNumber": number, "content": string, "type": "paragraph" }]
}`

var operationPrompts = map[models.Operation]operationPrompt{
	models.OpInlineEdit: {
		task: "Your task is to edit the specified content inline while maintaining context and style.",
		rules: []string{
			"Keep changes minimal and focused",
			"Preserve the original meaning",
			"Maintain consistent style",
			"Never include HTML tags",
			"Always use paragraphs, never headers or lists",
			"Only change content, not structure",
		},
		structure: fmt.Sprintf(editStructure, models.OpInlineEdit),
	},
	models.OpMultiLineEdit: {
		task: "Your task is to edit multiple lines while maintaining document coherence.",
		rules: []string{
			"Keep the same number of lines",
			"Preserve line numbers and relationships",
			"Maintain document flow",
			"Never include HTML tags",
			"Always use paragraphs, never headers or lists",
			"Only change content, not structure",
		},
		structure: fmt.Sprintf(editStructure, models.OpMultiLineEdit),
	},
	models.OpContinueText: {
		task: "Your task is to continue the document naturally after the specified point.",
		rules: []string{
			"Match existing style and tone",
			"Add meaningful content",
			"Maintain natural flow",
			"Never include HTML tags",
			"Always use paragraphs, never headers or lists",
			`IMPORTANT: When a specific number of lines is requested (e.g., "add 5 lines"), you MUST generate exactly that number of lines`,
		},
		structure: `{
  "operation": "continue_text",
  "message": "Description of continuation",
  "newLines": [{ "content": string, "type": "paragraph" }],
  "afterLine": number
}`,
	},
	models.OpSummarizeText: {
		task: "Your task is to provide a concise summary of the document.",
		rules: []string{
			"Capture key points",
			"Keep it brief but comprehensive",
			"Maintain factual accuracy",
			"Never include HTML tags",
		},
		structure: `{
  "operation": "summarize_text",
  "message": "Summary generated",
  "summary": string
}`,
	},
	models.OpDeleteText: {
		task: "Your task is to identify and delete specified lines from the document.",
		rules: []string{
			"Only delete explicitly requested lines",
			"Verify line numbers are valid",
			"Maintain document coherence after deletion",
		},
		structure: `{
  "operation": "delete_text",
  "message": "Description of deletion",
  "linesToDelete": number[]
}`,
	},
	models.OpGenerateFile: {
		task: "Your task is to write a brand new document that fulfils the request.",
		rules: []string{
			"Choose a short, descriptive filename without an extension",
			"Start the content with a title on its own line prefixed by \"# \"",
			"Separate paragraphs with a blank line",
			"Never include HTML tags",
		},
		structure: `{
  "operation": "generate_file",
  "message": "Description of the new document",
  "filename": string,
  "content": string
}`,
	},
}

var analyzeFileRules = []string{
	"Always start by identifying the filename and its significance",
	"Explain what this file is and its main purpose",
	"Describe how it fits into the larger system",
	"Highlight key functionality and features",
	"Explain technical concepts in simple terms",
}

var analyzeSelectionRules = []string{
	"Provide a clear, concise explanation of the content",
	"Identify the main purpose and key components",
	"Explain technical concepts in simple terms",
	"If it's code, explain its functionality",
}

const analyzeStructure = `{
  "operation": "analyze_text",
  "message": "Content Analysis",
  "analysis": {
    "filename": string,
    "summary": string,
    "purpose": string,
    "keyComponents": string[],
    "technicalDetails": string
  }
}`

// SystemPrompt returns the instructions sent ahead of every request for op.
// isFileQuery switches analyze_text between explaining the whole file and
// explaining a selection.
func SystemPrompt(op models.Operation, filename string, isFileQuery bool) string {
	p, ok := operationPrompts[op]
	if op == models.OpAnalyzeText || !ok {
		p = operationPrompt{
			task:      "Your task is to analyze and explain the selected content.",
			rules:     analyzeSelectionRules,
			structure: analyzeStructure,
		}
		if isFileQuery || !ok {
			p.task = "Your task is to analyze and explain this file's content and purpose."
			p.rules = analyzeFileRules
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a precise document editor working on \"%s\". ", filename)
	b.WriteString(p.task)
	b.WriteString("\n\nRules:\n")
	for i, rule := range p.rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}
	b.WriteString("\n")
	b.WriteString(responseFormat)
	b.WriteString("\nJSON Response Structure:\n")
	b.WriteString(p.structure)
	return b.String()
}

const enhanceSystemPrompt = `You are an expert text editor and enhancer. Your task is to modify the provided text according to the user's prompt while maintaining:
1. Consistent style and tone
2. Proper grammar and punctuation
3. Natural flow and readability
4. Original meaning unless explicitly asked to change it

Provide your response in JSON format with:
- enhancedText: The modified text
- explanation: Brief explanation of changes made
- changes: Array of modifications made, each with type and description

Rules:
- Only modify what's necessary to fulfill the prompt
- Preserve formatting unless asked to change it
- Ensure the enhanced text can be seamlessly integrated back into the document
- If the prompt is unclear, make minimal, safe improvements
- Keep the same general length unless explicitly asked to expand/shorten`
