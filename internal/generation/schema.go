package generation

import "github.com/abhisek/echotutor/internal/llm"

// TranslationSchema defines the JSON schema for a translated passage.
var TranslationSchema = &llm.Schema{
	Name:        "translation",
	Description: "A passage of tutoring content translated for a listener",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"translation": map[string]any{
				"type":        "string",
				"description": "The translated text, written in the target script",
				"minLength":   1,
			},
		},
		"required":             []any{"translation"},
		"additionalProperties": false,
	},
}

type translationOutput struct {
	Translation string `json:"translation"`
}
