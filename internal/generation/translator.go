package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/llm"
)

// Translator translates content with the language model.
type Translator struct {
	provider llm.Provider
	cfg      Config
}

var _ content.Translator = (*Translator)(nil)

// NewTranslator creates a model-backed translator.
func NewTranslator(provider llm.Provider, cfg Config) *Translator {
	return &Translator{provider: provider, cfg: cfg}
}

// Translate returns text in the target language.
func (t *Translator) Translate(ctx context.Context, text string, to lang.Language) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeTranslate)

	req := llm.Request{
		System: translationSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildTranslationUserMessage(text, to)},
		},
		Schema:      TranslationSchema,
		MaxTokens:   t.cfg.TranslationMaxTokens,
		Temperature: 0,
	}

	resp, err := t.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("translation: %w", err)
	}
	if err := llm.ValidateResponse(TranslationSchema, resp.Content); err != nil {
		return "", fmt.Errorf("translation: %w", err)
	}

	var out translationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse translation output: %w", err)
	}
	return strings.TrimSpace(out.Translation), nil
}
