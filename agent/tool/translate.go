package tool

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	contractx "github.com/tasia-assistant/tasia/agent/contract"
	langx "github.com/tasia-assistant/tasia/agent/lang"
)

const (
	// MaxTranslateInputRunes bounds the text sent to the seq2seq model.
	MaxTranslateInputRunes = 128

	headingEN = "Here is your translation using tool translate:"
	headingUK = "Ось ваш переклад за допомогою тули translate:"

	tooLongEN = "Input too long (max 128 characters)."
	tooLongUK = "Вхідний текст занадто довгий (макс. 128 символів)."

	onlyEnglishEN = "Only English input is supported."
	onlyEnglishUK = "Підтримується лише англійська як вхідний текст."
)

// ModelInvoker is the downstream translation model boundary. *RemoteService
// satisfies it.
type ModelInvoker interface {
	Invoke(ctx context.Context, args map[string]any) (string, error)
}

// TranslateCapability guards input locally and only then calls the seq2seq
// service. Oversized or non-English input produces a localized answer without
// any downstream call. Its output is final user-facing text; callers return
// it verbatim.
type TranslateCapability struct {
	model       ModelInvoker
	name        string
	description string
}

func NewTranslateCapability(svc *RemoteService) (*TranslateCapability, error) {
	if svc == nil {
		return nil, fmt.Errorf("%w: translation service is required", contractx.ErrValidation)
	}
	if svc.Name() != CapabilityTranslate {
		return nil, fmt.Errorf("%w: expected capability %q, got %q", contractx.ErrValidation, CapabilityTranslate, svc.Name())
	}
	return &TranslateCapability{
		model:       svc,
		name:        svc.Name(),
		description: svc.Description(),
	}, nil
}

func (c *TranslateCapability) Name() string        { return c.name }
func (c *TranslateCapability) Description() string { return c.description }

func (c *TranslateCapability) Invoke(ctx context.Context, args map[string]any) (contractx.Outcome, error) {
	userInput, _ := args["user_input"].(string)
	languageTag, _ := args["language"].(string)
	language := langx.Language(strings.TrimSpace(languageTag))

	sequence := strings.TrimSpace(userInput)
	if sequence == "" {
		return contractx.Answer(""), nil
	}

	if utf8.RuneCountInString(sequence) > MaxTranslateInputRunes {
		return contractx.Answer(langx.Pick(tooLongEN, tooLongUK, language)), nil
	}

	if !langx.IsEnglish(sequence) {
		return contractx.Answer(langx.Pick(onlyEnglishEN, onlyEnglishUK, language)), nil
	}

	result, err := c.model.Invoke(ctx, map[string]any{
		"user_input": sequence,
		"language":   string(language),
	})
	if err != nil {
		return contractx.Failure(err.Error()), err
	}

	heading := langx.Pick(headingEN, headingUK, language)
	return contractx.Answer(heading + "\n" + result), nil
}
