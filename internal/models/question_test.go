package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func choiceJSON(t *testing.T, choices ...Choice) []byte {
	t.Helper()
	data, err := json.Marshal(ChoiceContent{Choices: choices})
	if err != nil {
		t.Fatalf("failed to encode choices: %v", err)
	}
	return data
}

func TestQuestion_ValidateContent(t *testing.T) {
	correct := Choice{ID: "a", Text: LocalizedText{"en": "True"}, IsCorrect: true}
	wrong := Choice{ID: "b", Text: LocalizedText{"en": "False"}}

	t.Run("valid true/false", func(t *testing.T) {
		q := &Question{ID: "q1", Kind: TrueFalse, Content: choiceJSON(t, correct, wrong)}
		if err := q.ValidateContent(); err != nil {
			t.Fatalf("expected valid content, got %v", err)
		}
	})

	t.Run("true/false needs exactly two choices", func(t *testing.T) {
		q := &Question{ID: "q1", Kind: TrueFalse, Content: choiceJSON(t, correct, wrong, wrong)}
		if err := q.ValidateContent(); err == nil {
			t.Fatal("expected error for three choices")
		}
	})

	t.Run("choice question needs a correct choice", func(t *testing.T) {
		q := &Question{ID: "q1", Kind: MultipleChoice, Content: choiceJSON(t, wrong, wrong)}
		if err := q.ValidateContent(); err == nil {
			t.Fatal("expected error without a correct choice")
		}
	})

	t.Run("choice question needs choices", func(t *testing.T) {
		q := &Question{ID: "q1", Kind: MultipleChoice, Content: choiceJSON(t)}
		if err := q.ValidateContent(); err == nil {
			t.Fatal("expected error without choices")
		}
	})

	t.Run("formula must not be empty", func(t *testing.T) {
		data, _ := json.Marshal(FormulaContent{})
		q := &Question{ID: "q1", Kind: NumericFormula, Content: data}
		if err := q.ValidateContent(); err == nil {
			t.Fatal("expected error for empty formula")
		}
	})
}

func TestChoiceContent_CorrectTexts(t *testing.T) {
	content := ChoiceContent{Choices: []Choice{
		{ID: "a", Text: LocalizedText{"en": "Paris", "fr": "Paris"}, IsCorrect: true},
		{ID: "b", Text: LocalizedText{"en": "Lyon"}, IsCorrect: true},
		{ID: "c", Text: LocalizedText{"en": "Berlin"}},
	}}

	texts := content.CorrectTexts("en")
	if len(texts) != 2 || texts[0] != "Paris" || texts[1] != "Lyon" {
		t.Errorf("unexpected correct texts: %v", texts)
	}

	// Missing translations fall back to the default language.
	texts = content.CorrectTexts("fr")
	if len(texts) != 2 || texts[1] != "Lyon" {
		t.Errorf("expected fallback for untranslated choice, got %v", texts)
	}
}

func TestNewMedia(t *testing.T) {
	if _, err := NewMedia(MediaImage, "https://example.com/x.png", ""); !errors.Is(err, ErrImageAltTextRequired) {
		t.Errorf("expected ErrImageAltTextRequired, got %v", err)
	}
	if _, err := NewMedia(MediaImage, "https://example.com/x.png", "diagram"); err != nil {
		t.Errorf("expected image with alt text to be valid, got %v", err)
	}
	if _, err := NewMedia(MediaAudio, "https://example.com/x.mp3", ""); err != nil {
		t.Errorf("audio should not require alt text, got %v", err)
	}
}

func TestLocalizedText_Resolve(t *testing.T) {
	text := LocalizedText{"en": "Hello", "fr": "Bonjour"}

	if got := text.Resolve("fr"); got != "Bonjour" {
		t.Errorf("expected Bonjour, got %q", got)
	}
	if got := text.Resolve("de"); got != "Hello" {
		t.Errorf("expected default-language fallback, got %q", got)
	}

	noDefault := LocalizedText{"fr": "Bonjour"}
	if got := noDefault.Resolve("de"); got != "Bonjour" {
		t.Errorf("expected any-language fallback, got %q", got)
	}

	var empty LocalizedText
	if got := empty.Resolve("en"); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
