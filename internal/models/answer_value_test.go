package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestAnswerValue_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		kind AnswerValueKind
	}{
		{"string becomes text", `"Paris"`, AnswerText},
		{"array becomes list", `["Paris","Lyon"]`, AnswerTextList},
		{"number becomes number", `9.81`, AnswerNumber},
		{"integer becomes number", `42`, AnswerNumber},
		{"empty string is still text", `""`, AnswerText},
		{"empty array is still a list", `[]`, AnswerTextList},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var value AnswerValue
			if err := json.Unmarshal([]byte(tc.raw), &value); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if value.Kind() != tc.kind {
				t.Errorf("expected kind %v, got %v", tc.kind, value.Kind())
			}
		})
	}

	t.Run("object is rejected", func(t *testing.T) {
		var value AnswerValue
		err := json.Unmarshal([]byte(`{"answer":"Paris"}`), &value)
		if !errors.Is(err, ErrInvalidAnswerShape) {
			t.Fatalf("expected ErrInvalidAnswerShape, got %v", err)
		}
	})

	t.Run("mixed array is rejected", func(t *testing.T) {
		var value AnswerValue
		err := json.Unmarshal([]byte(`["Paris", 3]`), &value)
		if !errors.Is(err, ErrInvalidAnswerShape) {
			t.Fatalf("expected ErrInvalidAnswerShape, got %v", err)
		}
	})
}

func TestAnswerValue_AsList(t *testing.T) {
	cases := []struct {
		name  string
		value AnswerValue
		want  []string
	}{
		{"text wraps into one element", NewTextAnswer("Paris"), []string{"Paris"}},
		{"list passes through", NewTextListAnswer([]string{"a", "b"}), []string{"a", "b"}},
		{"number renders canonically", NewNumberAnswer(9.81), []string{"9.81"}},
		{"integer number has no fraction", NewNumberAnswer(42), []string{"42"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.value.AsList(); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("AsList() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAnswerValue_AsString(t *testing.T) {
	cases := []struct {
		name  string
		value AnswerValue
		want  string
	}{
		{"text passes through", NewTextAnswer("9.81"), "9.81"},
		{"number renders canonically", NewNumberAnswer(9.81), "9.81"},
		{"single-element list collapses", NewTextListAnswer([]string{"9.81"}), "9.81"},
		{"multi-element list does not collapse", NewTextListAnswer([]string{"a", "b"}), ""},
		{"empty list does not collapse", NewTextListAnswer(nil), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.value.AsString(); got != tc.want {
				t.Errorf("AsString() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAnswerValue_RoundTrip(t *testing.T) {
	original := NewTextListAnswer([]string{"Paris", "Lyon"})
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded AnswerValue
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(decoded.AsList(), original.AsList()) {
		t.Errorf("round trip changed value: %v vs %v", decoded.AsList(), original.AsList())
	}
}
