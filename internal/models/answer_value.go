package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

type AnswerValueKind int

const (
	AnswerText AnswerValueKind = iota
	AnswerTextList
	AnswerNumber
)

var ErrInvalidAnswerShape = errors.New("answer value must be a string, a list of strings, or a number")

// AnswerValue is the polymorphic answer payload of a submission: a single
// text, a list of texts, or a number. The variant is dispatched from the
// JSON shape, never from a separate type tag.
type AnswerValue struct {
	kind   AnswerValueKind
	text   string
	list   []string
	number float64
}

func NewTextAnswer(text string) AnswerValue {
	return AnswerValue{kind: AnswerText, text: text}
}

func NewTextListAnswer(list []string) AnswerValue {
	return AnswerValue{kind: AnswerTextList, list: list}
}

func NewNumberAnswer(n float64) AnswerValue {
	return AnswerValue{kind: AnswerNumber, number: n}
}

func (v AnswerValue) Kind() AnswerValueKind {
	return v.kind
}

// AsList normalizes the value for set comparison: a single text becomes a
// one-element list, a number is rendered as its canonical decimal string.
func (v AnswerValue) AsList() []string {
	switch v.kind {
	case AnswerTextList:
		return v.list
	case AnswerNumber:
		return []string{v.numberString()}
	default:
		return []string{v.text}
	}
}

// AsString normalizes the value for exact-match comparison. List values with
// exactly one element collapse to that element; longer lists do not match
// any single expected string.
func (v AnswerValue) AsString() string {
	switch v.kind {
	case AnswerText:
		return v.text
	case AnswerNumber:
		return v.numberString()
	case AnswerTextList:
		if len(v.list) == 1 {
			return v.list[0]
		}
	}
	return ""
}

func (v AnswerValue) numberString() string {
	return strconv.FormatFloat(v.number, 'f', -1, 64)
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case AnswerTextList:
		return json.Marshal(v.list)
	case AnswerNumber:
		return json.Marshal(v.number)
	default:
		return json.Marshal(v.text)
	}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*v = NewTextAnswer(text)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = NewTextListAnswer(list)
		return nil
	}
	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		*v = NewNumberAnswer(number)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidAnswerShape, string(data))
}
