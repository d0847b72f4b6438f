package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

type AnswerKind string

const (
	AnswerKindText   AnswerKind = "text"
	AnswerKindList   AnswerKind = "list"
	AnswerKindNumber AnswerKind = "number"
)

var ErrInvalidAnswer = errors.New("answer must be a string, a list of strings or a number")

// Answer holds exactly one of a text, list or number value. It encodes to and
// from the bare JSON value, so `"poor"`, `["PCOS"]` and `34` all round-trip.
type Answer struct {
	kind   AnswerKind
	text   string
	list   []string
	number float64
}

func TextAnswer(value string) Answer {
	return Answer{kind: AnswerKindText, text: value}
}

func ListAnswer(values ...string) Answer {
	list := make([]string, len(values))
	copy(list, values)
	return Answer{kind: AnswerKindList, list: list}
}

func NumberAnswer(value float64) Answer {
	return Answer{kind: AnswerKindNumber, number: value}
}

func (a Answer) Kind() AnswerKind {
	return a.kind
}

func (a Answer) IsZero() bool {
	return a.kind == ""
}

func (a Answer) Text() (string, bool) {
	return a.text, a.kind == AnswerKindText
}

func (a Answer) List() ([]string, bool) {
	return a.list, a.kind == AnswerKindList
}

func (a Answer) Number() (float64, bool) {
	return a.number, a.kind == AnswerKindNumber
}

// Contains reports whether a text answer equals value or a list answer holds it.
func (a Answer) Contains(value string) bool {
	switch a.kind {
	case AnswerKindText:
		return a.text == value
	case AnswerKindList:
		for _, item := range a.list {
			if item == value {
				return true
			}
		}
	case AnswerKindNumber:
		return strconv.FormatFloat(a.number, 'f', -1, 64) == value
	}
	return false
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case AnswerKindText:
		return json.Marshal(a.text)
	case AnswerKindList:
		if a.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.list)
	case AnswerKindNumber:
		return json.Marshal(a.number)
	default:
		return nil, ErrInvalidAnswer
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ErrInvalidAnswer
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return ErrInvalidAnswer
		}
		*a = TextAnswer(text)
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return ErrInvalidAnswer
		}
		*a = ListAnswer(list...)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var number float64
		if err := json.Unmarshal(trimmed, &number); err != nil {
			return ErrInvalidAnswer
		}
		*a = NumberAnswer(number)
	default:
		return ErrInvalidAnswer
	}
	return nil
}
