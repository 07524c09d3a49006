package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Record is an untyped raw message as decoded from a chat export.
type Record map[string]any

// Required fields of a raw record.
const (
	FieldAuthorID  = "authorId"
	FieldContent   = "content"
	FieldID        = "id"
	FieldTimestamp = "createdTimestamp"
)

// Normalize converts a single record into a RawMessage. index is only used to
// label a ValidationError.
func Normalize(index int, rec Record) (RawMessage, error) {
	authorID, err := requiredString(index, rec, FieldAuthorID)
	if err != nil {
		return RawMessage{}, err
	}
	content, err := requiredString(index, rec, FieldContent)
	if err != nil {
		return RawMessage{}, err
	}
	id, err := requiredString(index, rec, FieldID)
	if err != nil {
		return RawMessage{}, err
	}
	ts, err := requiredTimestamp(index, rec)
	if err != nil {
		return RawMessage{}, err
	}

	return RawMessage{
		AuthorID:         authorID,
		Content:          content,
		MessageID:        id,
		Timestamp:        ts,
		RepliedMessageID: nestedString(rec, "reference", "messageId"),
		RepliedUserID:    nestedString(rec, "mentions", "repliedUser"),
	}, nil
}

// NormalizeAll validates every record and returns the non-empty messages in
// input order. Any invalid record fails the whole batch.
func NormalizeAll(records []Record) ([]RawMessage, error) {
	msgs := make([]RawMessage, 0, len(records))
	for i, rec := range records {
		m, err := Normalize(i, rec)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func requiredString(index int, rec Record, field string) (string, error) {
	v, ok := rec[field]
	if !ok || v == nil {
		return "", &ValidationError{Index: index, Field: field}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ValidationError{Index: index, Field: field, Reason: fmt.Sprintf("expected string, got %T", v)}
	}
	return s, nil
}

func requiredTimestamp(index int, rec Record) (int64, error) {
	v, ok := rec[FieldTimestamp]
	if !ok || v == nil {
		return 0, &ValidationError{Index: index, Field: FieldTimestamp}
	}

	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, &ValidationError{Index: index, Field: FieldTimestamp, Reason: "not a number"}
		}
		return wholeMillis(index, f)
	case float64:
		return wholeMillis(index, n)
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, &ValidationError{Index: index, Field: FieldTimestamp, Reason: fmt.Sprintf("expected integer, got %T", v)}
	}
}

func wholeMillis(index int, f float64) (int64, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, &ValidationError{Index: index, Field: FieldTimestamp, Reason: "expected integer milliseconds"}
	}
	return int64(f), nil
}

// nestedString reads rec[outer][inner] as a string, returning "" when any
// level is absent, null, or not the expected type.
func nestedString(rec Record, outer, inner string) string {
	obj, ok := rec[outer].(map[string]any)
	if !ok {
		if r, isRec := rec[outer].(Record); isRec {
			obj = r
		} else {
			return ""
		}
	}
	s, _ := obj[inner].(string)
	return s
}
