package dataset

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeRecords(t *testing.T, raw string) []Record {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var recs []Record
	if err := dec.Decode(&recs); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	return recs
}

func TestNormalize_AllFields(t *testing.T) {
	recs := decodeRecords(t, `[{
		"authorId": "111",
		"content": "hello there",
		"id": "900",
		"createdTimestamp": 1700000000123,
		"reference": {"messageId": "899"},
		"mentions": {"repliedUser": "222"}
	}]`)

	m, err := Normalize(0, recs[0])
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	want := RawMessage{
		AuthorID:         "111",
		Content:          "hello there",
		MessageID:        "900",
		Timestamp:        1700000000123,
		RepliedMessageID: "899",
		RepliedUserID:    "222",
	}
	if m != want {
		t.Errorf("got %+v, want %+v", m, want)
	}
	if !m.IsReply() {
		t.Error("expected message to be a reply")
	}
}

func TestNormalize_NoReply(t *testing.T) {
	recs := decodeRecords(t, `[{
		"authorId": "111", "content": "hi", "id": "1", "createdTimestamp": 5,
		"reference": null, "mentions": {"repliedUser": null}
	}]`)

	m, err := Normalize(0, recs[0])
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if m.IsReply() || m.RepliedMessageID != "" || m.RepliedUserID != "" {
		t.Errorf("expected no reply fields, got %+v", m)
	}
}

func TestNormalize_MissingRequiredField(t *testing.T) {
	for _, field := range []string{FieldAuthorID, FieldContent, FieldID, FieldTimestamp} {
		t.Run(field, func(t *testing.T) {
			rec := Record{
				FieldAuthorID:  "a",
				FieldContent:   "text",
				FieldID:        "1",
				FieldTimestamp: json.Number("10"),
			}
			delete(rec, field)

			_, err := Normalize(7, rec)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != field {
				t.Errorf("Field = %q, want %q", verr.Field, field)
			}
			if verr.Index != 7 {
				t.Errorf("Index = %d, want 7", verr.Index)
			}
			if !strings.Contains(err.Error(), "missing required field: "+field) {
				t.Errorf("unexpected message: %q", err.Error())
			}
		})
	}
}

func TestNormalize_WrongType(t *testing.T) {
	rec := Record{
		FieldAuthorID:  float64(123),
		FieldContent:   "text",
		FieldID:        "1",
		FieldTimestamp: float64(10),
	}

	_, err := Normalize(0, rec)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != FieldAuthorID || verr.Reason == "" {
		t.Errorf("unexpected error: %+v", verr)
	}
}

func TestNormalize_TimestampVariants(t *testing.T) {
	cases := []struct {
		name string
		v    any
		want int64
	}{
		{"json number", json.Number("1700000000000"), 1700000000000},
		{"float64", float64(42000), 42000},
		{"int", 99, 99},
		{"int64", int64(100), 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := Record{FieldAuthorID: "a", FieldContent: "x", FieldID: "1", FieldTimestamp: tc.v}
			m, err := Normalize(0, rec)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if m.Timestamp != tc.want {
				t.Errorf("Timestamp = %d, want %d", m.Timestamp, tc.want)
			}
		})
	}
}

func TestNormalize_RejectsFractionalTimestamp(t *testing.T) {
	rec := Record{FieldAuthorID: "a", FieldContent: "x", FieldID: "1", FieldTimestamp: json.Number("12.5")}
	if _, err := Normalize(0, rec); err == nil {
		t.Fatal("expected error for fractional timestamp")
	}

	rec[FieldTimestamp] = "12"
	if _, err := Normalize(0, rec); err == nil {
		t.Fatal("expected error for string timestamp")
	}
}

func TestNormalizeAll_DropsBlankContent(t *testing.T) {
	recs := decodeRecords(t, `[
		{"authorId": "a", "content": "first", "id": "1", "createdTimestamp": 1},
		{"authorId": "b", "content": "   \n\t", "id": "2", "createdTimestamp": 2},
		{"authorId": "a", "content": "", "id": "3", "createdTimestamp": 3},
		{"authorId": "b", "content": "last", "id": "4", "createdTimestamp": 4}
	]`)

	msgs, err := NormalizeAll(recs)
	if err != nil {
		t.Fatalf("NormalizeAll failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].MessageID != "1" || msgs[1].MessageID != "4" {
		t.Errorf("unexpected order: %q, %q", msgs[0].MessageID, msgs[1].MessageID)
	}
}

func TestNormalizeAll_RejectsWholeBatch(t *testing.T) {
	recs := decodeRecords(t, `[
		{"authorId": "a", "content": "ok", "id": "1", "createdTimestamp": 1},
		{"authorId": "b", "content": "  ", "createdTimestamp": 2},
		{"authorId": "a", "content": "ok", "id": "3", "createdTimestamp": 3}
	]`)

	msgs, err := NormalizeAll(recs)
	if msgs != nil {
		t.Errorf("expected nil messages on failure, got %d", len(msgs))
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Index != 1 || verr.Field != FieldID {
		t.Errorf("unexpected error: %+v", verr)
	}
}

func TestNormalizeAll_Empty(t *testing.T) {
	msgs, err := NormalizeAll(nil)
	if err != nil {
		t.Fatalf("NormalizeAll failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected no messages, got %d", len(msgs))
	}
}
