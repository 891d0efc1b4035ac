package oracle

import (
	"errors"
	"strings"
	"testing"
)

type fakeRecord struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func (r *fakeRecord) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func TestDecodeStructured_PlainJSON(t *testing.T) {
	var rec fakeRecord
	if err := decodeStructured(`{"name": "x", "items": ["a"]}`, &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Name != "x" || len(rec.Items) != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestDecodeStructured_FencedJSON(t *testing.T) {
	content := "Here is the result:\n```json\n{\"name\": \"x\", \"items\": []}\n```\nDone."
	var rec fakeRecord
	if err := decodeStructured(content, &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Name != "x" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestDecodeStructured_NoJSON(t *testing.T) {
	var rec fakeRecord
	err := decodeStructured("no structure here at all", &rec)
	if err == nil || !strings.Contains(err.Error(), "not valid JSON") {
		t.Fatalf("expected parse failure, got %v", err)
	}
}

func TestDecodeStructured_ValidationFailure(t *testing.T) {
	var rec fakeRecord
	err := decodeStructured(`{"name": "", "items": []}`, &rec)
	if err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &Error{Attempts: 3, Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("expected unwrap to reach cause")
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("unexpected message: %v", err)
	}
}
