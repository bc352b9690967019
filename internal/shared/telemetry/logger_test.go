package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestInfoWritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("match.status_changed", map[string]any{
		"match_id": "m-1",
		"from":     "PENDING",
		"to":       "ACCEPTED",
	})

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	if payload["msg"] != "match.status_changed" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	for _, key := range []string{"ts", "match_id", "from", "to"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing field %s", key)
		}
	}
}

func TestErrorFieldsAreStringified(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Error("db.failed", map[string]any{"error": errors.New("connection refused")})

	if !strings.Contains(buf.String(), `"error":"connection refused"`) {
		t.Fatalf("expected stringified error, got %s", buf.String())
	}
}
