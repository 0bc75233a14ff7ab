package llm

import (
	"testing"

	"IdeaSpark/internal/apperr"
)

func TestDecodeBatchIgnoresProseAndFences(t *testing.T) {
	t.Parallel()

	text := "Sure! Here are the ideas:\n```json\n[{\"mini_ideas\":[\"a\",\"b\",\"c\"]}]\n```\nLet me know if you need more."

	payload, err := Decode(text, ShapeBatch)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if payload.Single != nil {
		t.Fatal("batch decode must not populate the single side")
	}
	if len(payload.Batch) != 1 {
		t.Fatalf("expected 1 idea set, got %d", len(payload.Batch))
	}
	if got := payload.Batch[0].MiniIdeas; len(got) != 3 || got[0] != "a" {
		t.Fatalf("unexpected mini ideas: %v", got)
	}
}

func TestDecodeSingleAcceptsArrayOfOne(t *testing.T) {
	t.Parallel()

	text := `[{"mini_ideas":["x","y","z"],"title_summaries":["T1"]}]`

	payload, err := Decode(text, ShapeSingle)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if payload.Single == nil {
		t.Fatal("single decode must populate the single side")
	}
	if len(payload.Single.MiniIdeas) != 3 {
		t.Fatalf("unexpected mini ideas: %v", payload.Single.MiniIdeas)
	}
}

func TestDecodeSingleBareObject(t *testing.T) {
	t.Parallel()

	text := "Of course.\n\n{\"mini_ideas\":[\"only\"],\"source_name\":\"A dashboard\"}"

	payload, err := Decode(text, ShapeSingle)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if payload.Single.SourceName != "A dashboard" {
		t.Fatalf("unexpected source name: %q", payload.Single.SourceName)
	}
}

func TestDecodeNoJSONFails(t *testing.T) {
	t.Parallel()

	for _, shape := range []Shape{ShapeSingle, ShapeBatch} {
		_, err := Decode("I could not come up with anything today.", shape)
		if err == nil {
			t.Fatal("expected an error for JSON-free text")
		}
		if !apperr.IsKind(err, apperr.KindModelResponse) {
			t.Fatalf("expected model-response kind, got %q", apperr.KindOf(err))
		}
	}
}

func TestDecodeMalformedJSONFails(t *testing.T) {
	t.Parallel()

	_, err := Decode(`[{"mini_ideas": [}]`, ShapeBatch)
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	if !apperr.IsKind(err, apperr.KindModelResponse) {
		t.Fatalf("expected model-response kind, got %q", apperr.KindOf(err))
	}
}

func TestExtractJSONGreedySpan(t *testing.T) {
	t.Parallel()

	raw, err := ExtractJSON(`prefix {"a": {"b": 1}} suffix`, '{', '}')
	if err != nil {
		t.Fatalf("ExtractJSON returned error: %v", err)
	}
	if raw != `{"a": {"b": 1}}` {
		t.Fatalf("unexpected extraction: %q", raw)
	}
}
