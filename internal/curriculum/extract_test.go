package curriculum

import "testing"

func TestExtractJSON_FencedBlock(t *testing.T) {
	raw := "Here is your plan:\n```json\n{\"title\":\"x\"}\n```\nLet me know if you need changes."
	got := ExtractJSON(raw)
	if got != `{"title":"x"}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSON_FencedBlockNoLanguageTag(t *testing.T) {
	raw := "```\n{\"title\":\"y\"}\n```"
	got := ExtractJSON(raw)
	if got != `{"title":"y"}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSON_BraceSpanFallback(t *testing.T) {
	raw := "Sure thing! {\"title\":\"z\"} Hope that helps."
	got := ExtractJSON(raw)
	if got != `{"title":"z"}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSON_NoBraces(t *testing.T) {
	raw := "I cannot produce a plan right now."
	got := ExtractJSON(raw)
	if got != raw {
		t.Errorf("got %q, want unchanged trimmed input", got)
	}
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	raw := `{"title":"x","days":[{"day":1}]}`
	got := ExtractJSON(raw)
	if got != raw {
		t.Errorf("got %q", got)
	}
}
