package interview

import "testing"

func TestParseReply_MessagesArray(t *testing.T) {
	segments := ParseReply(`{"messages":["Welcome!","Tell me about yourself."]}`)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0] != "Welcome!" || segments[1] != "Tell me about yourself." {
		t.Errorf("unexpected segments %v", segments)
	}
}

func TestParseReply_MarkdownFence(t *testing.T) {
	segments := ParseReply("```json\n{\"messages\":[\"hi\"]}\n```")
	if len(segments) != 1 || segments[0] != "hi" {
		t.Errorf("unexpected segments %v", segments)
	}
}

func TestParseReply_FreeTextDegradesToSingleSegment(t *testing.T) {
	segments := ParseReply("Sure, let's begin the interview.")
	if len(segments) != 1 {
		t.Fatalf("expected a single-element list, got %d", len(segments))
	}
	if segments[0] != "Sure, let's begin the interview." {
		t.Errorf("unexpected segment %q", segments[0])
	}
}

func TestParseReply_WrongShapeDegrades(t *testing.T) {
	cases := []string{
		`{"text":"no messages key"}`,
		`{"messages":"not an array"}`,
		`{"messages":[]}`,
		`{"messages":[1,2,3]}`,
	}
	for _, raw := range cases {
		segments := ParseReply(raw)
		if len(segments) != 1 {
			t.Errorf("input %q: expected single-element degradation, got %v", raw, segments)
		}
	}
}

func TestParseReply_EmptyReply(t *testing.T) {
	segments := ParseReply("   ")
	if len(segments) != 1 || segments[0] == "" {
		t.Errorf("expected a diagnostic segment, got %v", segments)
	}
}
