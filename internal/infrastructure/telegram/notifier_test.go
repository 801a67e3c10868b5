package telegram

import (
	"context"
	"strings"
	"testing"
)

func TestSplitMessageShortTextUnchanged(t *testing.T) {
	t.Parallel()

	chunks := splitMessage("short digest")
	if len(chunks) != 1 || chunks[0] != "short digest" {
		t.Fatalf("unexpected chunks %#v", chunks)
	}
}

func TestSplitMessageBreaksOnLines(t *testing.T) {
	t.Parallel()

	line := strings.Repeat("x", 1500)
	text := strings.Join([]string{line, line, line, line}, "\n")

	chunks := splitMessage(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > maxMessageChars {
			t.Fatalf("chunk %d exceeds limit: %d chars", i, len(chunk))
		}
		if strings.HasPrefix(chunk, "\n") || strings.HasSuffix(chunk, "\n") {
			t.Fatalf("chunk %d has dangling newline", i)
		}
	}

	if rejoined := strings.Join(chunks, "\n"); rejoined != text {
		t.Fatal("splitting must not lose content")
	}
}

func TestPublishDigestRequiresConfiguration(t *testing.T) {
	t.Parallel()

	n := NewNotifier("", "")
	if err := n.PublishDigest(context.Background(), "digest"); err == nil {
		t.Fatal("expected error for missing token and chat id")
	}
}
