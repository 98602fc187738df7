package bridge

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		platform string
		want     Mode
	}{
		{"linkedin", ModeLinkedIn},
		{"twitter", ModeTwitter},
		{"", ModeDefault},
		{"mastodon", ModeDefault},
		{"LinkedIn", ModeDefault}, // names are case-sensitive
	}
	for _, tt := range tests {
		if got := ParseMode(tt.platform); got != tt.want {
			t.Errorf("ParseMode(%q): expected %v, got %v", tt.platform, tt.want, got)
		}
	}
}

func TestRenderContent_LinkedIn(t *testing.T) {
	r := &Research{Signals: 45, Opportunities: 8, Strength: 1.247, Liquidity: 12_500_000, Timeframe: []byte("24h")}
	sc, err := score(r)
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	content := renderContent(r, sc, ModeLinkedIn)
	for _, want := range []string{"45", "1.247", "8", "24h"} {
		if !strings.Contains(content, want) {
			t.Errorf("linkedin content missing %q: %q", want, content)
		}
	}
}

func TestRenderContent_TwitterLimit(t *testing.T) {
	r := &Research{Signals: 45, Opportunities: 8, Strength: 1.247, Liquidity: 12_500_000, Timeframe: []byte("24h")}
	sc, err := score(r)
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	content := renderContent(r, sc, ModeTwitter)
	if len(content) > twitterLimit {
		t.Errorf("twitter content is %d bytes, limit is %d", len(content), twitterLimit)
	}

	// An oversized timeframe must not break the limit either.
	r.Timeframe = []byte(strings.Repeat("x", 500))
	content = renderContent(r, sc, ModeTwitter)
	if len(content) > twitterLimit {
		t.Errorf("clamped twitter content is %d bytes, limit is %d", len(content), twitterLimit)
	}
	if !utf8.ValidString(content) {
		t.Error("clamp split a rune")
	}
}

func TestRenderContent_DefaultTimeframe(t *testing.T) {
	r := &Research{Signals: 3, Opportunities: 1, Strength: 0.5, Liquidity: 100}
	content := renderContent(r, 1.0, ModeLinkedIn)
	if !strings.Contains(content, defaultTimeframe) {
		t.Errorf("expected default timeframe in %q", content)
	}
}

func TestClampUTF8(t *testing.T) {
	s := "héllo"
	for limit := 0; limit <= len(s); limit++ {
		out := clampUTF8(s, limit)
		if len(out) > limit {
			t.Errorf("limit %d: got %d bytes", limit, len(out))
		}
		if !utf8.ValidString(out) {
			t.Errorf("limit %d: invalid UTF-8 %q", limit, out)
		}
	}
}
