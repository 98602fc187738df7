package bridge

import (
	"fmt"
)

// Mode selects a content template. Unrecognized platform names map to
// ModeDefault rather than failing: the template choice is a preference,
// not a contract.
type Mode uint8

const (
	ModeDefault Mode = iota
	ModeLinkedIn
	ModeTwitter
)

// ParseMode maps a platform name to its Mode.
func ParseMode(platform string) Mode {
	switch platform {
	case "linkedin":
		return ModeLinkedIn
	case "twitter":
		return ModeTwitter
	default:
		return ModeDefault
	}
}

// String returns the platform name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeLinkedIn:
		return "linkedin"
	case ModeTwitter:
		return "twitter"
	default:
		return "default"
	}
}

// hashtags returns the tags attached to posts generated for the mode.
func (m Mode) hashtags() []string {
	switch m {
	case ModeLinkedIn:
		return []string{"#research", "#markets"}
	case ModeTwitter:
		return []string{"#signals", "#trading"}
	default:
		return nil
	}
}

// defaultTimeframe is used when the record's timeframe field is absent.
const defaultTimeframe = "24h"

// twitterLimit is the platform's hard post length in bytes.
const twitterLimit = 280

// renderContent formats the content body for a research record and its
// precomputed score. Twitter output is clamped to the platform limit.
func renderContent(r *Research, sc float64, mode Mode) string {
	timeframe := defaultTimeframe
	if len(r.Timeframe) > 0 {
		timeframe = string(r.Timeframe)
	}

	switch mode {
	case ModeLinkedIn:
		return fmt.Sprintf(
			"🚀 Research Update: %d signals detected with %.3f strength. Performance score: %.2f. %d opportunities identified in %s.",
			r.Signals, r.Strength, sc, r.Opportunities, timeframe)
	case ModeTwitter:
		return clampUTF8(fmt.Sprintf(
			"🔥 %d signals @ %.3f strength | Score: %.1f | %d ops | %s #signals #trading",
			r.Signals, r.Strength, sc, r.Opportunities, timeframe), twitterLimit)
	default:
		return fmt.Sprintf("Analysis: %d signals, performance %.2f", r.Signals, sc)
	}
}

// clampUTF8 truncates s to at most limit bytes without splitting a rune.
func clampUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && s[limit]&0xc0 == 0x80 {
		limit--
	}
	return s[:limit]
}
