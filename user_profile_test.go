package petsdk

import (
	"fmt"
	"math"
	"testing"
	"time"
)

// ══════════════════════════════════════════════
// User profile
// ══════════════════════════════════════════════

func styleSum(u *UserProfile) float64 {
	sum := 0.0
	for _, w := range u.InteractionStyleVector {
		sum += w
	}
	return sum
}

func TestUserProfile_StartsUniform(t *testing.T) {
	u := NewUserProfile("u1")
	if err := u.Validate(); err != nil {
		t.Fatal(err)
	}
	for _, d := range AllStyleDimensions {
		if u.InteractionStyleVector[d] != 0.2 {
			t.Fatalf("expected uniform 0.2 weight, got %v for %s", u.InteractionStyleVector[d], d)
		}
	}
}

func TestUserProfile_NudgeKeepsSimplex(t *testing.T) {
	u := NewUserProfile("u1")
	for i := 0; i < 100; i++ {
		u.NudgeStyle(StylePlayful, 0.08)
		if s := styleSum(u); math.Abs(s-1) > 1e-9 {
			t.Fatalf("style vector sum %v drifted from 1 at step %d", s, i)
		}
	}
	if u.DominantStyle() != StylePlayful {
		t.Fatalf("repeated playful nudges should dominate, got %s", u.DominantStyle())
	}
}

func TestUserProfile_ValidateRejectsBrokenSimplex(t *testing.T) {
	u := NewUserProfile("u1")
	u.InteractionStyleVector[StyleGentle] = 0.9 // sum now > 1
	if err := u.Validate(); err == nil {
		t.Fatal("broken simplex should fail validation")
	}
}

func TestUserProfile_ConfidenceAsymptotic(t *testing.T) {
	u := NewUserProfile("u1")
	prev := 0.0
	for i := 0; i < 200; i++ {
		u.BumpConfidence(0.05)
		if u.ConfidenceLevel > 1 {
			t.Fatalf("confidence exceeded 1: %v", u.ConfidenceLevel)
		}
		if u.ConfidenceLevel < prev {
			t.Fatal("confidence should be non-decreasing")
		}
		prev = u.ConfidenceLevel
	}
	if u.ConfidenceLevel < 0.99 {
		t.Fatalf("confidence should approach 1, got %v", u.ConfidenceLevel)
	}
}

func TestUserProfile_ResponseStats(t *testing.T) {
	u := NewUserProfile("u1")

	u.RecordResponseStats([]string{"❤️", "😂"}, 2*time.Second)
	u.InteractionCount++
	if u.Stats.EmojiReuseRate != 0 {
		t.Fatalf("first response has no reuse, got %v", u.Stats.EmojiReuseRate)
	}
	if u.Stats.MeanMessageLength != 2 {
		t.Fatalf("expected mean length 2, got %v", u.Stats.MeanMessageLength)
	}

	u.RecordResponseStats([]string{"❤️"}, 4*time.Second)
	u.InteractionCount++
	if u.Stats.EmojiReuseRate <= 0 {
		t.Fatalf("repeated ❤️ should register reuse, got %v", u.Stats.EmojiReuseRate)
	}
	if u.Stats.MeanResponseLatency != 3*time.Second {
		t.Fatalf("expected mean latency 3s, got %v", u.Stats.MeanResponseLatency)
	}
}

// The reuse set must stay bounded no matter how many distinct tokens a user
// sends; reuse of tracked tokens still registers at the cap.
func TestUserProfile_SeenTokensBounded(t *testing.T) {
	u := NewUserProfile("u1")
	for i := 0; i < maxSeenTokens+200; i++ {
		u.RecordResponseStats([]string{fmt.Sprintf("tok-%d", i)}, time.Second)
		u.InteractionCount++
	}
	if len(u.Stats.SeenTokens) > maxSeenTokens {
		t.Fatalf("seen-token set must stay bounded at %d, got %d", maxSeenTokens, len(u.Stats.SeenTokens))
	}

	before := u.Stats.EmojiReuseRate
	u.RecordResponseStats([]string{"tok-0"}, time.Second)
	u.InteractionCount++
	if u.Stats.EmojiReuseRate <= before {
		t.Fatalf("reuse of a tracked token should raise the rate, got %v after %v", u.Stats.EmojiReuseRate, before)
	}
}

func TestUserProfile_CloneIsDeep(t *testing.T) {
	u := NewUserProfile("u1")
	u.RecordResponseStats([]string{"❤️"}, time.Second)
	cp := u.Clone()
	cp.NudgeStyle(StyleSerious, 0.5)
	cp.Stats.SeenTokens["😂"] = true

	if u.DominantStyle() == StyleSerious {
		t.Fatal("clone must not share the style vector")
	}
	if u.Stats.SeenTokens["😂"] {
		t.Fatal("clone must not share the seen-token set")
	}
}
