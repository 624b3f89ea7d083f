package workload

import (
	"math/rand"
	"testing"

	"github.com/soupbench/trawler/internal/driver"
)

func TestMixWeights(t *testing.T) {
	if weightTotal != 10000 {
		t.Fatalf("weightTotal = %d, want 10000", weightTotal)
	}

	m := NewMix(1.0, 0.5)
	rng := rand.New(rand.NewSource(42))

	counts := make(map[driver.Kind]int)
	const n = 200000
	for i := 0; i < n; i++ {
		_, req := m.Next(rng)
		counts[req.Kind]++
	}

	// each kind should land near its weight; the rarest kinds get a
	// loose bound
	tests := []struct {
		kind   driver.Kind
		weight int
	}{
		{driver.KindStory, weightStory},
		{driver.KindFrontpage, weightFrontpage},
		{driver.KindUser, weightUser},
		{driver.KindComments, weightComments},
		{driver.KindRecent, weightRecent},
		{driver.KindLogin, weightLogin},
		{driver.KindStoryVote, weightStoryVote},
	}
	for _, tt := range tests {
		want := n * tt.weight / weightTotal
		got := counts[tt.kind]
		if got < want/2 || got > want*2 {
			t.Errorf("%s: got %d samples, want about %d", tt.kind, got, want)
		}
	}
}

func TestMixWritesAlwaysAuthed(t *testing.T) {
	m := NewMix(1.0, 0.0)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50000; i++ {
		uid, req := m.Next(rng)
		switch req.Kind {
		case driver.KindLogin, driver.KindLogout, driver.KindStoryVote,
			driver.KindCommentVote, driver.KindSubmit, driver.KindComment:
			if uid == nil {
				t.Fatalf("%s issued anonymously", req.Kind)
			}
		default:
			if uid != nil {
				t.Fatalf("%s authed with authed_share 0", req.Kind)
			}
		}
	}
}

func TestMixFreshIDsAboveExisting(t *testing.T) {
	m := NewMix(1.0, 0.5)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 200000; i++ {
		_, req := m.Next(rng)
		switch req.Kind {
		case driver.KindSubmit:
			if id := ParseShortID(req.ShortID); id < m.stories {
				t.Fatalf("submit reused existing story id %d", id)
			}
		case driver.KindComment:
			if id := ParseShortID(req.ShortID); id < m.comments {
				t.Fatalf("comment reused existing comment id %d", id)
			}
			if sid := ParseShortID(req.StoryShortID); sid >= m.stories {
				t.Fatalf("comment targets unprimed story id %d", sid)
			}
		}
	}
}

func TestMixFreshIDsSharedAcrossIssuers(t *testing.T) {
	m := NewMix(1.0, 0.5)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := m.nextStory.Add(1) - 1
		s := ShortIDFor(id)
		if seen[s] {
			t.Fatalf("duplicate fresh short id %q", s)
		}
		seen[s] = true
	}
}

func TestMixTinyMemscale(t *testing.T) {
	m := NewMix(0.00001, 1.0)

	if m.users < 1 || m.stories < 1 || m.comments < 1 {
		t.Fatalf("populations not floored: users=%d stories=%d comments=%d",
			m.users, m.stories, m.comments)
	}

	// every kind must be drawable without panicking on an empty
	// population
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 20000; i++ {
		m.Next(rng)
	}
}

func TestMixScaling(t *testing.T) {
	m := NewMix(2.0, 0.5)
	if m.users != 2*baseUsers {
		t.Errorf("users = %d, want %d", m.users, 2*baseUsers)
	}
	if m.stories != 2*baseStories {
		t.Errorf("stories = %d, want %d", m.stories, 2*baseStories)
	}
	if m.comments != 2*baseComments {
		t.Errorf("comments = %d, want %d", m.comments, 2*baseComments)
	}
}
