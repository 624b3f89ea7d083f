package driver

import (
	"math"
	"strings"
	"testing"
)

func TestNonAuthorTallyQueryShape(t *testing.T) {
	// single-table read parameterized on story and author, no join
	if strings.Contains(nonAuthorTallyQuery, "JOIN") {
		t.Errorf("tally query should not join: %s", nonAuthorTallyQuery)
	}
	if got := strings.Count(nonAuthorTallyQuery, "?"); got != 2 {
		t.Errorf("tally query has %d parameters, want 2", got)
	}
	if !strings.Contains(nonAuthorTallyQuery, "user_id <> ?") {
		t.Errorf("tally query should exclude the author: %s", nonAuthorTallyQuery)
	}
}

func TestVoteDeltas(t *testing.T) {
	tests := []struct {
		name      string
		vote      Vote
		value     int16
		karma     int64
		upvotes   int64
		downvotes int64
		hotness   float64
	}{
		{
			name:      "upvote",
			vote:      VoteUp,
			value:     1,
			karma:     1,
			upvotes:   1,
			downvotes: 0,
			hotness:   1.0,
		},
		{
			name:      "downvote",
			vote:      VoteDown,
			value:     0,
			karma:     -1,
			upvotes:   0,
			downvotes: 1,
			hotness:   -1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := voteValue(tt.vote); got != tt.value {
				t.Errorf("voteValue() = %d, want %d", got, tt.value)
			}
			if got := karmaDelta(tt.vote); got != tt.karma {
				t.Errorf("karmaDelta() = %d, want %d", got, tt.karma)
			}
			if got := upvoteDelta(tt.vote); got != tt.upvotes {
				t.Errorf("upvoteDelta() = %d, want %d", got, tt.upvotes)
			}
			if got := downvoteDelta(tt.vote); got != tt.downvotes {
				t.Errorf("downvoteDelta() = %d, want %d", got, tt.downvotes)
			}
			if got := hotnessDelta(tt.vote); got != tt.hotness {
				t.Errorf("hotnessDelta() = %f, want %f", got, tt.hotness)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name      string
		upvotes   int64
		downvotes int64
		want      float64
	}{
		{name: "all upvotes", upvotes: 4, downvotes: 0, want: 1.0},
		{name: "split", upvotes: 1, downvotes: 1, want: 0.5},
		{name: "mostly down", upvotes: 1, downvotes: 3, want: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := confidence(tt.upvotes, tt.downvotes)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("confidence(%d, %d) = %f, want %f", tt.upvotes, tt.downvotes, got, tt.want)
			}
		})
	}
}
