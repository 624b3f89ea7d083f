package workload

import (
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/soupbench/trawler/internal/driver"
)

// Request frequencies per ten thousand, taken from a production access
// log. Story pages dominate, writes are rare.
const (
	weightStory       = 5500
	weightFrontpage   = 3000
	weightUser        = 600
	weightComments    = 300
	weightRecent      = 300
	weightLogin       = 150
	weightStoryVote   = 75
	weightCommentVote = 30
	weightSubmit      = 20
	weightComment     = 20
	weightLogout      = 5

	weightTotal = weightStory + weightFrontpage + weightUser + weightComments +
		weightRecent + weightLogin + weightStoryVote + weightCommentVote +
		weightSubmit + weightComment + weightLogout
)

// Primed dataset populations at scale 1.0.
const (
	baseUsers    = 9000
	baseStories  = 25000
	baseComments = 68000
)

// Mix generates the request stream: it samples request kinds by
// production weight, picks targets uniformly from the scaled
// populations, and allocates fresh row numbers for submissions and
// comments. Fresh-id counters are shared across issuers; everything
// else is per-issuer state.
type Mix struct {
	users    int64
	stories  int64
	comments int64

	authedShare float64

	nextStory   *atomic.Int64
	nextComment *atomic.Int64
}

// NewMix creates a request mix over populations scaled by memscale.
// Populations are floored at one row so a tiny scale still yields
// valid targets.
func NewMix(memscale, authedShare float64) *Mix {
	m := &Mix{
		users:       scalePopulation(baseUsers, memscale),
		stories:     scalePopulation(baseStories, memscale),
		comments:    scalePopulation(baseComments, memscale),
		authedShare: authedShare,
		nextStory:   &atomic.Int64{},
		nextComment: &atomic.Int64{},
	}
	m.nextStory.Store(m.stories)
	m.nextComment.Store(m.comments)
	return m
}

func scalePopulation(base int64, memscale float64) int64 {
	n := int64(float64(base) * memscale)
	if n < 1 {
		return 1
	}
	return n
}

// Users returns the number of primed synthetic users.
func (m *Mix) Users() int64 {
	return m.users
}

// Next draws one request and the identity it acts as. A nil identity
// means anonymous. Writes always act as a logged-in user; reads act as
// one with the configured probability.
func (m *Mix) Next(rng *rand.Rand) (*int64, driver.Request) {
	req := m.sample(rng)

	switch req.Kind {
	case driver.KindLogin, driver.KindLogout, driver.KindStoryVote,
		driver.KindCommentVote, driver.KindSubmit, driver.KindComment:
		uid := m.pickUser(rng)
		return &uid, req
	}

	if rng.Float64() < m.authedShare {
		uid := m.pickUser(rng)
		return &uid, req
	}
	return nil, req
}

func (m *Mix) sample(rng *rand.Rand) driver.Request {
	roll := rng.Intn(weightTotal)

	switch {
	case roll < weightStory:
		return driver.Request{
			Kind:    driver.KindStory,
			ShortID: ShortIDFor(rng.Int63n(m.stories)),
		}
	case roll < weightStory+weightFrontpage:
		return driver.Request{Kind: driver.KindFrontpage}
	case roll < weightStory+weightFrontpage+weightUser:
		return driver.Request{
			Kind:        driver.KindUser,
			ProfileUser: m.pickUser(rng),
		}
	case roll < weightStory+weightFrontpage+weightUser+weightComments:
		return driver.Request{Kind: driver.KindComments}
	case roll < weightStory+weightFrontpage+weightUser+weightComments+weightRecent:
		return driver.Request{Kind: driver.KindRecent}
	case roll < weightStory+weightFrontpage+weightUser+weightComments+weightRecent+weightLogin:
		return driver.Request{Kind: driver.KindLogin}
	case roll < weightStory+weightFrontpage+weightUser+weightComments+weightRecent+weightLogin+weightStoryVote:
		return driver.Request{
			Kind:    driver.KindStoryVote,
			ShortID: ShortIDFor(rng.Int63n(m.stories)),
			Vote:    m.pickVote(rng),
		}
	case roll < weightStory+weightFrontpage+weightUser+weightComments+weightRecent+weightLogin+weightStoryVote+weightCommentVote:
		return driver.Request{
			Kind:    driver.KindCommentVote,
			ShortID: ShortIDFor(rng.Int63n(m.comments)),
			Vote:    m.pickVote(rng),
		}
	case roll < weightStory+weightFrontpage+weightUser+weightComments+weightRecent+weightLogin+weightStoryVote+weightCommentVote+weightSubmit:
		id := m.nextStory.Add(1) - 1
		return driver.Request{
			Kind:    driver.KindSubmit,
			ShortID: ShortIDFor(id),
			Title:   fmt.Sprintf("benchmark story %d", id),
		}
	case roll < weightStory+weightFrontpage+weightUser+weightComments+weightRecent+weightLogin+weightStoryVote+weightCommentVote+weightSubmit+weightComment:
		req := driver.Request{
			Kind:         driver.KindComment,
			ShortID:      ShortIDFor(m.nextComment.Add(1) - 1),
			StoryShortID: ShortIDFor(rng.Int63n(m.stories)),
		}
		// half the comments reply to an existing comment
		if rng.Intn(2) == 0 {
			req.ParentShortID = ShortIDFor(rng.Int63n(m.comments))
		}
		return req
	default:
		return driver.Request{Kind: driver.KindLogout}
	}
}

func (m *Mix) pickUser(rng *rand.Rand) int64 {
	return rng.Int63n(m.users)
}

func (m *Mix) pickVote(rng *rand.Rand) driver.Vote {
	// votes skew heavily positive
	if rng.Intn(10) == 0 {
		return driver.VoteDown
	}
	return driver.VoteUp
}
