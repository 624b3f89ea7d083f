package driver

// Kind identifies one of the eleven page/action requests the driver
// can translate into a query sequence.
type Kind int

// Request kinds, one per reference-application action.
const (
	KindUser Kind = iota
	KindFrontpage
	KindComments
	KindRecent
	KindLogin
	KindLogout
	KindStory
	KindStoryVote
	KindCommentVote
	KindSubmit
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindFrontpage:
		return "frontpage"
	case KindComments:
		return "comments"
	case KindRecent:
		return "recent"
	case KindLogin:
		return "login"
	case KindLogout:
		return "logout"
	case KindStory:
		return "story"
	case KindStoryVote:
		return "story_vote"
	case KindCommentVote:
		return "comment_vote"
	case KindSubmit:
		return "submit"
	case KindComment:
		return "comment"
	}
	return "unknown"
}

// Vote is a vote direction
type Vote int8

// Vote directions
const (
	VoteUp Vote = iota
	VoteDown
)

// Request describes one action to execute against the database.
// Which payload fields are meaningful depends on Kind.
type Request struct {
	Kind Kind

	// ProfileUser is the synthetic user whose profile page is viewed
	// (KindUser only).
	ProfileUser int64

	// ShortID is the target story short id, or the target comment
	// short id for KindCommentVote, or the fresh short id for
	// KindSubmit and KindComment.
	ShortID string

	// StoryShortID is the story a new comment is posted on
	// (KindComment only).
	StoryShortID string

	// ParentShortID optionally names the parent comment for
	// KindComment. Empty means a top-level comment.
	ParentShortID string

	// Title is the story title for KindSubmit.
	Title string

	// Vote is the direction for KindStoryVote and KindCommentVote.
	Vote Vote
}
