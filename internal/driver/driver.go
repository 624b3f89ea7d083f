package driver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/soupbench/trawler/internal/db"
	"github.com/soupbench/trawler/pkg/logging"
)

// Driver translates abstract page/action requests into the query
// sequences the reference web application would issue. Each request
// runs on a single pooled connection held from session resolution
// through the notification tail.
type Driver struct {
	db       *db.DB
	auth     *AuthHandler
	profile  *ProfileHandler
	listings *ListingHandler
	story    *StoryHandler
	votes    *VoteHandler
	posts    *PostHandler
	notify   *NotifyTail
	logger   *zap.Logger
}

// New creates a new request driver
func New(database *db.DB) *Driver {
	logger := logging.WithComponent("driver")

	return &Driver{
		db:       database,
		auth:     NewAuthHandler(logger),
		profile:  NewProfileHandler(logger),
		listings: NewListingHandler(logger),
		story:    NewStoryHandler(logger),
		votes:    NewVoteHandler(logger),
		posts:    NewPostHandler(logger),
		notify:   NewNotifyTail(logger),
		logger:   logger,
	}
}

// Execute runs one request as the given acting user (nil for
// anonymous) and returns the end-to-end latency of the whole sequence,
// connection wait included. A failed step aborts the remaining steps;
// the error stands in for the opaque failure signal.
func (d *Driver) Execute(ctx context.Context, actingAs *int64, req Request) (time.Duration, error) {
	start := time.Now()

	err := d.db.Connection(func(conn *gorm.DB) error {
		if actingAs != nil {
			if err := d.auth.ResolveSession(ctx, conn, *actingAs); err != nil {
				return fmt.Errorf("session lookup: %w", err)
			}
		}

		if err := d.dispatch(ctx, conn, actingAs, req); err != nil {
			return fmt.Errorf("%s: %w", req.Kind, err)
		}

		if actingAs != nil {
			if err := d.notify.Refresh(ctx, conn, *actingAs); err != nil {
				return fmt.Errorf("notifications: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return time.Since(start), nil
}

func (d *Driver) dispatch(ctx context.Context, conn *gorm.DB, actingAs *int64, req Request) error {
	switch req.Kind {
	case KindUser:
		return d.profile.View(ctx, conn, req.ProfileUser)
	case KindFrontpage:
		return d.listings.Frontpage(ctx, conn, actingAs)
	case KindComments:
		return d.listings.Comments(ctx, conn, actingAs)
	case KindRecent:
		return d.listings.Recent(ctx, conn, actingAs)
	case KindLogin:
		uid, err := requireActing(actingAs, req.Kind)
		if err != nil {
			return err
		}
		return d.auth.Login(ctx, conn, uid)
	case KindLogout:
		// the reference application only tears down the session cookie
		return nil
	case KindStory:
		return d.story.View(ctx, conn, actingAs, req.ShortID)
	case KindStoryVote:
		uid, err := requireActing(actingAs, req.Kind)
		if err != nil {
			return err
		}
		return d.votes.StoryVote(ctx, conn, uid, req.ShortID, req.Vote)
	case KindCommentVote:
		uid, err := requireActing(actingAs, req.Kind)
		if err != nil {
			return err
		}
		return d.votes.CommentVote(ctx, conn, uid, req.ShortID, req.Vote)
	case KindSubmit:
		uid, err := requireActing(actingAs, req.Kind)
		if err != nil {
			return err
		}
		return d.posts.Submit(ctx, conn, uid, req.ShortID, req.Title)
	case KindComment:
		uid, err := requireActing(actingAs, req.Kind)
		if err != nil {
			return err
		}
		return d.posts.Comment(ctx, conn, uid, req.ShortID, req.StoryShortID, req.ParentShortID)
	}
	return fmt.Errorf("unknown request kind %d", req.Kind)
}

func requireActing(actingAs *int64, kind Kind) (int64, error) {
	if actingAs == nil {
		return 0, fmt.Errorf("%s requires an acting user", kind)
	}
	return *actingAs, nil
}
