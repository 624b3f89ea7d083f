package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/soupbench/trawler/internal/models"
)

// Hotness values written by the submission path. The initial value is
// what a one-upvote story scores; the post-commit rewrite reflects the
// tag multiplier applied by the scorer.
const (
	initialStoryHotness   = -19216.2884921
	submittedStoryHotness = -19216.5479744
)

// freshCommentConfidence is the score a brand-new comment gets from
// its single self-upvote.
const freshCommentConfidence = 0.1828847834138887

// Fixed bodies keep row sizes constant across generated content.
const (
	storyBody       = "to infinity"
	storyBodyHTML   = "<p>to infinity</p>\n"
	commentBody     = "moar benchmarking"
	commentBodyHTML = "<p>moar benchmarking</p>\n"
)

// seedTag is the tag every generated story is filed under. The primed
// dataset creates it; its absence means the target schema was never
// loaded.
const seedTag = "test"

// PostHandler executes the two content-creation actions, story
// submission and comment posting. Both wrap their writes in a single
// transaction and bump the author's keystore counter.
type PostHandler struct {
	logger *zap.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(logger *zap.Logger) *PostHandler {
	return &PostHandler{logger: logger}
}

// bumpKeystore increments the named per-user counter, creating it at 1
// on first use. On MySQL this renders as INSERT ... ON DUPLICATE KEY
// UPDATE, so concurrent bumps never lose increments.
func bumpKeystore(tx *gorm.DB, key string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": gorm.Expr("`value` + 1")}),
	}).Create(&models.Keystore{Key: key, Value: 1}).Error
}

// readKeystore reads the counter back, as the page render does after
// the bump.
func readKeystore(tx *gorm.DB, key string) error {
	var rows []models.Keystore
	return tx.Where("`key` = ?", key).
		Order("`key` ASC").
		Limit(1).
		Find(&rows).Error
}

// Submit creates a new story with the given short id and title, files
// it under the seed tag, and self-upvotes it. The short id is assumed
// unique by construction; the availability check is still issued to
// reproduce the application's read.
func (h *PostHandler) Submit(ctx context.Context, conn *gorm.DB, uid int64, shortID, title string) error {
	var tag models.Tag
	err := conn.WithContext(ctx).
		Where("inactive = 0 AND tag = ?", seedTag).
		Order("id ASC").
		First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("tag %q does not exist, is the dataset primed?", seedTag)
		}
		return err
	}

	var one []int64
	err = conn.WithContext(ctx).
		Raw("SELECT 1 AS one FROM stories WHERE stories.short_id = ? ORDER BY stories.id ASC LIMIT 1", shortID).
		Scan(&one).Error
	if err != nil {
		return err
	}

	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		story := models.Story{
			CreatedAt:             time.Now(),
			UserID:                uid,
			Title:                 title,
			Description:           storyBody,
			ShortID:               shortID,
			Upvotes:               1,
			Hotness:               initialStoryHotness,
			MarkeddownDescription: storyBodyHTML,
		}
		if err := tx.Create(&story).Error; err != nil {
			return err
		}

		err := tx.Create(&models.Tagging{
			StoryID: story.ID,
			TagID:   tag.ID,
		}).Error
		if err != nil {
			return err
		}

		key := keystoreKey(uid, "stories_submitted")
		if err := bumpKeystore(tx, key); err != nil {
			return err
		}
		if err := readKeystore(tx, key); err != nil {
			return err
		}

		var own []models.Vote
		err = tx.Where("votes.user_id = ? AND votes.story_id = ? AND votes.comment_id IS NULL", uid, story.ID).
			Order("id ASC").
			Limit(1).
			Find(&own).Error
		if err != nil {
			return err
		}

		err = tx.Create(&models.Vote{
			UserID:  uid,
			StoryID: story.ID,
			Vote:    1,
		}).Error
		if err != nil {
			return err
		}

		var tallies []voteTally
		err = tx.Raw(nonAuthorTallyQuery, story.ID, uid).
			Scan(&tallies).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.Story{}).
			Where("id = ?", story.ID).
			UpdateColumn("hotness", submittedStoryHotness).Error
	})
}

// Comment posts a new comment on the story with the given short id,
// optionally as a reply to a parent comment, and self-upvotes it. A
// missing story is fatal; a missing parent degrades to a top-level
// comment, since the parent may have raced away.
func (h *PostHandler) Comment(ctx context.Context, conn *gorm.DB, uid int64, shortID, storyShortID, parentShortID string) error {
	var story models.Story
	err := conn.WithContext(ctx).
		Where("short_id = ?", storyShortID).
		Order("id ASC").
		First(&story).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("story %q does not exist", storyShortID)
		}
		return err
	}

	var author []models.User
	err = conn.WithContext(ctx).
		Where("id = ?", story.UserID).
		Limit(1).
		Find(&author).Error
	if err != nil {
		return err
	}

	var parent *models.Comment
	if parentShortID != "" {
		var parents []models.Comment
		err = conn.WithContext(ctx).
			Where("comments.story_id = ? AND comments.short_id = ?", story.ID, parentShortID).
			Order("id ASC").
			Limit(1).
			Find(&parents).Error
		if err != nil {
			return err
		}
		if len(parents) > 0 {
			parent = &parents[0]
		} else {
			h.logger.Warn("parent comment not found, posting top-level",
				zap.String("story", storyShortID),
				zap.String("parent", parentShortID))
		}
	}

	var one []int64
	err = conn.WithContext(ctx).
		Raw("SELECT 1 AS one FROM comments WHERE comments.short_id = ? ORDER BY comments.id ASC LIMIT 1", shortID).
		Scan(&one).Error
	if err != nil {
		return err
	}

	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		comment := models.Comment{
			CreatedAt:         now,
			UpdatedAt:         now,
			ShortID:           shortID,
			StoryID:           story.ID,
			UserID:            uid,
			Comment:           commentBody,
			Upvotes:           1,
			Confidence:        freshCommentConfidence,
			MarkeddownComment: commentBodyHTML,
		}
		if parent != nil {
			comment.ParentCommentID = sql.NullInt64{Int64: parent.ID, Valid: true}
			if parent.ThreadID.Valid {
				comment.ThreadID = parent.ThreadID
			} else {
				comment.ThreadID = sql.NullInt64{Int64: parent.ID, Valid: true}
			}
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		var own []models.Vote
		err := tx.Where("votes.user_id = ? AND votes.story_id = ? AND votes.comment_id = ?", uid, story.ID, comment.ID).
			Order("id ASC").
			Limit(1).
			Find(&own).Error
		if err != nil {
			return err
		}

		err = tx.Create(&models.Vote{
			UserID:    uid,
			StoryID:   story.ID,
			CommentID: sql.NullInt64{Int64: comment.ID, Valid: true},
			Vote:      1,
		}).Error
		if err != nil {
			return err
		}

		var merged []int64
		err = tx.Model(&models.Story{}).
			Where("merged_story_id = ?", story.ID).
			Pluck("id", &merged).Error
		if err != nil {
			return err
		}

		// the comment count is derived by re-reading the thread, not
		// incremented, so the stored value self-heals
		var thread []models.Comment
		err = tx.Where("comments.story_id = ?", story.ID).
			Order("(CAST(upvotes AS signed) - CAST(downvotes AS signed)) < 0 ASC, confidence DESC").
			Find(&thread).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.Story{}).
			Where("id = ?", story.ID).
			UpdateColumn("comments_count", len(thread)).Error
		if err != nil {
			return err
		}

		if err := hotnessInputs(ctx, tx, story.ID, story.UserID); err != nil {
			return err
		}

		err = tx.Model(&models.Story{}).
			Where("id = ?", story.ID).
			UpdateColumn("hotness", story.Hotness).Error
		if err != nil {
			return err
		}

		key := keystoreKey(uid, "comments_posted")
		if err := bumpKeystore(tx, key); err != nil {
			return err
		}
		return readKeystore(tx, key)
	})
}
