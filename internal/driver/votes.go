package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/soupbench/trawler/internal/models"
)

// VoteHandler executes story and comment votes. Each vote is one
// transaction: the vote row, the author's karma, the target's
// denormalized counters, and the story's simplified hotness shift all
// commit together or not at all.
type VoteHandler struct {
	logger *zap.Logger
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(logger *zap.Logger) *VoteHandler {
	return &VoteHandler{logger: logger}
}

func voteValue(v Vote) int16 {
	if v == VoteUp {
		return 1
	}
	return 0
}

func karmaDelta(v Vote) int64 {
	if v == VoteUp {
		return 1
	}
	return -1
}

func upvoteDelta(v Vote) int64 {
	if v == VoteUp {
		return 1
	}
	return 0
}

func downvoteDelta(v Vote) int64 {
	if v == VoteUp {
		return 0
	}
	return 1
}

// hotnessDelta is the simplified ranking rule: one point per vote in
// either direction, replacing the reference hotness algorithm.
func hotnessDelta(v Vote) float64 {
	if v == VoteUp {
		return 1.0
	}
	return -1.0
}

// confidence is the comment ranking score, the upvote share of all
// votes on the comment.
func confidence(upvotes, downvotes int64) float64 {
	return float64(upvotes) / (float64(upvotes) + float64(downvotes))
}

// voteTally carries the per-comment vote counts consumed by the
// reference scoring function.
type voteTally struct {
	Upvotes   int64
	Downvotes int64
}

// nonAuthorTallyQuery reads the vote tallies on a story's comments,
// excluding the story author's own. Every write handler issues it
// before recomputing hotness.
const nonAuthorTallyQuery = "SELECT comments.upvotes, comments.downvotes FROM comments WHERE comments.story_id = ? AND user_id <> ?"

// hotnessInputs reads the rows the reference scoring function
// consumes: the story's active tags, the vote tallies on non-author
// comments, and any merged story ids. The simplified rule ignores the
// values; the read cost is what gets reproduced.
func hotnessInputs(ctx context.Context, tx *gorm.DB, storyID, authorID int64) error {
	var tags []models.Tag
	err := tx.WithContext(ctx).
		Raw("SELECT tags.* FROM tags INNER JOIN taggings ON tags.id = taggings.tag_id WHERE taggings.story_id = ?", storyID).
		Scan(&tags).Error
	if err != nil {
		return err
	}

	var tallies []voteTally
	err = tx.WithContext(ctx).
		Raw(nonAuthorTallyQuery, storyID, authorID).
		Scan(&tallies).Error
	if err != nil {
		return err
	}

	var merged []int64
	return tx.WithContext(ctx).
		Model(&models.Story{}).
		Where("merged_story_id = ?", storyID).
		Pluck("id", &merged).Error
}

// StoryVote records a vote on the story with the given short id. The
// existing-vote check is read-only: a duplicate vote is not prevented
// here, matching the reference behavior, and any store-level rejection
// of the insert fails the task.
func (h *VoteHandler) StoryVote(ctx context.Context, conn *gorm.DB, uid int64, shortID string, v Vote) error {
	var story models.Story
	err := conn.WithContext(ctx).
		Where("short_id = ?", shortID).
		Order("id ASC").
		First(&story).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("story %q does not exist", shortID)
		}
		return err
	}

	var existing []models.Vote
	err = conn.WithContext(ctx).
		Where("votes.user_id = ? AND votes.story_id = ? AND votes.comment_id IS NULL", uid, story.ID).
		Order("id ASC").
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return err
	}

	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&models.Vote{
			UserID:  uid,
			StoryID: story.ID,
			Vote:    voteValue(v),
		}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.User{}).
			Where("id = ?", story.UserID).
			UpdateColumn("karma", gorm.Expr("karma + ?", karmaDelta(v))).Error
		if err != nil {
			return err
		}

		if err := hotnessInputs(ctx, tx, story.ID, story.UserID); err != nil {
			return err
		}

		return tx.Model(&models.Story{}).
			Where("id = ?", story.ID).
			UpdateColumns(map[string]interface{}{
				"upvotes":   gorm.Expr("COALESCE(upvotes, 0) + ?", upvoteDelta(v)),
				"downvotes": gorm.Expr("COALESCE(downvotes, 0) + ?", downvoteDelta(v)),
				"hotness":   story.Hotness + hotnessDelta(v),
			}).Error
	})
}

// CommentVote records a vote on the comment with the given short id
// and shifts the comment's story by the same simplified hotness rule.
func (h *VoteHandler) CommentVote(ctx context.Context, conn *gorm.DB, uid int64, shortID string, v Vote) error {
	var comment models.Comment
	err := conn.WithContext(ctx).
		Where("short_id = ?", shortID).
		Order("id ASC").
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("comment %q does not exist", shortID)
		}
		return err
	}

	var existing []models.Vote
	err = conn.WithContext(ctx).
		Where("votes.user_id = ? AND votes.story_id = ? AND votes.comment_id = ?", uid, comment.StoryID, comment.ID).
		Order("id ASC").
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return err
	}

	// the pre-vote tallies feed the confidence write below
	conf := confidence(comment.Upvotes, comment.Downvotes)

	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&models.Vote{
			UserID:    uid,
			StoryID:   comment.StoryID,
			CommentID: sql.NullInt64{Int64: comment.ID, Valid: true},
			Vote:      voteValue(v),
		}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.User{}).
			Where("id = ?", comment.UserID).
			UpdateColumn("karma", gorm.Expr("karma + ?", karmaDelta(v))).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.Comment{}).
			Where("id = ?", comment.ID).
			UpdateColumns(map[string]interface{}{
				"upvotes":    gorm.Expr("upvotes + ?", upvoteDelta(v)),
				"downvotes":  gorm.Expr("downvotes + ?", downvoteDelta(v)),
				"confidence": conf,
			}).Error
		if err != nil {
			return err
		}

		var story models.Story
		err = tx.Where("id = ?", comment.StoryID).Order("id ASC").First(&story).Error
		if err != nil {
			return err
		}

		if err := hotnessInputs(ctx, tx, story.ID, story.UserID); err != nil {
			return err
		}

		return tx.Model(&models.Story{}).
			Where("id = ?", story.ID).
			UpdateColumns(map[string]interface{}{
				"upvotes":   gorm.Expr("COALESCE(upvotes, 0) + ?", upvoteDelta(v)),
				"downvotes": gorm.Expr("COALESCE(downvotes, 0) + ?", downvoteDelta(v)),
				"hotness":   story.Hotness + hotnessDelta(v),
			}).Error
	})
}
