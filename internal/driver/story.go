package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/soupbench/trawler/internal/models"
)

// StoryHandler renders a single story page: the story and its author,
// the read-ribbon upsert for authenticated viewers, the ordered
// comment thread with commenter and vote lookups, and the story's
// tags.
type StoryHandler struct {
	logger *zap.Logger
}

// NewStoryHandler creates a new story handler
func NewStoryHandler(logger *zap.Logger) *StoryHandler {
	return &StoryHandler{logger: logger}
}

// View runs the story page sequence for the story with the given
// short id. A missing story is fatal to the request. The only write
// is the read-ribbon upsert, idempotent per (user, story) apart from
// its timestamp.
func (h *StoryHandler) View(ctx context.Context, conn *gorm.DB, actingAs *int64, shortID string) error {
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

	var author []models.User
	err = conn.WithContext(ctx).
		Where("id = ?", story.UserID).
		Limit(1).
		Find(&author).Error
	if err != nil {
		return err
	}

	if actingAs != nil {
		if err := h.touchReadRibbon(ctx, conn, *actingAs, story.ID); err != nil {
			return err
		}
	}

	var merged []int64
	err = conn.WithContext(ctx).
		Model(&models.Story{}).
		Where("merged_story_id = ?", story.ID).
		Pluck("id", &merged).Error
	if err != nil {
		return err
	}

	// negative-score comments sort below positive ones, then by
	// descending confidence
	var comments []models.Comment
	err = conn.WithContext(ctx).
		Where("comments.story_id = ?", story.ID).
		Order("(CAST(upvotes AS signed) - CAST(downvotes AS signed)) < 0 ASC, confidence DESC").
		Find(&comments).Error
	if err != nil {
		return err
	}

	commenters, commentIDs, _ := foldComments(comments)

	var users []models.User
	if err := conn.WithContext(ctx).Where("id IN ?", commenters).Find(&users).Error; err != nil {
		return err
	}

	var commentVotes []models.Vote
	err = conn.WithContext(ctx).
		Where("votes.comment_id IN ?", commentIDs).
		Find(&commentVotes).Error
	if err != nil {
		return err
	}

	if actingAs != nil {
		if err := h.viewerAnnotations(ctx, conn, *actingAs, story.ID); err != nil {
			return err
		}
	}

	var taggings []models.Tagging
	err = conn.WithContext(ctx).
		Where("taggings.story_id = ?", story.ID).
		Find(&taggings).Error
	if err != nil {
		return err
	}

	var tags []models.Tag
	return conn.WithContext(ctx).Where("id IN ?", foldTaggings(taggings)).Find(&tags).Error
}

// touchReadRibbon records that the viewer has seen the story: insert
// on first view, bump updated_at on repeat views.
func (h *StoryHandler) touchReadRibbon(ctx context.Context, conn *gorm.DB, uid, storyID int64) error {
	var ribbons []models.ReadRibbon
	err := conn.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", uid, storyID).
		Order("id ASC").
		Limit(1).
		Find(&ribbons).Error
	if err != nil {
		return err
	}

	now := time.Now()
	if len(ribbons) == 0 {
		return conn.WithContext(ctx).Create(&models.ReadRibbon{
			CreatedAt: now,
			UpdatedAt: now,
			UserID:    uid,
			StoryID:   storyID,
		}).Error
	}

	return conn.WithContext(ctx).
		Model(&models.ReadRibbon{}).
		Where("id = ?", ribbons[0].ID).
		UpdateColumn("updated_at", now).Error
}

func (h *StoryHandler) viewerAnnotations(ctx context.Context, conn *gorm.DB, uid, storyID int64) error {
	var votes []models.Vote
	err := conn.WithContext(ctx).
		Where("votes.user_id = ? AND votes.story_id = ? AND votes.comment_id IS NULL", uid, storyID).
		Order("id ASC").
		Limit(1).
		Find(&votes).Error
	if err != nil {
		return err
	}

	var hidden []models.HiddenStory
	err = conn.WithContext(ctx).
		Where("hidden_stories.user_id = ? AND hidden_stories.story_id = ?", uid, storyID).
		Order("id ASC").
		Limit(1).
		Find(&hidden).Error
	if err != nil {
		return err
	}

	var saved []models.SavedStory
	return conn.WithContext(ctx).
		Where("saved_stories.user_id = ? AND saved_stories.story_id = ?", uid, storyID).
		Order("id ASC").
		Limit(1).
		Find(&saved).Error
}
