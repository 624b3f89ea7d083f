package driver

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/soupbench/trawler/internal/models"
)

// Page sizes match the reference application's listings.
const (
	frontpageLimit = 26
	recentLimit    = 25
	commentsLimit  = 20
)

// ListingHandler assembles the Frontpage, Recent and Comments pages:
// a primary listing query, a fold over the returned rows, then batched
// dependent lookups keyed by the folded id sets.
type ListingHandler struct {
	logger *zap.Logger
}

// NewListingHandler creates a new listing handler
func NewListingHandler(logger *zap.Logger) *ListingHandler {
	return &ListingHandler{logger: logger}
}

// Frontpage runs the hotness-ordered story listing and its dependent
// fan-out.
func (h *ListingHandler) Frontpage(ctx context.Context, conn *gorm.DB, actingAs *int64) error {
	q := conn.WithContext(ctx).
		Where("stories.merged_story_id IS NULL").
		Where("stories.is_expired = 0").
		Where("(CAST(upvotes AS signed) - CAST(downvotes AS signed)) >= 0")

	if actingAs != nil {
		filtered, err := h.tagFilters(ctx, conn, *actingAs)
		if err != nil {
			return err
		}
		q = q.Where("stories.id NOT IN (SELECT hidden_stories.story_id FROM hidden_stories WHERE hidden_stories.user_id = ?)", *actingAs)
		if len(filtered) > 0 {
			q = q.Where("stories.id NOT IN (SELECT taggings.story_id FROM taggings WHERE taggings.tag_id IN ?)", filtered)
		}
	}

	var stories []models.Story
	if err := q.Order("hotness").Limit(frontpageLimit).Find(&stories).Error; err != nil {
		return err
	}

	return h.storyFanout(ctx, conn, stories, actingAs)
}

// Recent lists the newest stories with a capped score differential.
// The listing first selects an id/score column subset, then reloads
// the full rows, as the reference repository does.
func (h *ListingHandler) Recent(ctx context.Context, conn *gorm.DB, actingAs *int64) error {
	q := conn.WithContext(ctx).
		Model(&models.Story{}).
		Select("stories.id", "stories.upvotes", "stories.downvotes", "stories.user_id").
		Where("stories.merged_story_id IS NULL").
		Where("stories.is_expired = 0").
		Where("CAST(upvotes AS signed) - CAST(downvotes AS signed) <= 5")

	if actingAs != nil {
		filtered, err := h.tagFilters(ctx, conn, *actingAs)
		if err != nil {
			return err
		}
		q = q.Where("stories.id NOT IN (SELECT hidden_stories.story_id FROM hidden_stories WHERE hidden_stories.user_id = ?)", *actingAs)
		if len(filtered) > 0 {
			q = q.Where("stories.id NOT IN (SELECT taggings.story_id FROM taggings WHERE taggings.tag_id IN ?)", filtered)
		}
	}

	var stubs []models.Story
	if err := q.Order("stories.id DESC").Limit(recentLimit).Find(&stubs).Error; err != nil {
		return err
	}

	ids := make([]int64, 0, len(stubs))
	for _, s := range stubs {
		ids = append(ids, s.ID)
	}

	var stories []models.Story
	if err := conn.WithContext(ctx).Where("id IN ?", ids).Find(&stories).Error; err != nil {
		return err
	}

	return h.storyFanout(ctx, conn, stories, actingAs)
}

// Comments lists the latest comments site-wide with their authors,
// stories and story authors.
func (h *ListingHandler) Comments(ctx context.Context, conn *gorm.DB, actingAs *int64) error {
	q := conn.WithContext(ctx).
		Where("comments.is_deleted = 0").
		Where("comments.is_moderated = 0")

	if actingAs != nil {
		q = q.Where("NOT EXISTS (SELECT 1 FROM hidden_stories WHERE user_id = ? AND hidden_stories.story_id = comments.story_id)", *actingAs)
	}

	var comments []models.Comment
	if err := q.Order("id DESC").Limit(commentsLimit).Find(&comments).Error; err != nil {
		return err
	}

	commenters, commentIDs, storyIDs := foldComments(comments)

	var users []models.User
	if err := conn.WithContext(ctx).Where("id IN ?", commenters).Find(&users).Error; err != nil {
		return err
	}

	var stories []models.Story
	if err := conn.WithContext(ctx).Where("id IN ?", storyIDs).Find(&stories).Error; err != nil {
		return err
	}
	authors, _ := foldStories(stories)

	if actingAs != nil {
		var votes []models.Vote
		err := conn.WithContext(ctx).
			Where("votes.user_id = ? AND votes.comment_id IN ?", *actingAs, commentIDs).
			Find(&votes).Error
		if err != nil {
			return err
		}
	}

	var authorRows []models.User
	return conn.WithContext(ctx).Where("id IN ?", authors).Find(&authorRows).Error
}

func (h *ListingHandler) tagFilters(ctx context.Context, conn *gorm.DB, uid int64) ([]int64, error) {
	var filtered []int64
	err := conn.WithContext(ctx).
		Model(&models.TagFilter{}).
		Where("user_id = ?", uid).
		Pluck("tag_id", &filtered).Error
	if err != nil {
		return nil, err
	}
	return filtered, nil
}

// storyFanout runs the dependent lookups shared by the story listings:
// authors, suggested titles/taggings, taggings and tags, then the
// acting user's votes/hidden/saved annotations.
func (h *ListingHandler) storyFanout(ctx context.Context, conn *gorm.DB, stories []models.Story, actingAs *int64) error {
	authors, ids := foldStories(stories)

	var users []models.User
	if err := conn.WithContext(ctx).Where("id IN ?", authors).Find(&users).Error; err != nil {
		return err
	}

	var titles []models.SuggestedTitle
	if err := conn.WithContext(ctx).Where("story_id IN ?", ids).Find(&titles).Error; err != nil {
		return err
	}

	var proposed []models.SuggestedTagging
	if err := conn.WithContext(ctx).Where("story_id IN ?", ids).Find(&proposed).Error; err != nil {
		return err
	}

	var taggings []models.Tagging
	if err := conn.WithContext(ctx).Where("story_id IN ?", ids).Find(&taggings).Error; err != nil {
		return err
	}

	var tags []models.Tag
	if err := conn.WithContext(ctx).Where("id IN ?", foldTaggings(taggings)).Find(&tags).Error; err != nil {
		return err
	}

	if actingAs == nil {
		return nil
	}

	var votes []models.Vote
	err := conn.WithContext(ctx).
		Where("votes.user_id = ? AND votes.story_id IN ? AND votes.comment_id IS NULL", *actingAs, ids).
		Find(&votes).Error
	if err != nil {
		return err
	}

	var hidden []models.HiddenStory
	err = conn.WithContext(ctx).
		Where("hidden_stories.user_id = ? AND hidden_stories.story_id IN ?", *actingAs, ids).
		Find(&hidden).Error
	if err != nil {
		return err
	}

	var saved []models.SavedStory
	return conn.WithContext(ctx).
		Where("saved_stories.user_id = ? AND saved_stories.story_id IN ?", *actingAs, ids).
		Find(&saved).Error
}
