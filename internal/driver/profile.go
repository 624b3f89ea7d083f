package driver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/soupbench/trawler/internal/models"
)

// ProfileHandler renders a user profile page: the user row, their most
// popular tag, their submission/comment counters, and a hat check.
type ProfileHandler struct {
	logger *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{logger: logger}
}

// View runs the profile read fan-out for the synthetic user uid.
// A missing profile user is fatal to the request.
func (h *ProfileHandler) View(ctx context.Context, conn *gorm.DB, uid int64) error {
	var user models.User
	err := conn.WithContext(ctx).
		Where("username = ?", Username(uid)).
		Order("id ASC").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("profile user %q does not exist", Username(uid))
		}
		return err
	}

	// most popular tag across the user's stories
	var tags []models.Tag
	err = conn.WithContext(ctx).
		Raw("SELECT tags.* FROM tags "+
			"INNER JOIN taggings ON taggings.tag_id = tags.id "+
			"INNER JOIN stories ON stories.id = taggings.story_id "+
			"WHERE tags.inactive = 0 AND stories.user_id = ? "+
			"GROUP BY tags.id ORDER BY COUNT(*) desc LIMIT 1", user.ID).
		Scan(&tags).Error
	if err != nil {
		return err
	}

	for _, counter := range []string{"stories_submitted", "comments_posted"} {
		var rows []models.Keystore
		err = conn.WithContext(ctx).
			Where("`key` = ?", keystoreKey(user.ID, counter)).
			Order("`key` ASC").
			Limit(1).
			Find(&rows).Error
		if err != nil {
			return err
		}
	}

	var one []int64
	return conn.WithContext(ctx).
		Raw("SELECT 1 AS one FROM hats WHERE hats.user_id = ? LIMIT 1", user.ID).
		Scan(&one).Error
}
