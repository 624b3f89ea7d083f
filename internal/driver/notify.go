package driver

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/soupbench/trawler/internal/models"
)

// NotifyTail runs the notification-badge reads appended to every
// authenticated request after its handler succeeds: the unread reply
// count and the unread message counter.
type NotifyTail struct {
	logger *zap.Logger
}

// NewNotifyTail creates a new notification tail
func NewNotifyTail(logger *zap.Logger) *NotifyTail {
	return &NotifyTail{logger: logger}
}

// Refresh reads the acting user's notification counters on the same
// connection as the request that triggered it.
func (n *NotifyTail) Refresh(ctx context.Context, conn *gorm.DB, uid int64) error {
	var count int64
	err := conn.WithContext(ctx).
		Model(&models.ReplyingComment{}).
		Where("replying_comments.user_id = ? AND replying_comments.is_unread = 1", uid).
		Count(&count).Error
	if err != nil {
		return err
	}

	var rows []models.Keystore
	return conn.WithContext(ctx).
		Where("`key` = ?", keystoreKey(uid, "unread_messages")).
		Order("`key` ASC").
		Limit(1).
		Find(&rows).Error
}
