package models

import (
	"time"
)

// User represents a registered account
type User struct {
	ID               int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username         string    `gorm:"type:varchar(50);not null;column:username"`
	Email            string    `gorm:"type:varchar(100);column:email"`
	PasswordDigest   string    `gorm:"type:varchar(75);column:password_digest"`
	CreatedAt        time.Time `gorm:"not null;column:created_at"`
	SessionToken     string    `gorm:"type:varchar(75);not null;column:session_token"`
	RssToken         string    `gorm:"type:varchar(75);column:rss_token"`
	MailingListToken string    `gorm:"type:varchar(75);column:mailing_list_token"`
	Karma            int64     `gorm:"not null;default:0;column:karma"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Hat represents a role badge granted to a user
type Hat struct {
	ID     int64 `gorm:"primaryKey;autoIncrement;column:id"`
	UserID int64 `gorm:"not null;column:user_id"`
}

// TableName specifies the table name for Hat
func (Hat) TableName() string {
	return "hats"
}

// ReplyingComment maps the replying_comments view used for the
// unread-reply notification count.
type ReplyingComment struct {
	UserID   int64 `gorm:"column:user_id"`
	IsUnread int8  `gorm:"column:is_unread"`
}

// TableName specifies the view name for ReplyingComment
func (ReplyingComment) TableName() string {
	return "replying_comments"
}
