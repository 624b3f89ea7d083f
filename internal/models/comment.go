package models

import (
	"database/sql"
	"time"
)

// Comment represents a comment on a story
type Comment struct {
	ID                int64         `gorm:"primaryKey;autoIncrement;column:id"`
	CreatedAt         time.Time     `gorm:"not null;column:created_at"`
	UpdatedAt         time.Time     `gorm:"column:updated_at"`
	ShortID           string        `gorm:"type:varchar(10);not null;column:short_id"`
	StoryID           int64         `gorm:"not null;column:story_id"`
	UserID            int64         `gorm:"not null;column:user_id"`
	ParentCommentID   sql.NullInt64 `gorm:"column:parent_comment_id"`
	ThreadID          sql.NullInt64 `gorm:"column:thread_id"`
	Comment           string        `gorm:"type:mediumtext;column:comment"`
	Upvotes           int64         `gorm:"not null;default:0;column:upvotes"`
	Downvotes         int64         `gorm:"not null;default:0;column:downvotes"`
	Confidence        float64       `gorm:"column:confidence"`
	MarkeddownComment string        `gorm:"type:mediumtext;column:markeddown_comment"`
	IsDeleted         bool          `gorm:"not null;default:false;column:is_deleted"`
	IsModerated       bool          `gorm:"not null;default:false;column:is_moderated"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
