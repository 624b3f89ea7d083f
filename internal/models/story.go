package models

import (
	"database/sql"
	"time"
)

// Story represents a submitted story
type Story struct {
	ID                    int64         `gorm:"primaryKey;autoIncrement;column:id"`
	CreatedAt             time.Time     `gorm:"not null;column:created_at"`
	UserID                int64         `gorm:"not null;column:user_id"`
	Title                 string        `gorm:"type:varchar(150);not null;column:title"`
	Description           string        `gorm:"type:text;column:description"`
	ShortID               string        `gorm:"type:varchar(6);not null;column:short_id"`
	IsExpired             bool          `gorm:"not null;default:false;column:is_expired"`
	Upvotes               int64         `gorm:"not null;default:0;column:upvotes"`
	Downvotes             int64         `gorm:"not null;default:0;column:downvotes"`
	Hotness               float64       `gorm:"column:hotness"`
	MarkeddownDescription string        `gorm:"type:text;column:markeddown_description"`
	CommentsCount         int64         `gorm:"not null;default:0;column:comments_count"`
	MergedStoryID         sql.NullInt64 `gorm:"column:merged_story_id"`
}

// TableName specifies the table name for Story
func (Story) TableName() string {
	return "stories"
}

// SuggestedTitle is a title edit proposed by another user
type SuggestedTitle struct {
	ID      int64  `gorm:"primaryKey;autoIncrement;column:id"`
	StoryID int64  `gorm:"not null;column:story_id"`
	UserID  int64  `gorm:"not null;column:user_id"`
	Title   string `gorm:"type:varchar(150);column:title"`
}

// TableName specifies the table name for SuggestedTitle
func (SuggestedTitle) TableName() string {
	return "suggested_titles"
}

// SuggestedTagging is a tagging proposed by another user
type SuggestedTagging struct {
	ID      int64 `gorm:"primaryKey;autoIncrement;column:id"`
	StoryID int64 `gorm:"not null;column:story_id"`
	UserID  int64 `gorm:"not null;column:user_id"`
	TagID   int64 `gorm:"not null;column:tag_id"`
}

// TableName specifies the table name for SuggestedTagging
func (SuggestedTagging) TableName() string {
	return "suggested_taggings"
}
