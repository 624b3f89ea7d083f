package models

import (
	"time"
)

// ReadRibbon marks the last time a user viewed a story. At most one row
// exists per (user, story) pair; repeat views only bump updated_at.
type ReadRibbon struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`
	UserID    int64     `gorm:"not null;column:user_id"`
	StoryID   int64     `gorm:"not null;column:story_id"`
}

// TableName specifies the table name for ReadRibbon
func (ReadRibbon) TableName() string {
	return "read_ribbons"
}

// HiddenStory is a per-user set of stories excluded from listings
type HiddenStory struct {
	ID      int64 `gorm:"primaryKey;autoIncrement;column:id"`
	UserID  int64 `gorm:"not null;column:user_id"`
	StoryID int64 `gorm:"not null;column:story_id"`
}

// TableName specifies the table name for HiddenStory
func (HiddenStory) TableName() string {
	return "hidden_stories"
}

// SavedStory is a per-user set of bookmarked stories
type SavedStory struct {
	ID      int64 `gorm:"primaryKey;autoIncrement;column:id"`
	UserID  int64 `gorm:"not null;column:user_id"`
	StoryID int64 `gorm:"not null;column:story_id"`
}

// TableName specifies the table name for SavedStory
func (SavedStory) TableName() string {
	return "saved_stories"
}
