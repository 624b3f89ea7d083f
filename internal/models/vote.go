package models

import (
	"database/sql"
)

// Vote represents a user's vote on a story or, when CommentID is set,
// on a comment. The column stores 1 for an upvote and 0 for a downvote.
type Vote struct {
	ID        int64         `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64         `gorm:"not null;column:user_id"`
	StoryID   int64         `gorm:"not null;column:story_id"`
	CommentID sql.NullInt64 `gorm:"column:comment_id"`
	Vote      int16         `gorm:"not null;column:vote"`
}

// TableName specifies the table name for Vote
func (Vote) TableName() string {
	return "votes"
}
