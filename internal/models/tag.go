package models

// Tag represents a story tag
type Tag struct {
	ID       int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Tag      string `gorm:"type:varchar(25);not null;column:tag"`
	Inactive bool   `gorm:"not null;default:false;column:inactive"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}

// Tagging attaches a tag to a story
type Tagging struct {
	ID      int64 `gorm:"primaryKey;autoIncrement;column:id"`
	StoryID int64 `gorm:"not null;column:story_id"`
	TagID   int64 `gorm:"not null;column:tag_id"`
}

// TableName specifies the table name for Tagging
func (Tagging) TableName() string {
	return "taggings"
}

// TagFilter is a per-user tag exclusion for story listings
type TagFilter struct {
	ID     int64 `gorm:"primaryKey;autoIncrement;column:id"`
	UserID int64 `gorm:"not null;column:user_id"`
	TagID  int64 `gorm:"not null;column:tag_id"`
}

// TableName specifies the table name for TagFilter
func (TagFilter) TableName() string {
	return "tag_filters"
}
