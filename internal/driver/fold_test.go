package driver

import (
	"database/sql"
	"reflect"
	"testing"

	"github.com/soupbench/trawler/internal/models"
)

func TestUniqueSorted(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
		want []int64
	}{
		{name: "empty", ids: nil, want: []int64{}},
		{name: "duplicates", ids: []int64{3, 1, 3, 2, 1}, want: []int64{1, 2, 3}},
		{name: "already sorted", ids: []int64{1, 2, 3}, want: []int64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uniqueSorted(tt.ids); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("uniqueSorted(%v) = %v, want %v", tt.ids, got, tt.want)
			}
		})
	}
}

func TestFoldComments(t *testing.T) {
	comments := []models.Comment{
		{ID: 10, UserID: 2, StoryID: 7},
		{ID: 11, UserID: 1, StoryID: 7},
		{ID: 12, UserID: 2, StoryID: 5},
	}

	authors, ids, storyIDs := foldComments(comments)
	if want := []int64{1, 2}; !reflect.DeepEqual(authors, want) {
		t.Errorf("authors = %v, want %v", authors, want)
	}
	if want := []int64{10, 11, 12}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if want := []int64{5, 7}; !reflect.DeepEqual(storyIDs, want) {
		t.Errorf("storyIDs = %v, want %v", storyIDs, want)
	}
}

func TestFoldStories(t *testing.T) {
	stories := []models.Story{
		{ID: 4, UserID: 9, MergedStoryID: sql.NullInt64{}},
		{ID: 2, UserID: 9},
	}

	authors, ids := foldStories(stories)
	if want := []int64{9}; !reflect.DeepEqual(authors, want) {
		t.Errorf("authors = %v, want %v", authors, want)
	}
	if want := []int64{2, 4}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestFoldTaggings(t *testing.T) {
	taggings := []models.Tagging{
		{ID: 1, StoryID: 4, TagID: 3},
		{ID: 2, StoryID: 2, TagID: 3},
		{ID: 3, StoryID: 4, TagID: 1},
	}

	if got, want := foldTaggings(taggings), []int64{1, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("foldTaggings() = %v, want %v", got, want)
	}
}
