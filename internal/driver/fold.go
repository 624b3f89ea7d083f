package driver

import (
	"sort"

	"github.com/soupbench/trawler/internal/models"
)

// uniqueSorted folds ids into their distinct values in ascending
// order, so batched IN queries are deterministic.
func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func foldStories(stories []models.Story) (authors, ids []int64) {
	for _, s := range stories {
		authors = append(authors, s.UserID)
		ids = append(ids, s.ID)
	}
	return uniqueSorted(authors), uniqueSorted(ids)
}

func foldComments(comments []models.Comment) (authors, ids, storyIDs []int64) {
	for _, c := range comments {
		authors = append(authors, c.UserID)
		ids = append(ids, c.ID)
		storyIDs = append(storyIDs, c.StoryID)
	}
	return uniqueSorted(authors), uniqueSorted(ids), uniqueSorted(storyIDs)
}

func foldTaggings(taggings []models.Tagging) []int64 {
	ids := make([]int64, 0, len(taggings))
	for _, t := range taggings {
		ids = append(ids, t.TagID)
	}
	return uniqueSorted(ids)
}
