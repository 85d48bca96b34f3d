package course

import (
	"sort"

	"github.com/darasa-app/darasa/core/quiz"
)

// MergeContent produces the single ordered content list for display: videos
// and quizzes tagged with their type, sorted with lessItem. The sort is
// stable, so identical inputs always yield the same output order.
func MergeContent(videos []Video, quizzes []quiz.Summary) []ContentItem {
	items := make([]ContentItem, 0, len(videos)+len(quizzes))
	for _, v := range videos {
		items = append(items, videoItem(v))
	}
	for _, q := range quizzes {
		items = append(items, quizItem(q))
	}
	sort.SliceStable(items, func(i, j int) bool { return lessItem(items[i], items[j]) })
	return items
}

// lessItem orders a pair of content items: when both carry an explicit
// order, ascending by order; otherwise ascending by creation time. The rule
// is applied per pair, so a mixed list (some items ordered, some not) is
// not a total ordering — a quirk of the backend data kept as-is.
func lessItem(a, b ContentItem) bool {
	if a.Order != nil && b.Order != nil {
		return *a.Order < *b.Order
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
