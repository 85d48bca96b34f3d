package course

import (
	"context"
	"time"

	"github.com/darasa-app/darasa/core/quiz"
)

type (
	// Course detail as normalized by the service client.
	Course struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Subject     string `json:"subject"`
		Grade       string `json:"grade"`
		Division    string `json:"division,omitempty"`
		TeacherName string `json:"teacherName,omitempty"`
	}

	// Video summary within a course.
	Video struct {
		ID        string        `json:"id"`
		Title     string        `json:"title"`
		Duration  time.Duration `json:"duration"`
		VideoURL  string        `json:"videoUrl,omitempty"`
		Thumbnail string        `json:"thumbnail,omitempty"`
		Order     *int          `json:"order,omitempty"`
		CreatedAt time.Time     `json:"createdAt"`
	}

	// Detail bundles a course with its video list, as returned by the
	// backend in one call.
	Detail struct {
		Course Course
		Videos []Video
	}
)

// Service is any backend gateway course data can be read from.
type Service interface {
	// GetCourse fetches a course with its videos.
	// Returns core.ErrNotFound when the backend reports no such course.
	GetCourse(ctx context.Context, id string) (Detail, error)
	// GetVideo fetches a single video for playback.
	GetVideo(ctx context.Context, id string) (Video, error)
}

// content item types
const (
	TypeVideo = "video"
	TypeQuiz  = "quiz"
)

// ContentItem is a video or quiz tagged with its type, used only to render
// one ordered list. Derived fresh from the course's collections on demand,
// never persisted.
type ContentItem struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Order     *int      `json:"order,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	// type-specific display data
	Duration      time.Duration `json:"duration,omitempty"`      // videos
	QuestionCount int           `json:"questionCount,omitempty"` // quizzes
}

func videoItem(v Video) ContentItem {
	return ContentItem{
		Type:      TypeVideo,
		ID:        v.ID,
		Title:     v.Title,
		Order:     v.Order,
		CreatedAt: v.CreatedAt,
		Duration:  v.Duration,
	}
}

func quizItem(q quiz.Summary) ContentItem {
	return ContentItem{
		Type:          TypeQuiz,
		ID:            q.ID,
		Title:         q.Title,
		Order:         q.Order,
		CreatedAt:     q.CreatedAt,
		QuestionCount: q.QuestionCount,
	}
}
