package enroll

import (
	"context"
	"math"
	"time"
)

type (
	// Enrollment ties a student to a course and owns their Progress.
	// Created on enroll; only ever deleted by an admin, backend-side.
	Enrollment struct {
		ID         string    `json:"id"`
		CourseID   string    `json:"courseId"`
		StudentID  string    `json:"studentId"`
		Progress   Progress  `json:"progress"`
		EnrolledAt time.Time `json:"enrolledAt"`
	}

	// Progress records completed content and quiz scores for one
	// enrollment. The client copy is a cached read; commit points are the
	// explicit backend calls.
	Progress struct {
		CompletedVideos  []string       `json:"completedVideos"`
		CompletedQuizzes []string       `json:"completedQuizzes"`
		QuizScores       map[string]int `json:"quizScores"`
		QuizzesTaken     []string       `json:"quizzesTaken"`
	}

	// Status is the backend's answer to an enrollment check.
	Status struct {
		IsEnrolled bool       `json:"isEnrolled"`
		Enrollment Enrollment `json:"enrollment"`
	}
)

// Service is any backend gateway enrollment state can be read from and
// written to. The REST implementation lives in services/rest.
type Service interface {
	// CheckEnrollment queries whether the current student is enrolled in a
	// course.
	CheckEnrollment(ctx context.Context, courseID string) (Status, error)
	// Enroll enrolls the current student in a course.
	Enroll(ctx context.Context, courseID string) (Enrollment, error)
	// UpdateVideoProgress marks a video watched within a course.
	UpdateVideoProgress(ctx context.Context, courseID, videoID string) (Enrollment, error)
	// WatchVideo notifies accumulated watch time for a video (seconds).
	WatchVideo(ctx context.Context, videoID string, watchTime int) error
}

// NewProgress returns an empty progress record with all collections
// initialized.
func NewProgress() Progress {
	return Progress{
		CompletedVideos:  []string{},
		CompletedQuizzes: []string{},
		QuizScores:       map[string]int{},
		QuizzesTaken:     []string{},
	}
}

// Normalize fills in any collection the backend omitted from a partial
// record, so lookups never trip over missing sub-fields.
func (p Progress) Normalize() Progress {
	if p.CompletedVideos == nil {
		p.CompletedVideos = []string{}
	}
	if p.CompletedQuizzes == nil {
		p.CompletedQuizzes = []string{}
	}
	if p.QuizScores == nil {
		p.QuizScores = map[string]int{}
	}
	if p.QuizzesTaken == nil {
		p.QuizzesTaken = []string{}
	}
	return p
}

func (p Progress) VideoCompleted(videoID string) bool {
	return contains(p.CompletedVideos, videoID)
}

func (p Progress) QuizCompleted(quizID string) bool {
	return contains(p.CompletedQuizzes, quizID)
}

func (p Progress) QuizTaken(quizID string) bool {
	return contains(p.QuizzesTaken, quizID)
}

// QuizScore returns the best recorded score for a quiz, defaulting to 0.
func (p Progress) QuizScore(quizID string) int {
	return p.QuizScores[quizID]
}

// CompletedCount is the number of completed content units.
func (p Progress) CompletedCount() int {
	return len(p.CompletedVideos) + len(p.CompletedQuizzes)
}

// Completion derives the completion percentage over a course's content.
// An empty course yields 0, not a division error.
func (p Progress) Completion(videoCount, quizCount int) int {
	total := videoCount + quizCount
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(p.CompletedCount()) / float64(total)))
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
