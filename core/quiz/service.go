package quiz

import (
	"context"

	"github.com/go-playground/validator/v10"
)

// Service is any backend gateway the quiz session can load from and submit
// to. The REST implementation lives in services/rest.
type Service interface {
	// GetQuiz fetches a quiz by ID with its nested questions.
	// Returns core.ErrNotFound when the backend reports no such quiz.
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	// GetCourseQuizzes lists quiz summaries for a course.
	GetCourseQuizzes(ctx context.Context, courseID string) ([]Summary, error)
	// Submit sends the ordered answers for grading and returns the result.
	Submit(ctx context.Context, quizID string, sub Submission) (Result, error)
}

func (sub Submission) Validate(validate *validator.Validate) error {
	return validate.Struct(sub)
}
