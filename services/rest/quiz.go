package restsvc

import (
	"context"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/quiz"
)

var _ quiz.Service = (*Client)(nil)

// GetQuiz fetches a quiz with its nested questions; the correct answers
// are withheld by the backend until grading.
func (c *Client) GetQuiz(ctx context.Context, id string) (quiz.Quiz, error) {
	var resp struct {
		Quiz *wireQuiz `json:"quiz"`
	}
	if err := c.get(ctx, pathf("/api/quizzes/%s", id), &resp); err != nil {
		return quiz.Quiz{}, err
	}
	if resp.Quiz == nil {
		// a 200 with an empty envelope still means the quiz is gone
		return quiz.Quiz{}, core.ErrNotFound
	}
	return resp.Quiz.normalize(), nil
}

// GetCourseQuizzes lists quiz summaries for a course.
func (c *Client) GetCourseQuizzes(ctx context.Context, courseID string) ([]quiz.Summary, error) {
	var resp struct {
		Quizzes []wireQuiz `json:"quizzes"`
	}
	if err := c.get(ctx, pathf("/api/quizzes/course/%s", courseID), &resp); err != nil {
		return nil, err
	}
	out := make([]quiz.Summary, 0, len(resp.Quizzes))
	for _, q := range resp.Quizzes {
		out = append(out, q.summary())
	}
	return out, nil
}

// GetVideoQuiz fetches the quiz attached to a video, if any; ok is false
// when none exists.
func (c *Client) GetVideoQuiz(ctx context.Context, videoID string) (quiz.Quiz, bool, error) {
	var resp struct {
		Quiz *wireQuiz `json:"quiz"`
	}
	if err := c.get(ctx, pathf("/api/quizzes/video/%s", videoID), &resp); err != nil {
		return quiz.Quiz{}, false, err
	}
	if resp.Quiz == nil {
		return quiz.Quiz{}, false, nil
	}
	return resp.Quiz.normalize(), true, nil
}

// Submit sends the ordered answer array and elapsed time for grading.
func (c *Client) Submit(ctx context.Context, quizID string, sub quiz.Submission) (quiz.Result, error) {
	if err := c.checkValid(sub.Validate(c.validate)); err != nil {
		return quiz.Result{}, err
	}
	var res quiz.Result
	if err := c.post(ctx, pathf("/api/quizzes/%s/submit", quizID), sub, &res); err != nil {
		return quiz.Result{}, err
	}
	return res, nil
}
