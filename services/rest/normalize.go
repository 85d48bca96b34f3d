package restsvc

import (
	"time"

	"github.com/darasa-app/darasa/core/course"
	"github.com/darasa-app/darasa/core/enroll"
	"github.com/darasa-app/darasa/core/quiz"
	"github.com/darasa-app/darasa/core/user"
)

// Wire shapes. The backend is not consistent about field names (`_id` vs
// `id`, `question` vs `text`) and sometimes nests a document under a `_doc`
// wrapper; everything is flattened here, once, into the canonical core
// types.

type wireQuestion struct {
	Doc       *wireQuestion `json:"_doc"`
	MongoID   string        `json:"_id"`
	ID        string        `json:"id"`
	Question  string        `json:"question"`
	Text      string        `json:"text"`
	Options   []string      `json:"options"`
	CreatedAt time.Time     `json:"createdAt"`
}

func (w wireQuestion) normalize() quiz.Question {
	if w.Doc != nil {
		inner := w.Doc.normalize()
		// outer keys win only where the wrapper is empty
		if inner.ID == "" {
			inner.ID = coalesce(w.MongoID, w.ID)
		}
		if inner.Prompt == "" {
			inner.Prompt = coalesce(w.Question, w.Text)
		}
		if inner.Options == nil {
			inner.Options = w.Options
		}
		return inner
	}
	return quiz.Question{
		ID:        coalesce(w.MongoID, w.ID),
		Prompt:    coalesce(w.Question, w.Text),
		Options:   w.Options,
		CreatedAt: w.CreatedAt,
	}
}

type wireQuiz struct {
	MongoID      string         `json:"_id"`
	ID           string         `json:"id"`
	CourseID     string         `json:"course"`
	Title        string         `json:"title"`
	Questions    []wireQuestion `json:"questions"`
	TimeLimitMin int            `json:"timeLimit"` // minutes
	PassingScore int            `json:"passingScore"`
	Order        *int           `json:"order"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (w wireQuiz) normalize() quiz.Quiz {
	questions := make([]quiz.Question, 0, len(w.Questions))
	for _, q := range w.Questions {
		questions = append(questions, q.normalize())
	}
	return quiz.Quiz{
		ID:        coalesce(w.MongoID, w.ID),
		CourseID:  w.CourseID,
		Title:     w.Title,
		Questions: questions,
		TimeLimit: time.Duration(w.TimeLimitMin) * time.Minute,
		PassMark:  w.PassingScore,
		Order:     w.Order,
		CreatedAt: w.CreatedAt,
	}
}

func (w wireQuiz) summary() quiz.Summary {
	return quiz.Summary{
		ID:            coalesce(w.MongoID, w.ID),
		Title:         w.Title,
		QuestionCount: len(w.Questions),
		Order:         w.Order,
		CreatedAt:     w.CreatedAt,
	}
}

type wireCourse struct {
	MongoID     string `json:"_id"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Grade       string `json:"grade"`
	Division    string `json:"division"`
	Teacher     struct {
		Name string `json:"name"`
	} `json:"teacher"`
}

func (w wireCourse) normalize() course.Course {
	return course.Course{
		ID:          coalesce(w.MongoID, w.ID),
		Title:       w.Title,
		Description: w.Description,
		Subject:     w.Subject,
		Grade:       w.Grade,
		Division:    w.Division,
		TeacherName: w.Teacher.Name,
	}
}

type wireVideo struct {
	MongoID     string    `json:"_id"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	DurationSec float64   `json:"duration"` // seconds
	VideoURL    string    `json:"videoUrl"`
	Thumbnail   string    `json:"thumbnail"`
	Order       *int      `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (w wireVideo) normalize() course.Video {
	return course.Video{
		ID:        coalesce(w.MongoID, w.ID),
		Title:     w.Title,
		Duration:  time.Duration(w.DurationSec * float64(time.Second)),
		VideoURL:  w.VideoURL,
		Thumbnail: w.Thumbnail,
		Order:     w.Order,
		CreatedAt: w.CreatedAt,
	}
}

type wireEnrollment struct {
	MongoID    string          `json:"_id"`
	ID         string          `json:"id"`
	CourseID   string          `json:"course"`
	StudentID  string          `json:"student"`
	Progress   enroll.Progress `json:"progress"`
	EnrolledAt time.Time       `json:"enrolledAt"`
}

func (w wireEnrollment) normalize() enroll.Enrollment {
	return enroll.Enrollment{
		ID:         coalesce(w.MongoID, w.ID),
		CourseID:   w.CourseID,
		StudentID:  w.StudentID,
		Progress:   w.Progress.Normalize(),
		EnrolledAt: w.EnrolledAt,
	}
}

type wireUser struct {
	MongoID   string    `json:"_id"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Grade     string    `json:"grade"`
	Division  string    `json:"division"`
	StudentID string    `json:"studentId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w wireUser) normalize() user.User {
	return user.User{
		ID:        coalesce(w.MongoID, w.ID),
		Name:      w.Name,
		Email:     w.Email,
		Role:      w.Role,
		Grade:     w.Grade,
		Division:  w.Division,
		StudentID: w.StudentID,
		CreatedAt: w.CreatedAt,
	}
}

func coalesce(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
