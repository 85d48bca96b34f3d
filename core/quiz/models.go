package quiz

import (
	"time"
)

// OptionCount is the fixed number of options a question carries.
const OptionCount = 4

// UnansweredSentinel is the wire value submitted for a question that was
// never answered when an attempt is force-submitted on timeout. The backend
// contract reuses 0, which collides with a legitimate pick of option A;
// client state therefore never relies on this value to tell the two apart.
const UnansweredSentinel = 0

type (
	// Question as normalized by the service client: options included,
	// correct answer withheld until grading.
	Question struct {
		ID        string    `json:"id"`
		Prompt    string    `json:"question"`
		Options   []string  `json:"options"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// Quiz with its full ordered question set, as loaded for one attempt.
	// Question order is stable for the duration of the attempt.
	Quiz struct {
		ID        string     `json:"id"`
		CourseID  string     `json:"courseId"`
		Title     string     `json:"title"`
		Questions []Question `json:"questions"`
		// TimeLimit for one attempt; zero means the client default applies.
		TimeLimit time.Duration `json:"timeLimit"`
		// PassMark is the passing score threshold in percent.
		PassMark  int       `json:"passingScore"`
		Order     *int      `json:"order,omitempty"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// Summary is the lightweight quiz representation used in course content
	// listings.
	Summary struct {
		ID            string    `json:"id"`
		Title         string    `json:"title"`
		QuestionCount int       `json:"questionCount"`
		Order         *int      `json:"order,omitempty"`
		CreatedAt     time.Time `json:"createdAt"`
	}

	// Submission is the graded payload: one option index per question, in
	// question order, plus the elapsed seconds.
	Submission struct {
		Answers   []int `json:"answers" validate:"required,min=1,dive,gte=0,lte=3"`
		TimeTaken int   `json:"timeTaken" validate:"gte=0"`
	}

	// Result is the backend's grading response.
	Result struct {
		Score          int `json:"score"` // percent
		CorrectAnswers int `json:"correctAnswers"`
		TimeTaken      int `json:"timeTaken"` // seconds, confirmed by backend
	}
)

// Band classifies a score for results display.
type Band string

const (
	BandPass    Band = "pass"    // >= 70
	BandPartial Band = "partial" // >= 50
	BandFail    Band = "fail"
)

func (r Result) Band() Band {
	switch {
	case r.Score >= 70:
		return BandPass
	case r.Score >= 50:
		return BandPartial
	default:
		return BandFail
	}
}
