package quiz

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrIncompleteAnswers = errors.New("all questions must be answered before submitting")
	ErrInvalidOption     = errors.New("option index out of range")
	ErrUnknownQuestion   = errors.New("question does not belong to this quiz")
	ErrNotRunning        = errors.New("attempt is not in progress")
)

// GradingError wraps a transport failure on the submit path. The attempt
// stays in Submitting and Submit may be re-invoked.
type GradingError struct {
	Err error
}

func (e *GradingError) Error() string { return "submitting quiz: " + e.Err.Error() }
func (e *GradingError) Unwrap() error { return e.Err }

// State of one quiz attempt.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Answering
	Navigating
	Submitting
	Graded
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Answering:
		return "answering"
	case Navigating:
		return "navigating"
	case Submitting:
		return "submitting"
	case Graded:
		return "graded"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// Session owns the lifecycle of one quiz attempt: question set, countdown,
// per-question answers, navigation and submission. It holds no durable
// state; it is created when a quiz is opened and discarded afterwards.
type Session struct {
	svc          Service
	defaultLimit time.Duration

	mu        sync.Mutex
	quiz      Quiz
	state     State
	err       error
	current   int
	answers   map[string]int // question ID -> option index; absence == unanswered
	remaining int            // seconds; never negative
	autoFired bool           // timeout auto-submit triggered (at most once)
	timedOut  bool           // submission takes the force path from now on
	inFlight  bool           // a submit call is outstanding
	result    Result
}

// NewSession returns an attempt controller bound to a backend gateway.
// defaultLimit applies to quizzes that do not specify a time limit.
func NewSession(svc Service, defaultLimit time.Duration) *Session {
	return &Session{
		svc:          svc,
		defaultLimit: defaultLimit,
		answers:      make(map[string]int),
	}
}

// Load fetches the quiz and initializes the attempt. It may be called again
// to retry after a failed load; all attempt state is reset.
func (s *Session) Load(ctx context.Context, quizID string) error {
	s.mu.Lock()
	s.state = Loading
	s.err = nil
	s.mu.Unlock()

	qz, err := s.svc.GetQuiz(ctx, quizID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = Errored
		s.err = err
		return errors.Wrapf(err, "loading quiz %s", quizID)
	}

	limit := qz.TimeLimit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	s.quiz = qz
	s.state = Ready
	s.current = 0
	s.answers = make(map[string]int, len(qz.Questions))
	s.remaining = int(limit / time.Second)
	s.autoFired = false
	s.timedOut = false
	s.inFlight = false
	s.result = Result{}
	return nil
}

// running reports whether ticking and interaction are allowed. Callers must
// hold s.mu.
func (s *Session) running() bool {
	switch s.state {
	case Ready, Answering, Navigating:
		return true
	}
	return false
}

// Tick advances the countdown by one second. It is a no-op unless the
// attempt is in progress with time left. When the clock reaches zero the
// attempt force-submits, exactly once, with whatever answers exist.
func (s *Session) Tick(ctx context.Context) {
	s.mu.Lock()
	if !s.running() || s.remaining <= 0 {
		s.mu.Unlock()
		return
	}
	s.remaining--
	fire := s.remaining == 0 && !s.autoFired
	if fire {
		s.autoFired = true
		s.timedOut = true
	}
	s.mu.Unlock()

	if fire {
		_ = s.submit(ctx) // GradingError leaves the attempt retryable
	}
}

// StartClock runs the 1-second tick loop until the attempt leaves the
// running states or ctx is done. Intended to be run on its own goroutine.
func (s *Session) StartClock(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
			s.mu.Lock()
			done := !s.running()
			s.mu.Unlock()
			if done {
				return
			}
		}
	}
}

// SelectAnswer records or overwrites the chosen option for a question.
// Answers may be changed any number of times before submission; no backend
// call is made.
func (s *Session) SelectAnswer(questionID string, option int) error {
	if option < 0 || option >= OptionCount {
		return ErrInvalidOption
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running() {
		return ErrNotRunning
	}
	if !s.hasQuestion(questionID) {
		return ErrUnknownQuestion
	}
	s.answers[questionID] = option
	s.state = Answering
	return nil
}

func (s *Session) hasQuestion(id string) bool {
	for i := range s.quiz.Questions {
		if s.quiz.Questions[i].ID == id {
			return true
		}
	}
	return false
}

// Next moves the current-question pointer forward; no-op at the last question.
func (s *Session) Next() { s.navigate(s.CurrentIndex() + 1) }

// Previous moves the current-question pointer backward; no-op at the first question.
func (s *Session) Previous() { s.navigate(s.CurrentIndex() - 1) }

// JumpTo moves directly to a question index (the question picker).
// Out-of-range indexes are no-ops, not errors.
func (s *Session) JumpTo(index int) { s.navigate(index) }

func (s *Session) navigate(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running() {
		return
	}
	if index < 0 || index >= len(s.quiz.Questions) {
		return
	}
	s.current = index
	s.state = Navigating
}

// Submit grades the attempt. Manual submission requires every question to
// have a recorded answer and is otherwise rejected with
// ErrIncompleteAnswers, without a backend call. Once the countdown has
// expired the force path applies instead: unanswered questions are encoded
// with UnansweredSentinel. Submit is idempotent against double-firing; a
// concurrent or repeated call while grading is in flight (or done) is a
// no-op.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.state == Graded || s.inFlight {
		s.mu.Unlock()
		return nil
	}
	if !s.running() && s.state != Submitting {
		s.mu.Unlock()
		return ErrNotRunning
	}
	if !s.timedOut && len(s.answers) < len(s.quiz.Questions) {
		s.mu.Unlock()
		return ErrIncompleteAnswers
	}
	s.mu.Unlock()

	return s.submit(ctx)
}

func (s *Session) submit(ctx context.Context) error {
	s.mu.Lock()
	if s.state == Graded || s.inFlight {
		s.mu.Unlock()
		return nil
	}
	sub := Submission{
		Answers:   s.answersArray(),
		TimeTaken: s.limitSeconds() - s.remaining,
	}
	quizID := s.quiz.ID
	s.state = Submitting
	s.inFlight = true
	s.mu.Unlock()

	res, err := s.svc.Submit(ctx, quizID, sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		// stay in Submitting; the action may be re-invoked
		gErr := &GradingError{Err: err}
		s.err = gErr
		return gErr
	}
	s.result = res
	s.state = Graded
	s.err = nil
	return nil
}

// answersArray builds the ordered wire array: one entry per question, in
// question order. Callers must hold s.mu.
func (s *Session) answersArray() []int {
	out := make([]int, len(s.quiz.Questions))
	for i, q := range s.quiz.Questions {
		if opt, ok := s.answers[q.ID]; ok {
			out[i] = opt
		} else {
			out[i] = UnansweredSentinel
		}
	}
	return out
}

func (s *Session) limitSeconds() int {
	limit := s.quiz.TimeLimit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	return int(limit / time.Second)
}

// Accessors

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Quiz() Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz
}

func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Remaining returns the countdown in seconds; it never goes negative.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentQuestion returns the question under the pointer; ok is false when
// the quiz has no questions.
func (s *Session) CurrentQuestion() (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 || s.current >= len(s.quiz.Questions) {
		return Question{}, false
	}
	return s.quiz.Questions[s.current], true
}

// Answer returns the recorded option for a question. Presence, not value,
// distinguishes answered from unanswered.
func (s *Session) Answer(questionID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	opt, ok := s.answers[questionID]
	return opt, ok
}

func (s *Session) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// QuestionAnswered reports the picker status for the question at index.
func (s *Session) QuestionAnswered(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.quiz.Questions) {
		return false
	}
	_, ok := s.answers[s.quiz.Questions[index].ID]
	return ok
}
