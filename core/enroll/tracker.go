package enroll

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/course"
	"github.com/darasa-app/darasa/core/quiz"
	"github.com/darasa-app/darasa/core/user"
)

// Tracker owns the client-side view of one student's progress within one
// course: the merged content list, the derived completion percentage and
// the update calls issued as units complete. The session context is
// injected; the tracker never reads ambient auth state.
type Tracker struct {
	svc       Service
	courseSvc course.Service
	quizSvc   quiz.Service
	sess      user.Session

	mu       sync.Mutex
	courseID string // current target; late responses for other ids are dropped
	course   course.Course
	videos   []course.Video
	quizzes  []quiz.Summary
	enrolled bool
	progress Progress
}

func NewTracker(svc Service, courseSvc course.Service, quizSvc quiz.Service, sess user.Session) *Tracker {
	return &Tracker{
		svc:       svc,
		courseSvc: courseSvc,
		quizSvc:   quizSvc,
		sess:      sess,
		progress:  NewProgress(),
	}
}

// Open points the tracker at a course. Any responses still in flight for a
// previously opened course will be ignored when they land.
func (t *Tracker) Open(courseID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.courseID = courseID
	t.course = course.Course{}
	t.videos = nil
	t.quizzes = nil
	t.enrolled = false
	t.progress = NewProgress()
}

// current reports whether courseID is still the tracker's target; stale
// fetch results must not clobber newer state.
func (t *Tracker) current(courseID string) bool {
	return t.courseID == courseID
}

// LoadCourse fetches the course detail and its quiz list. A failed quiz
// fetch degrades to an empty list; a failed course fetch leaves the tracker
// empty and returns the error for the caller to display.
func (t *Tracker) LoadCourse(ctx context.Context) error {
	t.mu.Lock()
	courseID := t.courseID
	t.mu.Unlock()

	detail, err := t.courseSvc.GetCourse(ctx, courseID)
	if err != nil {
		return errors.Wrapf(err, "loading course %s", courseID)
	}

	quizzes, qErr := t.quizSvc.GetCourseQuizzes(ctx, courseID)
	if qErr != nil {
		quizzes = nil // best effort; the listing just shows no quizzes
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.current(courseID) {
		return nil
	}
	t.course = detail.Course
	t.videos = detail.Videos
	t.quizzes = quizzes
	return nil
}

// CheckEnrollment queries whether the current student is enrolled and, if
// so, adopts the backend progress record (normalizing any missing
// sub-fields). Non-students are never enrolled; no call is made for them.
func (t *Tracker) CheckEnrollment(ctx context.Context) error {
	if !t.sess.IsStudent() {
		return nil
	}

	t.mu.Lock()
	courseID := t.courseID
	t.mu.Unlock()

	status, err := t.svc.CheckEnrollment(ctx, courseID)
	if err != nil {
		return errors.Wrapf(err, "checking enrollment for course %s", courseID)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.current(courseID) {
		return nil
	}
	t.enrolled = status.IsEnrolled
	if status.IsEnrolled {
		t.progress = status.Enrollment.Progress.Normalize()
	}
	return nil
}

// Enroll enrolls the current student. Callers without the student role are
// rejected with core.ErrForbidden before any backend call; their progress
// stays untouched. On success a fresh empty progress record is initialized
// locally so the user can proceed without a round-trip.
func (t *Tracker) Enroll(ctx context.Context) error {
	if !t.sess.IsStudent() {
		return core.ErrForbidden
	}

	t.mu.Lock()
	courseID := t.courseID
	t.mu.Unlock()

	if _, err := t.svc.Enroll(ctx, courseID); err != nil {
		return errors.Wrapf(err, "enrolling in course %s", courseID)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.current(courseID) {
		return nil
	}
	t.enrolled = true
	t.progress = Reduce(t.progress, Enrolled{})
	return nil
}

// MarkVideoWatched records a video as completed. The backend is always
// notified, even for a video already in the completed set; the local set
// gains the id at most once. On failure the local record is left unchanged.
func (t *Tracker) MarkVideoWatched(ctx context.Context, videoID string) error {
	t.mu.Lock()
	courseID := t.courseID
	t.mu.Unlock()

	if _, err := t.svc.UpdateVideoProgress(ctx, courseID, videoID); err != nil {
		return errors.Wrapf(err, "updating progress for video %s", videoID)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.current(courseID) {
		return nil
	}
	t.progress = Reduce(t.progress, VideoCompleted{VideoID: videoID})
	return nil
}

// RecordQuizResult folds a graded attempt into the local progress copy.
// The quiz counts as completed regardless of the pass mark; the best score
// is kept for display. Purely local; the backend recorded the result while
// grading.
func (t *Tracker) RecordQuizResult(quizID string, res quiz.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress = Reduce(t.progress, QuizCompleted{QuizID: quizID, Score: res.Score})
}

// Content derives the single ordered content list for display.
func (t *Tracker) Content() []course.ContentItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	return course.MergeContent(t.videos, t.quizzes)
}

// Completion derives the completion percentage for the current student.
func (t *Tracker) Completion() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress.Completion(len(t.videos), len(t.quizzes))
}

func (t *Tracker) Course() course.Course {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.course
}

func (t *Tracker) Enrolled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enrolled
}

func (t *Tracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

// CanAccessContent reports whether content links should be active: only
// enrolled students may open videos and quizzes.
func (t *Tracker) CanAccessContent() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sess.IsStudent() && t.enrolled
}
