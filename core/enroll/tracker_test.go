package enroll

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/course"
	"github.com/darasa-app/darasa/core/quiz"
	"github.com/darasa-app/darasa/core/user"
)

type enrollSvcMock struct {
	status      Status
	checkErr    error
	enrollErr   error
	updateErr   error
	checkCalls  int
	enrollCalls int
	updateCalls []string // videoIDs, in call order
	watchCalls  []int
}

func (m *enrollSvcMock) CheckEnrollment(ctx context.Context, courseID string) (Status, error) {
	m.checkCalls++
	return m.status, m.checkErr
}

func (m *enrollSvcMock) Enroll(ctx context.Context, courseID string) (Enrollment, error) {
	m.enrollCalls++
	if m.enrollErr != nil {
		return Enrollment{}, m.enrollErr
	}
	return Enrollment{ID: "e1", CourseID: courseID}, nil
}

func (m *enrollSvcMock) UpdateVideoProgress(ctx context.Context, courseID, videoID string) (Enrollment, error) {
	m.updateCalls = append(m.updateCalls, videoID)
	if m.updateErr != nil {
		return Enrollment{}, m.updateErr
	}
	return Enrollment{ID: "e1", CourseID: courseID}, nil
}

func (m *enrollSvcMock) WatchVideo(ctx context.Context, videoID string, watchTime int) error {
	m.watchCalls = append(m.watchCalls, watchTime)
	return nil
}

type courseSvcMock struct {
	detail  course.Detail
	err     error
	getHook func() // runs while the fetch is "in flight"
}

func (m *courseSvcMock) GetCourse(ctx context.Context, id string) (course.Detail, error) {
	if m.getHook != nil {
		m.getHook()
	}
	return m.detail, m.err
}

func (m *courseSvcMock) GetVideo(ctx context.Context, id string) (course.Video, error) {
	return course.Video{}, core.ErrNotFound
}

type quizSvcMock struct {
	summaries []quiz.Summary
	err       error
}

func (m *quizSvcMock) GetQuiz(ctx context.Context, id string) (quiz.Quiz, error) {
	return quiz.Quiz{}, core.ErrNotFound
}

func (m *quizSvcMock) GetCourseQuizzes(ctx context.Context, courseID string) ([]quiz.Summary, error) {
	return m.summaries, m.err
}

func (m *quizSvcMock) Submit(ctx context.Context, quizID string, sub quiz.Submission) (quiz.Result, error) {
	return quiz.Result{}, core.ErrNotFound
}

func studentSession() user.Session {
	return user.Session{Token: "tok", User: user.User{ID: "u1", Role: user.RoleStudent}}
}

func teacherSession() user.Session {
	return user.Session{Token: "tok", User: user.User{ID: "u2", Role: user.RoleTeacher}}
}

func twoVideoDetail() course.Detail {
	return course.Detail{
		Course: course.Course{ID: "c1", Title: "Algebra Basics"},
		Videos: []course.Video{
			{ID: "v1", Title: "Intro", CreatedAt: time.Now()},
			{ID: "v2", Title: "Equations", CreatedAt: time.Now()},
		},
	}
}

func TestTracker_LoadCourse(t *testing.T) {
	svc := &enrollSvcMock{}
	courseSvc := &courseSvcMock{detail: twoVideoDetail()}
	quizSvc := &quizSvcMock{summaries: []quiz.Summary{{ID: "qz1", Title: "Check", QuestionCount: 3}}}
	tr := NewTracker(svc, courseSvc, quizSvc, studentSession())

	tr.Open("c1")
	if err := tr.LoadCourse(context.Background()); err != nil {
		t.Fatalf("LoadCourse() failed, %v", err)
	}

	if got := tr.Course().Title; got != "Algebra Basics" {
		t.Errorf("Course().Title = %q, want %q", got, "Algebra Basics")
	}
	if got := len(tr.Content()); got != 3 {
		t.Errorf("Content() has %d items, want 3", got)
	}
}

func TestTracker_LoadCourse_quizFetchDegrades(t *testing.T) {
	svc := &enrollSvcMock{}
	courseSvc := &courseSvcMock{detail: twoVideoDetail()}
	quizSvc := &quizSvcMock{err: errors.New("listing broke")}
	tr := NewTracker(svc, courseSvc, quizSvc, studentSession())

	tr.Open("c1")
	if err := tr.LoadCourse(context.Background()); err != nil {
		t.Fatalf("LoadCourse() failed, %v", err)
	}
	// the course still renders, with videos only
	if got := len(tr.Content()); got != 2 {
		t.Errorf("Content() has %d items, want 2", got)
	}
}

func TestTracker_LoadCourse_staleResponseDropped(t *testing.T) {
	svc := &enrollSvcMock{}
	courseSvc := &courseSvcMock{detail: twoVideoDetail()}
	quizSvc := &quizSvcMock{}
	tr := NewTracker(svc, courseSvc, quizSvc, studentSession())

	tr.Open("c1")
	// the user navigates to another course while the fetch is in flight
	courseSvc.getHook = func() { tr.Open("c2") }

	if err := tr.LoadCourse(context.Background()); err != nil {
		t.Fatalf("LoadCourse() failed, %v", err)
	}
	if got := tr.Course().ID; got != "" {
		t.Errorf("stale response adopted: Course().ID = %q, want empty", got)
	}
	if got := len(tr.Content()); got != 0 {
		t.Errorf("stale response adopted: Content() has %d items, want 0", got)
	}
}

func TestTracker_CheckEnrollment(t *testing.T) {
	svc := &enrollSvcMock{status: Status{
		IsEnrolled: true,
		Enrollment: Enrollment{
			ID:       "e1",
			CourseID: "c1",
			// partial backend record; only one sub-field present
			Progress: Progress{CompletedVideos: []string{"v1"}},
		},
	}}
	tr := NewTracker(svc, &courseSvcMock{detail: twoVideoDetail()}, &quizSvcMock{}, studentSession())

	tr.Open("c1")
	if err := tr.CheckEnrollment(context.Background()); err != nil {
		t.Fatalf("CheckEnrollment() failed, %v", err)
	}

	if !tr.Enrolled() {
		t.Error("Enrolled() = false, want true")
	}
	p := tr.Progress()
	if !p.VideoCompleted("v1") {
		t.Error("adopted progress lost the completed video")
	}
	if p.QuizScores == nil || p.CompletedQuizzes == nil {
		t.Error("adopted progress not normalized")
	}
}

func TestTracker_CheckEnrollment_nonStudentSkipsCall(t *testing.T) {
	svc := &enrollSvcMock{}
	tr := NewTracker(svc, &courseSvcMock{}, &quizSvcMock{}, teacherSession())

	tr.Open("c1")
	if err := tr.CheckEnrollment(context.Background()); err != nil {
		t.Fatalf("CheckEnrollment() failed, %v", err)
	}
	if svc.checkCalls != 0 {
		t.Errorf("backend called %d times for a non-student, want 0", svc.checkCalls)
	}
	if tr.Enrolled() {
		t.Error("non-student reported as enrolled")
	}
}

func TestTracker_Enroll(t *testing.T) {
	svc := &enrollSvcMock{}
	tr := NewTracker(svc, &courseSvcMock{}, &quizSvcMock{}, studentSession())

	tr.Open("c1")
	if err := tr.Enroll(context.Background()); err != nil {
		t.Fatalf("Enroll() failed, %v", err)
	}
	if !tr.Enrolled() {
		t.Error("Enrolled() = false after enrolling")
	}
	if !tr.CanAccessContent() {
		t.Error("CanAccessContent() = false for an enrolled student")
	}
}

func TestTracker_Enroll_rejectsNonStudents(t *testing.T) {
	svc := &enrollSvcMock{}
	tr := NewTracker(svc, &courseSvcMock{}, &quizSvcMock{}, teacherSession())

	tr.Open("c1")
	if err := tr.Enroll(context.Background()); err != core.ErrForbidden {
		t.Errorf("Enroll() error = %v, want %v", err, core.ErrForbidden)
	}
	if svc.enrollCalls != 0 {
		t.Errorf("backend called %d times, want 0", svc.enrollCalls)
	}
	if tr.Enrolled() || tr.CanAccessContent() {
		t.Error("rejected enrollment changed local state")
	}
}

func TestTracker_MarkVideoWatched(t *testing.T) {
	svc := &enrollSvcMock{}
	tr := NewTracker(svc, &courseSvcMock{detail: twoVideoDetail()}, &quizSvcMock{}, studentSession())

	tr.Open("c1")
	_ = tr.LoadCourse(context.Background())

	ctx := context.Background()
	// rewatching notifies the backend again but records the video once
	if err := tr.MarkVideoWatched(ctx, "v1"); err != nil {
		t.Fatalf("MarkVideoWatched() failed, %v", err)
	}
	if err := tr.MarkVideoWatched(ctx, "v1"); err != nil {
		t.Fatalf("MarkVideoWatched() retry failed, %v", err)
	}

	if got := len(svc.updateCalls); got != 2 {
		t.Errorf("backend called %d times, want 2", got)
	}
	if got := len(tr.Progress().CompletedVideos); got != 1 {
		t.Errorf("CompletedVideos has %d entries, want 1", got)
	}
	if got := tr.Completion(); got != 50 {
		t.Errorf("Completion() = %v, want 50", got)
	}
}

func TestTracker_MarkVideoWatched_backendFailureKeepsLocalState(t *testing.T) {
	svc := &enrollSvcMock{updateErr: errors.New("backend down")}
	tr := NewTracker(svc, &courseSvcMock{detail: twoVideoDetail()}, &quizSvcMock{}, studentSession())

	tr.Open("c1")
	_ = tr.LoadCourse(context.Background())

	if err := tr.MarkVideoWatched(context.Background(), "v1"); err == nil {
		t.Fatal("MarkVideoWatched() expected an error")
	}
	if got := len(tr.Progress().CompletedVideos); got != 0 {
		t.Errorf("failed update recorded locally: %v", tr.Progress().CompletedVideos)
	}
}

func TestTracker_RecordQuizResult(t *testing.T) {
	svc := &enrollSvcMock{}
	quizSvc := &quizSvcMock{summaries: []quiz.Summary{{ID: "qz1", QuestionCount: 3}}}
	tr := NewTracker(svc, &courseSvcMock{detail: twoVideoDetail()}, quizSvc, studentSession())

	tr.Open("c1")
	_ = tr.LoadCourse(context.Background())

	// a failing score still completes the unit
	tr.RecordQuizResult("qz1", quiz.Result{Score: 33, CorrectAnswers: 1})

	p := tr.Progress()
	if !p.QuizCompleted("qz1") {
		t.Error("quiz not recorded as completed")
	}
	if got := p.QuizScore("qz1"); got != 33 {
		t.Errorf("QuizScore = %v, want 33", got)
	}
	if got := tr.Completion(); got != 33 { // 1 of 3 units
		t.Errorf("Completion() = %v, want 33", got)
	}
}
