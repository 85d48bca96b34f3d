package mockapi

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/darasa-app/darasa/core/enroll"
	"github.com/darasa-app/darasa/core/user"
)

// Stored entities carry what the real backend persists, including the
// correct option indexes that are never sent to clients before grading.
type (
	StoredUser struct {
		ID           string
		Name         string
		Email        string
		Role         string
		Grade        string
		Division     string
		StudentID    string
		PasswordHash []byte
		CreatedAt    time.Time
	}

	StoredCourse struct {
		ID          string
		Title       string
		Description string
		Subject     string
		Grade       string
		Division    string
		TeacherName string
		CreatedAt   time.Time
	}

	StoredVideo struct {
		ID          string
		CourseID    string
		Title       string
		DurationSec float64
		VideoURL    string
		Thumbnail   string
		Order       *int
		CreatedAt   time.Time
	}

	StoredQuestion struct {
		ID        string
		Prompt    string
		Options   []string
		Correct   int // option index; server-side only
		CreatedAt time.Time
	}

	StoredQuiz struct {
		ID           string
		CourseID     string
		VideoID      string // optional attachment
		Title        string
		Questions    []StoredQuestion
		TimeLimitMin int
		PassingScore int
		Order        *int
		CreatedAt    time.Time
	}

	StoredEnrollment struct {
		ID         string
		CourseID   string
		StudentID  string
		Progress   enroll.Progress
		EnrolledAt time.Time
	}
)

func (u *StoredUser) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *StoredUser) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// Grade computes the score for an ordered answer array.
func (q *StoredQuiz) Grade(answers []int) (score, correct int) {
	for i, qu := range q.Questions {
		if i < len(answers) && answers[i] == qu.Correct {
			correct++
		}
	}
	if len(q.Questions) > 0 {
		score = int(math.Round(100 * float64(correct) / float64(len(q.Questions))))
	}
	return score, correct
}

// Store is the in-memory database behind the stub backend.
type Store struct {
	mu          sync.RWMutex
	users       map[string]*StoredUser
	courses     map[string]*StoredCourse
	videos      map[string]*StoredVideo
	quizzes     map[string]*StoredQuiz
	enrollments map[string]*StoredEnrollment // keyed studentID|courseID
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]*StoredUser),
		courses:     make(map[string]*StoredCourse),
		videos:      make(map[string]*StoredVideo),
		quizzes:     make(map[string]*StoredQuiz),
		enrollments: make(map[string]*StoredEnrollment),
	}
}

func enrollmentKey(studentID, courseID string) string {
	return studentID + "|" + courseID
}

func (s *Store) AddUser(usr StoredUser, password string) (*StoredUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	usr.Email = strings.ToLower(strings.TrimSpace(usr.Email))
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = time.Now().UTC()
	}
	if err := usr.SetPassword(password); err != nil {
		return nil, err
	}
	s.users[usr.ID] = &usr
	return &usr, nil
}

func (s *Store) UserByEmail(email string) (*StoredUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return nil, false
}

func (s *Store) UserByStudentID(studentID string) (*StoredUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Role == user.RoleStudent && u.StudentID == studentID {
			return u, true
		}
	}
	return nil, false
}

func (s *Store) AddCourse(c StoredCourse) *StoredCourse {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.courses[c.ID] = &c
	return &c
}

func (s *Store) Course(id string) (*StoredCourse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	return c, ok
}

func (s *Store) AddVideo(v StoredVideo) *StoredVideo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	s.videos[v.ID] = &v
	return &v
}

func (s *Store) Video(id string) (*StoredVideo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.videos[id]
	return v, ok
}

func (s *Store) CourseVideos(courseID string) []*StoredVideo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*StoredVideo, 0)
	for _, v := range s.videos {
		if v.CourseID == courseID {
			out = append(out, v)
		}
	}
	return out
}

func (s *Store) AddQuiz(q StoredQuiz) *StoredQuiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	for i := range q.Questions {
		if q.Questions[i].ID == "" {
			q.Questions[i].ID = uuid.New().String()
		}
		if q.Questions[i].CreatedAt.IsZero() {
			q.Questions[i].CreatedAt = q.CreatedAt
		}
	}
	s.quizzes[q.ID] = &q
	return &q
}

func (s *Store) Quiz(id string) (*StoredQuiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[id]
	return q, ok
}

func (s *Store) CourseQuizzes(courseID string) []*StoredQuiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*StoredQuiz, 0)
	for _, q := range s.quizzes {
		if q.CourseID == courseID {
			out = append(out, q)
		}
	}
	return out
}

func (s *Store) VideoQuiz(videoID string) (*StoredQuiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.quizzes {
		if q.VideoID == videoID {
			return q, true
		}
	}
	return nil, false
}

func (s *Store) Enrollment(studentID, courseID string) (*StoredEnrollment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.enrollments[enrollmentKey(studentID, courseID)]
	return e, ok
}

func (s *Store) CreateEnrollment(studentID, courseID string) *StoredEnrollment {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := enrollmentKey(studentID, courseID)
	if e, ok := s.enrollments[key]; ok {
		return e
	}
	e := &StoredEnrollment{
		ID:         uuid.New().String(),
		CourseID:   courseID,
		StudentID:  studentID,
		Progress:   enroll.NewProgress(),
		EnrolledAt: time.Now().UTC(),
	}
	s.enrollments[key] = e
	return e
}

// MarkVideoWatched applies a video completion to an enrollment's progress.
func (s *Store) MarkVideoWatched(studentID, courseID, videoID string) (*StoredEnrollment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[enrollmentKey(studentID, courseID)]
	if !ok {
		return nil, false
	}
	e.Progress = enroll.Reduce(e.Progress, enroll.VideoCompleted{VideoID: videoID})
	return e, true
}

// RecordQuizResult applies a graded attempt to an enrollment's progress.
func (s *Store) RecordQuizResult(studentID, courseID, quizID string, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[enrollmentKey(studentID, courseID)]
	if !ok {
		return
	}
	e.Progress = enroll.Reduce(e.Progress, enroll.QuizCompleted{QuizID: quizID, Score: score})
}

// CourseForVideo resolves which course a video belongs to.
func (s *Store) CourseForVideo(videoID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.videos[videoID]
	if !ok {
		return "", false
	}
	return v.CourseID, true
}
