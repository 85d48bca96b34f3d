package mockapi

import (
	"time"

	"github.com/darasa-app/darasa/core/user"
)

// Seed loads a small demo dataset with stable ids: one course with two
// videos and a quiz, a student (amina/secret), a teacher and a parent.
func Seed(store *Store) error {
	now := time.Now().UTC()
	ord := func(i int) *int { return &i }

	if _, err := store.AddUser(StoredUser{
		Name:      "Amina Hassan",
		Email:     "amina@darasa.test",
		Role:      user.RoleStudent,
		Grade:     "Senior 2",
		StudentID: "STU-1001",
	}, "secret"); err != nil {
		return err
	}
	if _, err := store.AddUser(StoredUser{
		Name:  "Joseph Otieno",
		Email: "joseph@darasa.test",
		Role:  user.RoleTeacher,
	}, "secret"); err != nil {
		return err
	}
	if _, err := store.AddUser(StoredUser{
		Name:  "Mary Hassan",
		Email: "mary@darasa.test",
		Role:  user.RoleParent,
	}, "secret"); err != nil {
		return err
	}

	crs := store.AddCourse(StoredCourse{
		ID:          "course-algebra",
		Title:       "Algebra Basics",
		Description: "Linear equations from scratch.",
		Subject:     "Mathematics",
		Grade:       "Senior 2",
		TeacherName: "Joseph Otieno",
		CreatedAt:   now.Add(-72 * time.Hour),
	})

	v1 := store.AddVideo(StoredVideo{
		ID:          "video-algebra-01",
		CourseID:    crs.ID,
		Title:       "Variables and expressions",
		DurationSec: 540,
		VideoURL:    "https://media.darasa.test/algebra-01.mp4",
		Order:       ord(1),
		CreatedAt:   now.Add(-70 * time.Hour),
	})
	store.AddVideo(StoredVideo{
		ID:          "video-algebra-02",
		CourseID:    crs.ID,
		Title:       "Solving linear equations",
		DurationSec: 720,
		VideoURL:    "https://media.darasa.test/algebra-02.mp4",
		Order:       ord(2),
		CreatedAt:   now.Add(-69 * time.Hour),
	})

	store.AddQuiz(StoredQuiz{
		ID:           "quiz-algebra-checkpoint",
		CourseID:     crs.ID,
		VideoID:      v1.ID,
		Title:        "Checkpoint: linear equations",
		TimeLimitMin: 10,
		PassingScore: 70,
		Order:        ord(3),
		CreatedAt:    now.Add(-68 * time.Hour),
		Questions: []StoredQuestion{
			{
				Prompt:  "What is the value of x in 2x + 3 = 11?",
				Options: []string{"3", "4", "5", "7"},
				Correct: 1,
			},
			{
				Prompt:  "Which of these is a linear equation?",
				Options: []string{"x^2 + 1 = 0", "3x - 2 = 7", "1/x = 4", "x^3 = 8"},
				Correct: 1,
			},
			{
				Prompt:  "If y = 3x and x = 2, what is y?",
				Options: []string{"2", "3", "5", "6"},
				Correct: 3,
			},
		},
	})
	return nil
}
