package enroll

// Events applied to a Progress record. The reducer is a pure function,
// callable identically from tests and UI bindings.
type (
	Event interface{ isEvent() }

	// Enrolled initializes a fresh empty progress record.
	Enrolled struct{}

	// VideoCompleted marks a video as watched. Applying it for an
	// already-present video is a no-op.
	VideoCompleted struct {
		VideoID string
	}

	// QuizCompleted records a quiz result. The quiz counts as completed
	// whatever the score; passing thresholds do not gate completion.
	QuizCompleted struct {
		QuizID string
		Score  int
	}
)

func (Enrolled) isEvent()       {}
func (VideoCompleted) isEvent() {}
func (QuizCompleted) isEvent()  {}

// Reduce returns the progress that results from applying an event. The
// input record is not mutated.
func Reduce(p Progress, ev Event) Progress {
	p = p.Normalize()
	switch e := ev.(type) {
	case Enrolled:
		return NewProgress()

	case VideoCompleted:
		if p.VideoCompleted(e.VideoID) {
			return p
		}
		out := clone(p)
		out.CompletedVideos = append(out.CompletedVideos, e.VideoID)
		return out

	case QuizCompleted:
		out := clone(p)
		if !out.QuizCompleted(e.QuizID) {
			out.CompletedQuizzes = append(out.CompletedQuizzes, e.QuizID)
		}
		if !out.QuizTaken(e.QuizID) {
			out.QuizzesTaken = append(out.QuizzesTaken, e.QuizID)
		}
		if e.Score > out.QuizScores[e.QuizID] || !has(out.QuizScores, e.QuizID) {
			out.QuizScores[e.QuizID] = e.Score
		}
		return out
	}
	return p
}

func clone(p Progress) Progress {
	out := Progress{
		CompletedVideos:  append([]string{}, p.CompletedVideos...),
		CompletedQuizzes: append([]string{}, p.CompletedQuizzes...),
		QuizzesTaken:     append([]string{}, p.QuizzesTaken...),
		QuizScores:       make(map[string]int, len(p.QuizScores)),
	}
	for k, v := range p.QuizScores {
		out.QuizScores[k] = v
	}
	return out
}

func has(m map[string]int, k string) bool {
	_, ok := m[k]
	return ok
}
