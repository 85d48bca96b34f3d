package enroll

import (
	"reflect"
	"testing"
)

func TestReduce_Enrolled(t *testing.T) {
	dirty := Progress{CompletedVideos: []string{"v1"}, QuizScores: map[string]int{"qz1": 80}}

	got := Reduce(dirty, Enrolled{})
	if !reflect.DeepEqual(got, NewProgress()) {
		t.Errorf("Reduce(Enrolled) = %+v, want a fresh empty record", got)
	}
}

func TestReduce_VideoCompleted(t *testing.T) {
	p := NewProgress()

	p = Reduce(p, VideoCompleted{VideoID: "v1"})
	p = Reduce(p, VideoCompleted{VideoID: "v1"}) // idempotent
	p = Reduce(p, VideoCompleted{VideoID: "v2"})

	want := []string{"v1", "v2"}
	if !reflect.DeepEqual(p.CompletedVideos, want) {
		t.Errorf("CompletedVideos = %v, want %v", p.CompletedVideos, want)
	}
}

func TestReduce_QuizCompleted(t *testing.T) {
	p := NewProgress()

	// completion does not depend on passing; a failing score still completes
	p = Reduce(p, QuizCompleted{QuizID: "qz1", Score: 33})
	if !p.QuizCompleted("qz1") || !p.QuizTaken("qz1") {
		t.Fatal("quiz not recorded as completed and taken")
	}
	if got := p.QuizScore("qz1"); got != 33 {
		t.Errorf("QuizScore = %v, want 33", got)
	}

	// a better retake raises the recorded score
	p = Reduce(p, QuizCompleted{QuizID: "qz1", Score: 67})
	if got := p.QuizScore("qz1"); got != 67 {
		t.Errorf("QuizScore = %v, want 67", got)
	}
	// a worse retake does not lower it
	p = Reduce(p, QuizCompleted{QuizID: "qz1", Score: 50})
	if got := p.QuizScore("qz1"); got != 67 {
		t.Errorf("QuizScore = %v, want 67", got)
	}
	if got := len(p.CompletedQuizzes); got != 1 {
		t.Errorf("CompletedQuizzes has %d entries, want 1", got)
	}

	// a first score of 0 is still recorded (it is a real result)
	p = Reduce(p, QuizCompleted{QuizID: "qz2", Score: 0})
	if !p.QuizTaken("qz2") {
		t.Error("qz2 not recorded as taken")
	}
	if _, ok := p.QuizScores["qz2"]; !ok {
		t.Error("qz2 score missing from the score map")
	}
}

func TestReduce_pure(t *testing.T) {
	in := NewProgress()
	in.CompletedVideos = append(in.CompletedVideos, "v1")
	in.QuizScores["qz1"] = 40
	snapshot := clone(in)

	_ = Reduce(in, VideoCompleted{VideoID: "v2"})
	_ = Reduce(in, QuizCompleted{QuizID: "qz1", Score: 90})

	if !reflect.DeepEqual(in, snapshot) {
		t.Errorf("input mutated: %+v, want %+v", in, snapshot)
	}
}

func TestReduce_normalizesPartialRecords(t *testing.T) {
	// a backend record may omit sub-fields entirely
	p := Reduce(Progress{}, QuizCompleted{QuizID: "qz1", Score: 75})
	if !p.QuizCompleted("qz1") {
		t.Error("quiz not recorded on a partial input record")
	}
	if p.CompletedVideos == nil {
		t.Error("CompletedVideos left nil")
	}
}
