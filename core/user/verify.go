package user

import (
	"context"
	"sync"
	"time"
)

// VerifyService is any service that can check a student ID with the backend.
type VerifyService interface {
	VerifyStudent(ctx context.Context, studentID string) (User, error)
}

// VerifyResult is delivered to the observer once a verification settles.
type VerifyResult struct {
	StudentID string
	Student   User
	Err       error
}

// StudentVerifier coalesces rapid student-ID input (a parent typing their
// child's code) into a single backend check per quiet period. A result is
// discarded when newer input has already superseded the request that
// produced it.
type StudentVerifier struct {
	svc      VerifyService
	delay    time.Duration
	onResult func(VerifyResult)

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64 // bumped on every input; stale completions compare against it
	last  string
}

func NewStudentVerifier(svc VerifyService, delay time.Duration, onResult func(VerifyResult)) *StudentVerifier {
	return &StudentVerifier{svc: svc, delay: delay, onResult: onResult}
}

// Input registers the latest typed student ID and (re)starts the quiet
// period. An empty ID cancels any pending verification.
func (v *StudentVerifier) Input(studentID string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	v.last = studentID
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	if studentID == "" {
		return
	}

	seq := v.seq
	v.timer = time.AfterFunc(v.delay, func() { v.fire(seq, studentID) })
}

// Stop cancels any pending verification; in-flight results are discarded.
func (v *StudentVerifier) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

func (v *StudentVerifier) fire(seq uint64, studentID string) {
	v.mu.Lock()
	if seq != v.seq { // superseded while waiting
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()

	usr, err := v.svc.VerifyStudent(context.Background(), studentID)

	v.mu.Lock()
	stale := seq != v.seq
	v.mu.Unlock()
	if stale { // newer input invalidated this in-flight request
		return
	}
	if v.onResult != nil {
		v.onResult(VerifyResult{StudentID: studentID, Student: usr, Err: err})
	}
}
