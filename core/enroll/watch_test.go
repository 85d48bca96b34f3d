package enroll

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
)

type watchSvcMock struct {
	enrollSvcMock
	watchErr error
}

func (m *watchSvcMock) WatchVideo(ctx context.Context, videoID string, watchTime int) error {
	m.watchCalls = append(m.watchCalls, watchTime)
	return m.watchErr
}

func TestWatchSession_autoMarksAtThreshold(t *testing.T) {
	svc := &watchSvcMock{}
	ws := NewWatchSession(svc, "v1", 0.8)

	ctx := context.Background()
	duration := 10 * time.Minute
	ws.Playback(ctx, 2*time.Minute, duration)
	ws.Playback(ctx, 7*time.Minute, duration)
	if ws.Marked() {
		t.Fatal("marked before the threshold")
	}

	ws.Playback(ctx, 8*time.Minute, duration) // 80%
	if !ws.Marked() {
		t.Fatal("not marked at the threshold")
	}
	if got := len(svc.watchCalls); got != 1 {
		t.Fatalf("backend called %d times, want 1", got)
	}
	if got := svc.watchCalls[0]; got != 480 {
		t.Errorf("watch time = %v, want 480", got)
	}

	// continuing playback to the end does not fire again
	ws.Playback(ctx, duration, duration)
	if err := ws.Finish(ctx); err != nil {
		t.Fatalf("Finish() failed, %v", err)
	}
	if got := len(svc.watchCalls); got != 1 {
		t.Errorf("backend called %d times after finish, want 1", got)
	}
}

func TestWatchSession_finishBeforeThreshold(t *testing.T) {
	svc := &watchSvcMock{}
	ws := NewWatchSession(svc, "v1", 0.8)

	ctx := context.Background()
	ws.Playback(ctx, 3*time.Minute, 10*time.Minute)
	if err := ws.Finish(ctx); err != nil {
		t.Fatalf("Finish() failed, %v", err)
	}
	if !ws.Marked() {
		t.Error("Marked() = false after finishing")
	}
	if got := len(svc.watchCalls); got != 1 {
		t.Errorf("backend called %d times, want 1", got)
	}
}

func TestWatchSession_failedNotifyIsRetryable(t *testing.T) {
	svc := &watchSvcMock{watchErr: errors.New("backend down")}
	ws := NewWatchSession(svc, "v1", 0.8)

	ctx := context.Background()
	if err := ws.Mark(ctx); err == nil {
		t.Fatal("Mark() expected an error")
	}
	if ws.Marked() {
		t.Fatal("failed notify still set marked")
	}

	svc.watchErr = nil
	if err := ws.Mark(ctx); err != nil {
		t.Fatalf("Mark() retry failed, %v", err)
	}
	if !ws.Marked() {
		t.Error("Marked() = false after a successful retry")
	}
}

func TestWatchSession_zeroDuration(t *testing.T) {
	svc := &watchSvcMock{}
	ws := NewWatchSession(svc, "v1", 0.8)

	// metadata not loaded yet; never divide by zero, never fire
	ws.Playback(context.Background(), time.Minute, 0)
	if ws.Marked() || len(svc.watchCalls) != 0 {
		t.Error("fired on a zero-duration video")
	}
}
