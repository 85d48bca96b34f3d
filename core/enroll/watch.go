package enroll

import (
	"context"
	"sync"
	"time"
)

// WatchSession tracks playback of one video and notifies the backend once
// it counts as watched: automatically when playback passes the configured
// fraction of the duration, or when playback ends, or on explicit user
// action. Once marked for the session it will not fire again.
type WatchSession struct {
	svc       Service
	videoID   string
	threshold float64

	mu        sync.Mutex
	watchTime time.Duration // accumulated playback position
	marked    bool
	inFlight  bool
}

func NewWatchSession(svc Service, videoID string, threshold float64) *WatchSession {
	return &WatchSession{svc: svc, videoID: videoID, threshold: threshold}
}

// Playback reports the current playback position; the session auto-marks
// the video watched once current/duration reaches the threshold.
func (w *WatchSession) Playback(ctx context.Context, current, duration time.Duration) {
	w.mu.Lock()
	w.watchTime = current
	fire := !w.marked && !w.inFlight && duration > 0 &&
		float64(current)/float64(duration) >= w.threshold
	if fire {
		w.inFlight = true
	}
	w.mu.Unlock()

	if fire {
		_ = w.notify(ctx)
	}
}

// Finish marks the video watched when playback ends before the threshold
// was crossed.
func (w *WatchSession) Finish(ctx context.Context) error {
	return w.Mark(ctx)
}

// Mark explicitly marks the video watched. A no-op once already marked for
// the session.
func (w *WatchSession) Mark(ctx context.Context) error {
	w.mu.Lock()
	if w.marked || w.inFlight {
		w.mu.Unlock()
		return nil
	}
	w.inFlight = true
	w.mu.Unlock()

	return w.notify(ctx)
}

func (w *WatchSession) notify(ctx context.Context) error {
	w.mu.Lock()
	secs := int(w.watchTime / time.Second)
	w.mu.Unlock()

	err := w.svc.WatchVideo(ctx, w.videoID, secs)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
	if err != nil {
		return err // may be retried; marked stays false
	}
	w.marked = true
	return nil
}

func (w *WatchSession) Marked() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.marked
}

func (w *WatchSession) WatchTime() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watchTime
}
