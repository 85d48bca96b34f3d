package restsvc

import (
	"context"

	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core/enroll"
)

var _ enroll.Service = (*Client)(nil)

// CheckEnrollment queries whether the current student is enrolled in a course.
func (c *Client) CheckEnrollment(ctx context.Context, courseID string) (enroll.Status, error) {
	var resp struct {
		IsEnrolled bool            `json:"isEnrolled"`
		Enrollment *wireEnrollment `json:"enrollment"`
	}
	if err := c.get(ctx, pathf("/api/enrollments/check/%s", courseID), &resp); err != nil {
		return enroll.Status{}, err
	}
	status := enroll.Status{IsEnrolled: resp.IsEnrolled}
	if resp.Enrollment != nil {
		status.Enrollment = resp.Enrollment.normalize()
	} else {
		status.Enrollment.Progress = enroll.NewProgress()
	}
	return status, nil
}

// Enroll enrolls the current student in a course.
func (c *Client) Enroll(ctx context.Context, courseID string) (enroll.Enrollment, error) {
	body := struct {
		CourseID string `json:"courseId" validate:"required"`
	}{CourseID: courseID}

	var resp struct {
		Success    bool            `json:"success"`
		Enrollment *wireEnrollment `json:"enrollment"`
	}
	if err := c.post(ctx, "/api/enrollments/enroll", body, &resp); err != nil {
		return enroll.Enrollment{}, err
	}
	if !resp.Success || resp.Enrollment == nil {
		return enroll.Enrollment{}, errors.New("enrollment was not created")
	}
	return resp.Enrollment.normalize(), nil
}

// UpdateVideoProgress marks a video watched within a course.
func (c *Client) UpdateVideoProgress(ctx context.Context, courseID, videoID string) (enroll.Enrollment, error) {
	body := struct {
		CourseID string `json:"courseId"`
		VideoID  string `json:"videoId"`
	}{CourseID: courseID, VideoID: videoID}

	var resp struct {
		Success    bool            `json:"success"`
		Enrollment *wireEnrollment `json:"enrollment"`
	}
	if err := c.put(ctx, "/api/enrollments/update-video-progress", body, &resp); err != nil {
		return enroll.Enrollment{}, err
	}
	var enr enroll.Enrollment
	if resp.Enrollment != nil {
		enr = resp.Enrollment.normalize()
	}
	return enr, nil
}

// WatchVideo notifies the accumulated watch time (seconds) for a video.
func (c *Client) WatchVideo(ctx context.Context, videoID string, watchTime int) error {
	body := struct {
		WatchTime int `json:"watchTime"`
	}{WatchTime: watchTime}
	return c.post(ctx, pathf("/api/enrollments/watch-video/%s", videoID), body, nil)
}
