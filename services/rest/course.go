package restsvc

import (
	"context"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/course"
)

var _ course.Service = (*Client)(nil)

// GetCourse fetches a course with its video list.
func (c *Client) GetCourse(ctx context.Context, id string) (course.Detail, error) {
	var resp struct {
		Course *wireCourse `json:"course"`
		Videos []wireVideo `json:"videos"`
	}
	if err := c.get(ctx, pathf("/api/courses/%s", id), &resp); err != nil {
		return course.Detail{}, err
	}
	if resp.Course == nil {
		return course.Detail{}, core.ErrNotFound
	}

	videos := make([]course.Video, 0, len(resp.Videos))
	for _, v := range resp.Videos {
		videos = append(videos, v.normalize())
	}
	return course.Detail{Course: resp.Course.normalize(), Videos: videos}, nil
}

// GetVideo fetches a single video for playback.
func (c *Client) GetVideo(ctx context.Context, id string) (course.Video, error) {
	var resp wireVideo
	if err := c.get(ctx, pathf("/api/videos/%s", id), &resp); err != nil {
		return course.Video{}, err
	}
	return resp.normalize(), nil
}
