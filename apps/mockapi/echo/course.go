package mockapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type courseAPI struct {
	opts *Options
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := courseAPI{opts: opts}

	g.GET("/courses/:id", api.retrieve) // public
	g.GET("/videos/:id", api.video, jwt)
}

func (api *courseAPI) retrieve(ctx echo.Context) error {
	c, ok := api.opts.Store.Course(ctx.Param("id"))
	if !ok {
		return errNotFound
	}

	videos := api.opts.Store.CourseVideos(c.ID)
	out := make([]echo.Map, 0, len(videos))
	for _, v := range videos {
		out = append(out, videoJSON(v))
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"course": courseJSON(c),
		"videos": out,
	})
}

func (api *courseAPI) video(ctx echo.Context) error {
	v, ok := api.opts.Store.Video(ctx.Param("id"))
	if !ok {
		return errNotFound
	}
	return ctx.JSON(http.StatusOK, videoJSON(v))
}

func courseJSON(c *StoredCourse) echo.Map {
	return echo.Map{
		"_id":         c.ID,
		"title":       c.Title,
		"description": c.Description,
		"subject":     c.Subject,
		"grade":       c.Grade,
		"division":    c.Division,
		"teacher":     echo.Map{"name": c.TeacherName},
		"createdAt":   c.CreatedAt,
	}
}

func videoJSON(v *StoredVideo) echo.Map {
	out := echo.Map{
		"_id":       v.ID,
		"title":     v.Title,
		"duration":  v.DurationSec,
		"videoUrl":  v.VideoURL,
		"thumbnail": v.Thumbnail,
		"createdAt": v.CreatedAt,
	}
	if v.Order != nil {
		out["order"] = *v.Order
	}
	return out
}
