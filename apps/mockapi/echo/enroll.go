package mockapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type enrollmentAPI struct {
	opts *Options
}

func registerEnrollmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := enrollmentAPI{opts: opts}

	eg := g.Group("/enrollments", jwt)
	eg.GET("/check/:courseId", api.check)
	eg.POST("/enroll", api.enroll, studentMiddleware("Only students can enroll in courses"))
	eg.PUT("/update-video-progress", api.updateVideoProgress)
	eg.POST("/watch-video/:id", api.watchVideo)
}

func (api *enrollmentAPI) check(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	enr, ok := api.opts.Store.Enrollment(claims.Subject, ctx.Param("courseId"))
	if !ok {
		return ctx.JSON(http.StatusOK, echo.Map{"isEnrolled": false, "enrollment": nil})
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"isEnrolled": true,
		"enrollment": enrollmentJSON(enr),
	})
}

func (api *enrollmentAPI) enroll(ctx echo.Context) error {
	var data struct {
		CourseID string `json:"courseId"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding enroll request")
	}
	if _, ok := api.opts.Store.Course(data.CourseID); !ok {
		return errNotFound
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	enr := api.opts.Store.CreateEnrollment(claims.Subject, data.CourseID)
	return ctx.JSON(http.StatusCreated, echo.Map{
		"success":    true,
		"enrollment": enrollmentJSON(enr),
	})
}

func (api *enrollmentAPI) updateVideoProgress(ctx echo.Context) error {
	var data struct {
		CourseID string `json:"courseId"`
		VideoID  string `json:"videoId"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding video progress")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	enr, ok := api.opts.Store.MarkVideoWatched(claims.Subject, data.CourseID, data.VideoID)
	if !ok {
		return errNotFound // not enrolled
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"enrollment": enrollmentJSON(enr),
	})
}

func (api *enrollmentAPI) watchVideo(ctx echo.Context) error {
	videoID := ctx.Param("id")

	var data struct {
		WatchTime int `json:"watchTime"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding watch time")
	}

	courseID, ok := api.opts.Store.CourseForVideo(videoID)
	if !ok {
		return errNotFound
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if _, ok := api.opts.Store.MarkVideoWatched(claims.Subject, courseID, videoID); !ok {
		return errNotFound // not enrolled
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

func enrollmentJSON(e *StoredEnrollment) echo.Map {
	return echo.Map{
		"_id":        e.ID,
		"course":     e.CourseID,
		"student":    e.StudentID,
		"enrolledAt": e.EnrolledAt,
		"progress": echo.Map{
			"completedVideos":  e.Progress.CompletedVideos,
			"completedQuizzes": e.Progress.CompletedQuizzes,
			"quizScores":       e.Progress.QuizScores,
			"quizzesTaken":     e.Progress.QuizzesTaken,
		},
	}
}
