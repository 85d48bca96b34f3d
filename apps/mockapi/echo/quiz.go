package mockapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type quizAPI struct {
	opts *Options
}

func registerQuizAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := quizAPI{opts: opts}

	qg := g.Group("/quizzes")
	qg.GET("/course/:courseId", api.byCourse) // public; course pages are browsable
	qg.GET("/:id", api.retrieve, jwt)
	qg.GET("/video/:id", api.byVideo, jwt)
	qg.POST("/:id/submit", api.submit, jwt, studentMiddleware("Only students can take quizzes"))
}

func (api *quizAPI) retrieve(ctx echo.Context) error {
	qz, ok := api.opts.Store.Quiz(ctx.Param("id"))
	if !ok {
		return errNotFound
	}
	return ctx.JSON(http.StatusOK, echo.Map{"quiz": quizJSON(qz, true /* docWrapped */)})
}

func (api *quizAPI) byCourse(ctx echo.Context) error {
	quizzes := api.opts.Store.CourseQuizzes(ctx.Param("courseId"))
	out := make([]echo.Map, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, quizJSON(q, false))
	}
	return ctx.JSON(http.StatusOK, echo.Map{"quizzes": out})
}

func (api *quizAPI) byVideo(ctx echo.Context) error {
	qz, ok := api.opts.Store.VideoQuiz(ctx.Param("id"))
	if !ok {
		return ctx.JSON(http.StatusOK, echo.Map{"quiz": nil})
	}
	return ctx.JSON(http.StatusOK, echo.Map{"quiz": quizJSON(qz, false)})
}

func (api *quizAPI) submit(ctx echo.Context) error {
	qz, ok := api.opts.Store.Quiz(ctx.Param("id"))
	if !ok {
		return errNotFound
	}

	var data struct {
		Answers   []int `json:"answers"`
		TimeTaken int   `json:"timeTaken"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding submission")
	}
	if len(data.Answers) != len(qz.Questions) {
		return echo.NewHTTPError(http.StatusBadRequest, "one answer per question is required")
	}

	score, correct := qz.Grade(data.Answers)

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	api.opts.Store.RecordQuizResult(claims.Subject, qz.CourseID, qz.ID, score)

	return ctx.JSON(http.StatusOK, echo.Map{
		"score":          score,
		"correctAnswers": correct,
		"timeTaken":      data.TimeTaken,
	})
}

// quizJSON renders a quiz the way the real backend does: `_id` keys,
// timeLimit in minutes and, when docWrapped, each question nested under a
// `_doc` wrapper (a serialization artifact of the original service that
// clients must cope with).
func quizJSON(q *StoredQuiz, docWrapped bool) echo.Map {
	questions := make([]echo.Map, 0, len(q.Questions))
	for _, qu := range q.Questions {
		body := echo.Map{
			"_id":       qu.ID,
			"question":  qu.Prompt,
			"options":   qu.Options,
			"createdAt": qu.CreatedAt,
			// the correct option index is withheld before grading
		}
		if docWrapped {
			questions = append(questions, echo.Map{"_id": qu.ID, "_doc": body})
		} else {
			questions = append(questions, body)
		}
	}

	out := echo.Map{
		"_id":          q.ID,
		"course":       q.CourseID,
		"title":        q.Title,
		"questions":    questions,
		"timeLimit":    q.TimeLimitMin,
		"passingScore": q.PassingScore,
		"createdAt":    q.CreatedAt,
	}
	if q.Order != nil {
		out["order"] = *q.Order
	}
	return out
}
