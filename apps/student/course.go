package main

import (
	"context"
	"fmt"
	"time"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/course"
	"github.com/darasa-app/darasa/core/enroll"
	"github.com/darasa-app/darasa/core/user"
)

// showCourse renders the course page: detail, ordered content list and, for
// an enrolled student, the progress summary.
func (cli *commandLine) showCourse(courseID, token string) error {
	sess, err := cli.session(token)
	if err != nil {
		// unauthenticated browsing is fine; content just stays locked
		sess = user.Session{}
	}
	client := cli.client.WithSession(sess)
	tracker := enroll.NewTracker(client, client, client, sess)

	ctx := context.Background()
	tracker.Open(courseID)
	if err := tracker.LoadCourse(ctx); err != nil {
		return err
	}
	if err := tracker.CheckEnrollment(ctx); err != nil {
		return err
	}

	crs := tracker.Course()
	fmt.Fprintf(cli.out, "%s  [%s, grade %s]\n", crs.Title, crs.Subject, crs.Grade)
	if crs.TeacherName != "" {
		fmt.Fprintf(cli.out, "Teacher: %s\n", crs.TeacherName)
	}
	if crs.Description != "" {
		fmt.Fprintln(cli.out, crs.Description)
	}
	fmt.Fprintln(cli.out)

	items := tracker.Content()
	if len(items) == 0 {
		fmt.Fprintln(cli.out, "No content yet.")
		return nil
	}
	progress := tracker.Progress()
	for i, item := range items {
		fmt.Fprintf(cli.out, "%2d. %s", i+1, cli.contentLine(item, progress))
		fmt.Fprintln(cli.out)
	}

	fmt.Fprintln(cli.out)
	if tracker.Enrolled() {
		fmt.Fprintf(cli.out, "Progress: %d%% (%d of %d units)\n",
			tracker.Completion(), progress.CompletedCount(), len(items))
	} else if sess.IsStudent() {
		fmt.Fprintln(cli.out, "You are not enrolled. Run `enroll -id", courseID+"` to start.")
	} else {
		fmt.Fprintln(cli.out, "Log in as a student to enroll.")
	}
	return nil
}

func (cli *commandLine) contentLine(item course.ContentItem, progress enroll.Progress) string {
	switch item.Type {
	case course.TypeVideo:
		mark := " "
		if progress.VideoCompleted(item.ID) {
			mark = "x"
		}
		return fmt.Sprintf("[%s] video  %-30s %s  (%s)",
			mark, item.Title, core.FormatDuration(int(item.Duration/time.Second)), item.ID)
	case course.TypeQuiz:
		mark := " "
		score := ""
		if progress.QuizCompleted(item.ID) {
			mark = "x"
			score = fmt.Sprintf("  best %d%%", progress.QuizScore(item.ID))
		}
		return fmt.Sprintf("[%s] quiz   %-30s %d questions%s  (%s)",
			mark, item.Title, item.QuestionCount, score, item.ID)
	}
	return item.Title
}

func (cli *commandLine) enroll(courseID, token string) error {
	sess, err := cli.session(token)
	if err != nil {
		return err
	}
	client := cli.client.WithSession(sess)
	tracker := enroll.NewTracker(client, client, client, sess)

	tracker.Open(courseID)
	if err := tracker.Enroll(context.Background()); err != nil {
		if err == core.ErrForbidden {
			fmt.Fprintln(cli.out, "Only students can enroll in courses.")
			return nil
		}
		return err
	}
	fmt.Fprintln(cli.out, "Enrolled! Open the course to start learning.")
	return nil
}

// watch simulates playing a video to the end: the watch session fires the
// backend update once the watched-threshold is crossed.
func (cli *commandLine) watch(videoID, token string) error {
	sess, err := cli.session(token)
	if err != nil {
		return err
	}
	client := cli.client.WithSession(sess)

	ctx := context.Background()
	vid, err := client.GetVideo(ctx, videoID)
	if err != nil {
		return err
	}

	ws := enroll.NewWatchSession(client, videoID, cli.conf.Player.WatchedThreshold)
	ws.Playback(ctx, vid.Duration, vid.Duration)
	if !ws.Marked() {
		if err := ws.Finish(ctx); err != nil {
			return err
		}
	}
	fmt.Fprintf(cli.out, "Marked %q watched (%s)\n",
		vid.Title, core.FormatDuration(int(vid.Duration/time.Second)))

	if qz, ok, err := client.GetVideoQuiz(ctx, videoID); err == nil && ok {
		fmt.Fprintf(cli.out, "This lesson has a quiz: %q. Run `quiz -id %s` to take it.\n", qz.Title, qz.ID)
	}
	return nil
}
