package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/quiz"
)

// takeQuiz runs one interactive timed attempt. The countdown ticks on a
// background goroutine and may force-submit mid-prompt; every loop
// iteration re-checks the attempt state before reading the next command.
func (cli *commandLine) takeQuiz(quizID, token string) error {
	sess, err := cli.session(token)
	if err != nil {
		return err
	}
	client := cli.client.WithSession(sess)
	attempt := quiz.NewSession(client, cli.conf.Player.DefaultQuizTimeLimit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := attempt.Load(ctx, quizID); err != nil {
		return err
	}
	go attempt.StartClock(ctx)

	qz := attempt.Quiz()
	fmt.Fprintf(cli.out, "%s  (%d questions, %s, pass mark %d%%)\n",
		qz.Title, len(qz.Questions), core.FormatDuration(attempt.Remaining()), qz.PassMark)
	fmt.Fprintln(cli.out, "Commands: a N (answer), n (next), p (previous), j N (jump), s (submit), q (quit)")

	scanner := bufio.NewScanner(cli.in)
	for {
		if attempt.State() == quiz.Graded {
			break
		}
		cli.printQuestion(attempt)

		fmt.Fprint(cli.out, "> ")
		if !scanner.Scan() {
			cancel()
			return scanner.Err()
		}
		if attempt.State() == quiz.Graded {
			// the clock ran out while we waited for input
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "a":
			if len(fields) < 2 {
				fmt.Fprintln(cli.out, "usage: a N  (1-based option number)")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 1 || n > quiz.OptionCount {
				fmt.Fprintf(cli.out, "pick an option between 1 and %d\n", quiz.OptionCount)
				continue
			}
			q, ok := attempt.CurrentQuestion()
			if !ok {
				continue
			}
			if err := attempt.SelectAnswer(q.ID, n-1); err != nil {
				fmt.Fprintln(cli.out, err)
			}
		case "n":
			attempt.Next()
		case "p":
			attempt.Previous()
		case "j":
			if len(fields) < 2 {
				fmt.Fprintln(cli.out, "usage: j N  (1-based question number)")
				continue
			}
			n, _ := strconv.Atoi(fields[1])
			attempt.JumpTo(n - 1)
		case "s":
			if err := attempt.Submit(ctx); err != nil {
				switch err.(type) {
				case *quiz.GradingError:
					fmt.Fprintln(cli.out, "Submission failed; try `s` again:", err)
				default:
					if err == quiz.ErrIncompleteAnswers {
						fmt.Fprintf(cli.out, "Answer all questions first (%d of %d done).\n",
							attempt.AnsweredCount(), len(qz.Questions))
					} else {
						fmt.Fprintln(cli.out, err)
					}
				}
			}
		case "q":
			cancel()
			fmt.Fprintln(cli.out, "Attempt abandoned.")
			return nil
		default:
			fmt.Fprintln(cli.out, "Commands: a N, n, p, j N, s, q")
		}
	}
	cancel()

	return cli.printResult(attempt)
}

func (cli *commandLine) printQuestion(attempt *quiz.Session) {
	q, ok := attempt.CurrentQuestion()
	if !ok {
		return
	}
	qz := attempt.Quiz()
	fmt.Fprintf(cli.out, "\n[%s left]  Question %d/%d (%d answered)\n",
		core.FormatDuration(attempt.Remaining()),
		attempt.CurrentIndex()+1, len(qz.Questions), attempt.AnsweredCount())
	fmt.Fprintln(cli.out, q.Prompt)
	for i, opt := range q.Options {
		mark := " "
		if picked, ok := attempt.Answer(q.ID); ok && picked == i {
			mark = "*"
		}
		fmt.Fprintf(cli.out, " %s %d) %s\n", mark, i+1, opt)
	}
}

func (cli *commandLine) printResult(attempt *quiz.Session) error {
	res := attempt.Result()
	qz := attempt.Quiz()
	fmt.Fprintf(cli.out, "\nScore: %d%% (%d/%d correct) in %s\n",
		res.Score, res.CorrectAnswers, len(qz.Questions), core.FormatDuration(res.TimeTaken))
	switch res.Band() {
	case quiz.BandPass:
		fmt.Fprintln(cli.out, "Great job, you passed!")
	case quiz.BandPartial:
		fmt.Fprintln(cli.out, "Nearly there. Review the videos and try again.")
	default:
		fmt.Fprintln(cli.out, "Keep practicing; rewatch the course videos.")
	}
	return nil
}
