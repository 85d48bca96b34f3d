package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/user"
	restsvc "github.com/darasa-app/darasa/services/rest"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	client *restsvc.Client
	out    io.Writer
	in     io.Reader
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                 - log in; prints the session token")
	fmt.Fprintln(cli.out, "  course -id COURSE [-token TOKEN]   - show a course, its content and your progress")
	fmt.Fprintln(cli.out, "  enroll -id COURSE [-token TOKEN]   - enroll in a course")
	fmt.Fprintln(cli.out, "  watch -id VIDEO [-token TOKEN]     - mark a video as watched")
	fmt.Fprintln(cli.out, "  quiz -id QUIZ [-token TOKEN]       - take a timed quiz")
	fmt.Fprintln(cli.out, "  verify -student ID                 - check a student ID (parent flow)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The account email. The password will be prompted next.")

	courseCmd := flag.NewFlagSet("course", flag.ExitOnError)
	courseID := courseCmd.String("id", "", "The course ID.")
	courseToken := courseCmd.String("token", "", "Session token; defaults to $DARASA_TOKEN.")

	enrollCmd := flag.NewFlagSet("enroll", flag.ExitOnError)
	enrollID := enrollCmd.String("id", "", "The course ID.")
	enrollToken := enrollCmd.String("token", "", "Session token; defaults to $DARASA_TOKEN.")

	watchCmd := flag.NewFlagSet("watch", flag.ExitOnError)
	watchID := watchCmd.String("id", "", "The video ID.")
	watchToken := watchCmd.String("token", "", "Session token; defaults to $DARASA_TOKEN.")

	quizCmd := flag.NewFlagSet("quiz", flag.ExitOnError)
	quizID := quizCmd.String("id", "", "The quiz ID.")
	quizToken := quizCmd.String("token", "", "Session token; defaults to $DARASA_TOKEN.")

	verifyCmd := flag.NewFlagSet("verify", flag.ExitOnError)
	verifyStudent := verifyCmd.String("student", "", "The student ID to verify.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginEmail, string(pwd))
	case "course":
		if err := courseCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *courseID == "" {
			courseCmd.Usage()
			return errHelp
		}
		return cli.showCourse(*courseID, *courseToken)
	case "enroll":
		if err := enrollCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *enrollID == "" {
			enrollCmd.Usage()
			return errHelp
		}
		return cli.enroll(*enrollID, *enrollToken)
	case "watch":
		if err := watchCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *watchID == "" {
			watchCmd.Usage()
			return errHelp
		}
		return cli.watch(*watchID, *watchToken)
	case "quiz":
		if err := quizCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *quizID == "" {
			quizCmd.Usage()
			return errHelp
		}
		return cli.takeQuiz(*quizID, *quizToken)
	case "verify":
		if err := verifyCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *verifyStudent == "" {
			verifyCmd.Usage()
			return errHelp
		}
		return cli.verifyStudent(*verifyStudent)
	default:
		cli.printUsage()
		return errHelp
	}
}

// session builds the injected session context from an explicit token or
// $DARASA_TOKEN.
func (cli *commandLine) session(token string) (user.Session, error) {
	if token == "" {
		token = os.Getenv("DARASA_TOKEN")
	}
	if token == "" {
		return user.Session{}, errors.New("no session token; run `login` first or set $DARASA_TOKEN")
	}
	return user.NewSession(token, cli.conf.SecretKey)
}

func (cli *commandLine) login(email, password string) error {
	sess, err := cli.client.Login(context.Background(), email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Welcome %s (%s)\n", sess.User.Name, sess.User.Role)
	fmt.Fprintf(cli.out, "export DARASA_TOKEN=%s\n", sess.Token)
	return nil
}

func (cli *commandLine) verifyStudent(studentID string) error {
	student, err := cli.client.VerifyStudent(context.Background(), studentID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			fmt.Fprintf(cli.out, "No student found for ID %s\n", studentID)
			return nil
		}
		return err
	}
	fmt.Fprintf(cli.out, "Student: %s (grade %s)\n", student.Name, student.Grade)
	return nil
}
