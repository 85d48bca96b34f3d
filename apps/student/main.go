package main

import (
	"log"
	"os"

	"github.com/darasa-app/darasa/core"
	restsvc "github.com/darasa-app/darasa/services/rest"
)

// darasa-cli is a terminal front end for the darasa client core: log in,
// inspect a course, enroll, mark videos watched and take timed quizzes.
func main() {
	conf := core.NewConfig()

	cli := &commandLine{
		conf:   conf,
		client: restsvc.NewClient(conf),
		out:    os.Stdout,
		in:     os.Stdin,
	}
	if err := cli.run(os.Args); err != nil {
		if err == errHelp {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}
