package main

import (
	"log"
	"os"

	"github.com/darasa-app/darasa/apps/mockapi/echo"
	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/services/logger"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stdout, "MOCKAPI : ", log.LstdFlags|log.Lshortfile)
	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	store := mockapi.NewStore()
	if err := mockapi.Seed(store); err != nil {
		log.Fatal(err)
	}

	app := mockapi.NewServer(
		&mockapi.Options{
			Addr:   ":8000",
			Conf:   conf,
			Store:  store,
			Logger: logger,
		},
	)
	app.Start()
}
