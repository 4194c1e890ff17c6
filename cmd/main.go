package main

import (
	"farumasi-backend/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		logrus.WithError(err).Fatal("Farumasi API failed to start")
	}

	// Blocks until SIGINT/SIGTERM, then drains in-flight requests
	app.Run()
}
