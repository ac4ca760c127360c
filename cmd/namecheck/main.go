// Command namecheck serves the user names validation API.
//
// GET /api/validate-users loads the configured users list, sanitizes every
// name and submits it to the remote validation service, stopping on the
// first rejected name. GET /health is a liveness probe.
package main

import (
	"fmt"
	"os"

	"github.com/patric-chuzhbe/namecheck/internal/app"
)

func run() error {
	theApp, err := app.New()
	if err != nil {
		return err
	}
	defer func() {
		if err := theApp.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "Logger sync error:", err)
		}
	}()

	return theApp.Run()
}

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}
