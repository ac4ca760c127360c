package worker

import (
	"errors"
	"log"
	"os"
)

var errRejected = errors.New("rejected")

func validate(name string) error {
	if name == "" {
		os.Exit(1) // want `os.Exit terminates the process`
	}
	if name == "-" {
		log.Fatalf("bad name %q", name) // want `log.Fatalf terminates the process`
	}
	if name == "?" {
		log.New(os.Stderr, "", 0).Fatal(name) // want `log.Fatal terminates the process`
	}
	return errRejected
}

func report(name string) {
	log.Println(validate(name))
}
