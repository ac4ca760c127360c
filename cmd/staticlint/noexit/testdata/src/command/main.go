package main

import (
	"fmt"
	"log"
	"os"
)

func run() error {
	return fmt.Errorf("boom")
}

func fail(err error) {
	log.Fatalln(err) // want `log.Fatalln terminates the process`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer fail(nil)
}
