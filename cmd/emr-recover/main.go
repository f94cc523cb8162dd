package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := newRootCmd(defaultApp())
	root.SetOut(os.Stdout)

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errMissingETL) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
