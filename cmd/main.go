package main

import (
	"os"

	"caregiver-aptitude-service/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
