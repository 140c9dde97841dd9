package main

import (
	"os"

	"github.com/cloudbill/gbat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
