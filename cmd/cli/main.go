package main

import (
	"os"

	"github.com/talentfit/talentfit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
