package main

import (
	"os"

	"github.com/example/store/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.OpenFromEnv, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
