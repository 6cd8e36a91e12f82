package main

import (
	"os"

	"github.com/rcliao/game-backlog/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
