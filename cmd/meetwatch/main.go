package main

import (
	"os"

	"github.com/vexalabs/meetwatch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
