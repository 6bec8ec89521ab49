package main

import (
	"fmt"
	"os"

	"siteops/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ackctl:", err)
		os.Exit(1)
	}
}
