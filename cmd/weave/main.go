package main

import (
	"fmt"
	"os"

	"github.com/weaveui/weave/internal/cli"
)

func main() {
	cmd := cli.NewRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
