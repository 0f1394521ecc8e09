package main

import (
	"fmt"
	"os"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "gitea-agent: %v\n", err)
		os.Exit(1)
	}
}
