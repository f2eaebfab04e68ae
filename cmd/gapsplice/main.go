package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gapsplice/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(max(1, services.ExitCode(err)))
	}
}
