package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"textbundle/internal/textpack"
)

func main() {
	textpack.Init()
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
