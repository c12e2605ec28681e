//go:build !windows

package main

import (
	"fmt"
	"io"

	"github.com/1broseidon/rectangular/internal/platform"
)

func runTray(_ []string, stderr io.Writer) int {
	fmt.Fprintf(stderr, "rectangular run: %v\n", platform.ErrUnsupported)
	fmt.Fprintln(stderr, "The tray application needs Windows; 'tile', 'layout' and 'config' work everywhere.")
	return 1
}
