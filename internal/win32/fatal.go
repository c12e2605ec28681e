//go:build windows

package win32

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sys/windows"
)

// Fatal logs err, reports it in a message box and exits. The process has no
// console, so the box is the only diagnostic a user sees.
func Fatal(logger *slog.Logger, what string, err error) {
	msg := fmt.Sprintf("%s: %v", what, err)
	if logger != nil {
		logger.Error(what, "error", err)
	}
	text, _ := windows.UTF16PtrFromString(msg)
	caption, _ := windows.UTF16PtrFromString("Rectangular")
	windows.MessageBox(0, text, caption, windows.MB_OK|windows.MB_ICONERROR|windows.MB_SETFOREGROUND)
	os.Exit(1)
}
