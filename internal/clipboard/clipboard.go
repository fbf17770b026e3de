// Package clipboard implements the clipboard bridge (Section 4.M):
// copying a focused box's plain-text scrollback to the host clipboard via
// a platform helper binary, and computing the short border-color-flash
// window the Coordinator uses to confirm the copy happened. Grounded on
// the teacher's internal/bridge/exec.go shape for spawning a short-lived
// external helper and capturing its result, generalized from "run a
// script and capture output" to "pipe text to a selection helper and
// check its exit code".
package clipboard

import (
	"bytes"
	"fmt"
	"os/exec"
	"runtime"
	"time"
)

// FlashDuration is how long the Coordinator keeps a copied box's border
// flashed after a successful copy (Section 4.M).
const FlashDuration = 200 * time.Millisecond

// candidates lists the helper binary plus arguments to try, in order, for
// the current GOOS. Linux has two common selection helpers depending on
// what the desktop environment installed; the first one found on PATH
// wins.
func candidates() [][]string {
	switch runtime.GOOS {
	case "darwin":
		return [][]string{{"pbcopy"}}
	case "windows":
		return [][]string{{"clip.exe"}}
	default:
		return [][]string{
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
	}
}

// Copy writes text to the system clipboard by piping it to the first
// available platform helper on PATH.
func Copy(text string) error {
	var lastErr error
	for _, argv := range candidates() {
		path, err := exec.LookPath(argv[0])
		if err != nil {
			lastErr = err
			continue
		}
		cmd := exec.Command(path, argv[1:]...)
		cmd.Stdin = bytes.NewBufferString(text)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			lastErr = fmt.Errorf("%s: %w: %s", argv[0], err, stderr.String())
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("clipboard: no selection helper found for %s", runtime.GOOS)
	}
	return lastErr
}
