package clipboard

import (
	"testing"
)

func TestCandidatesNonEmptyForCurrentGOOS(t *testing.T) {
	if len(candidates()) == 0 {
		t.Fatal("expected at least one candidate helper")
	}
}

func TestCopyFailsWhenNoHelperOnPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir()) // a PATH with nothing on it
	if err := Copy("hello"); err == nil {
		t.Fatal("expected an error with no selection helper available")
	}
}
