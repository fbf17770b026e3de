package table

import "testing"

func TestIsNumericColumnDetection(t *testing.T) {
	rows := [][]string{{"alice", "30"}, {"bob", "25"}}
	if isNumericColumn(rows, 0) {
		t.Fatal("column 0 should not be numeric")
	}
	if !isNumericColumn(rows, 1) {
		t.Fatal("column 1 should be numeric")
	}
}

func TestSortNumericAscending(t *testing.T) {
	rows := [][]string{{"a", "30"}, {"b", "10"}, {"c", "20"}}
	out := Sort(rows, 1, false)
	if out[0][1] != "10" || out[1][1] != "20" || out[2][1] != "30" {
		t.Fatalf("got %v", out)
	}
}

func TestSortTextDescending(t *testing.T) {
	rows := [][]string{{"banana"}, {"apple"}, {"cherry"}}
	out := Sort(rows, 0, true)
	if out[0][0] != "cherry" || out[2][0] != "apple" {
		t.Fatalf("got %v", out)
	}
}

func TestFilterCaseInsensitiveSubstring(t *testing.T) {
	rows := [][]string{{"Alice", "ops"}, {"Bob", "dev"}}
	out := Filter(rows, "OPS")
	if len(out) != 1 || out[0][0] != "Alice" {
		t.Fatalf("got %v", out)
	}
}

func TestPageSplitsAndClamps(t *testing.T) {
	rows := [][]string{{"1"}, {"2"}, {"3"}, {"4"}, {"5"}}
	page, total := Page(rows, 2, 5)
	if total != 3 {
		t.Fatalf("got totalPages=%d, want 3", total)
	}
	if len(page) != 1 || page[0][0] != "5" {
		t.Fatalf("clamped page got %v", page)
	}
}

func TestRenderProducesExactGridSize(t *testing.T) {
	cfg := Config{Headers: []string{"Name", "Age"}, BorderStyle: BorderSingle}
	rows := [][]string{{"Alice", "30"}, {"Bob", "25"}}
	grid := Render(cfg, rows, State{}, 20, 6)
	if len(grid) != 6 {
		t.Fatalf("got %d rows, want 6", len(grid))
	}
	for _, r := range grid {
		if len(r) != 20 {
			t.Fatalf("got %d cols, want 20", len(r))
		}
	}
}

func TestRenderWithPagingShowsFooter(t *testing.T) {
	cfg := Config{Headers: []string{"N"}, PageSize: 1}
	rows := [][]string{{"1"}, {"2"}, {"3"}}
	grid := Render(cfg, rows, State{Page: 0}, 20, 4)
	footer := string(grid[3])
	if !contains(footer, "page 1/3") {
		t.Fatalf("expected page footer, got %q", footer)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
