package chart

import "testing"

func TestRenderProducesExactGridSize(t *testing.T) {
	cfg := Config{Type: TypeBar, Title: "Requests"}
	data := []DataPoint{{Label: "a", Value: 1}, {Label: "b", Value: 4}, {Label: "c", Value: 2}}
	grid := Render(cfg, data, 12, 5)
	if len(grid) != 5 {
		t.Fatalf("got %d rows, want 5", len(grid))
	}
	for _, row := range grid {
		if len(row) != 12 {
			t.Fatalf("got %d cols, want 12", len(row))
		}
	}
}

func TestRenderEmptyDataStillFillsGrid(t *testing.T) {
	grid := Render(Config{Type: TypeLine}, nil, 8, 3)
	if len(grid) != 3 || len(grid[0]) != 8 {
		t.Fatalf("unexpected grid shape")
	}
}

func TestRenderZeroSizeReturnsEmptyGrid(t *testing.T) {
	grid := Render(Config{}, []DataPoint{{Value: 1}}, 0, 0)
	if len(grid) != 0 {
		t.Fatalf("expected empty grid, got %d rows", len(grid))
	}
}

func TestRenderHistogramBucketizes(t *testing.T) {
	data := []DataPoint{{Value: 1}, {Value: 1}, {Value: 9}, {Value: 9}, {Value: 5}}
	grid := Render(Config{Type: TypeHistogram}, data, 10, 4)
	if len(grid) != 4 || len(grid[0]) != 10 {
		t.Fatalf("unexpected grid shape")
	}
	// Ten buckets over [1,9]: bucket 0 holds both 1s (the tallest bar),
	// bucket 1 is empty.
	if grid[0][0] != '█' || grid[3][1] != ' ' {
		t.Fatalf("got column 0 top %q, column 1 bottom %q", grid[0][0], grid[3][1])
	}
}

func TestRenderDeterministic(t *testing.T) {
	cfg := Config{Type: TypeBar, Title: "X"}
	data := []DataPoint{{Value: 3}, {Value: 7}}
	a := PlainText(Render(cfg, data, 10, 4))
	b := PlainText(Render(cfg, data, 10, 4))
	if a != b {
		t.Fatalf("render is not deterministic:\n%s\nvs\n%s", a, b)
	}
}
