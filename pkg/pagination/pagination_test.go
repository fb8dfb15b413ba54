package pagination

import "testing"

func TestResolveBounds(t *testing.T) {
	p := Resolve(30, 3, 12)
	if p.Start != 24 || p.End != 30 {
		t.Fatalf("expected [24,30), got [%d,%d)", p.Start, p.End)
	}
	if p.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", p.TotalPages)
	}
}

func TestResolvePastEndIsEmpty(t *testing.T) {
	p := Resolve(5, 4, 0)
	if p.Size != DefaultPageSize {
		t.Fatalf("expected default size, got %d", p.Size)
	}
	if p.Start != p.End {
		t.Fatalf("expected empty window, got [%d,%d)", p.Start, p.End)
	}
}

func TestNormalizePage(t *testing.T) {
	if NormalizePage(-2) != 1 || NormalizePage(0) != 1 || NormalizePage(7) != 7 {
		t.Fatal("unexpected page normalization")
	}
	if TotalPages(0, 12) != 0 || TotalPages(13, 12) != 2 {
		t.Fatal("unexpected total pages")
	}
}
