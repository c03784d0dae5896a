package page

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/unisearch/internal/domain"
)

func TestComputeWindow(t *testing.T) {
	tests := []struct {
		name     string
		args     Arguments
		wantFrom int
		wantSize *int
	}{
		{"no arguments", Arguments{}, 0, nil},
		{"first only", Arguments{First: intPtr(10)}, 0, intPtr(10)},
		{"first zero", Arguments{First: intPtr(0)}, 0, intPtr(0)},
		{"after only", Arguments{After: strPtr(Encode(20))}, 20, nil},
		{"empty after is absent", Arguments{After: strPtr(""), First: intPtr(5)}, 0, intPtr(5)},
		{"after and first", Arguments{After: strPtr(Encode(20)), First: intPtr(10)}, 20, intPtr(10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ComputeWindow(tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w.From != tt.wantFrom {
				t.Errorf("from = %d, want %d", w.From, tt.wantFrom)
			}
			switch {
			case tt.wantSize == nil && w.Size != nil:
				t.Errorf("expected nil size, got %d", *w.Size)
			case tt.wantSize != nil && (w.Size == nil || *w.Size != *tt.wantSize):
				t.Errorf("size = %v, want %d", w.Size, *tt.wantSize)
			}
		})
	}
}

func TestComputeWindow_NegativeFirst(t *testing.T) {
	_, err := ComputeWindow(Arguments{First: intPtr(-1)})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err.Error() != "First must be a positive number" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestComputeWindow_MalformedCursor(t *testing.T) {
	_, err := ComputeWindow(Arguments{After: strPtr("not a cursor")})
	if !errors.Is(err, domain.ErrMalformedCursor) {
		t.Fatalf("expected ErrMalformedCursor, got %v", err)
	}
}

func TestComputeWindow_SizeNotAliased(t *testing.T) {
	first := 10
	w, _ := ComputeWindow(Arguments{First: &first})
	first = 99
	if *w.Size != 10 {
		t.Errorf("window size changed with caller's variable: %d", *w.Size)
	}
}

func TestNewEdges(t *testing.T) {
	edges := NewEdges(20, []string{"a", "b", "c"})
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}
	for i, e := range edges {
		p, err := Decode(e.Cursor)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if *p.Offset != 20+i+1 {
			t.Errorf("edge %d: offset %d, want %d", i, *p.Offset, 20+i+1)
		}
	}
	if edges[1].Node != "b" {
		t.Errorf("unexpected node: %s", edges[1].Node)
	}
}

func TestComputeInfo_EmptyEdges(t *testing.T) {
	info, err := ComputeInfo([]Edge[string]{}, 100, Arguments{After: strPtr(Encode(50)), First: intPtr(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.HasNextPage || info.HasPreviousPage || info.StartCursor != nil || info.EndCursor != nil {
		t.Errorf("expected zero info, got %+v", info)
	}

	// Empty edges win even over an undecodable cursor.
	info, err = ComputeInfo[string](nil, 100, Arguments{After: strPtr("garbage")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info != (Info{}) {
		t.Errorf("expected zero info, got %+v", info)
	}
}

func TestComputeInfo(t *testing.T) {
	tests := []struct {
		name     string
		from     int
		n        int
		total    int
		args     Arguments
		wantNext bool
		wantPrev bool
	}{
		{"last page", 5, 5, 10, Arguments{After: strPtr(Encode(5)), First: intPtr(5)}, false, true},
		{"first page", 0, 5, 10, Arguments{First: intPtr(5)}, true, false},
		{"middle page", 2, 3, 10, Arguments{After: strPtr(Encode(2)), First: intPtr(3)}, true, true},
		{"default page size", 0, 10, 25, Arguments{}, true, false},
		{"default page size covers all", 0, 10, 10, Arguments{}, false, false},
		{"exact boundary", 0, 4, 4, Arguments{First: intPtr(4)}, false, false},
		{"empty after is first page", 0, 5, 10, Arguments{After: strPtr(""), First: intPtr(5)}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := make([]int, tt.n)
			edges := NewEdges(tt.from, nodes)

			info, err := ComputeInfo(edges, tt.total, tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.HasNextPage != tt.wantNext {
				t.Errorf("hasNextPage = %v, want %v", info.HasNextPage, tt.wantNext)
			}
			if info.HasPreviousPage != tt.wantPrev {
				t.Errorf("hasPreviousPage = %v, want %v", info.HasPreviousPage, tt.wantPrev)
			}
			if info.StartCursor == nil || *info.StartCursor != edges[0].Cursor {
				t.Errorf("start cursor not taken from first edge")
			}
			if info.EndCursor == nil || *info.EndCursor != edges[len(edges)-1].Cursor {
				t.Errorf("end cursor not taken from last edge")
			}
		})
	}
}

func TestComputeInfo_CursorsNotRecomputed(t *testing.T) {
	edges := []Edge[string]{{Cursor: "first", Node: "a"}, {Cursor: "last", Node: "b"}}
	info, err := ComputeInfo(edges, 2, Arguments{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *info.StartCursor != "first" || *info.EndCursor != "last" {
		t.Errorf("unexpected cursors: %s, %s", *info.StartCursor, *info.EndCursor)
	}
}
