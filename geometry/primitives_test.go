package geometry

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPrimitives(t *testing.T) {
	tests := []struct {
		name         string
		build        func() ([]Vertex, []uint16)
		wantVertices int
		wantIndices  int
	}{
		{"cube", func() ([]Vertex, []uint16) { return Cube(1, mgl32.Vec3{1, 1, 1}) }, 8, 36},
		{"ground_quad", func() ([]Vertex, []uint16) { return GroundQuad(mgl32.Vec3{0, 1, 0}) }, 4, 6},
		{"single_triangle", func() ([]Vertex, []uint16) { return grid(t, 1, 1) }, 3, 3},
		{"triangle_grid", func() ([]Vertex, []uint16) { return grid(t, 10, 10) }, 300, 300},
		{"largest_grid", func() ([]Vertex, []uint16) { return grid(t, 21845, 1) }, 65535, 65535},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vertices, indices := tt.build()
			if len(vertices) != tt.wantVertices || len(indices) != tt.wantIndices {
				t.Fatalf("got %d vertices %d indices, want %d/%d", len(vertices), len(indices), tt.wantVertices, tt.wantIndices)
			}
			if len(indices)%3 != 0 {
				t.Fatalf("index count %d is not whole triangles", len(indices))
			}
			for _, idx := range indices {
				if int(idx) >= len(vertices) {
					t.Fatalf("index %d out of range", idx)
				}
			}
		})
	}
}

func TestGroundQuadFacesUp(t *testing.T) {
	vertices, indices := GroundQuad(mgl32.Vec3{})
	for i := 0; i < len(indices); i += 3 {
		a := vertices[indices[i]].Position
		b := vertices[indices[i+1]].Position
		c := vertices[indices[i+2]].Position
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Y() <= 0 {
			t.Fatalf("triangle %d normal %v does not face +Y", i/3, n)
		}
	}
}

func grid(t *testing.T, cols, rows int) ([]Vertex, []uint16) {
	t.Helper()
	vertices, indices, err := TriangleGrid(cols, rows, 0.2)
	if err != nil {
		t.Fatalf("TriangleGrid(%d, %d) error = %v", cols, rows, err)
	}
	return vertices, indices
}

func TestTriangleGridIndexRange(t *testing.T) {
	tests := []struct {
		name       string
		cols, rows int
		wantErr    bool
	}{
		{"fits", 150, 145, false},
		{"one_past_limit", 21846, 1, true},
		{"square_overflow", 150, 150, true},
		{"huge", 1 << 20, 1 << 20, true},
		{"empty", 0, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vertices, indices, err := TriangleGrid(tt.cols, tt.rows, 0.2)
			if tt.wantErr {
				if !errors.Is(err, ErrTooManyVertices) {
					t.Fatalf("error = %v, want ErrTooManyVertices", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(vertices) > MaxVertices {
				t.Fatalf("%d vertices exceed %d", len(vertices), MaxVertices)
			}
			if len(indices) != tt.cols*tt.rows*3 {
				t.Fatalf("got %d indices, want %d", len(indices), tt.cols*tt.rows*3)
			}
			// Grid triangles never share corners, so every index is its own vertex.
			for i, idx := range indices {
				if int(idx) != i {
					t.Fatalf("index[%d] = %d, want %d", i, idx, i)
				}
			}
		})
	}
}
