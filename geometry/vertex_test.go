package geometry

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEncodeVerticesLayout(t *testing.T) {
	data := EncodeVertices([]Vertex{
		{Position: mgl32.Vec3{1, 0, 0}, Color: mgl32.Vec3{0, 0, 1}, Wave: true},
		{Position: mgl32.Vec3{0, 0, 0}},
	})
	if len(data) != 2*VertexSize {
		t.Fatalf("encoded %d bytes, want %d", len(data), 2*VertexSize)
	}

	// 1.0f little-endian
	if data[0] != 0x00 || data[1] != 0x00 || data[2] != 0x80 || data[3] != 0x3f {
		t.Fatalf("position.x bytes = % x", data[0:4])
	}
	if data[24] != 1 || data[25] != 0 || data[26] != 0 || data[27] != 0 {
		t.Fatalf("wave flag bytes = % x", data[24:28])
	}
	if data[VertexSize+24] != 0 {
		t.Fatalf("second vertex should not wave")
	}
}

func TestDecodeRejectsPartialPayloads(t *testing.T) {
	if _, err := DecodeVertices(make([]byte, VertexSize+1)); !errors.Is(err, ErrPayloadSize) {
		t.Fatalf("vertices: got %v", err)
	}
	if _, err := DecodeIndices(make([]byte, 3)); !errors.Is(err, ErrPayloadSize) {
		t.Fatalf("indices: got %v", err)
	}
}

func TestCubePayloadSurvivesEncoding(t *testing.T) {
	vertices, indices := Cube(1, mgl32.Vec3{1, 0.5, 0})

	gotV, err := DecodeVertices(EncodeVertices(vertices))
	if err != nil {
		t.Fatalf("decode vertices: %v", err)
	}
	gotI, err := DecodeIndices(EncodeIndices(indices))
	if err != nil {
		t.Fatalf("decode indices: %v", err)
	}
	if len(gotV) != len(vertices) || len(gotI) != len(indices) {
		t.Fatalf("decoded %d/%d, want %d/%d", len(gotV), len(gotI), len(vertices), len(indices))
	}
	for i := range vertices {
		if gotV[i] != vertices[i] {
			t.Fatalf("vertex %d = %+v, want %+v", i, gotV[i], vertices[i])
		}
	}
}
