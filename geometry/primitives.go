package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Cube returns an axis-aligned cube of the given edge length centred on the
// origin, wound counter-clockwise when seen from outside.
func Cube(size float32, color mgl32.Vec3) ([]Vertex, []uint16) {
	h := size / 2
	vertices := make([]Vertex, 8)
	for i := range vertices {
		p := mgl32.Vec3{-h, -h, -h}
		if i&1 != 0 {
			p[0] = h
		}
		if i&2 != 0 {
			p[1] = h
		}
		if i&4 != 0 {
			p[2] = h
		}
		vertices[i] = Vertex{Position: p, Color: color}
	}
	indices := []uint16{
		0, 4, 6, 0, 6, 2, // -x
		1, 3, 7, 1, 7, 5, // +x
		0, 1, 5, 0, 5, 4, // -y
		2, 6, 7, 2, 7, 3, // +y
		0, 2, 3, 0, 3, 1, // -z
		4, 5, 7, 4, 7, 6, // +z
	}
	return vertices, indices
}

// GroundQuad returns a unit quad on the XZ plane facing +Y.
func GroundQuad(color mgl32.Vec3) ([]Vertex, []uint16) {
	vertices := []Vertex{
		{Position: mgl32.Vec3{-0.5, 0, -0.5}, Color: color},
		{Position: mgl32.Vec3{0.5, 0, -0.5}, Color: color},
		{Position: mgl32.Vec3{0.5, 0, 0.5}, Color: color},
		{Position: mgl32.Vec3{-0.5, 0, 0.5}, Color: color},
	}
	return vertices, []uint16{0, 2, 1, 0, 3, 2}
}

// Triangle returns one waving triangle centred on (cx, cy) on the XY plane
// with red, green and blue corners.
func Triangle(cx, cy, size float32) []Vertex {
	h := size / 2
	return []Vertex{
		{Position: mgl32.Vec3{cx, cy + h, 0}, Color: mgl32.Vec3{1, 0, 0}, Wave: true},
		{Position: mgl32.Vec3{cx - h, cy - h, 0}, Color: mgl32.Vec3{0, 1, 0}, Wave: true},
		{Position: mgl32.Vec3{cx + h, cy - h, 0}, Color: mgl32.Vec3{0, 0, 1}, Wave: true},
	}
}

// TriangleGrid lays out cols×rows triangles spaced by spacing. Identical
// vertices are shared through the index list. Grids needing more than
// MaxVertices vertices return ErrTooManyVertices.
func TriangleGrid(cols, rows int, spacing float32) ([]Vertex, []uint16, error) {
	if cols <= 0 || rows <= 0 {
		return nil, nil, nil
	}
	if cols > MaxVertices/3 || rows > MaxVertices/3 || cols*rows*3 > MaxVertices {
		return nil, nil, fmt.Errorf("triangle grid %dx%d: %w", cols, rows, ErrTooManyVertices)
	}

	vertices := make([]Vertex, 0, cols*rows*3)
	indices := make([]uint16, 0, cols*rows*3)
	seen := make(map[Vertex]uint16, cols*rows*3)
	for i := 0; i < cols*rows; i++ {
		x := float32(i%cols) * spacing
		y := float32(i/cols) * spacing
		for _, v := range Triangle(x, y, spacing) {
			idx, ok := seen[v]
			if !ok {
				idx = uint16(len(vertices))
				seen[v] = idx
				vertices = append(vertices, v)
			}
			indices = append(indices, idx)
		}
	}
	return vertices, indices, nil
}
