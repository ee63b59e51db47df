package geometry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexSize is the encoded size of a Vertex in bytes:
// position (3×f32), color (3×f32), wave flag (u32).
const VertexSize = 28

// IndexSize is the encoded size of one index in bytes.
const IndexSize = 2

// MaxVertices is the most vertices a mesh can address with u16 indices.
const MaxVertices = math.MaxUint16 + 1

var (
	ErrPayloadSize     = errors.New("geometry: payload size is not a multiple of the element size")
	ErrTooManyVertices = errors.New("geometry: mesh exceeds the u16 index range")
)

type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Wave     bool
}

// EncodeVertices packs vertices little-endian in the layout described by VertexSize.
func EncodeVertices(vertices []Vertex) []byte {
	out := make([]byte, len(vertices)*VertexSize)
	for i, v := range vertices {
		b := out[i*VertexSize:]
		putVec3(b[0:12], v.Position)
		putVec3(b[12:24], v.Color)
		var wave uint32
		if v.Wave {
			wave = 1
		}
		binary.LittleEndian.PutUint32(b[24:28], wave)
	}
	return out
}

func DecodeVertices(data []byte) ([]Vertex, error) {
	if len(data)%VertexSize != 0 {
		return nil, fmt.Errorf("decode vertices: %d bytes: %w", len(data), ErrPayloadSize)
	}
	out := make([]Vertex, len(data)/VertexSize)
	for i := range out {
		b := data[i*VertexSize:]
		out[i] = Vertex{
			Position: readVec3(b[0:12]),
			Color:    readVec3(b[12:24]),
			Wave:     binary.LittleEndian.Uint32(b[24:28]) != 0,
		}
	}
	return out, nil
}

func EncodeIndices(indices []uint16) []byte {
	out := make([]byte, len(indices)*IndexSize)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(out[i*IndexSize:], idx)
	}
	return out
}

func DecodeIndices(data []byte) ([]uint16, error) {
	if len(data)%IndexSize != 0 {
		return nil, fmt.Errorf("decode indices: %d bytes: %w", len(data), ErrPayloadSize)
	}
	out := make([]uint16, len(data)/IndexSize)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(data[i*IndexSize:])
	}
	return out, nil
}

func putVec3(b []byte, v mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v[i]))
	}
}

func readVec3(b []byte) mgl32.Vec3 {
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
