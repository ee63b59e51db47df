package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BoundingBox is an axis-aligned box. An empty box has Min > Max on every axis.
type BoundingBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func EmptyBox() BoundingBox {
	return BoundingBox{
		Min: mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Extend grows the box to include p.
func (b *BoundingBox) Extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

func (b BoundingBox) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

func (b BoundingBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// HalfExtents returns half the box size on each axis.
func (b BoundingBox) HalfExtents() mgl32.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

func (b BoundingBox) Contains(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Intersects reports whether two boxes overlap; touching faces count.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] < o.Min[i] || b.Min[i] > o.Max[i] {
			return false
		}
	}
	return true
}

// LocalBounds returns the box around the vertex positions in mesh space.
func LocalBounds(vertices []Vertex) BoundingBox {
	box := EmptyBox()
	for _, v := range vertices {
		box.Extend(v.Position)
	}
	return box
}

// TransformedBounds transforms every vertex by model and returns the
// axis-aligned box around the results.
func TransformedBounds(vertices []Vertex, model mgl32.Mat4) BoundingBox {
	box := EmptyBox()
	for _, v := range vertices {
		box.Extend(TransformPoint(model, v.Position))
	}
	return box
}

func TransformPoint(model mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return model.Mul4x1(p.Vec4(1)).Vec3()
}

// OrientedBox is a box with arbitrary orientation: a center, three unit axes
// and the half size along each axis.
type OrientedBox struct {
	Center      mgl32.Vec3
	Axes        [3]mgl32.Vec3
	HalfExtents mgl32.Vec3
}

// OrientedFrom carries a mesh-space box through model. Scale ends up in the
// half extents, rotation in the axes.
func OrientedFrom(local BoundingBox, model mgl32.Mat4) OrientedBox {
	half := local.HalfExtents()
	obb := OrientedBox{Center: TransformPoint(model, local.Center())}
	for i := 0; i < 3; i++ {
		col := model.Col(i).Vec3()
		length := col.Len()
		if length == 0 {
			var axis mgl32.Vec3
			axis[i] = 1
			obb.Axes[i] = axis
			continue
		}
		obb.Axes[i] = col.Mul(1 / length)
		obb.HalfExtents[i] = half[i] * length
	}
	return obb
}
