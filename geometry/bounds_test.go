package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTransformedBounds(t *testing.T) {
	cube, _ := Cube(2, mgl32.Vec3{})

	tests := []struct {
		name    string
		model   mgl32.Mat4
		wantMin mgl32.Vec3
		wantMax mgl32.Vec3
	}{
		{"identity", mgl32.Ident4(), mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}},
		{"translated", mgl32.Translate3D(5, 0, 0), mgl32.Vec3{4, -1, -1}, mgl32.Vec3{6, 1, 1}},
		{"scaled", mgl32.Scale3D(2, 1, 3), mgl32.Vec3{-2, -1, -3}, mgl32.Vec3{2, 1, 3}},
		{"rotated_45_z", mgl32.HomogRotate3DZ(mgl32.DegToRad(45)), mgl32.Vec3{-1.41421, -1.41421, -1}, mgl32.Vec3{1.41421, 1.41421, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := TransformedBounds(cube, tt.model)
			if !near(box.Min, tt.wantMin) || !near(box.Max, tt.wantMax) {
				t.Fatalf("bounds = %v..%v, want %v..%v", box.Min, box.Max, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestBoundingBoxQueries(t *testing.T) {
	a := BoundingBox{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}

	tests := []struct {
		name string
		b    BoundingBox
		want bool
	}{
		{"overlapping", BoundingBox{Min: mgl32.Vec3{0.5, 0.5, 0.5}, Max: mgl32.Vec3{2, 2, 2}}, true},
		{"touching_face", BoundingBox{Min: mgl32.Vec3{1, 0, 0}, Max: mgl32.Vec3{2, 1, 1}}, true},
		{"apart", BoundingBox{Min: mgl32.Vec3{3, 3, 3}, Max: mgl32.Vec3{4, 4, 4}}, false},
		{"empty", EmptyBox(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Fatalf("Intersects = %v, want %v", got, tt.want)
			}
		})
	}

	if !a.Contains(mgl32.Vec3{0.5, 1, 0}) || a.Contains(mgl32.Vec3{0.5, 1.1, 0}) {
		t.Fatalf("Contains misreported")
	}
	if !EmptyBox().Empty() || a.Empty() {
		t.Fatalf("Empty misreported")
	}
	if !near(a.Center(), mgl32.Vec3{0.5, 0.5, 0.5}) || !near(a.HalfExtents(), mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Fatalf("center %v half %v", a.Center(), a.HalfExtents())
	}
}

func TestOrientedFrom(t *testing.T) {
	cube, _ := Cube(2, mgl32.Vec3{})
	local := LocalBounds(cube)

	t.Run("identity", func(t *testing.T) {
		obb := OrientedFrom(local, mgl32.Ident4())
		if !near(obb.Center, mgl32.Vec3{}) {
			t.Fatalf("center = %v", obb.Center)
		}
		if !near(obb.HalfExtents, mgl32.Vec3{1, 1, 1}) {
			t.Fatalf("half extents = %v", obb.HalfExtents)
		}
		for i, axis := range obb.Axes {
			var want mgl32.Vec3
			want[i] = 1
			if !near(axis, want) {
				t.Fatalf("axis %d = %v", i, axis)
			}
		}
	})

	t.Run("translated_rotated_scaled", func(t *testing.T) {
		model := mgl32.Translate3D(1, 2, 3).
			Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(90))).
			Mul4(mgl32.Scale3D(2, 3, 4))
		obb := OrientedFrom(local, model)
		if !near(obb.Center, mgl32.Vec3{1, 2, 3}) {
			t.Fatalf("center = %v", obb.Center)
		}
		if !near(obb.HalfExtents, mgl32.Vec3{2, 3, 4}) {
			t.Fatalf("half extents = %v", obb.HalfExtents)
		}
		if !near(obb.Axes[0], mgl32.Vec3{0, 1, 0}) {
			t.Fatalf("x axis = %v", obb.Axes[0])
		}
	})

	t.Run("degenerate_scale", func(t *testing.T) {
		obb := OrientedFrom(local, mgl32.Scale3D(0, 1, 1))
		if obb.Axes[0] != (mgl32.Vec3{1, 0, 0}) || obb.HalfExtents[0] != 0 {
			t.Fatalf("zero column gave axis %v half %v", obb.Axes[0], obb.HalfExtents[0])
		}
	})
}

func near(a, b mgl32.Vec3) bool {
	return a.Sub(b).Len() < 1e-4
}
