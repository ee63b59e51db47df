package component

import "github.com/go-gl/mathgl/mgl32"

// Transform places an entity in the world. Model is derived from Position,
// Rotation (XYZ euler angles in radians) and Scale; the mutators keep it in
// sync, direct field writes need UpdateModel.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
	Model    mgl32.Mat4
}

func NewTransform(position, rotation, scale mgl32.Vec3) *Transform {
	t := &Transform{Position: position, Rotation: rotation, Scale: scale}
	t.UpdateModel()
	return t
}

// IdentityTransform sits at the origin with no rotation and unit scale.
func IdentityTransform() *Transform {
	return NewTransform(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
}

func (*Transform) Kind() Kind { return KindTransform }
func (*Transform) sealed()    {}

func (t *Transform) Translate(d mgl32.Vec3) {
	t.Position = t.Position.Add(d)
	t.UpdateModel()
}

func (t *Transform) Rotate(d mgl32.Vec3) {
	t.Rotation = t.Rotation.Add(d)
	t.UpdateModel()
}

// ScaleBy multiplies the scale per axis.
func (t *Transform) ScaleBy(s mgl32.Vec3) {
	t.Scale = mgl32.Vec3{t.Scale[0] * s[0], t.Scale[1] * s[1], t.Scale[2] * s[2]}
	t.UpdateModel()
}

func (t *Transform) SetPosition(p mgl32.Vec3) {
	t.Position = p
	t.UpdateModel()
}

func (t *Transform) SetRotation(r mgl32.Vec3) {
	t.Rotation = r
	t.UpdateModel()
}

func (t *Transform) SetScale(s mgl32.Vec3) {
	t.Scale = s
	t.UpdateModel()
}

// UpdateModel rebuilds Model as T * Rx * Ry * Rz * S.
func (t *Transform) UpdateModel() {
	rotation := mgl32.HomogRotate3DX(t.Rotation[0]).
		Mul4(mgl32.HomogRotate3DY(t.Rotation[1])).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation[2]))
	t.Model = mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(rotation).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Apply transforms a mesh-space point into world space.
func (t *Transform) Apply(p mgl32.Vec3) mgl32.Vec3 {
	return t.Model.Mul4x1(p.Vec4(1)).Vec3()
}

// ModelArray returns the model matrix column-major, ready for a uniform buffer.
func (t *Transform) ModelArray() [16]float32 {
	return [16]float32(t.Model)
}
