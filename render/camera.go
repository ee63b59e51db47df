package render

import "github.com/go-gl/mathgl/mgl32"

// Camera describes the view and projection used to fill GlobalUniforms.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
	// FOV is the vertical field of view in degrees.
	FOV  float32
	Near float32
	Far  float32
}

func DefaultCamera() Camera {
	return Camera{
		Eye:    mgl32.Vec3{0, 2, 6},
		Target: mgl32.Vec3{0, 0, 0},
		Up:     mgl32.Vec3{0, 1, 0},
		FOV:    45,
		Near:   0.1,
		Far:    100,
	}
}

func (c Camera) View() mgl32.Mat4 {
	up := c.Up
	if up.Len() == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}
	return mgl32.LookAtV(c.Eye, c.Target, up)
}

// Projection returns a perspective projection for a viewport of the given size.
func (c Camera) Projection(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Uniforms builds the global uniforms for a viewport at time t seconds.
func (c Camera) Uniforms(width, height int, t float32) GlobalUniforms {
	return GlobalUniforms{
		Time:       [4]float32{t, 0, 0, 0},
		Projection: c.Projection(width, height),
		View:       c.View(),
	}
}
