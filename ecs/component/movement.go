package component

import "github.com/go-gl/mathgl/mgl32"

type Movement struct {
	Velocity     mgl32.Vec3
	Acceleration mgl32.Vec3
}

func NewMovement(velocity, acceleration mgl32.Vec3) *Movement {
	return &Movement{Velocity: velocity, Acceleration: acceleration}
}

func (*Movement) Kind() Kind { return KindMovement }
func (*Movement) sealed()    {}
