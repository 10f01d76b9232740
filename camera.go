package voiceorb

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type Camera struct {
	Position r3.Vec
	Target   r3.Vec
	Up       r3.Vec

	// vertical field of view in degrees
	Fov    float64
	Aspect float64
	Near   float64
	Far    float64

	ViewportWidth  int
	ViewportHeight int
}

func NewCamera() Camera {
	return Camera{
		Position: r3.Vec{X: 0, Y: 30, Z: 200},
		Up:       AxisY,
		Fov:      35,
		Aspect:   1,
		Near:     0.1,
		Far:      1000,

		ViewportWidth:  1,
		ViewportHeight: 1,
	}
}

func (c *Camera) LookAt(target r3.Vec) {
	c.Target = target
}

// Resize updates the projection for a new viewport.
// A zero or negative size is ignored and false is returned.
func (c *Camera) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.Aspect = f64(width) / f64(height)
	c.ViewportWidth = width
	c.ViewportHeight = height
	return true
}

func (c *Camera) TanHalfFov() float64 {
	return math.Tan(c.Fov * 0.5 * math.Pi / 180)
}

// Basis returns the right, up and forward vectors of the camera.
func (c *Camera) Basis() (right, up, forward r3.Vec) {
	forward = r3.Sub(c.Target, c.Position)
	if r3.Norm2(forward) == 0 {
		forward = r3.Vec{Z: -1}
	}
	forward = r3.Unit(forward)

	right = r3.Cross(forward, c.Up)
	if r3.Norm2(right) == 0 {
		right = AxisX
	}
	right = r3.Unit(right)

	up = r3.Cross(right, forward)
	return
}

// Project returns the viewport position of a world point.
// ok is false when the point is behind the near plane.
func (c *Camera) Project(p r3.Vec) (x, y float64, ok bool) {
	right, up, forward := c.Basis()

	v := r3.Sub(p, c.Position)
	z := r3.Dot(v, forward)
	if z < c.Near {
		return 0, 0, false
	}

	t := c.TanHalfFov()
	ndcX := r3.Dot(v, right) / (z * t * c.Aspect)
	ndcY := r3.Dot(v, up) / (z * t)

	x = (ndcX + 1) * 0.5 * f64(c.ViewportWidth)
	y = (1 - ndcY) * 0.5 * f64(c.ViewportHeight)
	return x, y, true
}

func (c *Camera) Uniforms(uniforms map[string]any) {
	right, up, forward := c.Basis()
	uniforms["CamPos"] = vecUniform(c.Position)
	uniforms["CamRight"] = vecUniform(right)
	uniforms["CamUp"] = vecUniform(up)
	uniforms["CamForward"] = vecUniform(forward)
	uniforms["TanHalfFov"] = f32(c.TanHalfFov())
	uniforms["Resolution"] = []float32{f32(c.ViewportWidth), f32(c.ViewportHeight)}
}

func vecUniform(v r3.Vec) []float32 {
	return []float32{f32(v.X), f32(v.Y), f32(v.Z)}
}

// Transform places the orb in the world.
type Transform struct {
	Position r3.Vec
	// euler angles, XYZ order
	Rotation r3.Vec
	Scale    float64
}

func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// Apply maps an object space point to world space.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Add(EulerRotate(t.Rotation, r3.Scale(t.Scale, p)), t.Position)
}

func (t Transform) Uniforms(uniforms map[string]any) {
	x, y, z := EulerBasis(t.Rotation)
	uniforms["MeshPos"] = vecUniform(t.Position)
	uniforms["MeshScale"] = f32(t.Scale)
	uniforms["MeshAxisX"] = vecUniform(x)
	uniforms["MeshAxisY"] = vecUniform(y)
	uniforms["MeshAxisZ"] = vecUniform(z)
}
