package voiceorb

import (
	"image"
	"math"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/spatial/r3"
)

func f64[N constraints.Integer | constraints.Float](n N) float64 {
	return float64(n)
}

func f32[N constraints.Integer | constraints.Float](n N) float32 {
	return float32(n)
}

// =================================
// FRectangle
// =================================

type FRectangle struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func FRect(x0, y0, x1, y1 float64) FRectangle {
	return FRectangle{MinX: x0, MinY: y0, MaxX: x1, MaxY: y1}
}

func (r FRectangle) Dx() float64 {
	return r.MaxX - r.MinX
}

func (r FRectangle) Dy() float64 {
	return r.MaxY - r.MinY
}

func (r FRectangle) Empty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Inset shrinks r by n on every side, collapsing to the center
// when r is too small.
func (r FRectangle) Inset(n float64) FRectangle {
	if r.Dx() < 2*n {
		r.MinX = (r.MinX + r.MaxX) * 0.5
		r.MaxX = r.MinX
	} else {
		r.MinX += n
		r.MaxX -= n
	}
	if r.Dy() < 2*n {
		r.MinY = (r.MinY + r.MaxY) * 0.5
		r.MaxY = r.MinY
	} else {
		r.MinY += n
		r.MaxY -= n
	}
	return r
}

func RectWH(w, h int) image.Rectangle {
	return image.Rectangle{
		Min: image.Point{},
		Max: image.Point{w, h},
	}
}

// =================================
// scalar helpers
// =================================

func Lerp[F constraints.Float](a, b, t F) F {
	return a + (b-a)*t
}

func Clamp[N constraints.Integer | constraints.Float](n, minN, maxN N) N {
	n = min(n, maxN)
	n = max(n, minN)

	return n
}

func Smoothstep(edge0, edge1, x float64) float64 {
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

func Fract(x float64) float64 {
	return x - math.Floor(x)
}

// =================================
// 3d helpers
// =================================

var (
	AxisX = r3.Vec{X: 1}
	AxisY = r3.Vec{Y: 1}
	AxisZ = r3.Vec{Z: 1}
)

// EulerRotate rotates v by euler angles applied in XYZ order,
// which means the matrix Rx*Ry*Rz.
func EulerRotate(euler r3.Vec, v r3.Vec) r3.Vec {
	v = r3.NewRotation(euler.Z, AxisZ).Rotate(v)
	v = r3.NewRotation(euler.Y, AxisY).Rotate(v)
	v = r3.NewRotation(euler.X, AxisX).Rotate(v)
	return v
}

// EulerBasis returns the columns of the XYZ euler rotation matrix.
func EulerBasis(euler r3.Vec) (x, y, z r3.Vec) {
	return EulerRotate(euler, AxisX), EulerRotate(euler, AxisY), EulerRotate(euler, AxisZ)
}

func Vec3Mix(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

func VecIsFinite(v r3.Vec) bool {
	for _, f := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

