package voiceorb

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NoiseScale is applied to the raw gradient noise before it is used
// to push vertices out.
const NoiseScale = 1.2

// Host side copy of the gradient noise in assets/orb_shader.go.
// Both must stay in sync, tests and the debug mesh use this one.

type vec4 [4]float64

func mod289(x float64) float64 {
	return x - math.Floor(x*(1.0/289.0))*289.0
}

func permute(x float64) float64 {
	return mod289((x*34.0 + 1.0) * x)
}

func taylorInvSqrt(r float64) float64 {
	return 1.79284291400159 - 0.85373472095314*r
}

// quintic, zero first and second derivative at 0 and 1
func fade(t float64) float64 {
	return t * t * t * (t*(t*6.0-15.0) + 10.0)
}

func step(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}

// gradients derives 4 lattice gradients from 4 permutation hashes.
func gradients(ixy vec4) (gx, gy, gz vec4) {
	for i := range 4 {
		x := ixy[i] * (1.0 / 7.0)
		y := Fract(math.Floor(x)*(1.0/7.0)) - 0.5
		x = Fract(x)
		z := 0.5 - math.Abs(x) - math.Abs(y)

		sz := step(z, 0)
		x -= sz * (step(0, x) - 0.5)
		y -= sz * (step(0, y) - 0.5)

		gx[i], gy[i], gz[i] = x, y, z
	}
	return
}

func dot3(x, y, z float64, p r3.Vec) float64 {
	return x*p.X + y*p.Y + z*p.Z
}

// Noise3 is classic 3D gradient noise, scaled by NoiseScale.
// The result is continuous in p and roughly in [-0.6, 0.6].
func Noise3(p r3.Vec) float64 {
	pi0 := r3.Vec{X: math.Floor(p.X), Y: math.Floor(p.Y), Z: math.Floor(p.Z)}
	pi1 := r3.Vec{X: pi0.X + 1, Y: pi0.Y + 1, Z: pi0.Z + 1}
	pi0 = r3.Vec{X: mod289(pi0.X), Y: mod289(pi0.Y), Z: mod289(pi0.Z)}
	pi1 = r3.Vec{X: mod289(pi1.X), Y: mod289(pi1.Y), Z: mod289(pi1.Z)}

	pf0 := r3.Vec{X: Fract(p.X), Y: Fract(p.Y), Z: Fract(p.Z)}
	pf1 := r3.Vec{X: pf0.X - 1, Y: pf0.Y - 1, Z: pf0.Z - 1}

	ix := vec4{pi0.X, pi1.X, pi0.X, pi1.X}
	iy := vec4{pi0.Y, pi0.Y, pi1.Y, pi1.Y}

	var ixy, ixy0, ixy1 vec4
	for i := range 4 {
		ixy[i] = permute(permute(ix[i]) + iy[i])
		ixy0[i] = permute(ixy[i] + pi0.Z)
		ixy1[i] = permute(ixy[i] + pi1.Z)
	}

	gx0, gy0, gz0 := gradients(ixy0)
	gx1, gy1, gz1 := gradients(ixy1)

	// corner order in the hash vectors is 000, 100, 010, 110
	for i := range 4 {
		n0 := taylorInvSqrt(gx0[i]*gx0[i] + gy0[i]*gy0[i] + gz0[i]*gz0[i])
		gx0[i], gy0[i], gz0[i] = gx0[i]*n0, gy0[i]*n0, gz0[i]*n0

		n1 := taylorInvSqrt(gx1[i]*gx1[i] + gy1[i]*gy1[i] + gz1[i]*gz1[i])
		gx1[i], gy1[i], gz1[i] = gx1[i]*n1, gy1[i]*n1, gz1[i]*n1
	}

	n000 := dot3(gx0[0], gy0[0], gz0[0], pf0)
	n100 := dot3(gx0[1], gy0[1], gz0[1], r3.Vec{X: pf1.X, Y: pf0.Y, Z: pf0.Z})
	n010 := dot3(gx0[2], gy0[2], gz0[2], r3.Vec{X: pf0.X, Y: pf1.Y, Z: pf0.Z})
	n110 := dot3(gx0[3], gy0[3], gz0[3], r3.Vec{X: pf1.X, Y: pf1.Y, Z: pf0.Z})
	n001 := dot3(gx1[0], gy1[0], gz1[0], r3.Vec{X: pf0.X, Y: pf0.Y, Z: pf1.Z})
	n101 := dot3(gx1[1], gy1[1], gz1[1], r3.Vec{X: pf1.X, Y: pf0.Y, Z: pf1.Z})
	n011 := dot3(gx1[2], gy1[2], gz1[2], r3.Vec{X: pf0.X, Y: pf1.Y, Z: pf1.Z})
	n111 := dot3(gx1[3], gy1[3], gz1[3], pf1)

	fx, fy, fz := fade(pf0.X), fade(pf0.Y), fade(pf0.Z)

	nz0 := Lerp(n000, n001, fz)
	nz1 := Lerp(n100, n101, fz)
	nz2 := Lerp(n010, n011, fz)
	nz3 := Lerp(n110, n111, fz)

	ny0 := Lerp(nz0, nz2, fy)
	ny1 := Lerp(nz1, nz3, fy)

	return NoiseScale * Lerp(ny0, ny1, fx)
}
