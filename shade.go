package voiceorb

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// SphereRadius is the radius of the orb in world units.
const SphereRadius = 35

var (
	LightDir = r3.Unit(r3.Vec{X: 1, Y: 1, Z: 2})
	ViewDir  = r3.Vec{Z: 1}
)

type Vertex struct {
	Position r3.Vec
	Normal   r3.Vec
	U, V     float64
}

// SphereGeometry builds a uv sphere the same way most scene graph libraries do.
// Vertices are laid out row by row from the north pole, widthSegments+1 per row.
func SphereGeometry(radius float64, widthSegments, heightSegments int) ([]Vertex, []uint32) {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	vertices := make([]Vertex, 0, (widthSegments+1)*(heightSegments+1))
	indices := make([]uint32, 0, widthSegments*heightSegments*6)

	for iy := 0; iy <= heightSegments; iy++ {
		v := f64(iy) / f64(heightSegments)

		for ix := 0; ix <= widthSegments; ix++ {
			u := f64(ix) / f64(widthSegments)

			pos := r3.Vec{
				X: -radius * math.Cos(u*math.Pi*2) * math.Sin(v*math.Pi),
				Y: radius * math.Cos(v*math.Pi),
				Z: radius * math.Sin(u*math.Pi*2) * math.Sin(v*math.Pi),
			}

			vertices = append(vertices, Vertex{
				Position: pos,
				Normal:   r3.Unit(pos),
				U:        u,
				V:        1 - v,
			})
		}
	}

	row := uint32(widthSegments + 1)

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(iy)*row + uint32(ix) + 1
			b := uint32(iy)*row + uint32(ix)
			c := uint32(iy+1)*row + uint32(ix)
			d := uint32(iy+1)*row + uint32(ix) + 1

			// pole rows collapse into a single triangle
			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}

	return vertices, indices
}

func safeUnit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return ViewDir
	}
	return r3.Scale(1/n, v)
}

// Displace pushes position along its normal by the noise at normal+time.
func Displace(position, normal r3.Vec, time, morph float64) r3.Vec {
	n := safeUnit(normal)
	f := morph * Noise3(r3.Vec{X: n.X + time, Y: n.Y + time, Z: n.Z + time})
	return r3.Add(position, r3.Scale(f, n))
}

// LogoSampler returns the straight (not premultiplied) color at u, v in [0, 1].
type LogoSampler interface {
	At(u, v float64) [4]float64
}

// ImageSampler samples an image.Image with nearest filtering,
// clamping coordinates to the edge.
type ImageSampler struct {
	Image image.Image
}

func (s ImageSampler) At(u, v float64) [4]float64 {
	b := s.Image.Bounds()
	if b.Empty() {
		return [4]float64{}
	}
	u = Clamp(u, 0, 1)
	v = Clamp(v, 0, 1)

	x := b.Min.X + min(int(u*f64(b.Dx())), b.Dx()-1)
	// v goes up, images go down
	y := b.Min.Y + min(int((1-v)*f64(b.Dy())), b.Dy()-1)

	return ColorNormalized(s.Image.At(x, y), false)
}

type ShadeInput struct {
	// Normal of the undisplaced sphere, in object space.
	Normal r3.Vec
	Time   float64
	Visual Visual

	// Logo is only used while disconnected, nil means no logo.
	Logo LogoSampler

	BaseColor RGB
	Palette   Palette
}

func heightGradient(n r3.Vec, low, mid, high, top RGB) RGB {
	h := n.Y*0.5 + 0.5

	if h > 0.6 {
		return MixRGB(high, top, (h-0.6)*2.5)
	} else if h > 0.4 {
		return MixRGB(mid, high, (h-0.4)*5.0)
	}
	return MixRGB(low, mid, h*2.5)
}

func logoColor(in ShadeInput, n r3.Vec) RGB {
	p := in.Palette

	phi := math.Atan2(n.Z, n.X)
	theta := math.Acos(Clamp(n.Y, -1, 1))

	u := 0.5 + phi/(2*math.Pi)
	v := 1.0 - theta/math.Pi

	s, c := math.Sincos(in.Time * 0.5)
	ru := 0.5 + (u-0.5)*c - (v-0.5)*s
	rv := 0.5 + (u-0.5)*s + (v-0.5)*c

	logo := in.Logo.At(ru, rv)
	visibility := Smoothstep(-0.2, 0.3, n.Z)

	base := heightGradient(n, p.Ocean, p.Emerald, p.Silver, p.DeepTeal)
	base = base.Scale(math.Sin(in.Time*3)*0.1 + 0.9)

	color := MixRGB(base, RGB{logo[0], logo[1], logo[2]}, logo[3]*visibility)

	rim := math.Pow(1-max(r3.Dot(n, ViewDir), 0), 2) * 0.7
	return color.Add(RGB{rim, rim, rim})
}

type wavePalette struct {
	a0, a1 RGB // mixed by wave 1
	b0, b1 RGB // mixed by wave 2
	c0, c1 RGB // mixed by wave 3
	glow   RGB
	shine  RGB
}

// wavesFor returns the colors a revolving visual mixes.
func wavesFor(v Visual, p Palette) (wavePalette, bool) {
	switch v {
	case VisualSpeaking:
		return wavePalette{
			a0: p.Emerald, a1: p.Sky,
			b0: p.DeepTeal, b1: p.LightGreen,
			c0: p.Ocean, c1: p.Emerald,
			glow: p.Sky, shine: p.LightGreen,
		}, true
	case VisualThinking:
		return wavePalette{
			a0: p.Purple, a1: p.Lavender,
			b0: p.RoyalBlue, b1: p.DeepTeal,
			c0: p.Ocean, c1: p.Purple,
			glow: p.Lavender, shine: p.RoyalBlue,
		}, true
	}
	return wavePalette{}, false
}

// in heightGradient argument order
func restGradient(p Palette) [4]RGB {
	return [4]RGB{p.Ocean, p.Emerald, p.LightGreen, p.DeepTeal}
}

func revolvingColor(in ShadeInput, n r3.Vec, w wavePalette) RGB {
	rt := in.Time * 6.0

	angle := math.Atan2(n.Y, n.X) + rt
	radius := math.Hypot(n.X, n.Y)

	wave1 := math.Sin(angle*8+rt*2)*0.5 + 0.5
	wave2 := math.Cos(angle*6-rt*1.5)*0.5 + 0.5
	wave3 := math.Sin(angle*4+rt)*0.5 + 0.5

	vertical := math.Sin(n.Y*10+rt)*0.5 + 0.5
	depth := (n.Z + 1) * 0.5

	pattern := Lerp(Lerp(wave1, wave2, vertical), wave3, depth)

	c1 := MixRGB(w.a0, w.a1, wave1)
	c2 := MixRGB(w.b0, w.b1, wave2)
	c3 := MixRGB(w.c0, w.c1, wave3)

	color := MixRGB(MixRGB(c1, c2, pattern), c3, depth)

	glow := math.Pow(max(1-radius, 0), 2) * 0.5
	color = color.Add(w.glow.Scale(glow * 0.3))

	shimmer := math.Sin((n.X+n.Y+n.Z)*rt*3)*0.5 + 0.5
	color = color.Add(w.shine.Scale(shimmer * 0.1))

	return color
}

// ShadeColor is the color stage for a single point of the orb.
// The result is always in [0, 1].
func ShadeColor(in ShadeInput) RGB {
	n := safeUnit(in.Normal)
	p := in.Palette

	var color RGB

	switch {
	case in.Visual == VisualDisconnected && in.Logo != nil:
		color = logoColor(in, n)

	case in.Visual == VisualSpeaking:
		waves, _ := wavesFor(in.Visual, p)
		color = MixRGB(in.BaseColor, revolvingColor(in, n, waves), 0.9)

	case in.Visual == VisualThinking:
		waves, _ := wavesFor(in.Visual, p)
		color = revolvingColor(in, n, waves)

	default:
		g := restGradient(p)
		color = heightGradient(n, g[0], g[1], g[2], g[3])
	}

	fresnel := math.Pow(1-max(r3.Dot(ViewDir, n), 0), 3) * 0.3
	color = color.Add(RGB{fresnel, fresnel, fresnel})

	diffuse := max(r3.Dot(n, LightDir), 0)
	color = color.Scale(diffuse*0.7 + 0.3)

	color = color.Clamp()
	for i := range color {
		if math.IsNaN(color[i]) {
			color[i] = 0
		}
	}

	return color
}
