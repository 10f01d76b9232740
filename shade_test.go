package voiceorb

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
)

func randomVec(rng *rand.Rand, scale float64) r3.Vec {
	return r3.Vec{
		X: (rng.Float64()*2 - 1) * scale,
		Y: (rng.Float64()*2 - 1) * scale,
		Z: (rng.Float64()*2 - 1) * scale,
	}
}

func TestNoiseZeroOnLattice(t *testing.T) {
	for _, p := range []r3.Vec{{}, {X: 1, Y: 2, Z: 3}, {X: -4, Y: 7, Z: 290}} {
		assert.InDelta(t, 0, Noise3(p), 1e-12, "%v", p)
	}
}

func TestNoiseBoundedAndContinuous(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	const eps = 1e-5

	for range 5000 {
		p := randomVec(rng, 50)
		n := Noise3(p)

		require.False(t, math.IsNaN(n))
		assert.Less(t, math.Abs(n), NoiseScale, "%v", p)

		q := r3.Add(p, r3.Vec{X: eps, Y: -eps, Z: eps})
		assert.InDelta(t, n, Noise3(q), 1e-3, "%v", p)
	}
}

func TestNoisePeriodic(t *testing.T) {
	p := r3.Vec{X: 1.3, Y: 1.7, Z: -2.2}
	q := r3.Add(p, r3.Vec{X: 289, Y: 289, Z: 289})
	assert.InDelta(t, Noise3(p), Noise3(q), 1e-9)
}

func TestDisplace(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for range 500 {
		pos := randomVec(rng, SphereRadius)
		normal := r3.Unit(pos)
		time := rng.Float64() * 100

		assert.Equal(t, pos, Displace(pos, normal, time, 0))

		for _, morph := range []float64{0.5, 1, 2} {
			d := r3.Norm(r3.Sub(Displace(pos, normal, time, morph), pos))
			assert.LessOrEqual(t, d, NoiseScale*morph)
		}
	}

	// zero normal falls back to the view direction instead of NaN
	assert.True(t, VecIsFinite(Displace(r3.Vec{}, r3.Vec{}, 1, 1)))
}

func TestSphereGeometry(t *testing.T) {
	vertices, indices := SphereGeometry(SphereRadius, 8, 4)

	assert.Len(t, vertices, 9*5)
	assert.Len(t, indices, 6*8*3)

	for _, v := range vertices {
		assert.InDelta(t, SphereRadius, r3.Norm(v.Position), 1e-9)
		assert.InDelta(t, 1, r3.Norm(v.Normal), 1e-9)
		assert.GreaterOrEqual(t, v.U, 0.0)
		assert.LessOrEqual(t, v.V, 1.0)
	}
	for _, i := range indices {
		assert.Less(t, int(i), len(vertices))
	}

	assert.InDelta(t, SphereRadius, vertices[0].Position.Y, 1e-9)
	assert.InDelta(t, -SphereRadius, vertices[len(vertices)-1].Position.Y, 1e-9)
}

type constSampler [4]float64

func (c constSampler) At(u, v float64) [4]float64 {
	return c
}

func TestShadeColorInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	palette := DefaultPalette()

	logos := []LogoSampler{nil, constSampler{1, 1, 1, 1}, constSampler{0, 0, 0, 0.5}}

	for range 2000 {
		in := ShadeInput{
			Normal:    randomVec(rng, 1),
			Time:      rng.Float64() * 1000,
			Visual:    Visual(rng.Intn(int(VisualSize) + 2)),
			Logo:      logos[rng.Intn(len(logos))],
			BaseColor: RGB{rng.Float64(), rng.Float64(), rng.Float64()},
			Palette:   palette,
		}

		c := ShadeColor(in)
		for i := range c {
			require.False(t, math.IsNaN(c[i]), "%+v", in)
			require.GreaterOrEqual(t, c[i], 0.0, "%+v", in)
			require.LessOrEqual(t, c[i], 1.0, "%+v", in)
		}
	}

	// degenerate normal
	c := ShadeColor(ShadeInput{Palette: palette, Visual: VisualSpeaking})
	for i := range c {
		assert.False(t, math.IsNaN(c[i]))
	}
}

func TestShadeLogoOnlyWhenDisconnected(t *testing.T) {
	palette := DefaultPalette()
	white := constSampler{1, 1, 1, 1}

	in := ShadeInput{
		Normal:  r3.Vec{Z: 1},
		Visual:  VisualListening,
		Palette: palette,
	}
	withoutLogo := ShadeColor(in)
	in.Logo = white
	assert.Equal(t, withoutLogo, ShadeColor(in))

	in.Visual = VisualDisconnected
	in.Logo = nil
	plain := ShadeColor(in)
	in.Logo = white
	assert.NotEqual(t, plain, ShadeColor(in))
}

func TestImageSampler(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255}) // top left
	img.SetNRGBA(1, 1, color.NRGBA{0, 0, 255, 255}) // bottom right

	s := ImageSampler{Image: img}

	assert.Equal(t, [4]float64{1, 0, 0, 1}, s.At(0, 1))
	assert.Equal(t, [4]float64{0, 0, 1, 1}, s.At(1, 0))
	// clamped
	assert.Equal(t, [4]float64{1, 0, 0, 1}, s.At(-5, 5))

	empty := ImageSampler{Image: image.NewNRGBA(image.Rectangle{})}
	assert.Equal(t, [4]float64{}, empty.At(0.5, 0.5))
}

func TestVisualFlags(t *testing.T) {
	for v := Visual(-2); v < VisualSize+2; v++ {
		flags := v.Flags()

		sum := 0.0
		for _, f := range flags {
			sum += f
		}
		assert.Equal(t, 1.0, sum, v.String())

		if 0 <= v && v < VisualSize {
			assert.Equal(t, 1.0, flags[v])
		} else {
			assert.Equal(t, 1.0, flags[VisualListening])
		}
	}
}
