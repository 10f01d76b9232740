package voiceorb

import (
	"fmt"
	"image/color"

	css "github.com/mazznoer/csscolorparser"
)

// RGB is a linear color with channels in [0, 1], the way the shader sees it.
type RGB [3]float64

func (c RGB) Scale(f float64) RGB {
	return RGB{c[0] * f, c[1] * f, c[2] * f}
}

func (c RGB) Add(o RGB) RGB {
	return RGB{c[0] + o[0], c[1] + o[1], c[2] + o[2]}
}

func (c RGB) Clamp() RGB {
	return RGB{Clamp(c[0], 0, 1), Clamp(c[1], 0, 1), Clamp(c[2], 0, 1)}
}

func MixRGB(a, b RGB, t float64) RGB {
	return RGB{Lerp(a[0], b[0], t), Lerp(a[1], b[1], t), Lerp(a[2], b[2], t)}
}

func (c RGB) NRGBA() color.NRGBA {
	c = c.Clamp()
	return color.NRGBA{uint8(c[0]*255 + 0.5), uint8(c[1]*255 + 0.5), uint8(c[2]*255 + 0.5), 255}
}

// Palette holds every named color the color stage mixes.
type Palette struct {
	Emerald    RGB
	Sky        RGB
	DeepTeal   RGB
	LightGreen RGB
	Ocean      RGB
	Silver     RGB

	// thinking
	Purple    RGB
	Lavender  RGB
	RoyalBlue RGB
}

func DefaultPalette() Palette {
	return Palette{
		Emerald:    RGB{0.314, 0.784, 0.471}, // #50C878
		Sky:        RGB{0.529, 0.808, 0.922}, // #87CEEB
		DeepTeal:   RGB{0.000, 0.502, 0.502}, // #008080
		LightGreen: RGB{0.502, 0.780, 0.627}, // #80C7A0
		Ocean:      RGB{0.373, 0.620, 0.627}, // #5F9EA0
		Silver:     RGB{0.753, 0.753, 0.753}, // #C0C0C0

		Purple:    RGB{0.5, 0.0, 0.5},
		Lavender:  RGB{0.7, 0.5, 0.9},
		RoyalBlue: RGB{0.25, 0.41, 0.88},
	}
}

// Uniforms puts the palette into a shader uniform map.
func (p Palette) Uniforms(uniforms map[string]any) {
	put := func(name string, c RGB) {
		uniforms[name] = []float32{f32(c[0]), f32(c[1]), f32(c[2])}
	}
	put("Emerald", p.Emerald)
	put("Sky", p.Sky)
	put("DeepTeal", p.DeepTeal)
	put("LightGreen", p.LightGreen)
	put("Ocean", p.Ocean)
	put("Silver", p.Silver)
	put("Purple", p.Purple)
	put("Lavender", p.Lavender)
	put("RoyalBlue", p.RoyalBlue)
}

func ColorNormalized(clr color.Color, multiplyAlpha bool) [4]float64 {
	c := ColorToNRGBA(clr)
	r, g, b, a := f64(c.R)/255, f64(c.G)/255, f64(c.B)/255, f64(c.A)/255

	if multiplyAlpha {
		r *= a
		g *= a
		b *= a
	}

	return [4]float64{r, g, b, a}
}

func ColorToNRGBA(clr color.Color) color.NRGBA {
	if clr == nil {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(clr).(color.NRGBA)
}

// ParseRGB parses any css color into an RGB, alpha is dropped.
// Channels keep full float precision, rgb(127.5, 0, 0) is 0.5 red.
func ParseRGB(str string) (RGB, error) {
	c, err := css.Parse(str)
	if err != nil {
		return RGB{}, fmt.Errorf("bad color %q: %w", str, err)
	}
	return RGB{c.R, c.G, c.B}, nil
}
