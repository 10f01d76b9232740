package voiceorb

import (
	"image/color"

	eb "github.com/hajimehoshi/ebiten/v2"
	ebv "github.com/hajimehoshi/ebiten/v2/vector"
)

func DrawFilledRect(
	dst *eb.Image,
	rect FRectangle,
	clr color.Color,
	antialias bool,
) {
	ebv.DrawFilledRect(
		dst,
		f32(rect.MinX), f32(rect.MinY), f32(rect.Dx()), f32(rect.Dy()),
		clr,
		antialias,
	)
}

func DrawFilledCircle(
	dst *eb.Image,
	x, y, r float64,
	clr color.Color,
	antialias bool,
) {
	ebv.DrawFilledCircle(
		dst, f32(x), f32(y), f32(r), clr, antialias)
}

func StrokeLine(
	dst *eb.Image,
	x0, y0, x1, y1 float64,
	strokeWidth float64,
	clr color.Color,
	antialias bool,
) {
	ebv.StrokeLine(
		dst, f32(x0), f32(y0), f32(x1), f32(y1), f32(strokeWidth), clr, antialias)
}
