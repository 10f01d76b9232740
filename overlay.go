package voiceorb

import (
	"image/color"

	eb "github.com/hajimehoshi/ebiten/v2"
	"gonum.org/v1/gonum/spatial/r3"
)

// MeshOverlay draws the displaced sphere as a wireframe on top of the orb,
// computed on the cpu, so it shows where the shader should be.
type MeshOverlay struct {
	Color color.NRGBA

	// vertex dots are shaded on the cpu with this palette
	Palette Palette

	vertices []Vertex
	indices  []uint32

	points [][2]float64
	inView []bool
}

func NewMeshOverlay(widthSegments, heightSegments int) *MeshOverlay {
	vertices, indices := SphereGeometry(SphereRadius, widthSegments, heightSegments)
	return &MeshOverlay{
		Color:    color.NRGBA{255, 255, 255, 90},
		Palette:  DefaultPalette(),
		vertices: vertices,
		indices:  indices,
		points:   make([][2]float64, len(vertices)),
		inView:   make([]bool, len(vertices)),
	}
}

// WorldPositions returns the displaced vertices in world space.
func (m *MeshOverlay) WorldPositions(d *Driver) []r3.Vec {
	out := make([]r3.Vec, len(m.vertices))
	for i, v := range m.vertices {
		p := Displace(v.Position, v.Normal, d.Uniforms.Time, d.Uniforms.Morph)
		out[i] = d.Mesh.Apply(p)
	}
	return out
}

// VertexColors shades every vertex the way the color stage would,
// logo aside.
func (m *MeshOverlay) VertexColors(d *Driver) []RGB {
	out := make([]RGB, len(m.vertices))
	for i, v := range m.vertices {
		out[i] = ShadeColor(ShadeInput{
			Normal:    v.Normal,
			Time:      d.Uniforms.Time,
			Visual:    d.Uniforms.Visual,
			BaseColor: d.Uniforms.BaseColor,
			Palette:   m.Palette,
		})
	}
	return out
}

func (m *MeshOverlay) project(d *Driver) {
	for i, p := range m.WorldPositions(d) {
		x, y, ok := d.Camera.Project(p)
		m.points[i] = [2]float64{x, y}
		m.inView[i] = ok
	}
}

func (m *MeshOverlay) Draw(dst *eb.Image, d *Driver) {
	m.project(d)

	aa := TheGraphicsContext.AntiAlias

	edge := func(a, b uint32) {
		if !m.inView[a] || !m.inView[b] {
			return
		}
		pa, pb := m.points[a], m.points[b]
		StrokeLine(dst, pa[0], pa[1], pb[0], pb[1], 1, m.Color, aa)
	}

	for i := 0; i+2 < len(m.indices); i += 3 {
		a, b, c := m.indices[i], m.indices[i+1], m.indices[i+2]
		edge(a, b)
		edge(b, c)
	}

	for i, c := range m.VertexColors(d) {
		if !m.inView[i] {
			continue
		}
		dot := c.NRGBA()
		dot.A = m.Color.A
		DrawFilledCircle(dst, m.points[i][0], m.points[i][1], 1.5, dot, aa)
	}

	// mesh center
	if x, y, ok := d.Camera.Project(d.Mesh.Position); ok {
		DrawFilledCircle(dst, x, y, 3, color.NRGBA{255, 80, 80, 255}, aa)
	}
}
