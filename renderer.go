package voiceorb

import (
	"image"
	"os"

	eb "github.com/hajimehoshi/ebiten/v2"
)

// Renderer draws the orb with the orb shader.
type Renderer struct {
	Profile Profile
	Palette Palette

	shader *eb.Shader

	// logo as loaded, and a copy stretched to the draw size
	// since shader source images must match the rect
	logo       *eb.Image
	logoCanvas *eb.Image

	uniforms map[string]any

	width, height int
}

func NewRenderer(profile Profile, palette Palette) (*Renderer, error) {
	shader, err := CompileOrbShader(orbShaderSource, profile)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		Profile:  profile,
		Palette:  palette,
		shader:   shader,
		uniforms: make(map[string]any),
	}, nil
}

// ReloadShader recompiles the shader from path.
// The old shader is kept if compiling fails.
func (r *Renderer) ReloadShader(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	shader, err := CompileOrbShader(src, r.Profile)
	if err != nil {
		return err
	}

	if r.shader != nil {
		r.shader.Deallocate()
	}
	r.shader = shader
	return nil
}

// SetLogo hands the logo to the renderer.
// Returns false if the profile doesn't use one.
func (r *Renderer) SetLogo(img image.Image) bool {
	if r.Profile == ProfilePlain || img == nil {
		return false
	}

	if r.logo != nil {
		r.logo.Deallocate()
	}
	r.logo = eb.NewImageFromImage(img)
	r.redrawLogoCanvas()

	return true
}

func (r *Renderer) HasLogo() bool {
	return r.logo != nil
}

func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.redrawLogoCanvas()
}

func (r *Renderer) redrawLogoCanvas() {
	if r.logo == nil || r.width <= 0 || r.height <= 0 {
		return
	}

	if r.logoCanvas == nil || r.logoCanvas.Bounds().Dx() != r.width || r.logoCanvas.Bounds().Dy() != r.height {
		if r.logoCanvas != nil {
			r.logoCanvas.Deallocate()
		}
		r.logoCanvas = eb.NewImage(r.width, r.height)
	}

	r.logoCanvas.Clear()

	lw, lh := r.logo.Bounds().Dx(), r.logo.Bounds().Dy()

	op := &DrawImageOptions{}
	op.GeoM.Scale(f64(r.width)/f64(lw), f64(r.height)/f64(lh))
	DrawImage(r.logoCanvas, r.logo, op)
}

// Uniforms fills and returns the uniform map for the driver's current frame.
func (r *Renderer) Uniforms(d *Driver) map[string]any {
	u := d.Uniforms
	u.HasLogo = u.HasLogo && r.logoCanvas != nil

	u.ShaderUniforms(r.uniforms)
	d.Camera.Uniforms(r.uniforms)
	d.Mesh.Uniforms(r.uniforms)
	r.Palette.Uniforms(r.uniforms)
	r.uniforms["Radius"] = f32(SphereRadius)

	return r.uniforms
}

func (r *Renderer) Draw(dst *eb.Image, d *Driver) {
	if r.shader == nil || r.width <= 0 || r.height <= 0 {
		return
	}

	op := &DrawRectShaderOptions{}
	op.Uniforms = r.Uniforms(d)
	if r.Profile == ProfileLogo && r.logoCanvas != nil {
		op.Images[0] = r.logoCanvas
	}

	// the shader covers the whole rect, keep transparent pixels transparent
	BeginBlend(eb.BlendCopy)
	DrawRectShader(dst, r.width, r.height, r.shader, op)
	EndBlend()
}

// Close releases every image and the shader.
// Stop driving frames before calling it.
func (r *Renderer) Close() {
	if r.logo != nil {
		r.logo.Deallocate()
		r.logo = nil
	}
	if r.logoCanvas != nil {
		r.logoCanvas.Deallocate()
		r.logoCanvas = nil
	}
	if r.shader != nil {
		r.shader.Deallocate()
		r.shader = nil
	}
}
