package voiceorb

import (
	"voiceorb/session"
)

// Visual picks the color branch and motion profile.
// It is handed to the shader as a single uniform instead of one flag per state.
type Visual int32

const (
	VisualDisconnected Visual = iota
	VisualListening
	VisualThinking
	VisualSpeaking
	VisualSize
)

var visualStrs = [VisualSize]string{
	"disconnected",
	"listening",
	"thinking",
	"speaking",
}

func (v Visual) String() string {
	if 0 <= v && v < VisualSize {
		return visualStrs[v]
	}
	return "unknown"
}

// VisualForState maps a session state to what the orb shows.
// Everything that isn't disconnected, thinking or speaking looks like listening.
func VisualForState(state session.State) Visual {
	switch state {
	case session.StateDisconnected:
		return VisualDisconnected
	case session.StateThinking:
		return VisualThinking
	case session.StateSpeaking:
		return VisualSpeaking
	default:
		return VisualListening
	}
}

// Flags returns one flag per visual, indexed by Visual.
// Exactly one of them is 1.
func (v Visual) Flags() [VisualSize]float64 {
	var flags [VisualSize]float64
	if 0 <= v && v < VisualSize {
		flags[v] = 1
	} else {
		flags[VisualListening] = 1
	}
	return flags
}

// UniformSet is everything the driver hands the shader per frame
// that isn't a transform.
type UniformSet struct {
	Time     float64
	WaveTime float64
	Chroma   [3]float64

	Morph     float64
	PointSize float64
	BaseColor RGB

	Visual  Visual
	Opacity float64
	HasLogo bool
}

func DefaultUniformSet() UniformSet {
	return UniformSet{
		Morph:     1.0,
		PointSize: 1.0,
		BaseColor: RGB{0.5, 0.8, 0.6},
		Visual:    VisualDisconnected,
		Opacity:   1.0,
	}
}

// ShaderUniforms writes the set into the map DrawRectShader takes.
func (u UniformSet) ShaderUniforms(uniforms map[string]any) {
	uniforms["Time"] = f32(u.Time)
	uniforms["WaveTime"] = f32(u.WaveTime)
	uniforms["Chroma"] = []float32{f32(u.Chroma[0]), f32(u.Chroma[1]), f32(u.Chroma[2])}
	uniforms["Morph"] = f32(u.Morph)
	uniforms["PointSize"] = f32(u.PointSize)
	uniforms["BaseColor"] = []float32{f32(u.BaseColor[0]), f32(u.BaseColor[1]), f32(u.BaseColor[2])}
	uniforms["Visual"] = f32(u.Visual)
	uniforms["Opacity"] = f32(u.Opacity)

	hasLogo := float32(0)
	if u.HasLogo {
		hasLogo = 1
	}
	uniforms["HasLogo"] = hasLogo
}
