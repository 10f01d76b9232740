package voiceorb

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"

	"voiceorb/session"
)

const (
	BlinkInterval = time.Millisecond * 500

	blinkOpacityOn  = 1.0
	blinkOpacityOff = 0.4
	blinkScaleOn    = 1.0
	blinkScaleOff   = 0.95

	// how quickly the angular velocity follows its target, per 60hz frame
	angularEase = 0.05
)

// retarget parameters per visual
type retargetRange struct {
	Magnitude r3.Vec
	Min, Max  time.Duration
}

func retargetRangeFor(v Visual) retargetRange {
	if v == VisualSpeaking {
		return retargetRange{
			Magnitude: r3.Vec{X: 0.015, Y: 0.015, Z: 0.01},
			Min:       time.Millisecond * 500,
			Max:       time.Millisecond * 1500,
		}
	}
	return retargetRange{
		Magnitude: r3.Vec{X: 0.003, Y: 0.003, Z: 0.002},
		Min:       time.Millisecond * 2000,
		Max:       time.Millisecond * 5000,
	}
}

type RetargetEvent struct {
	Visual   Visual
	Target   r3.Vec
	Interval time.Duration
}

// Driver advances the orb's uniforms and transform.
// Everything runs on the scheduler it owns, Update is the only clock.
type Driver struct {
	Uniforms UniformSet
	Mesh     Transform
	Camera   Camera

	// OnRetarget is called every time a new rotation target is picked.
	OnRetarget func(RetargetEvent)

	config *Config

	state  session.State
	visual Visual
	preset Preset

	scheduler *Scheduler
	frameID   TimerID
	retarget  TimerID
	blink     TimerID

	src rand.Source

	// base rotation driven by the state, drift is added on top
	rotation r3.Vec
	drift    r3.Vec

	angular r3.Vec
	target  r3.Vec

	blinkOn    bool
	blinkScale float64

	logoReady bool
}

func NewDriver(config *Config, seed uint64) *Driver {
	d := &Driver{
		Uniforms:   DefaultUniformSet(),
		Mesh:       IdentityTransform(),
		Camera:     NewCamera(),
		config:     config,
		scheduler:  NewScheduler(),
		src:        rand.NewSource(seed),
		blinkScale: blinkScaleOn,
		state:      session.StateDisconnected,
		visual:     VisualDisconnected,
	}

	d.Uniforms.Morph = config.Morph
	if base, err := ParseRGB(config.BaseColor); err == nil {
		d.Uniforms.BaseColor = base
	}

	d.preset = config.PresetFor(d.state)
	d.Uniforms.Visual = d.visual
	d.frameID = d.scheduler.OnFrame(d.frame)

	d.enterVisual()

	return d
}

func (d *Driver) Scheduler() *Scheduler {
	return d.scheduler
}

func (d *Driver) State() session.State {
	return d.state
}

func (d *Driver) Visual() Visual {
	return d.visual
}

func (d *Driver) Target() r3.Vec {
	return d.target
}

// Timers reports which of the visual's timers are scheduled.
func (d *Driver) Timers() (retarget, blink bool) {
	return d.scheduler.IsPending(d.retarget), d.scheduler.IsPending(d.blink)
}

// SetLogoReady tells the driver a logo texture is bound.
func (d *Driver) SetLogoReady(ready bool) {
	d.logoReady = ready
	d.Uniforms.HasLogo = ready
}

// SetState switches the state.
// The visual flips right away, timers of the old visual are cancelled.
func (d *Driver) SetState(state session.State) {
	if d.scheduler.Closed() {
		return
	}

	d.state = state
	d.preset = d.config.PresetFor(state)

	visual := VisualForState(state)
	if visual == d.visual {
		return
	}

	d.scheduler.Cancel(d.retarget)
	d.scheduler.Cancel(d.blink)
	d.retarget = 0
	d.blink = 0

	d.visual = visual
	d.Uniforms.Visual = visual

	d.enterVisual()
}

// enterVisual starts the new visual from a centred, unrotated orb.
func (d *Driver) enterVisual() {
	d.Mesh.Position = r3.Vec{}
	d.Mesh.Rotation = r3.Vec{}
	d.rotation = r3.Vec{}
	d.drift = r3.Vec{}
	d.angular = r3.Vec{}

	if d.visual == VisualThinking {
		d.blinkOn = false
		d.toggleBlink()
		d.blink = d.scheduler.Every(BlinkInterval, d.toggleBlink)
	} else {
		d.blinkOn = false
		d.blinkScale = blinkScaleOn
		d.Uniforms.Opacity = blinkOpacityOn
		d.Mesh.Scale = 1
	}

	d.pickTarget()
}

func (d *Driver) toggleBlink() {
	d.blinkOn = !d.blinkOn
	if d.blinkOn {
		d.Uniforms.Opacity = blinkOpacityOn
		d.blinkScale = blinkScaleOn
	} else {
		d.Uniforms.Opacity = blinkOpacityOff
		d.blinkScale = blinkScaleOff
	}
}

// uniform samples [lo, hi)
func (d *Driver) uniform(lo, hi float64) float64 {
	return distuv.Uniform{Min: lo, Max: hi, Src: d.src}.Rand()
}

func (d *Driver) pickTarget() {
	r := retargetRangeFor(d.visual)

	d.target = r3.Vec{
		X: d.uniform(-0.5, 0.5) * r.Magnitude.X,
		Y: d.uniform(-0.5, 0.5) * r.Magnitude.Y,
		Z: d.uniform(-0.5, 0.5) * r.Magnitude.Z,
	}

	interval := time.Duration(d.uniform(f64(r.Min), f64(r.Max)))
	// float rounding must not push us onto the open end
	interval = Clamp(interval, r.Min, r.Max-1)

	d.retarget = d.scheduler.After(interval, d.pickTarget)

	if d.OnRetarget != nil {
		d.OnRetarget(RetargetEvent{
			Visual:   d.visual,
			Target:   d.target,
			Interval: interval,
		})
	}
}

// Update advances the driver by dt.
func (d *Driver) Update(dt time.Duration) {
	d.scheduler.Advance(dt)
}

func (d *Driver) frame(dt time.Duration) {
	// everything below was tuned per 60hz frame
	k := dt.Seconds() * 60
	if math.IsNaN(k) || k < 0 {
		k = 0
	}

	s := d.scheduler.Now().Seconds()

	u := &d.Uniforms

	rate := d.preset.PerlinTime / PerlinDamping
	if d.visual == VisualSpeaking {
		rate *= 3
	}
	u.Time += rate * k
	u.WaveTime += 0.005 * k
	for i := range 3 {
		u.Chroma[i] = d.preset.Chroma[i] / ChromaDivisor
	}
	u.Visual = d.visual
	u.HasLogo = d.logoReady

	d.angular = Vec3Mix(d.angular, d.target, Clamp(angularEase*k, 0, 1))

	switch d.visual {
	case VisualDisconnected:
		d.rotation.Y += 0.003 * k
		t := s * 0.3
		d.rotation.X = math.Sin(t) * 0.03
		d.rotation.Z = math.Cos(t*0.7) * 0.02
		d.Mesh.Position.Y = math.Sin(t*0.5) * 0.3
		d.Mesh.Scale = 1

	case VisualThinking:
		d.rotation.Y += 0.008 * k
		t := s * 0.6
		d.rotation.X = math.Sin(t) * 0.08
		d.rotation.Z = math.Cos(t*0.9) * 0.08
		d.Mesh.Scale = d.blinkScale * (1.0 + math.Sin(t*5)*0.03)

	case VisualSpeaking:
		d.rotation = r3.Vec{}
		d.Mesh.Position = r3.Vec{}
		d.Mesh.Scale = 1

	default:
		d.rotation.Y += 0.005 * k
		t := s * 0.5
		d.rotation.X = math.Sin(t) * 0.05
		d.rotation.Z = math.Cos(t*0.8) * 0.05
		d.Mesh.Position = r3.Vec{
			X: math.Sin(t*0.5) * 0.5,
			Y: math.Cos(t*0.4) * 0.5,
			Z: math.Sin(t*0.3) * 0.5,
		}
		d.Mesh.Scale = 1
	}

	if d.visual == VisualSpeaking {
		d.Mesh.Rotation = r3.Vec{}
	} else {
		d.drift = r3.Add(d.drift, r3.Scale(k, d.angular))
		d.Mesh.Rotation = r3.Add(d.rotation, d.drift)
	}

	ct := s * 0.1
	d.Camera.Position = r3.Vec{
		X: math.Sin(ct) * 20,
		Y: 35 + math.Cos(ct*0.8)*10,
		Z: 200 + math.Sin(ct*0.5)*15,
	}
	d.Camera.LookAt(d.Mesh.Position)
}

// Resize updates the camera for a new viewport and recentres the orb.
// Zero sized viewports are skipped.
func (d *Driver) Resize(width, height int) bool {
	if !d.Camera.Resize(width, height) {
		return false
	}
	d.Mesh.Position = r3.Vec{}
	d.Camera.LookAt(d.Mesh.Position)
	return true
}

// Close cancels every cadence, Update does nothing afterwards.
func (d *Driver) Close() {
	d.scheduler.CancelAll()
	d.frameID, d.retarget, d.blink = 0, 0, 0
}
