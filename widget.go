package voiceorb

import (
	"context"
	"fmt"
	"time"

	eb "github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/multierr"

	"voiceorb/session"
)

// Widget is the ebiten game running the orb.
type Widget struct {
	Config   *Config
	Driver   *Driver
	Renderer *Renderer
	Signal   *session.Signal

	ShowDebugConsole bool
	ShowMesh         bool

	// enables F5
	HotReload bool

	overlay *MeshOverlay

	source     session.Source
	sourceDone chan error

	ctx    context.Context
	cancel context.CancelFunc

	logo *LogoLoader

	lastChanges uint64

	width, height int

	wantScreenshot bool
	shaderErr      error

	closed bool
}

// NewWidget sets up the orb. source may be nil, then only the keyboard
// changes the state.
func NewWidget(config *Config, source session.Source, seed uint64) (*Widget, error) {
	palette, err := config.Palette.Parse()
	if err != nil {
		return nil, fmt.Errorf("bad palette: %w", err)
	}

	renderer, err := NewRenderer(config.Profile, palette)
	if err != nil {
		return nil, err
	}

	w := &Widget{
		Config:     config,
		Driver:     NewDriver(config, seed),
		Renderer:   renderer,
		Signal:     session.NewSignal(session.StateDisconnected),
		overlay:    NewMeshOverlay(32, 16),
		source:     source,
		sourceDone: make(chan error, 1),
	}

	w.overlay.Color = palette.Silver.NRGBA()
	w.overlay.Color.A = 90
	w.overlay.Palette = palette

	w.ctx, w.cancel = context.WithCancel(context.Background())

	w.Driver.OnRetarget = func(e RetargetEvent) {
		DebugPrintfPersist("retarget", "%v next in %v", e.Visual, e.Interval)
	}

	if config.Profile == ProfileLogo {
		w.logo = StartLogoLoader(w.ctx, config.Logo)
	}

	if source != nil {
		go func() {
			w.sourceDone <- source.Run(w.ctx, w.Signal)
		}()
	}

	return w, nil
}

func updateDelta() time.Duration {
	tps := eb.TPS()
	if tps <= 0 {
		return FrameTime
	}
	return time.Second / time.Duration(tps)
}

func (w *Widget) handleHotkeys() {
	if IsKeyJustPressed(ShowDebugConsoleKey) {
		w.ShowDebugConsole = !w.ShowDebugConsole
	}
	if IsKeyJustPressed(ShowMeshKey) {
		w.ShowMesh = !w.ShowMesh
	}

	if w.HotReload && IsKeyJustPressed(ReloadShaderKey) {
		w.shaderErr = w.Renderer.ReloadShader(ShaderSourcePath)
		if w.shaderErr != nil {
			ErrLogger.Printf("failed to reload shader: %v", w.shaderErr)
		} else {
			InfoLogger.Printf("reloaded %s", ShaderSourcePath)
		}
	}

	for key, state := range StateKeys {
		if IsKeyJustPressed(key) {
			w.Signal.Set(state)
		}
	}

	if IsKeyJustPressed(CopyStateKey) {
		ClipboardWriteText(w.DebugDump())
	}
	if IsKeyJustPressed(PasteStateKey) {
		if err := w.Signal.SetString(ClipboardReadText()); err != nil {
			WarnLogger.Printf("clipboard: %v", err)
		}
	}

	if ScreenshotEnabled && IsKeyJustPressed(ScreenshotKey) {
		w.wantScreenshot = true
	}
}

// Poll picks up asynchronous results, the state signal and the logo.
func (w *Widget) Poll() {
	if changes := w.Signal.Changes(); changes != w.lastChanges {
		w.lastChanges = changes
		w.Driver.SetState(w.Signal.Load())
	}

	if img, ok, err := w.logo.Poll(); ok {
		if err != nil {
			WarnLogger.Printf("no logo: %v", err)
		} else if w.Renderer.SetLogo(img) {
			w.Driver.SetLogoReady(true)
		}
	}

	select {
	case err := <-w.sourceDone:
		if err != nil {
			WarnLogger.Printf("state source stopped: %v", err)
		}
	default:
	}
}

func (w *Widget) Update() error {
	if w.closed {
		return nil
	}

	ClearDebugMsgs()

	w.handleHotkeys()
	w.Poll()

	w.Driver.Update(updateDelta())

	DebugPrintf("FPS", "%.2f", eb.ActualFPS())
	DebugPrintf("TPS", "%.2f", eb.ActualTPS())
	DebugPrint("state", w.Driver.State())
	DebugPrint("visual", w.Driver.Visual())
	DebugPrintf("time", "%.3f", w.Driver.Uniforms.Time)
	DebugPrintf("opacity", "%.2f", w.Driver.Uniforms.Opacity)
	DebugPrintf("scale", "%.3f", w.Driver.Mesh.Scale)
	retarget, blink := w.Driver.Timers()
	DebugPrintf("timers", "retarget %v blink %v", retarget, blink)
	DebugPrint("logo", w.Renderer.HasLogo())
	if w.shaderErr != nil {
		DebugPrint("shader", w.shaderErr)
	}

	return nil
}

func (w *Widget) Draw(dst *eb.Image) {
	if w.closed {
		return
	}

	w.Renderer.Draw(dst, w.Driver)

	if w.ShowMesh {
		w.overlay.Draw(dst, w.Driver)
	}

	if w.wantScreenshot {
		w.wantScreenshot = false
		if name, err := TakeScreenshot(dst); err != nil {
			ErrLogger.Printf("failed to take screenshot: %v", err)
		} else {
			InfoLogger.Printf("saved %s", name)
		}
	}

	if w.ShowDebugConsole {
		DrawDebugMsgs(dst)
	}
}

func (w *Widget) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != w.width || outsideHeight != w.height {
		if w.Driver.Resize(outsideWidth, outsideHeight) {
			w.Renderer.Resize(outsideWidth, outsideHeight)
			w.width, w.height = outsideWidth, outsideHeight
		}
	}
	return max(outsideWidth, 1), max(outsideHeight, 1)
}

// DebugDump is what the copy hotkey puts in the clipboard.
func (w *Widget) DebugDump() string {
	d := w.Driver
	u := d.Uniforms
	return fmt.Sprintf(
		"state: %v\nvisual: %v %v\ntime: %.4f\nwave_time: %.4f\nchroma: %.3f %.3f %.3f\nopacity: %.2f\nmesh_rotation: %.4f %.4f %.4f\nmesh_scale: %.4f\ncamera: %.2f %.2f %.2f\n",
		d.State(), d.Visual(), d.Visual().Flags(), u.Time, u.WaveTime,
		u.Chroma[0], u.Chroma[1], u.Chroma[2], u.Opacity,
		d.Mesh.Rotation.X, d.Mesh.Rotation.Y, d.Mesh.Rotation.Z, d.Mesh.Scale,
		d.Camera.Position.X, d.Camera.Position.Y, d.Camera.Position.Z,
	)
}

// Close stops the driver first, then the state source, then frees gpu resources.
func (w *Widget) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.Driver.Close()
	w.cancel()

	var err error
	if w.source != nil {
		err = multierr.Append(err, w.source.Close())
	}

	w.Renderer.Close()

	return err
}
