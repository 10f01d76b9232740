package voiceorb

import (
	eb "github.com/hajimehoshi/ebiten/v2"
	ebi "github.com/hajimehoshi/ebiten/v2/inpututil"

	"voiceorb/session"
)

const (
	ShowDebugConsoleKey eb.Key = eb.KeyF1
	ShowMeshKey         eb.Key = eb.KeyF2
	ReloadShaderKey     eb.Key = eb.KeyF5

	CopyStateKey  eb.Key = eb.KeyC
	PasteStateKey eb.Key = eb.KeyV

	ScreenshotKey eb.Key = eb.KeyP
)

// number keys set the state directly
var StateKeys = map[eb.Key]session.State{
	eb.Key1: session.StateDisconnected,
	eb.Key2: session.StateListening,
	eb.Key3: session.StateThinking,
	eb.Key4: session.StateSpeaking,
	eb.Key5: session.StateConnecting,
	eb.Key6: session.StateInitializing,
}

func IsKeyJustPressed(key eb.Key) bool {
	return ebi.IsKeyJustPressed(key)
}
