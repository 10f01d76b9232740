package voiceorb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"voiceorb/session"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voiceorb.json")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, again)
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voiceorb.json")

	config := DefaultConfig()
	config.Profile = ProfilePlain
	config.StateURL = "ws://localhost:6969/ws/state"
	config.Seed = 1234
	config.Presets["thinking"] = Preset{PerlinTime: 60, Chroma: [3]float64{1, 2, 3}}

	require.NoError(t, SaveConfig(path, config))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
	assert.Equal(t, 60.0, loaded.PresetFor(session.StateThinking).PerlinTime)
}

func TestConfigMergesPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voiceorb.json")
	data := `{
		"profile": "logo",
		"width": 300,
		"height": 300,
		"morph": 1,
		"base_color": "#80CC99",
		"presets": {"speaking": {"perlin_time": 80, "chroma": [9, 9, 9]}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0664))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 80.0, config.PresetFor(session.StateSpeaking).PerlinTime)
	assert.Equal(t, DefaultPresets()["listening"], config.PresetFor(session.StateListening))
	assert.Equal(t, DefaultPresets()[DefaultPresetKey], config.PresetFor(session.StateConnecting))
	// palette wasn't in the file
	assert.Equal(t, DefaultPaletteConfig(), config.Palette)
}

func TestConfigPartialPresetKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voiceorb.json")
	data := `{"presets": {"speaking": {"perlin_time": 50}, "thinking": {"chroma": [7, 7, 7]}}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0664))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	defaults := DefaultPresets()

	speaking := config.PresetFor(session.StateSpeaking)
	assert.Equal(t, 50.0, speaking.PerlinTime)
	assert.Equal(t, defaults["speaking"].Chroma, speaking.Chroma)

	thinking := config.PresetFor(session.StateThinking)
	assert.Equal(t, defaults["thinking"].PerlinTime, thinking.PerlinTime)
	assert.Equal(t, [3]float64{7, 7, 7}, thinking.Chroma)
}

func TestMergePresets(t *testing.T) {
	presets, err := MergePresets(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPresets(), presets)

	// a name without its own default starts from the default preset
	presets, err = MergePresets(map[string]json.RawMessage{
		"connecting": json.RawMessage(`{"perlin_time": 5}`),
	})
	require.NoError(t, err)
	assert.Equal(t, Preset{
		PerlinTime: 5,
		Chroma:     DefaultPresets()[DefaultPresetKey].Chroma,
	}, presets["connecting"])

	_, err = MergePresets(map[string]json.RawMessage{
		"speaking": json.RawMessage(`{"perlin_time": "fast"}`),
	})
	assert.ErrorContains(t, err, `"speaking"`)
}

func TestConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voiceorb.json")
	data := `{
		"profile": "fancy",
		"width": 0,
		"height": 300,
		"base_color": "not a color",
		"palette": {"emerald": "nope"},
		"presets": {"dancing": {"perlin_time": 1}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0664))

	_, err := LoadConfig(path)
	require.Error(t, err)

	// every problem is reported, not only the first
	config := DefaultConfig()
	config.Profile = "fancy"
	config.Width = 0
	config.BaseColor = "not a color"
	config.Palette.Emerald = "nope"
	config.Presets["dancing"] = Preset{}

	err = config.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 5)
	assert.ErrorIs(t, err, ErrUnknownProfile)
	assert.ErrorIs(t, err, session.ErrUnknownState)
}

func TestConfigBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voiceorb.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0664))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile("plain")
	require.NoError(t, err)
	assert.Equal(t, ProfilePlain, p)

	_, err = ParseProfile("shiny")
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestDefaultPaletteConfigMatchesPalette(t *testing.T) {
	parsed, err := DefaultPaletteConfig().Parse()
	require.NoError(t, err)

	want := DefaultPalette()
	pairs := [][2]RGB{
		{want.Emerald, parsed.Emerald},
		{want.Sky, parsed.Sky},
		{want.DeepTeal, parsed.DeepTeal},
		{want.LightGreen, parsed.LightGreen},
		{want.Ocean, parsed.Ocean},
		{want.Silver, parsed.Silver},
		{want.Purple, parsed.Purple},
		{want.Lavender, parsed.Lavender},
		{want.RoyalBlue, parsed.RoyalBlue},
	}
	for i, pair := range pairs {
		for c := range 3 {
			assert.InDelta(t, pair[0][c], pair[1][c], 0.002, "color %d", i)
		}
	}
}

func TestParseRGB(t *testing.T) {
	c, err := ParseRGB("rgb(127.5, 204, 153)")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c[0], 1e-9)
	assert.InDelta(t, 0.8, c[1], 1e-9)
	assert.InDelta(t, 0.6, c[2], 1e-9)

	_, err = ParseRGB("nope")
	assert.Error(t, err)
}
