package voiceorb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"

	"voiceorb/misc"
	"voiceorb/session"
)

// Profile selects how the disconnected orb looks.
type Profile string

const (
	// ProfileLogo projects the logo on the disconnected orb.
	ProfileLogo Profile = "logo"
	// ProfilePlain never loads or samples a texture.
	ProfilePlain Profile = "plain"
)

var ErrUnknownProfile = errors.New("unknown profile")

func ParseProfile(str string) (Profile, error) {
	switch p := Profile(strings.ToLower(strings.TrimSpace(str))); p {
	case ProfileLogo, ProfilePlain:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProfile, str)
}

// Preset is what the host feeds the orb for a given state.
type Preset struct {
	// how fast the noise moves
	PerlinTime float64 `json:"perlin_time"`
	// rgb intensities, divided by ChromaDivisor before use
	Chroma [3]float64 `json:"chroma"`
}

const (
	PerlinDamping = 35000
	ChromaDivisor = 15
)

// DefaultPresetKey is used for states without their own preset.
const DefaultPresetKey = "default"

func DefaultPresets() map[string]Preset {
	return map[string]Preset{
		session.StateDisconnected.String(): {PerlinTime: 15, Chroma: [3]float64{3, 3, 3}},
		session.StateListening.String():    {PerlinTime: 25, Chroma: [3]float64{2, 5, 3}},
		session.StateThinking.String():     {PerlinTime: 35, Chroma: [3]float64{1, 4, 2}},
		session.StateSpeaking.String():     {PerlinTime: 45, Chroma: [3]float64{5, 5, 5}},
		DefaultPresetKey:                   {PerlinTime: 25, Chroma: [3]float64{2, 2, 2}},
	}
}

// MergePresets decodes every override on top of the default preset of the same name,
// or the default preset for names without one.
// Fields an override leaves out keep their default values.
func MergePresets(overrides map[string]json.RawMessage) (map[string]Preset, error) {
	presets := DefaultPresets()

	for name, raw := range overrides {
		preset, ok := presets[name]
		if !ok {
			preset = presets[DefaultPresetKey]
		}
		if err := json.Unmarshal(raw, &preset); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		presets[name] = preset
	}

	return presets, nil
}

type PaletteConfig struct {
	Emerald    string `json:"emerald"`
	Sky        string `json:"sky"`
	DeepTeal   string `json:"deep_teal"`
	LightGreen string `json:"light_green"`
	Ocean      string `json:"ocean"`
	Silver     string `json:"silver"`
	Purple     string `json:"purple"`
	Lavender   string `json:"lavender"`
	RoyalBlue  string `json:"royal_blue"`
}

func DefaultPaletteConfig() PaletteConfig {
	return PaletteConfig{
		Emerald:    "#50C878",
		Sky:        "#87CEEB",
		DeepTeal:   "#008080",
		LightGreen: "#80C7A0",
		Ocean:      "#5F9EA0",
		Silver:     "#C0C0C0",
		Purple:     "rgb(127.5, 0, 127.5)",
		Lavender:   "rgb(178.5, 127.5, 229.5)",
		RoyalBlue:  "rgb(63.75, 104.55, 224.4)",
	}
}

// Parse returns every bad color, not just the first one.
func (pc PaletteConfig) Parse() (Palette, error) {
	var p Palette
	var err error

	parse := func(dst *RGB, name, str string) {
		c, perr := ParseRGB(str)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("palette %s: %w", name, perr))
			return
		}
		*dst = c
	}

	parse(&p.Emerald, "emerald", pc.Emerald)
	parse(&p.Sky, "sky", pc.Sky)
	parse(&p.DeepTeal, "deep_teal", pc.DeepTeal)
	parse(&p.LightGreen, "light_green", pc.LightGreen)
	parse(&p.Ocean, "ocean", pc.Ocean)
	parse(&p.Silver, "silver", pc.Silver)
	parse(&p.Purple, "purple", pc.Purple)
	parse(&p.Lavender, "lavender", pc.Lavender)
	parse(&p.RoyalBlue, "royal_blue", pc.RoyalBlue)

	return p, err
}

type Config struct {
	// websocket url of the state relay, empty means keyboard only
	StateURL string `json:"state_url"`

	Profile Profile `json:"profile"`
	// file path or http(s) url
	Logo string `json:"logo"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// 0 picks a random seed
	Seed uint64 `json:"seed"`

	Morph     float64 `json:"morph"`
	BaseColor string  `json:"base_color"`

	Presets map[string]Preset `json:"presets"`
	Palette PaletteConfig     `json:"palette"`
}

func DefaultConfig() Config {
	return Config{
		Profile:   ProfileLogo,
		Logo:      "https://images.yourstory.com/cs/images/companies/Fonadalogo-1717149286235.jpg?fm=auto&ar=1:1&mode=fill&fill-color=fff",
		Width:     400,
		Height:    400,
		Morph:     1.0,
		BaseColor: "rgb(127.5, 204, 153)",
		Presets:   DefaultPresets(),
		Palette:   DefaultPaletteConfig(),
	}
}

func (c *Config) PresetFor(state session.State) Preset {
	if p, ok := c.Presets[state.String()]; ok {
		return p
	}
	if p, ok := c.Presets[DefaultPresetKey]; ok {
		return p
	}
	return DefaultPresets()[DefaultPresetKey]
}

// Validate reports every problem in c at once.
func (c *Config) Validate() error {
	var err error

	if _, perr := ParseProfile(string(c.Profile)); perr != nil {
		err = multierr.Append(err, perr)
	}
	if c.Width <= 0 || c.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("invalid size %dx%d", c.Width, c.Height))
	}
	if _, perr := ParseRGB(c.BaseColor); perr != nil {
		err = multierr.Append(err, fmt.Errorf("base_color: %w", perr))
	}
	if _, perr := c.Palette.Parse(); perr != nil {
		err = multierr.Append(err, perr)
	}
	for name := range c.Presets {
		if name == DefaultPresetKey {
			continue
		}
		if _, ok := session.ParseState(name); !ok {
			err = multierr.Append(err, fmt.Errorf("preset for %w: %q", session.ErrUnknownState, name))
		}
	}

	return err
}

func SaveConfig(path string, c Config) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0664)
}

// LoadConfig reads the config at path.
// If there is no file there, one with default values is made.
// Missing fields keep their default values.
func LoadConfig(path string) (Config, error) {
	if exist, err := misc.CheckFileExists(path); err != nil {
		return Config{}, fmt.Errorf("could not check if %s exists: %w", path, err)
	} else if !exist {
		InfoLogger.Printf("couldn't find %s, making a default one", path)

		config := DefaultConfig()
		if err := SaveConfig(path, config); err != nil {
			return Config{}, fmt.Errorf("could not write default config to %s: %w", path, err)
		}
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// decoded again so each override lands on top of its default
	var overrides struct {
		Presets map[string]json.RawMessage `json:"presets"`
	}
	if err := json.Unmarshal(data, &overrides); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if config.Presets, err = MergePresets(overrides.Presets); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}
