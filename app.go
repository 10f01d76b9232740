package voiceorb

import (
	"flag"
	"fmt"
	"time"

	eb "github.com/hajimehoshi/ebiten/v2"

	"voiceorb/misc"
)

var (
	ErrLogger  = misc.ErrLogger
	WarnLogger = misc.WarnLogger
	InfoLogger = misc.InfoLogger
)

// set by build tags
var (
	ScreenshotEnabled bool
	PprofEnabled      bool
)

var (
	FlagConfigPath string
	FlagStateURL   string
	FlagProfile    string
	FlagLogo       string
	FlagHotReload  bool
	FlagSeed       uint64
	FlagWidth      int
	FlagHeight     int
)

func init() {
	flag.StringVar(&FlagConfigPath, "config", "voiceorb.json", "path to config file")
	flag.StringVar(&FlagStateURL, "state-url", "", "websocket url of the state relay")
	flag.StringVar(&FlagProfile, "profile", "", "render profile, logo or plain")
	flag.StringVar(&FlagLogo, "logo", "", "logo file path or url")
	flag.BoolVar(&FlagHotReload, "hot", false, "enable shader hot reloading")
	flag.Uint64Var(&FlagSeed, "seed", 0, "random seed, 0 picks one")
	flag.IntVar(&FlagWidth, "width", 0, "window width")
	flag.IntVar(&FlagHeight, "height", 0, "window height")
}

// applyFlags overrides config with flags the user actually set.
func applyFlags(config *Config) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "state-url":
			config.StateURL = FlagStateURL
		case "profile":
			var p Profile
			if p, err = ParseProfile(FlagProfile); err == nil {
				config.Profile = p
			}
		case "logo":
			config.Logo = FlagLogo
		case "seed":
			config.Seed = FlagSeed
		case "width":
			config.Width = FlagWidth
		case "height":
			config.Height = FlagHeight
		}
	})
	if err != nil {
		return err
	}
	return config.Validate()
}

func AppMain() {
	flag.Parse()

	config, err := loadAppConfig(FlagConfigPath)
	if err != nil {
		ErrLogger.Fatalf("failed to load config: %v", err)
	}
	if err := applyFlags(&config); err != nil {
		ErrLogger.Fatalf("bad flags: %v", err)
	}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	InfoLogger.Printf("seed %d", seed)

	InitClipboardManager()

	widget, err := NewWidget(&config, newStateSource(&config), seed)
	if err != nil {
		ErrLogger.Fatalf("failed to create widget: %v", err)
	}
	widget.HotReload = FlagHotReload

	eb.SetVsyncEnabled(true)
	eb.SetWindowSize(config.Width, config.Height)
	eb.SetWindowResizingMode(eb.WindowResizingModeEnabled)
	eb.SetWindowTitle(fmt.Sprintf("voice orb (%s)", config.Profile))

	runErr := eb.RunGameWithOptions(widget, &eb.RunGameOptions{
		ScreenTransparent: true,
	})

	if err := widget.Close(); err != nil {
		WarnLogger.Printf("close: %v", err)
	}
	if runErr != nil {
		ErrLogger.Fatal(runErr)
	}
}
