//go:build !js

package voiceorb

import (
	"voiceorb/session"
)

func loadAppConfig(path string) (Config, error) {
	return LoadConfig(path)
}

func newStateSource(config *Config) session.Source {
	if config.StateURL == "" {
		InfoLogger.Print("no state url, keyboard only")
		return nil
	}
	InfoLogger.Printf("following %s", config.StateURL)
	return session.NewWSSource(config.StateURL)
}
