//go:build js

package voiceorb

import (
	"voiceorb/session"
)

// no file system in the browser, flags and the page do the configuring
func loadAppConfig(string) (Config, error) {
	return DefaultConfig(), nil
}

func newStateSource(config *Config) session.Source {
	if config.StateURL != "" {
		return session.NewWSSource(config.StateURL)
	}
	return session.NewBridgeSource()
}
