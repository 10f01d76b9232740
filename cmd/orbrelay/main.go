package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"

	"voiceorb/element"
	"voiceorb/misc"
	"voiceorb/relay"
)

func main() {
	config := relay.DefaultConfig()

	flag.StringVar(&config.Addr, "addr", config.Addr, "address to listen on")
	flag.StringVar(&config.WebDir, "folder", config.WebDir, "folder to serve, empty disables it")
	flag.StringVar(&config.Element.Name, "element", config.Element.Name, "custom element name for widget.js")
	flag.StringVar(&config.Element.AppURL, "app-url", config.Element.AppURL, "page the element frames, defaults to this server")
	flag.StringVar(&config.Element.Height, "element-height", config.Element.Height, "element height")
	flag.IntVar(&config.ClientBuffer, "buffer", config.ClientBuffer, "messages a slow orb may fall behind")
	flag.Parse()

	if config.WebDir != "" && !filepath.IsLocal(config.WebDir) {
		misc.ErrLogger.Fatalf("%s is not a local folder", config.WebDir)
	}
	if err := element.ValidateName(config.Element.Name); err != nil {
		misc.ErrLogger.Fatal(err)
	}

	server := relay.NewServer(config)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		misc.InfoLogger.Print("shutting down")
		if err := server.Shutdown(); err != nil {
			misc.ErrLogger.Print(err)
		}
	}()

	if config.WebDir != "" {
		misc.InfoLogger.Printf("serving %s", config.WebDir)
	}

	if err := server.Listen(); err != nil {
		misc.ErrLogger.Fatal(err)
	}
}
