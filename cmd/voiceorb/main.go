package main

import (
	_ "github.com/silbinarywolf/preferdiscretegpu"

	"voiceorb"
)

func main() {
	voiceorb.AppMain()
}
