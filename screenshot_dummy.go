//go:build !screenshot

package voiceorb

import (
	"fmt"

	eb "github.com/hajimehoshi/ebiten/v2"
)

func TakeScreenshot(img *eb.Image) (string, error) {
	return "", fmt.Errorf("built without screenshot tag")
}
