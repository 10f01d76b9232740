//go:build screenshot

package voiceorb

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	eb "github.com/hajimehoshi/ebiten/v2"
)

func init() {
	ScreenshotEnabled = true

	DebugPutsPersist("screenshot", "true")
}

func ImageImageFromEbImage(img *eb.Image) image.Image {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	img.ReadPixels(rgba.Pix)
	return rgba
}

func TakeScreenshot(img *eb.Image) (string, error) {
	timeStr := time.Now().Format("0102150405")

	dirPath, err := os.Getwd()
	if err != nil {
		return "", err
	}

	var filename = fmt.Sprintf("orb-%s.png", timeStr)

	for nameCounter := 2; ; nameCounter++ {
		if _, err := os.Stat(filepath.Join(dirPath, filename)); os.IsNotExist(err) {
			break
		}
		filename = fmt.Sprintf("orb-%s-(%d).png", timeStr, nameCounter)
	}

	fullPath := filepath.Join(dirPath, filename)

	buffer := &bytes.Buffer{}
	err = png.Encode(buffer, ImageImageFromEbImage(img))
	if err != nil {
		return "", err
	}

	err = os.WriteFile(fullPath, buffer.Bytes(), 0644)
	if err != nil {
		return "", err
	}

	return filename, nil
}
