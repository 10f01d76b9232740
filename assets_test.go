package voiceorb

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrbShaderSourcePlain(t *testing.T) {
	logo, err := OrbShaderSource(orbShaderSource, ProfileLogo)
	require.NoError(t, err)
	assert.Equal(t, orbShaderSource, logo)
	assert.Contains(t, string(logo), "imageSrc0At")

	plain, err := OrbShaderSource(orbShaderSource, ProfilePlain)
	require.NoError(t, err)

	src := string(plain)
	assert.NotContains(t, src, "imageSrc0")
	assert.NotContains(t, src, logoBeginMarker)
	assert.Contains(t, src, "return vec4(0.0)")
	assert.Contains(t, src, "func Fragment")

	_, err = OrbShaderSource([]byte("package main\n"), ProfilePlain)
	assert.Error(t, err)
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pollLogo(t *testing.T, l *LogoLoader) (image.Image, error) {
	t.Helper()

	var (
		img image.Image
		err error
	)
	require.Eventually(t, func() bool {
		var ok bool
		img, ok, err = l.Poll()
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	// only once
	_, ok, _ := l.Poll()
	assert.False(t, ok)

	return img, err
}

func TestLogoLoaderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, testPNG(t), 0664))

	img, err := pollLogo(t, StartLogoLoader(context.Background(), path))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
}

func TestLogoLoaderHTTP(t *testing.T) {
	data := testPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	img, err := pollLogo(t, StartLogoLoader(context.Background(), srv.URL+"/logo.png"))
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	_, err = pollLogo(t, StartLogoLoader(context.Background(), srv.URL+"/missing.png"))
	assert.Error(t, err)
}

func TestLogoLoaderFailures(t *testing.T) {
	_, err := pollLogo(t, StartLogoLoader(context.Background(), ""))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0664))
	_, err = pollLogo(t, StartLogoLoader(context.Background(), path))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "decode"))

	var nilLoader *LogoLoader
	_, ok, _ := nilLoader.Poll()
	assert.False(t, ok)
}

func TestDebugText(t *testing.T) {
	ClearDebugMsgs()

	DebugPuts("state", "listening")
	DebugPrintf("time", "%.1f", 1.5)
	DebugPuts("state", "thinking")

	text := DebugText()
	assert.Contains(t, text, "state: thinking\ntime: 1.5")
	assert.NotContains(t, text, "listening")

	ClearDebugMsgs()
	assert.NotContains(t, DebugText(), "state")
}
