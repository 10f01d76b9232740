package voiceorb

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	eb "github.com/hajimehoshi/ebiten/v2"
)

//go:embed assets/orb_shader.go
var orbShaderSource []byte

const ShaderSourcePath = "assets/orb_shader.go"

const (
	logoBeginMarker = "// logo:begin"
	logoEndMarker   = "// logo:end"
)

// OrbShaderSource returns the shader source for profile.
// The plain profile gets the logo sampling cut out so no texture is ever read.
func OrbShaderSource(src []byte, profile Profile) ([]byte, error) {
	if profile != ProfilePlain {
		return src, nil
	}

	text := string(src)

	begin := strings.Index(text, logoBeginMarker)
	end := strings.Index(text, logoEndMarker)
	if begin < 0 || end < 0 || end < begin {
		return nil, fmt.Errorf("shader source has no logo block")
	}

	var sb strings.Builder
	sb.WriteString(text[:begin])
	sb.WriteString("return vec4(0.0)\n")
	sb.WriteString(text[end+len(logoEndMarker):])

	return []byte(sb.String()), nil
}

func CompileOrbShader(src []byte, profile Profile) (*eb.Shader, error) {
	timer := NewProfTimer("shader compile")
	defer timer.Report()

	src, err := OrbShaderSource(src, profile)
	if err != nil {
		return nil, err
	}

	shader, err := eb.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to compile orb shader: %w", err)
	}
	return shader, nil
}

// maximum logo size we accept, anything bigger is not a logo
const maxLogoBytes = 16 << 20

// LoadLogo reads a logo from a file path or an http(s) url.
func LoadLogo(ctx context.Context, src string) (image.Image, error) {
	var data []byte

	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch logo: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch logo: %s", resp.Status)
		}

		data, err = io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch logo: %w", err)
		}
	} else {
		var err error
		data, err = os.ReadFile(src)
		if err != nil {
			return nil, err
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode logo: %w", err)
	}
	return img, nil
}

type logoResult struct {
	Image image.Image
	Err   error
}

// LogoLoader loads the logo once in the background.
// Poll it from the update loop.
type LogoLoader struct {
	result chan logoResult
	done   bool
}

func StartLogoLoader(ctx context.Context, src string) *LogoLoader {
	l := &LogoLoader{
		result: make(chan logoResult, 1),
	}

	if src == "" {
		l.result <- logoResult{Err: fmt.Errorf("no logo given")}
		return l
	}

	go func() {
		img, err := LoadLogo(ctx, src)
		l.result <- logoResult{Image: img, Err: err}
	}()

	return l
}

// Poll returns ok once the load finished, only the first time.
func (l *LogoLoader) Poll() (img image.Image, ok bool, err error) {
	if l == nil || l.done {
		return nil, false, nil
	}
	select {
	case r := <-l.result:
		l.done = true
		return r.Image, true, r.Err
	default:
		return nil, false, nil
	}
}
