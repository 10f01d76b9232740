package element

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"
)

//go:embed loader.js.tmpl
var loaderSource string

var loaderTemplate = template.Must(template.New("loader").Funcs(template.FuncMap{
	"jsstr": jsString,
}).Parse(loaderSource))

func jsString(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	// keep the script tag it may end up in intact
	return strings.ReplaceAll(string(b), "</", "<\\/"), nil
}

// GuardName is the window property the loader uses to run only once per page.
func (d Definition) GuardName() string {
	var sb strings.Builder
	sb.WriteString("__")
	for _, r := range d.Name {
		if r == '-' || r == '.' {
			sb.WriteRune('_')
		} else {
			sb.WriteRune(r)
		}
	}
	sb.WriteString("_loaded")
	return sb.String()
}

// LoaderScript renders the script host pages include to get the element.
func LoaderScript(def Definition) (string, error) {
	if err := def.Validate(); err != nil {
		return "", err
	}
	if def.Height == "" {
		def.Height = "300px"
	}

	data := struct {
		Definition
		Guard string
	}{def, def.GuardName()}

	var buf bytes.Buffer
	if err := loaderTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
