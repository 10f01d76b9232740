//go:build ignore

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"voiceorb/element"
	"voiceorb/misc"
)

const SettingsPath = "build-settings.txt"

var SettingsList []string
var DefaultSettings = make(map[string]bool)
var SettingsComments = make(map[string]string)

func init() {
	setDefault := func(name string, value bool, comment string) {
		SettingsList = append(SettingsList, name)
		DefaultSettings[name] = value
		SettingsComments[name] = comment
	}

	setDefault("pprof", false, "Enable pporf debugging (desktop only).")
	setDefault("screenshot", false, "Enable the screenshot hotkey.")
	setDefault("opt", true, "Optimize and inline.")
	setDefault("wasm-opt", false, "Optimize wasm (requires wasm-opt from https://github.com/WebAssembly/binaryen).")
	setDefault("embed", true, "Also build orbembed.wasm and widget.js for host pages.")
	setDefault("relay", true, "Also build the orbrelay server.")
	setDefault("no-vcs", false, "Stop Go compiler from stamp binary with version control information.")
}

func PrintUsage() {
	scriptName := misc.GetScriptName()

	fmt.Printf("\n")
	fmt.Printf("Usage of %s:\n", scriptName)
	fmt.Printf("\n")
	fmt.Printf("go run %s\n", scriptName)
	fmt.Printf("go run %s [target]\n", scriptName)
	fmt.Printf("go run %s release [target]\n", scriptName)
	fmt.Printf("\n")
	fmt.Printf("valid targets:\n")
	fmt.Printf("  desktop\n")
	fmt.Printf("  web\n")
	fmt.Printf("  all\n")
	fmt.Printf("\n")
	fmt.Printf("build settings are read from %s\n", SettingsPath)
	fmt.Printf("\n")
	fmt.Printf("but if you do\n")
	fmt.Printf("go run %s release [target]\n", scriptName)
	fmt.Printf("it uses release settings\n")
	fmt.Printf("\n")
}

func main() {
	args := os.Args[1:]

	// print help
	{
		helps := []string{
			"help",
			"-help",
			"--help",
			"h",
			"-h",
			"--h",
		}
		if len(args) > 0 && slices.Contains(helps, args[0]) {
			PrintUsage()
			os.Exit(1)
		}
	}

	var buildTarget = "desktop"
	var useReleaseSetting = false

	// parse flags
	if len(args) == 1 {
		buildTarget = args[0]
	} else if len(args) == 2 {
		if args[0] != "release" {
			misc.ErrLogger.Printf("%s is not a vaid argument", strings.Join(args, " "))
			PrintUsage()
			os.Exit(1)
		} else {
			useReleaseSetting = true
		}
		buildTarget = args[1]
	} else if len(args) > 2 {
		misc.ErrLogger.Printf("too many arguments")
		PrintUsage()
		os.Exit(1)
	}

	if !(buildTarget == "desktop" || buildTarget == "web" || buildTarget == "all") {
		misc.ErrLogger.Printf("%s is not a vaid target", buildTarget)
		PrintUsage()
		os.Exit(1)
	}

	// if settings file doesn't exist, create one
	if exist, err := misc.CheckFileExists(SettingsPath); err != nil {
		misc.ErrLogger.Printf("could not check if %s file exists: %v", SettingsPath, err)
		os.Exit(1)
	} else if !exist {

		misc.InfoLogger.Printf("couldn't find %s, making a default one", SettingsPath)

		err := SaveSettings(SettingsPath, DefaultSettings)
		if err != nil {
			misc.ErrLogger.Printf("could not write default settings to %s: %v", SettingsPath, err)
			os.Exit(1)
		}
	}

	var settings map[string]bool

	if useReleaseSetting {
		// TODO: support release setting
		misc.ErrLogger.Printf("release setting is not supproted yet")
		os.Exit(1)
	} else {
		// load settings
		misc.InfoLogger.Printf("loading settings from %s", SettingsPath)
		var err error
		settings, err = LoadSettings(SettingsPath)

		if err != nil {
			misc.ErrLogger.Printf("failed to load settings : %v", err)
			os.Exit(1)
		}
	}

	// print settings
	{
		nameSize := 0
		for _, name := range SettingsList {
			nameSize = max(nameSize, len(name))
		}
		fmt.Printf("\n")
		for _, name := range SettingsList {
			value := settings[name]
			for len(name) < nameSize {
				name = name + " "
			}
			fmt.Printf("  %v : %v\n", name, value)
		}
		fmt.Printf("\n")
	}

	misc.InfoLogger.Printf("building %s", buildTarget)

	buildDesktop := func() {
		err, errcode := BuildApp(settings, false)
		if err != nil {
			misc.ErrLogger.Printf("failed to build for desktop: %v", err)
			os.Exit(errcode)
		}
		if settings["relay"] {
			err, errcode = BuildRelay(settings)
			if err != nil {
				misc.ErrLogger.Printf("failed to build relay: %v", err)
				os.Exit(errcode)
			}
		}
	}
	buildWeb := func() {
		if err, errcode := VetWeb(settings); err != nil {
			misc.ErrLogger.Printf("go vet failed for js/wasm: %v", err)
			os.Exit(errcode)
		}
		err, errcode := BuildApp(settings, true)
		if err != nil {
			misc.ErrLogger.Printf("failed to build for web: %v", err)
			os.Exit(errcode)
		}
		if err := CopyWebSupport(); err != nil {
			misc.ErrLogger.Printf("failed to copy web support files: %v", err)
			os.Exit(1)
		}
		if settings["embed"] {
			err, errcode = BuildEmbed(settings)
			if err != nil {
				misc.ErrLogger.Printf("failed to build embed: %v", err)
				os.Exit(errcode)
			}
		}
	}

	switch buildTarget {
	case "desktop":
		buildDesktop()
	case "web":
		buildWeb()
	case "all":
		buildDesktop()
		buildWeb()
	}
}

func SetMissingSettingsToDefault(settings map[string]bool) {
	for _, name := range SettingsList {
		if _, ok := settings[name]; !ok {
			settings[name] = DefaultSettings[name]
		}
	}
}

func CopySettings(settings map[string]bool) map[string]bool {
	settingsCopy := make(map[string]bool)
	for k, v := range settings {
		settingsCopy[k] = v
	}

	SetMissingSettingsToDefault(settingsCopy)

	return settingsCopy
}

func SaveSettings(path string, settings map[string]bool) error {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "// settings file for building\n")
	fmt.Fprintf(sb, "// lines starting with // are comments\n")
	fmt.Fprintf(sb, "//\n")
	fmt.Fprintf(sb, "// comment/uncomment these settings\n")
	fmt.Fprintf(sb, "\n")
	fmt.Fprintf(sb, "\n")
	for _, settingName := range SettingsList {
		comment := SettingsComments[settingName]
		value := settings[settingName]

		fmt.Fprintf(sb, "// %s\n", comment)
		fmt.Fprintf(sb, "%s %v\n", settingName, value)
		fmt.Fprintf(sb, "\n")
	}
	err := os.WriteFile(path, []byte(sb.String()), 0664)
	if err != nil {
		return err
	}
	return nil
}

func LoadSettings(path string) (map[string]bool, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(file) {
		return nil, fmt.Errorf("not a valid utf8 file")
	}

	text := string(file)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")

	settings := CopySettings(DefaultSettings)

	for i, line := range lines {
		logWarning := func(format string, a ...any) {
			fileAndLine := fmt.Sprintf("%s:%d: ", path, i+1)
			fmt.Fprintf(os.Stderr, fileAndLine+format+"\n", a...)
		}

		trimmed := strings.TrimSpace(line)

		if len(trimmed) <= 0 { // ignore empty line
			continue
		}

		if strings.HasPrefix(trimmed, "//") { // ignore comments
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			logWarning("\"%s\" doesn't have two fields, ignored", line)
			continue
		}

		if _, ok := DefaultSettings[fields[0]]; !ok {
			logWarning("\"%s\" is not a valid option, ignored", fields[0])
			continue
		}

		if fields[1] == "true" {
			settings[fields[0]] = true
		} else if fields[1] == "false" {
			settings[fields[0]] = false
		} else {
			logWarning("\"%s\" is not true or false, ignored", fields[1])
			continue
		}
	}

	SetMissingSettingsToDefault(settings)

	return settings, nil
}

const WebBuildDir = "./web_build"

func buildTags(settings map[string]bool, buildWeb bool) string {
	tags := ""

	if settings["pprof"] && !buildWeb {
		tags += "orbpprof,"
	}
	if settings["screenshot"] {
		tags += "screenshot,"
	}

	return tags
}

func gcFlags(settings map[string]bool) string {
	if settings["opt"] {
		return "-e"
	}
	return "-e -l -N"
}

func runCmd(cmd *exec.Cmd) (error, int) {
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	misc.InfoLogger.Printf("%s", cmd.String())

	fmt.Printf("\n")
	err := cmd.Run()
	fmt.Printf("\n")

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return err, exitErr.ExitCode()
		}
		return err, 1
	}
	return nil, 0
}

func goBuild(settings map[string]bool, dst, pkg string, buildWeb bool) *exec.Cmd {
	cmd := exec.Command(
		"go",
		"build",
		"-o", dst,
		"-tags="+buildTags(settings, buildWeb),
		"-gcflags=all="+gcFlags(settings),
	)

	if settings["no-vcs"] {
		cmd.Args = append(cmd.Args, "-buildvcs=false")
	}

	cmd.Args = append(cmd.Args, pkg)

	if buildWeb {
		webEnv(cmd)
	}

	return cmd
}

func webEnv(cmd *exec.Cmd) {
	cmd.Env = append(cmd.Env, os.Environ()...)
	cmd.Env = append(cmd.Env, "GOOS=js")
	cmd.Env = append(cmd.Env, "GOARCH=wasm")
}

// VetWeb type checks every package for js/wasm
// so code that only the browser build compiles gets caught early.
func VetWeb(settings map[string]bool) (error, int) {
	cmd := exec.Command(
		"go",
		"vet",
		"-tags="+buildTags(settings, true),
		"./...",
	)
	webEnv(cmd)
	return runCmd(cmd)
}

func exeName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func BuildApp(settings map[string]bool, buildWeb bool) (error, int) {
	dst := exeName("voiceorb")
	if buildWeb {
		if err := os.MkdirAll(WebBuildDir, 0775); err != nil {
			return err, 1
		}
		dst = filepath.Join(WebBuildDir, "voiceorb.wasm")
	}

	if err, code := runCmd(goBuild(settings, dst, "./cmd/voiceorb", buildWeb)); err != nil {
		return err, code
	}

	if buildWeb && settings["wasm-opt"] {
		return WasmOpt(dst)
	}

	return nil, 0
}

func BuildRelay(settings map[string]bool) (error, int) {
	return runCmd(goBuild(settings, exeName("orbrelay"), "./cmd/orbrelay", false))
}

// BuildEmbed builds the element registering wasm and a static widget.js
// for pages that are not served by orbrelay.
func BuildEmbed(settings map[string]bool) (error, int) {
	dst := filepath.Join(WebBuildDir, "orbembed.wasm")

	if err, code := runCmd(goBuild(settings, dst, "./cmd/orbembed", true)); err != nil {
		return err, code
	}

	script, err := element.LoaderScript(element.DefaultDefinition("./index.html"))
	if err != nil {
		return err, 1
	}

	widgetPath := filepath.Join(WebBuildDir, "widget.js")
	misc.InfoLogger.Printf("writing %s", widgetPath)

	if err := os.WriteFile(widgetPath, []byte(script), 0664); err != nil {
		return err, 1
	}

	return nil, 0
}

func WasmOpt(wasmPath string) (error, int) {
	misc.InfoLogger.Printf("optimizing using wasm-opt")
	// check if wasm-opt exists
	if !misc.CheckExeExists("wasm-opt") {
		return fmt.Errorf("couldn't find wasm-opt"), 1
	}

	optPath := strings.TrimSuffix(wasmPath, ".wasm") + "-opt.wasm"

	cmd := exec.Command(
		"wasm-opt",
		wasmPath,
		"-O2",
		"--enable-bulk-memory-opt",
		"-o",
		optPath,
	)

	if err, code := runCmd(cmd); err != nil {
		return err, code
	}

	if err := os.Rename(wasmPath, wasmPath+".bak"); err != nil {
		return err, 1
	}
	if err := os.Rename(optPath, wasmPath); err != nil {
		return err, 1
	}

	return nil, 0
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>html, body { margin: 0; background: transparent; overflow: hidden; }</style>
</head>
<body>
<script src="wasm_exec.js"></script>
<script>
const go = new Go();
WebAssembly.instantiateStreaming(fetch("voiceorb.wasm"), go.importObject).then((result) => {
	go.run(result.instance);
});
</script>
</body>
</html>
`

// CopyWebSupport copies wasm_exec.js from GOROOT and writes index.html
// if there isn't one already.
func CopyWebSupport() error {
	if exists, err := misc.CheckDirExists(WebBuildDir); err != nil {
		return err
	} else if !exists {
		if err := os.MkdirAll(WebBuildDir, 0775); err != nil {
			return err
		}
	}

	goroot := runtime.GOROOT()

	var wasmExec string
	for _, dir := range []string{"lib/wasm", "misc/wasm"} {
		path := filepath.Join(goroot, dir, "wasm_exec.js")
		if exists, err := misc.CheckFileExists(path); err != nil {
			return err
		} else if exists {
			wasmExec = path
			break
		}
	}
	if wasmExec == "" {
		return fmt.Errorf("couldn't find wasm_exec.js in %s", goroot)
	}

	dst := filepath.Join(WebBuildDir, "wasm_exec.js")
	if NeedToBuild([]string{dst}, []string{wasmExec}) {
		misc.InfoLogger.Printf("copying %s to %s", wasmExec, dst)
		if err := misc.CopyFile(wasmExec, dst, 0664); err != nil {
			return err
		}
	}

	indexPath := filepath.Join(WebBuildDir, "index.html")
	if exists, err := misc.CheckFileExists(indexPath); err != nil {
		return err
	} else if !exists {
		misc.InfoLogger.Printf("writing %s", indexPath)
		if err := os.WriteFile(indexPath, []byte(indexHTML), 0664); err != nil {
			return err
		}
	}

	return nil
}

func NeedToBuild(targets []string, srcs []string) bool {
	// if any of the targets don't exist,
	// we definitely need to build it
	for _, target := range targets {
		if exists, err := misc.CheckFileExists(target); err != nil {
			misc.ErrLogger.Fatalf("failed to check if %s exists: %v", target, err)
		} else if !exists {
			return true
		}
	}

	var srcNewest time.Time
	var targetOldest time.Time

	var srcNewestSet bool = false
	var targetOldestSet bool = false

	for _, src := range srcs {
		info, err := os.Stat(src)
		if err != nil {
			misc.ErrLogger.Fatalf("failed to check mod time of %s: %v", src, err)
		}
		modTime := info.ModTime()

		if !srcNewestSet {
			srcNewest = modTime
			srcNewestSet = true
		} else if srcNewest.Compare(modTime) < 0 {
			srcNewest = modTime
		}
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			misc.ErrLogger.Fatalf("failed to check mod time of %s: %v", target, err)
		}
		modTime := info.ModTime()

		if !targetOldestSet {
			targetOldest = modTime
			targetOldestSet = true
		} else if targetOldest.Compare(modTime) > 0 {
			targetOldest = modTime
		}
	}

	return srcNewest.Compare(targetOldest) > 0
}
