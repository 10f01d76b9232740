package voiceorb

import (
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type buildTarget struct {
	GOOS   string
	GOARCH string
}

var platformTargets = []buildTarget{
	{"js", "wasm"},
	{"linux", "amd64"},
	{"windows", "amd64"},
	{"darwin", "arm64"},
}

func targetContext(target buildTarget) build.Context {
	ctx := build.Default
	ctx.GOOS = target.GOOS
	ctx.GOARCH = target.GOARCH
	ctx.CgoEnabled = false
	return ctx
}

func parseTargetFiles(t *testing.T, ctx build.Context, dir string) []*ast.File {
	t.Helper()

	pkg, err := ctx.ImportDir(dir, 0)
	require.NoError(t, err, "%s for %s/%s", dir, ctx.GOOS, ctx.GOARCH)

	fset := token.NewFileSet()
	var files []*ast.File
	for _, name := range pkg.GoFiles {
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.SkipObjectResolution)
		require.NoError(t, err, name)
		files = append(files, file)
	}
	return files
}

func exportedDecls(files []*ast.File) map[string]bool {
	decls := make(map[string]bool)

	for _, file := range files {
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.FuncDecl:
				if decl.Recv == nil {
					decls[decl.Name.Name] = true
				}
			case *ast.GenDecl:
				for _, spec := range decl.Specs {
					switch spec := spec.(type) {
					case *ast.TypeSpec:
						decls[spec.Name.Name] = true
					case *ast.ValueSpec:
						for _, name := range spec.Names {
							decls[name.Name] = true
						}
					}
				}
			}
		}
	}
	return decls
}

// sessionRefs returns every session.X the file refers to.
func sessionRefs(file *ast.File) []string {
	local := ""
	for _, imp := range file.Imports {
		path, _ := strconv.Unquote(imp.Path.Value)
		if path != "voiceorb/session" {
			continue
		}
		local = "session"
		if imp.Name != nil {
			local = imp.Name.Name
		}
	}
	if local == "" {
		return nil
	}

	var refs []string
	ast.Inspect(file, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if ident, ok := sel.X.(*ast.Ident); ok && ident.Name == local {
			refs = append(refs, sel.Sel.Name)
		}
		return true
	})
	return refs
}

func TestSessionDeclaredForEveryTarget(t *testing.T) {
	for _, target := range platformTargets {
		ctx := targetContext(target)

		declared := exportedDecls(parseTargetFiles(t, ctx, "session"))

		for _, dir := range []string{".", "relay"} {
			for _, file := range parseTargetFiles(t, ctx, dir) {
				for _, ref := range sessionRefs(file) {
					assert.True(t, declared[ref],
						"session.%s is not declared for %s/%s", ref, target.GOOS, target.GOARCH)
				}
			}
		}
	}
}

func TestStateSourcesForWeb(t *testing.T) {
	ctx := targetContext(buildTarget{"js", "wasm"})
	declared := exportedDecls(parseTargetFiles(t, ctx, "session"))

	assert.True(t, declared["NewWSSource"])
	assert.True(t, declared["NewBridgeSource"])
	assert.True(t, declared["WSSource"])
}
