// Package noexit provides an analyzer that keeps process termination in
// main.main. Library code reports failures as errors instead of killing the
// process, so handlers can turn them into responses.
package noexit

import (
	"go/ast"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/types/typeutil"
)

// Analyzer reports calls to os.Exit and log.Fatal* made anywhere but in
// main.main.
var Analyzer = &analysis.Analyzer{
	Name: "noexit",
	Doc:  "reports os.Exit and log.Fatal calls outside main.main",
	Run:  run,
}

var terminating = map[string]map[string]bool{
	"os":  {"Exit": true},
	"log": {"Fatal": true, "Fatalf": true, "Fatalln": true},
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		// Exclude go-build cache files
		filename := pass.Fset.File(file.Pos()).Name()
		if isGoBuildCacheFile(filename) {
			continue
		}

		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Body == nil {
				continue
			}
			if pass.Pkg.Name() == "main" && fn.Name.Name == "main" && fn.Recv == nil {
				continue
			}

			ast.Inspect(fn.Body, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}

				callee, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
				if !ok || callee.Pkg() == nil {
					return true
				}

				if terminating[callee.Pkg().Path()][callee.Name()] {
					pass.Reportf(
						call.Pos(),
						"%s.%s terminates the process; return an error instead",
						callee.Pkg().Name(),
						callee.Name(),
					)
				}

				return true
			})
		}
	}
	return nil, nil
}

func isGoBuildCacheFile(path string) bool {
	path = filepath.ToSlash(path)
	return strings.Contains(path, "/go-build/")
}
