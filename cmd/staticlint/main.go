// Command staticlint runs the project's static checks: a set of standard
// go/analysis passes, ineffassign, nilerr, the project-specific noexit
// analyzer and a selectable subset of staticcheck.
//
// The staticcheck subset is read from a JSON file, config.json next to the
// binary unless STATICLINT_CONFIG points elsewhere:
//
//	{"Staticcheck": ["SA1000", "SA4010"]}
//
// Without a config file every SA analyzer is enabled.
package main

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/staticcheck"

	"github.com/patric-chuzhbe/namecheck/cmd/staticlint/noexit"
)

const defaultConfigName = `config.json`

// ConfigData describes the structure of the configuration file.
type ConfigData struct {
	Staticcheck []string
}

func configPath() (string, error) {
	if path := os.Getenv("STATICLINT_CONFIG"); path != "" {
		return path, nil
	}
	appfile, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(appfile), defaultConfigName), nil
}

func loadConfig() (*ConfigData, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg ConfigData
	if err = json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func selectStaticcheck(cfg *ConfigData) []*analysis.Analyzer {
	enabled := make(map[string]bool)
	if cfg != nil {
		for _, name := range cfg.Staticcheck {
			enabled[name] = true
		}
	}

	var result []*analysis.Analyzer
	for _, v := range staticcheck.Analyzers {
		name := v.Analyzer.Name
		if enabled[name] || (cfg == nil && strings.HasPrefix(name, "SA")) {
			result = append(result, v.Analyzer)
		}
	}
	return result
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	myChecks := []*analysis.Analyzer{
		copylock.Analyzer,
		errorsas.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		printf.Analyzer,
		structtag.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,

		ineffassign.Analyzer,
		nilerr.Analyzer,

		noexit.Analyzer,
	}
	myChecks = append(myChecks, selectStaticcheck(cfg)...)

	multichecker.Main(myChecks...)
}
