package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Well-known init parameter names. They mirror the keys under the "viewx"
// section of application.yml.
const (
	ParamMapping       = "viewx.mapping"
	ParamDefaultSuffix = "viewx.suffix"
	ParamContextPath   = "viewx.context-path"
	ParamDefaultLocale = "viewx.locale"
)

// DefaultSuffix is the view suffix applied by NormalizeViewID when no
// ParamDefaultSuffix init parameter is configured.
const DefaultSuffix = ".html"

const (
	cfgName     = "application"
	testCfgName = "application_test"
)

var (
	cfg     *viper.Viper
	once    sync.Once
	defApp  *App
	defOnce sync.Once
)

// App is the application scope: the init-parameter map plus the navigation
// rules shared by every request. It is immutable after construction and safe
// for concurrent use.
type App struct {
	params map[string]string
	rules  map[string]string
}

// Option configures an App during construction.
type Option func(*App)

// WithParam sets a single init parameter.
func WithParam(name, value string) Option {
	return func(a *App) {
		lo.Assert(name != "", "viewx: init parameter name must not be empty")
		a.params[name] = value
	}
}

// WithContextPath sets the context path init parameter. The path must be
// empty or start with '/'.
func WithContextPath(path string) Option {
	return func(a *App) {
		lo.Assertf(path == "" || strings.HasPrefix(path, "/"),
			"viewx: context path '%s' must start with '/'", path)
		a.params[ParamContextPath] = path
	}
}

// WithMapping sets the view mapping init parameter: a leading '/' makes it a
// prefix mapping (e.g. "/ui"), otherwise it is a suffix mapping (e.g. ".html").
func WithMapping(mapping string) Option {
	return func(a *App) {
		lo.Assert(mapping != "", "viewx: mapping must not be empty")
		a.params[ParamMapping] = mapping
	}
}

// WithNavigationRule registers an outcome to target rule. A target prefixed
// with "redirect:" navigates with an HTTP redirect instead of a view switch.
func WithNavigationRule(outcome, target string) Option {
	return func(a *App) {
		lo.Assert(outcome != "", "viewx: navigation outcome must not be empty")
		lo.Assert(target != "", "viewx: navigation target must not be empty")
		a.rules[outcome] = target
	}
}

// New builds an App from the given options only, without touching
// application.yml. Adaptors and tests use this for programmatic setup.
func New(opts ...Option) *App {
	a := &App{params: map[string]string{}, rules: map[string]string{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Default returns the process-wide App loaded from application.yml. Missing
// config is not an error; an empty App with built-in defaults is returned.
func Default() *App {
	defOnce.Do(func() {
		defApp = Load()
	})
	return defApp
}

// Load builds an App from the "viewx" section of application.yml. Scalar
// entries become init parameters (qualified as "viewx.<key>"); the
// "viewx.navigation" map becomes the navigation rules.
func Load() *App {
	a := New()
	result := Config()
	if result.IsError() {
		return a
	}
	sub := result.MustGet().Sub("viewx")
	if sub == nil {
		return a
	}
	for _, key := range sub.AllKeys() {
		if strings.HasPrefix(key, "navigation.") {
			a.rules[strings.TrimPrefix(key, "navigation.")] = sub.GetString(key)
			continue
		}
		a.params["viewx."+key] = sub.GetString(key)
	}
	return a
}

// InitParameterMap returns a copy of the init-parameter map.
func (a *App) InitParameterMap() map[string]string {
	out := make(map[string]string, len(a.params))
	for k, v := range a.params {
		out[k] = v
	}
	return out
}

// InitParameter returns the init parameter for the given name.
func (a *App) InitParameter(name string) mo.Option[string] {
	v, ok := a.params[name]
	return lo.Ternary(ok, mo.Some(v), mo.None[string]())
}

// ContextPath returns the configured context path, or "" when the
// application is mounted at the server root.
func (a *App) ContextPath() string {
	return a.params[ParamContextPath]
}

// Mapping returns the configured view mapping, or "" when the mapping is to
// be derived from the request.
func (a *App) Mapping() string {
	return a.params[ParamMapping]
}

// DefaultViewSuffix returns the suffix NormalizeViewID substitutes for a
// suffix mapping.
func (a *App) DefaultViewSuffix() string {
	return a.InitParameter(ParamDefaultSuffix).OrElse(DefaultSuffix)
}

// NavigationRule returns the navigation target registered for the outcome.
func (a *App) NavigationRule(outcome string) mo.Option[string] {
	v, ok := a.rules[outcome]
	return lo.Ternary(ok, mo.Some(v), mo.None[string]())
}

// Config loads the raw application configuration.
//
// Rules:
//  1. If the current process is running `go test`, application_test.yml is
//     preferred when present.
//  2. Otherwise application.yml is used.
//  3. Both the project root (nearest parent with a go.mod) and the current
//     working directory are searched, each with its "config" subdirectory.
func Config() mo.Result[*viper.Viper] {
	once.Do(func() {
		cfg, _ = loadViper(false)
	})
	return lo.If(cfg == nil, mo.Err[*viper.Viper](fmt.Errorf("can not find %s.yml", cfgName))).Else(mo.Ok(cfg))
}

func loadViper(required bool) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	addConfigPaths(v)

	// Prefer the test config when one exists near the caller; it keeps test
	// runs from picking up a deployment application.yml.
	cwd, _ := os.Getwd()
	tryRead := func(cand string) bool {
		if _, err := os.Stat(cand); err == nil {
			v.SetConfigFile(cand)
			return v.ReadInConfig() == nil
		}
		return false
	}
	roots := []string{cwd}
	if root, ok := findProjectRoot(cwd); ok {
		roots = append([]string{root}, roots...)
	}
	for _, root := range roots {
		for _, ext := range []string{".yml", ".yaml"} {
			if tryRead(filepath.Join(root, testCfgName+ext)) ||
				tryRead(filepath.Join(root, "config", testCfgName+ext)) {
				return v, nil
			}
		}
	}

	v.SetConfigName(cfgName)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !required && errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read %s: %w", cfgName, err)
	}
	return v, nil
}

// addConfigPaths registers the search paths. Viper resolves relative paths
// against the current working directory, which varies between IDE runs,
// `go test` in package directories, and deployed binaries; searching both
// the module root and the CWD keeps discovery stable across all of them.
func addConfigPaths(v *viper.Viper) {
	cwd, err := os.Getwd()
	if err != nil {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		return
	}
	if root, ok := findProjectRoot(cwd); ok {
		v.AddConfigPath(root)
		v.AddConfigPath(filepath.Join(root, "config"))
	}
	v.AddConfigPath(cwd)
	v.AddConfigPath(filepath.Join(cwd, "config"))
}

// findProjectRoot walks upward from start until it finds a directory
// containing a go.mod. The existence check is sufficient; the file is never
// parsed.
func findProjectRoot(start string) (string, bool) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
