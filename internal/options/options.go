// Package options turns a loosely typed option mapping, as supplied by a build
// script, CLI flags or an options file, into a fully defaulted Options value.
package options

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Option keys recognized by Normalize.
const (
	KeyDirectory             = "directory"
	KeyIsProduction          = "isProduction"
	KeyUseAlternateUILibrary = "useAlternateUiLibrary"
	KeyLocales               = "locales"
	KeyPublicPathPrefix      = "publicPathPrefix"
	KeyTitle                 = "title"
	KeyInlineStyles          = "inlineStyles"
	KeyInlineScripts         = "inlineScripts"
	KeyAnalyzeBundle         = "analyzeBundle"
	KeyMinimize              = "minimize"
	KeyEnableVendorSplitting = "enableVendorSplitting"
	KeyPort                  = "port"
	KeyCustomTemplatePath    = "customTemplatePath"
	KeyCustomOverridePath    = "customConfigOverridePath"
	KeyOutputDirectory       = "outputDirectory"
	KeyPreload               = "preload"
	KeyShimDirectory         = "shimDirectory"
)

const (
	DefaultPort     = 8000
	DefaultHost     = "0.0.0.0"
	OverrideFile    = "buildplan.override"
	defaultShimPath = "node_modules/buildplan/lib"
)

// Options is the normalized option set. Release is resolved once during
// normalization and never changes afterwards.
type Options struct {
	Directory             string            `json:"directory" yaml:"directory"`
	Release               bool              `json:"isProduction" yaml:"isProduction"`
	UseAlternateUILibrary bool              `json:"useAlternateUiLibrary" yaml:"useAlternateUiLibrary"`
	Locales               []string          `json:"locales" yaml:"locales"`
	PublicPathPrefix      string            `json:"publicPathPrefix" yaml:"publicPathPrefix"`
	Title                 string            `json:"title" yaml:"title"`
	InlineStyles          bool              `json:"inlineStyles" yaml:"inlineStyles"`
	InlineScripts         bool              `json:"inlineScripts" yaml:"inlineScripts"`
	AnalyzeBundle         bool              `json:"analyzeBundle" yaml:"analyzeBundle"`
	Minimize              bool              `json:"minimize" yaml:"minimize"`
	EnableVendorSplitting bool              `json:"enableVendorSplitting" yaml:"enableVendorSplitting"`
	Port                  int               `json:"port" yaml:"port"`
	Host                  string            `json:"host" yaml:"host"`
	CustomTemplatePath    string            `json:"customTemplatePath,omitempty" yaml:"customTemplatePath,omitempty"`
	OverridePath          string            `json:"customConfigOverridePath" yaml:"customConfigOverridePath"`
	OutputDirectory       string            `json:"outputDirectory" yaml:"outputDirectory"`
	Preload               bool              `json:"preload" yaml:"preload"`
	ShimDirectory         string            `json:"shimDirectory" yaml:"shimDirectory"`
	EnvVars               map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	// Extra carries unrecognized keys through to the override hook
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Normalize applies defaults and type coercion to raw. Unknown keys are kept in
// Extra. A missing directory fails before anything else is looked at.
func Normalize(raw map[string]any, env Environment) (Options, error) {
	dir, err := stringValue(raw, KeyDirectory)
	if err != nil {
		return Options{}, err
	}
	if strings.TrimSpace(dir) == "" {
		return Options{}, ErrMissingDirectory
	}

	opts := Options{
		Directory: filepath.Clean(dir),
		Release:   boolValue(raw, KeyIsProduction, env.Release),
		Host:      cond(env.Host != "", env.Host, DefaultHost),
		EnvVars:   map[string]string{},
		Extra:     map[string]any{},
	}

	opts.UseAlternateUILibrary = boolValue(raw, KeyUseAlternateUILibrary, false)
	opts.InlineStyles = boolValue(raw, KeyInlineStyles, false)
	opts.InlineScripts = boolValue(raw, KeyInlineScripts, false)
	opts.AnalyzeBundle = boolValue(raw, KeyAnalyzeBundle, false)
	opts.Minimize = boolValue(raw, KeyMinimize, opts.Release)
	opts.EnableVendorSplitting = boolValue(raw, KeyEnableVendorSplitting, true)
	opts.Preload = boolValue(raw, KeyPreload, true)

	if opts.Locales, err = localesValue(raw); err != nil {
		return Options{}, err
	}

	if _, ok := present(raw, KeyPublicPathPrefix); ok {
		if opts.PublicPathPrefix, err = stringValue(raw, KeyPublicPathPrefix); err != nil {
			return Options{}, err
		}
	} else {
		opts.PublicPathPrefix = cond(opts.Release, "", "/")
	}

	if opts.Title, err = stringValue(raw, KeyTitle); err != nil {
		return Options{}, err
	}

	if opts.Port, err = portValue(raw, cond(env.Port > 0, env.Port, DefaultPort)); err != nil {
		return Options{}, err
	}

	if opts.CustomTemplatePath, err = pathValue(raw, KeyCustomTemplatePath, opts.Directory, ""); err != nil {
		return Options{}, err
	}
	if opts.OverridePath, err = pathValue(raw, KeyCustomOverridePath, opts.Directory, OverrideFile); err != nil {
		return Options{}, err
	}
	if opts.OutputDirectory, err = pathValue(raw, KeyOutputDirectory, opts.Directory, "build"); err != nil {
		return Options{}, err
	}
	if opts.ShimDirectory, err = pathValue(raw, KeyShimDirectory, opts.Directory, defaultShimPath); err != nil {
		return Options{}, err
	}

	for k, v := range env.Vars {
		opts.EnvVars[k] = v
	}

	for k, v := range raw {
		if !known[k] {
			opts.Extra[k] = v
		}
	}

	return opts, nil
}

// ParseBool coerces a loosely typed flag. Booleans and the strings "true" and
// "false" map as expected; nil is absent; any other value is truthy.
func ParseBool(v any, fallback bool) bool {
	switch b := v.(type) {
	case nil:
		return fallback
	case bool:
		return b
	case string:
		switch b {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return true
}

var known = map[string]bool{
	KeyDirectory:             true,
	KeyIsProduction:          true,
	KeyUseAlternateUILibrary: true,
	KeyLocales:               true,
	KeyPublicPathPrefix:      true,
	KeyTitle:                 true,
	KeyInlineStyles:          true,
	KeyInlineScripts:         true,
	KeyAnalyzeBundle:         true,
	KeyMinimize:              true,
	KeyEnableVendorSplitting: true,
	KeyPort:                  true,
	KeyCustomTemplatePath:    true,
	KeyCustomOverridePath:    true,
	KeyOutputDirectory:       true,
	KeyPreload:               true,
	KeyShimDirectory:         true,
}

func present(raw map[string]any, key string) (any, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func boolValue(raw map[string]any, key string, fallback bool) bool {
	v, _ := present(raw, key)
	return ParseBool(v, fallback)
}

func stringValue(raw map[string]any, key string) (string, error) {
	v, ok := present(raw, key)
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidOption, key, v)
	}
	return s, nil
}

// pathValue resolves a path option against the project directory, falling back
// to def (also relative to dir) when unset. An empty def means no default.
func pathValue(raw map[string]any, key, dir, def string) (string, error) {
	p, err := stringValue(raw, key)
	if err != nil {
		return "", err
	}
	if p == "" {
		if def == "" {
			return "", nil
		}
		p = def
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return filepath.Join(dir, p), nil
}

func portValue(raw map[string]any, fallback int) (int, error) {
	v, ok := present(raw, KeyPort)
	if !ok {
		return fallback, nil
	}

	var port int
	switch p := v.(type) {
	case int:
		port = p
	case int64:
		port = int(p)
	case float64:
		if p != math.Trunc(p) {
			return 0, fmt.Errorf("%w: port must be an integer, got %v", ErrInvalidOption, p)
		}
		port = int(p)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, fmt.Errorf("%w: port %q is not a number", ErrInvalidOption, p)
		}
		port = n
	default:
		return 0, fmt.Errorf("%w: port must be an integer, got %T", ErrInvalidOption, v)
	}

	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("%w: port %d out of range", ErrInvalidOption, port)
	}
	return port, nil
}

// localesValue keeps the caller's order. Trimming happens at fan-out.
func localesValue(raw map[string]any) ([]string, error) {
	v, ok := present(raw, KeyLocales)
	if !ok {
		return nil, nil
	}

	switch l := v.(type) {
	case []string:
		return append([]string(nil), l...), nil
	case []any:
		locales := make([]string, 0, len(l))
		for _, item := range l {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: locales must contain strings, got %T", ErrInvalidOption, item)
			}
			locales = append(locales, s)
		}
		return locales, nil
	case string:
		if strings.TrimSpace(l) == "" {
			return nil, nil
		}
		return strings.Split(l, ","), nil
	default:
		return nil, fmt.Errorf("%w: locales must be a list, got %T", ErrInvalidOption, v)
	}
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
