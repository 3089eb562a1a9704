// Package presets holds the transpiler preset tables used by the script rule.
// Each call returns fresh values so callers may modify the result.
package presets

// Browsers is the browser target list shared by the transpiler and autoprefixer.
func Browsers() []string {
	return []string{"> 1%", "IE >= 9", "last 2 versions"}
}

// Entry is a single preset or plugin reference with its options.
type Entry struct {
	Name    string         `json:"name" yaml:"name"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Preset is the transpiler configuration handed to the script loader.
type Preset struct {
	Presets []Entry `json:"presets" yaml:"presets"`
	Plugins []Entry `json:"plugins" yaml:"plugins"`
}

// JSX pragmas for the two UI library profiles.
const (
	PragmaPreact = "h"
	PragmaReact  = "createElement"
	FragPreact   = "Fragment"

	JSXPlugin       = "@babel/plugin-transform-react-jsx"
	RemovePropTypes = "transform-react-remove-prop-types"
)

// Base returns the preset shared by both UI library profiles.
func Base() Preset {
	return Preset{
		Presets: []Entry{
			{Name: "@babel/preset-env", Options: map[string]any{
				"targets": map[string]any{"browsers": Browsers()},
				"exclude": []string{"@babel/plugin-transform-regenerator"},
			}},
		},
		Plugins: []Entry{
			{Name: "babel-plugin-import", Options: map[string]any{"libraryName": "antd"}},
			{Name: "@babel/plugin-proposal-class-properties"},
			{Name: "@babel/plugin-proposal-object-rest-spread"},
			{Name: "@babel/plugin-proposal-optional-chaining", Options: map[string]any{"loose": true}},
			{Name: "@babel/plugin-transform-react-constant-elements"},
			{Name: "@babel/plugin-proposal-export-default-from"},
			{Name: "@babel/plugin-proposal-export-namespace-from"},
			{Name: "@babel/plugin-proposal-function-bind"},
			{Name: "@babel/plugin-syntax-dynamic-import"},
		},
	}
}

// Preact returns Base with the h/Fragment JSX pragma.
func Preact() Preset {
	p := Base()
	p.Plugins = append(p.Plugins, Entry{Name: JSXPlugin, Options: map[string]any{
		"pragma":     PragmaPreact,
		"pragmaFrag": FragPreact,
	}})
	return p
}

// React returns Base with the createElement JSX pragma.
func React() Preset {
	p := Base()
	p.Plugins = append(p.Plugins, Entry{Name: JSXPlugin, Options: map[string]any{
		"pragma": PragmaReact,
	}})
	return p
}

// ForRelease appends the release-only plugins, stripping development-only
// prop-type assertions.
func ForRelease(p Preset) Preset {
	p.Plugins = append(p.Plugins, Entry{Name: RemovePropTypes})
	return p
}

// Babel renders p as script loader options in the transpiler's own shape, where
// each preset or plugin is a [name] or [name, options] tuple.
func (p Preset) Babel() map[string]any {
	return map[string]any{
		"babelrc": false,
		"presets": tuples(p.Presets),
		"plugins": tuples(p.Plugins),
	}
}

// ParseBabel reverses Babel. Entries it cannot read are skipped.
func ParseBabel(options map[string]any) Preset {
	return Preset{
		Presets: entries(options["presets"]),
		Plugins: entries(options["plugins"]),
	}
}

func tuples(list []Entry) []any {
	out := make([]any, 0, len(list))
	for _, e := range list {
		if e.Options == nil {
			out = append(out, []any{e.Name})
			continue
		}
		out = append(out, []any{e.Name, e.Options})
	}
	return out
}

func entries(v any) []Entry {
	list, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]Entry, 0, len(list))
	for _, item := range list {
		switch t := item.(type) {
		case string:
			out = append(out, Entry{Name: t})
		case []any:
			if len(t) == 0 {
				continue
			}
			name, ok := t[0].(string)
			if !ok {
				continue
			}
			e := Entry{Name: name}
			if len(t) > 1 {
				e.Options, _ = t[1].(map[string]any)
			}
			out = append(out, e)
		}
	}
	return out
}

// Pragma returns the JSX factory and fragment configured on p, if any.
func (p Preset) Pragma() (factory, fragment string) {
	for _, e := range p.Plugins {
		if e.Name != JSXPlugin {
			continue
		}
		factory, _ = e.Options["pragma"].(string)
		fragment, _ = e.Options["pragmaFrag"].(string)
		return factory, fragment
	}
	return "", ""
}
