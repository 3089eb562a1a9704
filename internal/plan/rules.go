package plan

import (
	"github.com/wolfeidau/buildplan/internal/options"
	"github.com/wolfeidau/buildplan/internal/presets"
)

// File patterns matched by each rule.
const (
	ScopedStylePattern = `\.module\.(css|scss)$`
	StylePattern       = `\.(css|scss)$`
	ScriptPattern      = `\.jsx?$`
	TextPattern        = `\.(xml|html|txt|md)$`
	AssetPattern       = `\.(svg|woff2?|ttf|eot|jpe?g|png|gif|mp4|mov|ogg|webm|cur)(\?.*)?$`

	extractLoader = "mini-css-extract-plugin/loader"
)

// rules returns the module rules in category order: styles, scripts, text, assets.
func rules(opts options.Options, ui uiAdapter, found layout) []Rule {
	return []Rule{
		{
			Category: CategoryStyles,
			Test:     ScopedStylePattern,
			Use:      styleLoaders(opts, found, true),
		},
		{
			Category: CategoryStyles,
			Test:     StylePattern,
			Exclude:  ScopedStylePattern,
			Use:      styleLoaders(opts, found, false),
		},
		{
			Category: CategoryScripts,
			Test:     ScriptPattern,
			Exclude:  "node_modules",
			Use:      []Loader{{Loader: "babel-loader", Options: scriptPreset(opts, ui).Babel()}},
		},
		{
			Category: CategoryText,
			Test:     TextPattern,
			Use:      []Loader{{Loader: "raw-loader"}},
		},
		{
			Category: CategoryAssets,
			Test:     AssetPattern,
			Use: []Loader{{Loader: "file-loader", Options: map[string]any{
				"name":       cond(opts.Release, "[name].[contenthash].[ext]", "[name].[ext]"),
				"outputPath": assetsDir,
				"publicPath": opts.PublicPathPrefix + assetsDir + "/",
			}}},
		},
	}
}

func scriptPreset(opts options.Options, ui uiAdapter) presets.Preset {
	if opts.Release {
		return presets.ForRelease(ui.preset)
	}
	return ui.preset
}

// styleLoaders builds the chain for one stylesheet variant. Scoped files get
// per-class identifiers generated, the rest keep their class names.
func styleLoaders(opts options.Options, found layout, scoped bool) []Loader {
	var modules any = false
	if scoped {
		modules = map[string]any{
			"localIdentName": cond(opts.Release, "[hash:base64:5]", "[local]__[hash:base64:5]"),
		}
	}

	return []Loader{
		{Loader: cond(opts.Release, extractLoader, "style-loader")},
		{Loader: "css-loader", Options: map[string]any{
			"modules":       modules,
			"importLoaders": 3,
			"sourceMap":     !opts.Release,
		}},
		{Loader: "resolve-url-loader"},
		{Loader: "postcss-loader", Options: postcssOptions(found)},
		{Loader: "sass-loader", Options: map[string]any{"sourceMap": true}},
	}
}

// postcssOptions points at the project's postcss config when there is one and
// falls back to autoprefixer with the shared browser list.
func postcssOptions(found layout) map[string]any {
	if found.postcssConfig != "" {
		return map[string]any{
			"sourceMap":      true,
			"postcssOptions": map[string]any{"config": found.postcssConfig},
		}
	}
	return map[string]any{
		"sourceMap": true,
		"postcssOptions": map[string]any{
			"plugins": []any{
				[]any{"autoprefixer", map[string]any{"overrideBrowserslist": presets.Browsers()}},
			},
		},
	}
}
