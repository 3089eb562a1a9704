package plan

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wolfeidau/buildplan/internal/options"
)

// Plugin names emitted into plans.
const (
	PluginNoEmitOnErrors      = "NoEmitOnErrorsPlugin"
	PluginCSSExtract          = "MiniCssExtractPlugin"
	PluginProvide             = "ProvidePlugin"
	PluginHTML                = "HtmlWebpackPlugin"
	PluginHTMLExcludeAssets   = "HtmlWebpackExcludeAssetsPlugin"
	PluginDefine              = "DefinePlugin"
	PluginStatsWriter         = "StatsWriterPlugin"
	PluginI18n                = "I18nPlugin"
	PluginNamedModules        = "NamedModulesPlugin"
	PluginHelperErrorGuard    = "HelperErrorGuardPlugin"
	PluginBundleAnalyzer      = "BundleAnalyzerPlugin"
	PluginHTMLInlineSource    = "HtmlWebpackInlineSourcePlugin"
	PluginPreload             = "PreloadWebpackPlugin"
	PluginCopy                = "CopyWebpackPlugin"
	PluginMakeDir             = "MakeDirWebpackPlugin"
)

const defaultTemplate = "template.ejs"

func plugins(opts options.Options, ui uiAdapter, found layout, locale string, dict map[string]any) []Plugin {
	list := []Plugin{
		{Name: PluginNoEmitOnErrors},
		{Name: PluginCSSExtract, Options: map[string]any{
			"filename":      versioned("style", ".css", "[contenthash:5]", opts.Release, locale),
			"chunkFilename": versioned("[id]", ".css", "[contenthash:5]", opts.Release, locale),
		}},
		{Name: PluginProvide, Options: ui.globals},
		{Name: PluginHTML, Options: htmlOptions(opts, found, locale)},
		{Name: PluginHTMLExcludeAssets},
		{Name: PluginDefine, Options: defines(opts)},
		{Name: PluginStatsWriter, Options: map[string]any{
			"filename": localized("stats", ".json", locale),
			"fields":   []string{"assetsByChunkName", "assets"},
		}},
		{Name: PluginI18n, Options: map[string]any{
			"locale":     cond(locale != "", locale, BaseLocale),
			"dictionary": dict,
		}},
	}

	if !opts.Release {
		return append(list,
			Plugin{Name: PluginNamedModules},
			helperErrorGuard(),
		)
	}

	if opts.AnalyzeBundle {
		list = append(list, Plugin{Name: PluginBundleAnalyzer, Options: map[string]any{
			"analyzerMode":   "static",
			"openAnalyzer":   false,
			"reportFilename": localized("report", ".html", locale),
		}})
	}

	if opts.InlineStyles || opts.InlineScripts {
		list = append(list, Plugin{Name: PluginHTMLInlineSource})
	}

	if opts.Preload {
		list = append(list, Plugin{Name: PluginPreload, Options: map[string]any{
			"rel":     "preload",
			"include": "initial",
		}})
	}

	outAssets := filepath.Join(opts.OutputDirectory, assetsDir)
	if found.assets {
		list = append(list, Plugin{Name: PluginCopy, Options: map[string]any{
			"patterns": []any{map[string]any{
				"from": filepath.Join(opts.Directory, "src", assetsDir),
				"to":   outAssets,
			}},
		}})
	} else {
		list = append(list, Plugin{Name: PluginMakeDir, Options: map[string]any{
			"dirs": []any{map[string]any{"path": outAssets}},
		}})
	}

	return list
}

// helperErrorGuard keeps the development server alive when a transpiler runtime
// helper throws on a recoverable condition: the throw is reported as a warning
// instead of failing the compilation. Release builds never carry it.
func helperErrorGuard() Plugin {
	return Plugin{Name: PluginHelperErrorGuard, Options: map[string]any{
		"module": "@babel/runtime/helpers",
		"action": "warn",
	}}
}

func htmlOptions(opts options.Options, found layout, locale string) map[string]any {
	template := opts.CustomTemplatePath
	if template == "" {
		template = filepath.Join(opts.ShimDirectory, defaultTemplate)
	}

	exclude := []string{`\.map$`}
	if found.polyfills {
		// polyfills are loaded on demand by the shell template
		exclude = append(exclude, `polyfills.*\.js$`)
	}

	html := map[string]any{
		"title":         decodeTitle(opts.Title),
		"template":      template,
		"filename":      cond(opts.Release, localized("index", ".html", locale), "index.html"),
		"inject":        true,
		"excludeAssets": exclude,
	}

	if locale != "" {
		html["locale"] = locale
	}

	if inline := inlinePattern(opts); inline != "" {
		html["inlineSource"] = inline
	}

	if opts.Release {
		html["minify"] = map[string]any{
			"collapseWhitespace":            true,
			"removeScriptTypeAttributes":    true,
			"removeRedundantAttributes":     true,
			"removeStyleLinkTypeAttributes": true,
			"removeComments":                true,
		}
	}

	return html
}

func inlinePattern(opts options.Options) string {
	switch {
	case opts.InlineStyles && opts.InlineScripts:
		return `\.(js|css)$`
	case opts.InlineStyles:
		return `\.css$`
	case opts.InlineScripts:
		return `\.js$`
	}
	return ""
}

// defines maps compile-time constants to source expressions. Only variables
// captured under the forward prefix reach the bundle.
func defines(opts options.Options) map[string]any {
	d := map[string]any{
		"PRODUCTION":           strconv.FormatBool(opts.Release),
		"process.env.NODE_ENV": quote(cond(opts.Release, ModeProduction, ModeDevelopment)),
	}

	for k, v := range opts.EnvVars {
		if !strings.HasPrefix(k, options.ForwardPrefix) {
			continue
		}
		d["process.env."+k] = quote(v)
	}
	return d
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
