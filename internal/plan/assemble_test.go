package plan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/buildplan/internal/presets"
)

func single(t *testing.T, raw map[string]any) Plan {
	t.Helper()

	res, err := Generate(normalize(t, raw))
	require.NoError(t, err)
	p, ok := res.Plan()
	require.True(t, ok)
	return p
}

func TestAssemble_UIAdapter(t *testing.T) {
	dir := newProject(t, nil, nil)
	shims := filepath.Join(dir, "node_modules", "buildplan", "lib")

	t.Run("default aliases react onto preact", func(t *testing.T) {
		p := single(t, map[string]any{"directory": dir})

		assert.Equal(t, map[string]string{
			"asyncComponent":     filepath.Join(shims, "preactAsyncComponent"),
			"preact$":            filepath.Join(dir, "node_modules", "preact"),
			"react":              "preact-compat",
			"react-dom":          "preact-compat",
			"create-react-class": "preact-compat/lib/create-react-class",
		}, p.Resolve.Alias)

		factory, fragment := presets.ParseBabel(p.Rules(CategoryScripts)[0].Use[0].Options).Pragma()
		assert.Equal(t, "h", factory)
		assert.Equal(t, "Fragment", fragment)

		provide, _ := p.Plugin(PluginProvide)
		assert.Contains(t, provide.Options, "h")
	})

	t.Run("release uses the minified preact build", func(t *testing.T) {
		p := single(t, map[string]any{"directory": dir, "isProduction": true})
		assert.Equal(t, filepath.Join(dir, "node_modules", "preact", "dist", "preact.min.js"), p.Resolve.Alias["preact$"])
	})

	t.Run("alternate library leaves react imports alone", func(t *testing.T) {
		p := single(t, map[string]any{"directory": dir, "useAlternateUiLibrary": "true"})

		assert.Equal(t, map[string]string{
			"asyncComponent": filepath.Join(shims, "reactAsyncComponent"),
		}, p.Resolve.Alias)

		factory, _ := presets.ParseBabel(p.Rules(CategoryScripts)[0].Use[0].Options).Pragma()
		assert.Equal(t, "createElement", factory)

		provide, _ := p.Plugin(PluginProvide)
		assert.Contains(t, provide.Options, "React")
	})

	t.Run("loader aliases", func(t *testing.T) {
		p := single(t, map[string]any{"directory": dir})
		assert.Equal(t, filepath.Join(shims, "asyncComponentLoader"), p.ResolveLoader.Alias["async"])
		assert.Equal(t, filepath.Join(shims, "optimizeTemplateString"), p.ResolveLoader.Alias["optimize-template-string"])
	})
}

func TestAssemble_RuleOrder(t *testing.T) {
	dir := newProject(t, nil, nil)
	p := single(t, map[string]any{"directory": dir})

	var categories []string
	for _, r := range p.Module.Rules {
		categories = append(categories, r.Category)
	}
	require.Equal(t, []string{CategoryStyles, CategoryStyles, CategoryScripts, CategoryText, CategoryAssets}, categories)
}

func TestAssemble_StyleRules(t *testing.T) {
	dir := newProject(t, nil, nil)

	t.Run("development", func(t *testing.T) {
		styles := single(t, map[string]any{"directory": dir}).Rules(CategoryStyles)
		require.Len(t, styles, 2)

		scoped, global := styles[0], styles[1]
		assert.Equal(t, ScopedStylePattern, scoped.Test)
		assert.Equal(t, ScopedStylePattern, global.Exclude)

		assert.Equal(t, "style-loader", scoped.Use[0].Loader)
		assert.Equal(t, map[string]any{"localIdentName": "[local]__[hash:base64:5]"}, scoped.Use[1].Options["modules"])
		assert.Equal(t, false, global.Use[1].Options["modules"])
		assert.Equal(t, true, global.Use[1].Options["sourceMap"])
	})

	t.Run("release extracts css", func(t *testing.T) {
		styles := single(t, map[string]any{"directory": dir, "isProduction": true}).Rules(CategoryStyles)

		assert.Equal(t, extractLoader, styles[0].Use[0].Loader)
		assert.Equal(t, map[string]any{"localIdentName": "[hash:base64:5]"}, styles[0].Use[1].Options["modules"])
	})

	t.Run("postcss falls back to autoprefixer", func(t *testing.T) {
		styles := single(t, map[string]any{"directory": dir}).Rules(CategoryStyles)
		postcss := styles[0].Use[3]

		require.Equal(t, "postcss-loader", postcss.Loader)
		assert.Contains(t, postcss.Options["postcssOptions"], "plugins")
	})

	t.Run("postcss uses project config", func(t *testing.T) {
		withConfig := newProject(t, nil, map[string]string{"postcss.config.js": "module.exports = {}"})
		styles := single(t, map[string]any{"directory": withConfig}).Rules(CategoryStyles)

		assert.Equal(t, map[string]any{"config": filepath.Join(withConfig, "postcss.config.js")},
			styles[1].Use[3].Options["postcssOptions"])
	})
}

func TestAssemble_ScriptRule(t *testing.T) {
	dir := newProject(t, nil, nil)

	dev := presets.ParseBabel(single(t, map[string]any{"directory": dir}).Rules(CategoryScripts)[0].Use[0].Options)
	rel := presets.ParseBabel(single(t, map[string]any{"directory": dir, "isProduction": true}).Rules(CategoryScripts)[0].Use[0].Options)

	assert.NotEqual(t, presets.RemovePropTypes, dev.Plugins[len(dev.Plugins)-1].Name)
	assert.Equal(t, presets.RemovePropTypes, rel.Plugins[len(rel.Plugins)-1].Name)
}

func TestAssemble_AssetRule(t *testing.T) {
	dir := newProject(t, nil, nil)
	p := single(t, map[string]any{"directory": dir, "publicPathPrefix": "https://cdn.example.com/"})

	assets := p.Rules(CategoryAssets)
	require.Len(t, assets, 1)
	assert.Equal(t, "assets", assets[0].Use[0].Options["outputPath"])
	assert.Equal(t, "https://cdn.example.com/assets/", assets[0].Use[0].Options["publicPath"])
	assert.Equal(t, "https://cdn.example.com/", p.Output.PublicPath)
}

func TestAssemble_Output(t *testing.T) {
	dir := newProject(t, nil, nil)

	dev := single(t, map[string]any{"directory": dir})
	assert.Equal(t, "[name].js?[contenthash]", dev.Output.Filename)
	assert.Equal(t, "/", dev.Output.PublicPath)
	assert.Equal(t, filepath.Join(dir, "build"), dev.Output.Path)
	assert.Equal(t, "source-map", dev.Devtool)
	require.NotNil(t, dev.DevServer)
	assert.Equal(t, 8000, dev.DevServer.Port)

	rel := single(t, map[string]any{"directory": dir, "isProduction": true, "outputDirectory": "dist"})
	assert.Equal(t, "[name].[contenthash].js", rel.Output.Filename)
	assert.Equal(t, "", rel.Output.PublicPath)
	assert.Equal(t, filepath.Join(dir, "dist"), rel.Output.Path)
	assert.Empty(t, rel.Devtool)
	assert.Nil(t, rel.DevServer)
}

func TestAssemble_Optimization(t *testing.T) {
	dir := newProject(t, nil, nil)

	t.Run("vendor splitting isolates node_modules", func(t *testing.T) {
		p := single(t, map[string]any{"directory": dir})

		require.NotNil(t, p.Optimization.SplitChunks)
		require.Len(t, p.Optimization.SplitChunks.CacheGroups, 1)
		assert.Equal(t, `[\\/]node_modules[\\/]`, p.Optimization.SplitChunks.CacheGroups["vendor"].Test)
		assert.False(t, p.Optimization.Minimize)
		assert.Empty(t, p.Optimization.Minimizer)
	})

	t.Run("vendor splitting disabled", func(t *testing.T) {
		p := single(t, map[string]any{"directory": dir, "enableVendorSplitting": "false"})
		assert.Nil(t, p.Optimization.SplitChunks)
	})

	t.Run("minimize follows release unless set", func(t *testing.T) {
		assert.True(t, single(t, map[string]any{"directory": dir, "isProduction": true}).Optimization.Minimize)
		assert.False(t, single(t, map[string]any{"directory": dir, "isProduction": true, "minimize": false}).Optimization.Minimize)
		assert.True(t, single(t, map[string]any{"directory": dir, "minimize": "true"}).Optimization.Minimize)
	})
}

func TestAssemble_Plugins(t *testing.T) {
	common := []string{
		PluginNoEmitOnErrors,
		PluginCSSExtract,
		PluginProvide,
		PluginHTML,
		PluginHTMLExcludeAssets,
		PluginDefine,
		PluginStatsWriter,
		PluginI18n,
	}

	tests := []struct {
		name     string
		dirs     []string
		raw      map[string]any
		expected []string
	}{
		{
			name:     "development",
			raw:      map[string]any{},
			expected: append(append([]string{}, common...), PluginNamedModules, PluginHelperErrorGuard),
		},
		{
			name:     "release minimal",
			raw:      map[string]any{"isProduction": true, "preload": false},
			expected: append(append([]string{}, common...), PluginMakeDir),
		},
		{
			name: "release with everything",
			dirs: []string{"src/assets"},
			raw: map[string]any{
				"isProduction":  true,
				"analyzeBundle": true,
				"inlineScripts": true,
			},
			expected: append(append([]string{}, common...),
				PluginBundleAnalyzer, PluginHTMLInlineSource, PluginPreload, PluginCopy),
		},
		{
			name:     "analysis is release only",
			raw:      map[string]any{"analyzeBundle": true, "inlineStyles": true},
			expected: append(append([]string{}, common...), PluginNamedModules, PluginHelperErrorGuard),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := newProject(t, tt.dirs, nil)
			tt.raw["directory"] = dir

			require.Equal(t, tt.expected, pluginNames(single(t, tt.raw)))
		})
	}
}

func TestAssemble_CopyAssets(t *testing.T) {
	dir := newProject(t, []string{"src/assets"}, nil)
	p := single(t, map[string]any{"directory": dir, "isProduction": true})

	cp, ok := p.Plugin(PluginCopy)
	require.True(t, ok)
	assert.Equal(t, []any{map[string]any{
		"from": filepath.Join(dir, "src", "assets"),
		"to":   filepath.Join(dir, "build", "assets"),
	}}, cp.Options["patterns"])

	_, ok = p.Plugin(PluginMakeDir)
	assert.False(t, ok)
}

func TestAssemble_HTMLShell(t *testing.T) {
	dir := newProject(t, nil, nil)

	t.Run("title and template", func(t *testing.T) {
		p := single(t, map[string]any{"directory": dir, "title": "My%20App", "customTemplatePath": "web/shell.ejs"})

		html, _ := p.Plugin(PluginHTML)
		assert.Equal(t, "My App", html.Options["title"])
		assert.Equal(t, filepath.Join(dir, "web", "shell.ejs"), html.Options["template"])
		assert.NotContains(t, html.Options, "minify")
		assert.NotContains(t, html.Options, "locale")
	})

	t.Run("undecodable title kept", func(t *testing.T) {
		p := single(t, map[string]any{"directory": dir, "title": "100%"})
		html, _ := p.Plugin(PluginHTML)
		assert.Equal(t, "100%", html.Options["title"])
	})

	t.Run("inline source pattern", func(t *testing.T) {
		tests := []struct {
			styles, scripts bool
			expected        any
		}{
			{styles: true, scripts: true, expected: `\.(js|css)$`},
			{styles: true, expected: `\.css$`},
			{scripts: true, expected: `\.js$`},
			{expected: nil},
		}
		for _, tt := range tests {
			p := single(t, map[string]any{
				"directory":     dir,
				"isProduction":  true,
				"inlineStyles":  tt.styles,
				"inlineScripts": tt.scripts,
			})
			html, _ := p.Plugin(PluginHTML)
			assert.Equal(t, tt.expected, html.Options["inlineSource"])
			assert.Contains(t, html.Options, "minify")
		}
	})
}

func TestAssemble_Defines(t *testing.T) {
	dir := newProject(t, nil, nil)
	opts := normalize(t, map[string]any{"directory": dir, "isProduction": true})
	opts.EnvVars = map[string]string{
		"APP_API_URL": "https://api.example.com",
		"DB_PASSWORD": "secret",
	}

	p, err := New().Assemble(opts, "")
	require.NoError(t, err)

	define, _ := p.Plugin(PluginDefine)
	assert.Equal(t, map[string]any{
		"PRODUCTION":              "true",
		"process.env.NODE_ENV":    `"production"`,
		"process.env.APP_API_URL": `"https://api.example.com"`,
	}, define.Options)
}
