package plan

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/wolfeidau/buildplan/internal/options"
	"github.com/wolfeidau/buildplan/internal/presets"
)

const (
	ModeProduction  = "production"
	ModeDevelopment = "development"

	assetsDir = "assets"
)

// layout records what was found on disk for one assembly.
type layout struct {
	polyfills     bool
	assets        bool
	postcssConfig string
}

func probe(dir string) layout {
	l := layout{
		polyfills: isDir(filepath.Join(dir, "polyfills")),
		assets:    isDir(filepath.Join(dir, "src", assetsDir)),
	}
	if cfg := filepath.Join(dir, "postcss.config.js"); isFile(cfg) {
		l.postcssConfig = cfg
	}
	return l
}

// uiAdapter captures everything that depends on the selected UI library.
type uiAdapter struct {
	aliases map[string]string
	preset  presets.Preset
	globals map[string]any
}

// adapterFor returns the Preact profile unless the alternate (React) library was
// asked for. The Preact profile aliases React imports onto the compat layer.
func adapterFor(opts options.Options) uiAdapter {
	shims := opts.ShimDirectory

	if opts.UseAlternateUILibrary {
		return uiAdapter{
			aliases: map[string]string{
				"asyncComponent": filepath.Join(shims, "reactAsyncComponent"),
			},
			preset: presets.React(),
			globals: map[string]any{
				"React":         "react",
				"createElement": []string{"react", "createElement"},
			},
		}
	}

	preact := filepath.Join(opts.Directory, "node_modules", "preact")
	if opts.Release {
		preact = filepath.Join(preact, "dist", "preact.min.js")
	}

	return uiAdapter{
		aliases: map[string]string{
			"asyncComponent":     filepath.Join(shims, "preactAsyncComponent"),
			"preact$":            preact,
			"react":              "preact-compat",
			"react-dom":          "preact-compat",
			"create-react-class": "preact-compat/lib/create-react-class",
		},
		preset: presets.Preact(),
		globals: map[string]any{
			"h":        []string{"preact", "h"},
			"Fragment": []string{"preact", "Fragment"},
		},
	}
}

func assemble(opts options.Options, locale string, dict map[string]any) Plan {
	found := probe(opts.Directory)
	ui := adapterFor(opts)

	p := Plan{
		Mode:  cond(opts.Release, ModeProduction, ModeDevelopment),
		Entry: entries(opts.Directory, found),
		Output: Output{
			Path:          opts.OutputDirectory,
			PublicPath:    opts.PublicPathPrefix,
			Filename:      versioned("[name]", ".js", "[contenthash]", opts.Release, locale),
			ChunkFilename: versioned("[id]", ".js", "[contenthash]", opts.Release, locale),
		},
		Resolve: Resolve{Alias: ui.aliases},
		ResolveLoader: Resolve{Alias: map[string]string{
			"async":                    filepath.Join(opts.ShimDirectory, "asyncComponentLoader"),
			"optimize-template-string": filepath.Join(opts.ShimDirectory, "optimizeTemplateString"),
		}},
		Module:       Module{Rules: rules(opts, ui, found)},
		Optimization: optimization(opts),
		Plugins:      plugins(opts, ui, found, locale, dict),
		Locale:       locale,
	}

	if !opts.Release {
		p.Devtool = "source-map"
		p.DevServer = &DevServer{
			Port:               opts.Port,
			Host:               opts.Host,
			Static:             filepath.Join(opts.Directory, "src"),
			HistoryAPIFallback: true,
			Hot:                true,
		}
	}

	return p
}

func entries(dir string, found layout) map[string]string {
	entry := map[string]string{"main": filepath.Join(dir, "src")}
	if found.polyfills {
		entry["polyfills"] = filepath.Join(dir, "polyfills")
	}
	return entry
}

// versioned builds an output name. Release builds embed the hash in the name;
// development builds version through the query string so names stay stable.
func versioned(stem, ext, hash string, release bool, locale string) string {
	name := stem
	if release {
		name += "." + hash
	}
	if locale != "" {
		name += "." + locale
	}
	name += ext
	if !release {
		name += "?" + hash
	}
	return name
}

// localized inserts the locale before the extension: stats.json → stats.fr-fr.json.
func localized(stem, ext, locale string) string {
	if locale == "" {
		return stem + ext
	}
	return stem + "." + locale + ext
}

func optimization(opts options.Options) Optimization {
	o := Optimization{Minimize: opts.Minimize}
	if opts.Minimize {
		o.Minimizer = []string{"TerserPlugin", "CssMinimizerPlugin"}
	}
	if opts.EnableVendorSplitting {
		o.SplitChunks = &SplitChunks{
			Chunks: "all",
			CacheGroups: map[string]CacheGroup{
				"vendor": {
					Test:    `[\\/]node_modules[\\/]`,
					Name:    "vendor",
					Chunks:  "all",
					Enforce: true,
				},
			},
		}
	}
	return o
}

// decodeTitle unescapes percent-encoded titles passed through shells and query
// strings. Undecodable titles are used verbatim.
func decodeTitle(title string) string {
	decoded, err := url.PathUnescape(title)
	if err != nil {
		return title
	}
	return decoded
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
