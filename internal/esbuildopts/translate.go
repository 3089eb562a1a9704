// Package esbuildopts maps a build plan onto esbuild build options for hosts
// that bundle with esbuild instead of the plan's native bundler. It never runs
// a build.
package esbuildopts

import (
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/buildplan/internal/plan"
	"github.com/wolfeidau/buildplan/internal/presets"
)

// categoryLoaders lists the extensions esbuild should load for each rule category.
var categoryLoaders = map[string]map[string]api.Loader{
	plan.CategoryStyles: {
		".css":        api.LoaderCSS,
		".module.css": api.LoaderLocalCSS,
	},
	plan.CategoryScripts: {
		".js":  api.LoaderJSX,
		".jsx": api.LoaderJSX,
	},
	plan.CategoryText: {
		".xml":  api.LoaderText,
		".html": api.LoaderText,
		".txt":  api.LoaderText,
		".md":   api.LoaderText,
	},
	plan.CategoryAssets: {
		".svg":   api.LoaderFile,
		".woff":  api.LoaderFile,
		".woff2": api.LoaderFile,
		".ttf":   api.LoaderFile,
		".eot":   api.LoaderFile,
		".jpg":   api.LoaderFile,
		".jpeg":  api.LoaderFile,
		".png":   api.LoaderFile,
		".gif":   api.LoaderFile,
		".mp4":   api.LoaderFile,
		".mov":   api.LoaderFile,
		".ogg":   api.LoaderFile,
		".webm":  api.LoaderFile,
		".cur":   api.LoaderFile,
	},
}

// Translate converts p into esbuild options with the same entries, naming,
// aliases, loaders, JSX pragma, defines and minification.
func Translate(p plan.Plan) api.BuildOptions {
	splitting := p.Optimization.SplitChunks != nil

	opts := api.BuildOptions{
		EntryPointsAdvanced: entryPoints(p.Entry),
		Bundle:              true,
		Write:               true,
		Metafile:            true,
		Outdir:              p.Output.Path,
		PublicPath:          p.Output.PublicPath,
		EntryNames:          namePattern(p.Output.Filename),
		ChunkNames:          namePattern(p.Output.ChunkFilename),
		AssetNames:          "assets/[name]-[hash]",
		Alias:               aliases(p.Resolve.Alias),
		Loader:              loaders(p.Module.Rules),
		Define:              defines(p),
		Splitting:           splitting,
		Format:              cond(splitting, api.FormatESModule, api.FormatIIFE),
		MinifyWhitespace:    p.Optimization.Minimize,
		MinifyIdentifiers:   p.Optimization.Minimize,
		MinifySyntax:        p.Optimization.Minimize,
		TreeShaking:         api.TreeShakingTrue,
		Sourcemap:           cond(p.Devtool != "", api.SourceMapLinked, api.SourceMapNone),
	}

	if factory, fragment := jsxPragma(p); factory != "" {
		opts.JSX = api.JSXTransform
		opts.JSXFactory = factory
		opts.JSXFragment = fragment
	}

	log.Debug().
		Str("locale", p.Locale).
		Int("entrypoints", len(opts.EntryPointsAdvanced)).
		Bool("splitting", splitting).
		Msg("Translated plan to esbuild options")

	return opts
}

func entryPoints(entry map[string]string) []api.EntryPoint {
	names := make([]string, 0, len(entry))
	for name := range entry {
		names = append(names, name)
	}
	sort.Strings(names)

	eps := make([]api.EntryPoint, 0, len(names))
	for _, name := range names {
		eps = append(eps, api.EntryPoint{InputPath: entry[name], OutputPath: name})
	}
	return eps
}

// namePattern rewrites an output filename template into esbuild's placeholder
// syntax: the extension and query string are dropped, content hashes become
// [hash] and chunk ids become [name].
func namePattern(filename string) string {
	if filename == "" {
		return ""
	}
	name, _, _ := strings.Cut(filename, "?")
	name = strings.TrimSuffix(name, ".js")
	name = strings.ReplaceAll(name, "[contenthash]", "[hash]")
	name = strings.ReplaceAll(name, "[id]", "[name]")
	return name
}

// aliases drops the exact-match marker, which esbuild aliases imply.
func aliases(alias map[string]string) map[string]string {
	if len(alias) == 0 {
		return nil
	}
	out := make(map[string]string, len(alias))
	for k, v := range alias {
		out[strings.TrimSuffix(k, "$")] = v
	}
	return out
}

func loaders(rules []plan.Rule) map[string]api.Loader {
	out := map[string]api.Loader{}
	for _, r := range rules {
		for ext, loader := range categoryLoaders[r.Category] {
			out[ext] = loader
		}
	}
	return out
}

func defines(p plan.Plan) map[string]string {
	define, ok := p.Plugin(plan.PluginDefine)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(define.Options))
	for k, v := range define.Options {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func jsxPragma(p plan.Plan) (factory, fragment string) {
	for _, r := range p.Rules(plan.CategoryScripts) {
		for _, l := range r.Use {
			if factory, fragment = presets.ParseBabel(l.Options).Pragma(); factory != "" {
				return factory, fragment
			}
		}
	}
	return "", ""
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
