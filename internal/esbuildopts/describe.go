package esbuildopts

import (
	"github.com/evanw/esbuild/pkg/api"
)

// Summary is a serializable view of the esbuild options produced by Translate.
type Summary struct {
	EntryPoints map[string]string `json:"entryPoints" yaml:"entryPoints"`
	Outdir      string            `json:"outdir" yaml:"outdir"`
	PublicPath  string            `json:"publicPath,omitempty" yaml:"publicPath,omitempty"`
	EntryNames  string            `json:"entryNames" yaml:"entryNames"`
	ChunkNames  string            `json:"chunkNames" yaml:"chunkNames"`
	AssetNames  string            `json:"assetNames" yaml:"assetNames"`
	Format      string            `json:"format" yaml:"format"`
	Splitting   bool              `json:"splitting" yaml:"splitting"`
	Minify      bool              `json:"minify" yaml:"minify"`
	Sourcemap   string            `json:"sourcemap" yaml:"sourcemap"`
	JSXFactory  string            `json:"jsxFactory,omitempty" yaml:"jsxFactory,omitempty"`
	JSXFragment string            `json:"jsxFragment,omitempty" yaml:"jsxFragment,omitempty"`
	Loaders     map[string]string `json:"loaders" yaml:"loaders"`
	Alias       map[string]string `json:"alias,omitempty" yaml:"alias,omitempty"`
	Define      map[string]string `json:"define,omitempty" yaml:"define,omitempty"`
}

// Describe summarizes opts. BuildOptions carries callbacks and enums that do not
// serialize cleanly, so the CLI prints this instead.
func Describe(opts api.BuildOptions) Summary {
	s := Summary{
		EntryPoints: map[string]string{},
		Outdir:      opts.Outdir,
		PublicPath:  opts.PublicPath,
		EntryNames:  opts.EntryNames,
		ChunkNames:  opts.ChunkNames,
		AssetNames:  opts.AssetNames,
		Format:      formatName(opts.Format),
		Splitting:   opts.Splitting,
		Minify:      opts.MinifyWhitespace && opts.MinifyIdentifiers && opts.MinifySyntax,
		Sourcemap:   sourcemapName(opts.Sourcemap),
		JSXFactory:  opts.JSXFactory,
		JSXFragment: opts.JSXFragment,
		Loaders:     map[string]string{},
		Alias:       opts.Alias,
		Define:      opts.Define,
	}

	for _, ep := range opts.EntryPointsAdvanced {
		s.EntryPoints[ep.OutputPath] = ep.InputPath
	}
	for ext, loader := range opts.Loader {
		s.Loaders[ext] = loaderName(loader)
	}

	return s
}

func loaderName(l api.Loader) string {
	switch l {
	case api.LoaderJS:
		return "js"
	case api.LoaderJSX:
		return "jsx"
	case api.LoaderTS:
		return "ts"
	case api.LoaderTSX:
		return "tsx"
	case api.LoaderJSON:
		return "json"
	case api.LoaderText:
		return "text"
	case api.LoaderFile:
		return "file"
	case api.LoaderDataURL:
		return "dataurl"
	case api.LoaderCSS:
		return "css"
	case api.LoaderLocalCSS:
		return "local-css"
	case api.LoaderGlobalCSS:
		return "global-css"
	default:
		return "unknown"
	}
}

func formatName(f api.Format) string {
	switch f {
	case api.FormatIIFE:
		return "iife"
	case api.FormatCommonJS:
		return "cjs"
	case api.FormatESModule:
		return "esm"
	default:
		return "default"
	}
}

func sourcemapName(s api.SourceMap) string {
	switch s {
	case api.SourceMapLinked:
		return "linked"
	case api.SourceMapInline:
		return "inline"
	case api.SourceMapExternal:
		return "external"
	case api.SourceMapInlineAndExternal:
		return "both"
	default:
		return "none"
	}
}
