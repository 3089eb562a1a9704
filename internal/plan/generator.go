// Package plan assembles declarative build plans from normalized options and
// fans them out per locale.
package plan

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/buildplan/internal/options"
)

// Generator builds plans. It holds no mutable state and may be shared.
type Generator struct {
	override Override
}

type GeneratorOption func(*Generator)

// WithOverride installs fn as the override hook in place of the script
// discovered in the project directory.
func WithOverride(fn Override) GeneratorOption {
	return func(g *Generator) {
		g.override = fn
	}
}

func New(opts ...GeneratorOption) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns one plan when no more than one locale is requested and a
// sequence of plans, in locale order, otherwise.
func Generate(opts options.Options) (Result, error) {
	return New().Generate(opts)
}

func (g *Generator) Generate(opts options.Options) (Result, error) {
	if len(opts.Locales) == 0 {
		p, err := g.Assemble(opts, "")
		if err != nil {
			return Result{}, err
		}
		return Single(p), nil
	}

	plans := make([]Plan, 0, len(opts.Locales))
	for _, locale := range opts.Locales {
		locale = strings.TrimSpace(locale)
		if locale == "" {
			return Result{}, fmt.Errorf("%w: empty locale in %q", ErrInvalidLocale, opts.Locales)
		}

		p, err := g.Assemble(opts, locale)
		if err != nil {
			return Result{}, err
		}
		plans = append(plans, p)
	}

	if len(plans) == 1 {
		return Single(plans[0]), nil
	}

	log.Debug().Int("plans", len(plans)).Msg("Generated locale plans")

	return Many(plans), nil
}

// Assemble builds the plan for a single locale, or for no locale when locale is
// empty, and applies the override hook.
func (g *Generator) Assemble(opts options.Options, locale string) (Plan, error) {
	if opts.Directory == "" {
		return Plan{}, options.ErrMissingDirectory
	}

	locale = strings.TrimSpace(locale)

	dict := map[string]any{}
	if locale != "" {
		var err error
		if dict, err = LoadDictionary(opts.Directory, locale); err != nil {
			return Plan{}, err
		}
	}

	log.Debug().
		Str("dir", opts.Directory).
		Str("locale", locale).
		Bool("release", opts.Release).
		Msg("Assembling build plan")

	p := assemble(opts, locale, dict)

	override := g.override
	if override == nil {
		var err error
		if override, err = discoverOverride(opts); err != nil {
			return Plan{}, err
		}
	}
	if override == nil {
		return p, nil
	}

	// errors from the override reach the caller unwrapped
	return override(p, OverrideContext{Options: opts, Locale: locale})
}
