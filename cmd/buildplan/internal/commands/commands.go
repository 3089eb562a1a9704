package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/buildplan/internal/options"
	"github.com/wolfeidau/buildplan/internal/plan"
	"gopkg.in/yaml.v3"
)

type Globals struct {
	Debug   bool
	Version string
}

// InputFlags are shared by every command that generates plans. Precedence,
// lowest first: options file, --set, dedicated flags.
type InputFlags struct {
	Dir     string            `help:"Project directory" env:"BUILDPLAN_DIR"`
	Config  string            `help:"YAML/JSON options file" type:"existingfile"`
	Set     map[string]string `help:"Option overrides as key=value (e.g. --set isProduction=true)"`
	Locales []string          `help:"Locales to generate plans for" env:"BUILDPLAN_LOCALES"`
	Format  string            `help:"Output format" enum:"json,yaml" default:"json"`
	Out     string            `help:"Write output to this file instead of stdout"`
}

// rawOptions merges the option sources into the mapping the normalizer takes.
func (f *InputFlags) rawOptions() (map[string]any, error) {
	raw := map[string]any{}

	if f.Config != "" {
		data, err := os.ReadFile(f.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to read options file: %w", err)
		}
		// YAML is a superset of JSON so one decoder covers both
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse options file %s: %w", f.Config, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	for k, v := range f.Set {
		raw[k] = v
	}

	if f.Dir != "" {
		raw[options.KeyDirectory] = f.Dir
	}
	if len(f.Locales) > 0 {
		raw[options.KeyLocales] = f.Locales
	}

	return raw, nil
}

// normalize normalizes the merged sources against the process environment
// layered over the project's .env file.
func (f *InputFlags) normalize(log zerolog.Logger) (options.Options, error) {
	raw, err := f.rawOptions()
	if err != nil {
		return options.Options{}, err
	}

	var dotenv map[string]string
	if dir, ok := raw[options.KeyDirectory].(string); ok && strings.TrimSpace(dir) != "" {
		if dotenv, err = readDotEnv(dir); err != nil {
			return options.Options{}, err
		}
		log.Debug().Int("vars", len(dotenv)).Str("dir", dir).Msg("Loaded .env")
	}

	env := options.FromEnviron(options.MergeEnviron(dotenv, os.Environ()))

	return options.Normalize(raw, env)
}

func (f *InputFlags) generate(log zerolog.Logger) (plan.Result, error) {
	opts, err := f.normalize(log)
	if err != nil {
		return plan.Result{}, err
	}

	log.Info().
		Str("dir", opts.Directory).
		Bool("release", opts.Release).
		Strs("locales", opts.Locales).
		Msg("Generating build plan")

	return plan.Generate(opts)
}

// write encodes v in the selected format to Out or w.
func (f *InputFlags) write(w io.Writer, v any) error {
	var (
		data []byte
		err  error
	)

	switch f.Format {
	case "yaml":
		data, err = yaml.Marshal(v)
	default:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	if f.Out == "" {
		_, err = w.Write(data)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.Out), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return os.WriteFile(f.Out, data, 0o644) // #nosec G306 - build plans are not secret
}

func readDotEnv(dir string) (map[string]string, error) {
	vars, err := godotenv.Read(filepath.Join(dir, ".env"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return vars, nil
}
