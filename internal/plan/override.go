package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/buildplan/internal/options"
)

// OverrideContext is handed to an override along with the assembled plan.
type OverrideContext struct {
	Options options.Options `json:"options"`
	Locale  string          `json:"locale,omitempty"`
}

// Override receives the fully assembled plan and returns its replacement. It
// runs exactly once per plan and its result is used as is.
type Override func(Plan, OverrideContext) (Plan, error)

// ScriptError is returned when an override script exits unsuccessfully. Its
// message is the script's stderr, unmodified.
type ScriptError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *ScriptError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return fmt.Sprintf("override %s failed: %v", e.Path, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

type scriptRequest struct {
	Plan    Plan            `json:"plan"`
	Context OverrideContext `json:"context"`
}

// ScriptOverride runs the executable at path in the project directory. The
// request is written to stdin as JSON and the replacement plan is read from
// stdout.
func ScriptOverride(path string) Override {
	return func(p Plan, c OverrideContext) (Plan, error) {
		payload, err := json.Marshal(scriptRequest{Plan: p, Context: c})
		if err != nil {
			return Plan{}, fmt.Errorf("failed to encode override request: %w", err)
		}

		var stdout, stderr bytes.Buffer
		cmd := exec.Command(path) // #nosec G204 - project-local override is trusted like the build script itself
		cmd.Dir = c.Options.Directory
		cmd.Stdin = bytes.NewReader(payload)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		log.Debug().Str("path", path).Str("locale", c.Locale).Msg("Running override")

		if err := cmd.Run(); err != nil {
			return Plan{}, &ScriptError{Path: path, Stderr: strings.TrimSpace(stderr.String()), Err: err}
		}

		var replaced Plan
		if err := json.Unmarshal(stdout.Bytes(), &replaced); err != nil {
			return Plan{}, fmt.Errorf("%w: %s: %v", ErrInvalidOverride, path, err)
		}

		return replaced, nil
	}
}

// discoverOverride returns the script override at opts.OverridePath when one
// exists. Absence is not an error.
func discoverOverride(opts options.Options) (Override, error) {
	if opts.OverridePath == "" {
		return nil, nil
	}

	info, err := os.Stat(opts.OverridePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check override %s: %w", opts.OverridePath, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidOverride, opts.OverridePath)
	}

	return ScriptOverride(opts.OverridePath), nil
}
