package options

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ForwardPrefix marks environment variables that are copied into the plan.
const ForwardPrefix = "APP_"

// Environment holds the ambient signals the generator consumes. It is captured
// once by the caller and passed in explicitly.
type Environment struct {
	// Release is true when NODE_ENV=production
	Release bool
	// Port is the PORT override, zero when unset or invalid
	Port int
	// Host is the HOST override, empty when unset
	Host string
	// Vars holds the whitelisted APP_ variables
	Vars map[string]string
}

// FromEnviron builds an Environment from KEY=VALUE pairs such as os.Environ().
// Later entries win over earlier ones.
func FromEnviron(environ []string) Environment {
	env := Environment{Vars: map[string]string{}}

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}

		switch {
		case key == "NODE_ENV":
			env.Release = value == "production"
		case key == "PORT":
			port, err := strconv.Atoi(value)
			if err != nil || port <= 0 {
				log.Warn().Str("value", value).Msg("ignoring invalid PORT")
				env.Port = 0
				continue
			}
			env.Port = port
		case key == "HOST":
			env.Host = value
		case strings.HasPrefix(key, ForwardPrefix):
			env.Vars[key] = value
		}
	}

	return env
}

// MergeEnviron returns base with the entries of overlay layered on top, in the
// KEY=VALUE form FromEnviron expects.
func MergeEnviron(base map[string]string, overlay []string) []string {
	merged := make([]string, 0, len(base)+len(overlay))
	for k, v := range base {
		merged = append(merged, k+"="+v)
	}
	return append(merged, overlay...)
}
