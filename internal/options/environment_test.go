package options

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromEnviron(t *testing.T) {
	env := FromEnviron([]string{
		"NODE_ENV=production",
		"PORT=3000",
		"HOST=127.0.0.1",
		"APP_API_URL=https://api.example.com",
		"APP_EMPTY=",
		"AWS_SECRET_ACCESS_KEY=nope",
		"HOME=/root",
		"malformed",
	})

	require.True(t, env.Release)
	require.Equal(t, 3000, env.Port)
	require.Equal(t, "127.0.0.1", env.Host)
	require.Equal(t, map[string]string{
		"APP_API_URL": "https://api.example.com",
		"APP_EMPTY":   "",
	}, env.Vars)
}

func TestFromEnviron_Development(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
	}{
		{name: "unset", environ: nil},
		{name: "development", environ: []string{"NODE_ENV=development"}},
		{name: "case sensitive", environ: []string{"NODE_ENV=Production"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, FromEnviron(tt.environ).Release)
		})
	}
}

func TestFromEnviron_InvalidPort(t *testing.T) {
	env := FromEnviron([]string{"PORT=3000", "PORT=abc"})
	require.Zero(t, env.Port)
}

func TestMergeEnviron(t *testing.T) {
	merged := MergeEnviron(map[string]string{"APP_A": "file", "PORT": "1234"}, []string{"APP_A=process"})
	env := FromEnviron(merged)

	require.Equal(t, "process", env.Vars["APP_A"])
	require.Equal(t, 1234, env.Port)
}
